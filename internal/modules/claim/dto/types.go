package dto

import "encoding/json"

type SlotInput struct {
	MatchType string
	Match     int
	Team      int
	Scouter   string
}

type SubmitInput struct {
	Slot SlotInput
	Body json.RawMessage
}

type PeekInput struct {
	MatchType string
	Match     int
	Alliance  string
}

type PeekOutput struct {
	// Claims maps team number to the holding scouter; empty string
	// means the slot is unclaimed.
	Claims map[int]string
}
