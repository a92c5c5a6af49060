package dto

import (
	"encoding/json"
	"time"
)

type SelectInput struct {
	MatchType   string
	MatchNumber int
	TeamNumber  int
	Alliance    string
}

// SelectOutput reports how the claim request for a selection settled.
type SelectOutput struct {
	Granted bool
	// Conflict is set when another scouter holds the slot; the caller
	// is expected to mark that team unavailable, nothing local changed.
	Conflict bool
	Holder   string
}

type SessionView struct {
	MatchType         string
	MatchNumber       int
	TeamNumber        int
	Alliance          string
	Scouter           string
	Season            string
	Phase             string
	Status            string
	Payload           json.RawMessage
	LastModified      time.Time
	Active            bool
	Submission        string
	SubmissionMessage string
}

// ResumeEntryState tracks a resume dialog row.
type ResumeEntryState string

const (
	// ResumeAvailable: may be continued or discarded.
	ResumeAvailable ResumeEntryState = "available"
	// ResumeChecking: a continue click is in flight; further clicks
	// are ignored until it settles.
	ResumeChecking ResumeEntryState = "checking"
	// ResumeConflict: the claim is now held elsewhere; the stored data
	// remains and the user may retry or discard.
	ResumeConflict ResumeEntryState = "conflict"
	// ResumeRetry: the claim attempt failed in transport; retryable.
	ResumeRetry ResumeEntryState = "retry"
)

type ResumeEntry struct {
	MatchType    string
	MatchNumber  int
	TeamNumber   int
	Alliance     string
	Phase        string
	Status       string
	LastModified time.Time
	State        ResumeEntryState
}

type PendingRecord struct {
	MatchType    string
	MatchNumber  int
	TeamNumber   int
	Alliance     string
	LastModified time.Time
}

type PushOutput struct {
	Delivered int
	Remaining int
}

type PeekInput struct {
	MatchType string
	Match     int
	Alliance  string
}

type PeekOutput struct {
	Claims map[int]string
}
