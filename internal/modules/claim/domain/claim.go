package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict: the slot is held by a different scouter.
	ErrConflict = errors.New("slot claimed by another scouter")
	// ErrNotHolder: a state update from a scouter that no longer holds
	// the claim; the authority rejects it and so must we, quietly.
	ErrNotHolder = errors.New("not the current claim holder")
	// ErrRegression: the authority refuses to move its progress marker
	// backwards outside an explicit back operation.
	ErrRegression = errors.New("state regression rejected")
	// ErrRejected: the authority cleanly refused a submission.
	ErrRejected = errors.New("submission rejected")
	// ErrUnreachable: transport-level failure, server state unknown.
	ErrUnreachable = errors.New("authority unreachable")
)

// Slot is the (matchType, match, team) coordinate a claim is held on.
type Slot struct {
	MatchType string
	Match     int
	Team      int
}

func (s Slot) Validate() error {
	if s.MatchType == "" {
		return fmt.Errorf("match type is required")
	}
	if s.Match <= 0 {
		return fmt.Errorf("match number is required")
	}
	if s.Team <= 0 {
		return fmt.Errorf("team number is required")
	}
	return nil
}

func (s Slot) String() string {
	return fmt.Sprintf("%s-%d-%d", s.MatchType, s.Match, s.Team)
}

// Result is the coordinator's answer to a claim request.
type Result string

const (
	ResultOK       Result = "ok"
	ResultConflict Result = "conflict"
	// ResultNetworkError: the request left but no usable answer came
	// back. Callers treat this as "entry blocked", not as a conflict.
	ResultNetworkError Result = "network_error"
)

// SubmitOutcome distinguishes a clean rejection (payload retained in
// memory, manual retry) from an unknown delivery (demoted to a local
// pending-sync record).
type SubmitOutcome string

const (
	SubmitDelivered SubmitOutcome = "delivered"
	SubmitRejected  SubmitOutcome = "rejected"
	SubmitUnknown   SubmitOutcome = "unknown"
)

// ClaimMap is the authority's view of one alliance in one match:
// team number to holding scouter, empty string when unclaimed.
type ClaimMap map[int]string

// BeaconMessage is a fire-and-forget unclaim attempt queued at teardown.
// At-least-once attempt, zero delivery guarantee.
type BeaconMessage struct {
	ID      string
	Slot    Slot
	Scouter string
}
