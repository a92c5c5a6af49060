package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const SchemaVersion = 1

var (
	ErrIdentityIncomplete = errors.New("match and team selection incomplete")
	ErrPhaseTerminal      = errors.New("session already submitted")
	ErrNoForwardPhase     = errors.New("no further phase")
	ErrNoBackwardPhase    = errors.New("no earlier phase")
	ErrNotActive          = errors.New("no active session")
)

// Phase is an ordered stage of data entry.
type Phase string

const (
	PhasePre    Phase = "pre"
	PhaseAuto   Phase = "auto"
	PhaseTeleop Phase = "teleop"
	PhasePost   Phase = "post"
)

var phaseOrder = []Phase{PhasePre, PhaseAuto, PhaseTeleop, PhasePost}

func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

func (p Phase) Validate() error {
	if p.Index() < 0 {
		return fmt.Errorf("unknown phase: %s", p)
	}
	return nil
}

// Next returns the following phase. From post there is no forward phase:
// the only way out is submission.
func (p Phase) Next() (Phase, error) {
	idx := p.Index()
	if idx < 0 {
		return "", fmt.Errorf("unknown phase: %s", p)
	}
	if idx == len(phaseOrder)-1 {
		return "", ErrNoForwardPhase
	}
	return phaseOrder[idx+1], nil
}

// Prev returns the preceding phase. From pre, back exits the session.
func (p Phase) Prev() (Phase, error) {
	idx := p.Index()
	if idx < 0 {
		return "", fmt.Errorf("unknown phase: %s", p)
	}
	if idx == 0 {
		return "", ErrNoBackwardPhase
	}
	return phaseOrder[idx-1], nil
}

// Status is the persisted lifecycle marker. It tracks Phase while the
// session is in progress; StatusCompleted means done locally and awaiting
// confirmation from the remote authority.
type Status string

const (
	StatusPre       Status = "pre"
	StatusAuto      Status = "auto"
	StatusTeleop    Status = "teleop"
	StatusPost      Status = "post"
	StatusCompleted Status = "completed"
)

func StatusForPhase(p Phase) Status {
	return Status(p)
}

func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Identity is the composite key a claim coordinates on. A device holds at
// most one session per identity.
type Identity struct {
	MatchType   string `json:"match_type"`
	MatchNumber int    `json:"match_number"`
	TeamNumber  int    `json:"team_number"`
}

func (i Identity) Complete() bool {
	return i.MatchType != "" && i.MatchNumber > 0 && i.TeamNumber > 0
}

func (i Identity) IsZero() bool {
	return i == Identity{}
}

func (i Identity) Key() string {
	return fmt.Sprintf("%s-%d-%d", i.MatchType, i.MatchNumber, i.TeamNumber)
}

func (i Identity) String() string {
	return i.Key()
}

// Session is the client-local unit of work for one (match, team) pair.
// Payload is owned by the active phase editor; the engine preserves it
// byte-for-byte across persistence round trips.
type Session struct {
	Identity     Identity        `json:"identity"`
	Scouter      string          `json:"scouter"`
	Alliance     string          `json:"alliance"`
	Season       string          `json:"season"`
	Phase        Phase           `json:"phase"`
	Status       Status          `json:"status"`
	Payload      json.RawMessage `json:"payload"`
	LastModified time.Time       `json:"last_modified"`
}

func (s Session) Validate() error {
	if !s.Identity.Complete() {
		return ErrIdentityIncomplete
	}
	if s.Scouter == "" {
		return fmt.Errorf("scouter is required")
	}
	return s.Phase.Validate()
}

// Clone deep-copies the session so autosave snapshots never alias the
// payload bytes still being edited.
func (s Session) Clone() Session {
	out := s
	if s.Payload != nil {
		out.Payload = append(json.RawMessage(nil), s.Payload...)
	}
	return out
}
