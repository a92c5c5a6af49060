package domain

import "encoding/json"

// SubmissionState is the reconciler's user-visible outcome for the most
// recent submit attempt.
type SubmissionState string

const (
	SubmissionIdle    SubmissionState = "idle"
	SubmissionLoading SubmissionState = "loading"
	SubmissionSuccess SubmissionState = "success"
	// SubmissionLocal: saved locally, not yet sent (offline at submit time).
	SubmissionLocal SubmissionState = "local"
	// SubmissionWarning: sent status unknown, preserved locally.
	SubmissionWarning SubmissionState = "warning"
	SubmissionError   SubmissionState = "error"
)

// Resolved reports whether the submit attempt settled the claim question,
// either because the authority confirmed it or because the session was
// demoted to a local pending-sync record.
func (s SubmissionState) Resolved() bool {
	return s == SubmissionSuccess || s == SubmissionLocal
}

// Machine is the session state machine. Step is a pure function from
// (machine, event) to (machine, effects); network calls and store writes
// happen only when a runner executes the returned effects. The device is
// the source of truth for what the scouter is doing: remote rejections
// never roll a machine back.
type Machine struct {
	Scouter string
	Season  string

	Session Session
	Active  bool

	// Pending holds a team selection that is awaiting a claim grant.
	Pending         Identity
	PendingAlliance string

	Submission        SubmissionState
	SubmissionMessage string
}

func NewMachine(scouter, season string) Machine {
	return Machine{Scouter: scouter, Season: season, Submission: SubmissionIdle}
}

type EffectKind string

const (
	// EffectClaim must complete successfully before the selection it
	// carries is committed (claim-before-entry).
	EffectClaim EffectKind = "claim"
	// EffectUnclaim is best-effort: failures are logged and never block.
	EffectUnclaim EffectKind = "unclaim"
	// EffectBeaconUnclaim is the fire-and-forget teardown variant.
	EffectBeaconUnclaim EffectKind = "beacon_unclaim"
	// EffectStateUpdate mirrors the local phase to the authority's
	// monitoring view; rejections are informational.
	EffectStateUpdate EffectKind = "state_update"
	EffectPersist     EffectKind = "persist"
	EffectSubmit      EffectKind = "submit"
	// EffectLoadDefaults asks the schema provider for a fresh payload.
	EffectLoadDefaults EffectKind = "load_defaults"
)

type Effect struct {
	Kind     EffectKind
	Identity Identity
	Alliance string
	Phase    Phase
	Session  Session
}

type Event interface{ isEvent() }

// SelectEvent changes the (matchType, match, team) selection. The old
// claim is released best-effort and the new one requested; the selection
// is not reflected locally until ClaimGrantedEvent arrives.
type SelectEvent struct {
	Identity Identity
	Alliance string
}

type ClaimGrantedEvent struct{ Identity Identity }

type ClaimConflictEvent struct{ Identity Identity }

type EditPayloadEvent struct{ Payload json.RawMessage }

type NextEvent struct{}

type BackEvent struct{}

type SubmitEvent struct{}

type SubmitResultEvent struct {
	Outcome SubmissionState
	Message string
}

// ResumeEvent loads a stored non-terminal session at its stored phase.
type ResumeEvent struct{ Session Session }

// ExitEvent is raised by the exit guard at teardown.
type ExitEvent struct{}

// ResetEvent clears the machine back to a blank, inactive state once a
// resolved submission has been shown to the scouter.
type ResetEvent struct{}

func (SelectEvent) isEvent()        {}
func (ClaimGrantedEvent) isEvent()  {}
func (ClaimConflictEvent) isEvent() {}
func (EditPayloadEvent) isEvent()   {}
func (NextEvent) isEvent()          {}
func (BackEvent) isEvent()          {}
func (SubmitEvent) isEvent()        {}
func (SubmitResultEvent) isEvent()  {}
func (ResumeEvent) isEvent()        {}
func (ExitEvent) isEvent()          {}
func (ResetEvent) isEvent()         {}

// Step applies one event. On error the machine is returned unchanged and
// no effects are emitted.
func Step(m Machine, event Event) (Machine, []Effect, error) {
	switch e := event.(type) {
	case SelectEvent:
		return stepSelect(m, e)
	case ClaimGrantedEvent:
		return stepClaimGranted(m, e)
	case ClaimConflictEvent:
		if m.Pending == e.Identity {
			m.Pending = Identity{}
			m.PendingAlliance = ""
		}
		return m, nil, nil
	case EditPayloadEvent:
		if !m.Active {
			return m, nil, ErrNotActive
		}
		m.Session.Payload = e.Payload
		return m, nil, nil
	case NextEvent:
		return stepNext(m)
	case BackEvent:
		return stepBack(m)
	case SubmitEvent:
		return stepSubmit(m)
	case SubmitResultEvent:
		m.Submission = e.Outcome
		m.SubmissionMessage = e.Message
		if e.Outcome == SubmissionSuccess {
			m.Active = false
			m.Session = Session{}
		}
		return m, nil, nil
	case ResumeEvent:
		m.Session = e.Session
		m.Active = true
		m.Pending = Identity{}
		m.PendingAlliance = ""
		m.Submission = SubmissionIdle
		m.SubmissionMessage = ""
		return m, nil, nil
	case ExitEvent:
		return stepExit(m)
	case ResetEvent:
		m.Active = false
		m.Session = Session{}
		m.Pending = Identity{}
		m.PendingAlliance = ""
		m.Submission = SubmissionIdle
		m.SubmissionMessage = ""
		return m, nil, nil
	default:
		return m, nil, ErrInvalidEvent
	}
}

var ErrInvalidEvent = errInvalidEvent{}

type errInvalidEvent struct{}

func (errInvalidEvent) Error() string { return "invalid machine event" }

func stepSelect(m Machine, e SelectEvent) (Machine, []Effect, error) {
	if !e.Identity.Complete() {
		return m, nil, ErrIdentityIncomplete
	}
	if m.Active && m.Session.Identity == e.Identity {
		m.Session.Alliance = e.Alliance
		return m, nil, nil
	}
	effects := []Effect{}
	if m.Active && m.Session.Identity.Complete() {
		effects = append(effects, Effect{Kind: EffectUnclaim, Identity: m.Session.Identity})
	}
	m.Pending = e.Identity
	m.PendingAlliance = e.Alliance
	effects = append(effects, Effect{Kind: EffectClaim, Identity: e.Identity, Alliance: e.Alliance})
	return m, effects, nil
}

func stepClaimGranted(m Machine, e ClaimGrantedEvent) (Machine, []Effect, error) {
	if m.Pending != e.Identity {
		// Stale grant for a selection the scouter has already moved past.
		return m, nil, nil
	}
	m.Session = Session{
		Identity: e.Identity,
		Scouter:  m.Scouter,
		Alliance: m.PendingAlliance,
		Season:   m.Season,
		Phase:    PhasePre,
		Status:   StatusPre,
	}
	m.Active = true
	m.Pending = Identity{}
	m.PendingAlliance = ""
	m.Submission = SubmissionIdle
	m.SubmissionMessage = ""
	return m, []Effect{{Kind: EffectLoadDefaults, Identity: e.Identity}}, nil
}

func stepNext(m Machine) (Machine, []Effect, error) {
	if !m.Active {
		return m, nil, ErrNotActive
	}
	if !m.Session.Identity.Complete() {
		return m, nil, ErrIdentityIncomplete
	}
	next, err := m.Session.Phase.Next()
	if err != nil {
		return m, nil, err
	}
	m.Session.Phase = next
	m.Session.Status = StatusForPhase(next)
	return m, []Effect{
		{Kind: EffectStateUpdate, Identity: m.Session.Identity, Phase: next},
		{Kind: EffectPersist, Session: m.Session.Clone()},
	}, nil
}

func stepBack(m Machine) (Machine, []Effect, error) {
	if !m.Active {
		return m, nil, ErrNotActive
	}
	if m.Session.Phase == PhasePre {
		// Back from pre exits the session entirely.
		identity := m.Session.Identity
		m.Active = false
		m.Session = Session{}
		if identity.Complete() {
			return m, []Effect{{Kind: EffectUnclaim, Identity: identity}}, nil
		}
		return m, nil, nil
	}
	prev, err := m.Session.Phase.Prev()
	if err != nil {
		return m, nil, err
	}
	m.Session.Phase = prev
	m.Session.Status = StatusForPhase(prev)
	return m, []Effect{
		{Kind: EffectStateUpdate, Identity: m.Session.Identity, Phase: prev},
		{Kind: EffectPersist, Session: m.Session.Clone()},
	}, nil
}

func stepSubmit(m Machine) (Machine, []Effect, error) {
	if !m.Active {
		return m, nil, ErrNotActive
	}
	if !m.Session.Identity.Complete() {
		return m, nil, ErrIdentityIncomplete
	}
	if m.Submission == SubmissionLoading {
		return m, nil, nil
	}
	m.Submission = SubmissionLoading
	m.SubmissionMessage = ""
	return m, []Effect{{Kind: EffectSubmit, Session: m.Session.Clone()}}, nil
}

func stepExit(m Machine) (Machine, []Effect, error) {
	if !m.Active || !m.Session.Identity.Complete() {
		return m, nil, nil
	}
	if m.Submission.Resolved() {
		// Submission already released or never needed the claim.
		return m, nil, nil
	}
	return m, []Effect{{Kind: EffectBeaconUnclaim, Identity: m.Session.Identity}}, nil
}
