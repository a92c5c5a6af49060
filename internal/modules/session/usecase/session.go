package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	claimdomain "matchscout/internal/modules/claim/domain"
	claimdto "matchscout/internal/modules/claim/dto"
	claimin "matchscout/internal/modules/claim/port/in"
	"matchscout/internal/modules/session/domain"
	sessiondto "matchscout/internal/modules/session/dto"
	sessionin "matchscout/internal/modules/session/port/in"
	sessionout "matchscout/internal/modules/session/port/out"
	"matchscout/internal/modules/session/service"
	apperrors "matchscout/internal/platform/errors"
)

// Interactor orchestrates the session engine: the machine runner, the
// resume flow, the submission reconciler, and the exit guard.
type Interactor struct {
	runner     *service.Runner
	reconciler *service.Reconciler
	guard      *service.ExitGuard
	store      sessionout.Store
	defaults   sessionout.Defaults
	claims     claimin.Usecase
	logger     hclog.Logger

	resumeMu      sync.Mutex
	resumeStates  map[string]sessiondto.ResumeEntryState
	resumeBlocked bool
}

func NewInteractor(runner *service.Runner, reconciler *service.Reconciler, guard *service.ExitGuard, store sessionout.Store, defaults sessionout.Defaults, claims claimin.Usecase, logger hclog.Logger) sessionin.Usecase {
	return &Interactor{
		runner:       runner,
		reconciler:   reconciler,
		guard:        guard,
		store:        store,
		defaults:     defaults,
		claims:       claims,
		logger:       logger,
		resumeStates: map[string]sessiondto.ResumeEntryState{},
	}
}

func (i *Interactor) SelectTeam(ctx context.Context, input sessiondto.SelectInput) (sessiondto.SelectOutput, error) {
	if i.resumePending() {
		return sessiondto.SelectOutput{}, apperrors.ErrResumePending
	}
	identity := domain.Identity{
		MatchType:   input.MatchType,
		MatchNumber: input.MatchNumber,
		TeamNumber:  input.TeamNumber,
	}
	result, err := i.runner.Dispatch(ctx, domain.SelectEvent{Identity: identity, Alliance: input.Alliance})
	if err != nil {
		return sessiondto.SelectOutput{}, err
	}
	if !result.ClaimRan {
		// Re-selecting the current identity; nothing to coordinate.
		return sessiondto.SelectOutput{Granted: result.Machine.Active}, nil
	}
	switch result.ClaimResult {
	case claimdomain.ResultOK:
		return sessiondto.SelectOutput{Granted: true}, nil
	case claimdomain.ResultConflict:
		return sessiondto.SelectOutput{Conflict: true}, nil
	default:
		return sessiondto.SelectOutput{}, nil
	}
}

func (i *Interactor) Next(ctx context.Context) error {
	_, err := i.runner.Dispatch(ctx, domain.NextEvent{})
	return err
}

func (i *Interactor) Back(ctx context.Context) error {
	_, err := i.runner.Dispatch(ctx, domain.BackEvent{})
	return err
}

func (i *Interactor) EditPayload(ctx context.Context, payload json.RawMessage) error {
	_, err := i.runner.Dispatch(ctx, domain.EditPayloadEvent{Payload: payload})
	return err
}

func (i *Interactor) Submit(ctx context.Context) error {
	result, err := i.runner.Dispatch(ctx, domain.SubmitEvent{})
	if err != nil {
		return err
	}
	if result.Machine.Submission == domain.SubmissionLocal {
		// Re-validate reachability in the background so the next
		// session starts with a fresh connectivity signal.
		go i.claims.Refresh(context.Background())
	}
	return nil
}

func (i *Interactor) Current() sessiondto.SessionView {
	machine := i.runner.Snapshot()
	session := machine.Session
	return sessiondto.SessionView{
		MatchType:         session.Identity.MatchType,
		MatchNumber:       session.Identity.MatchNumber,
		TeamNumber:        session.Identity.TeamNumber,
		Alliance:          session.Alliance,
		Scouter:           machine.Scouter,
		Season:            machine.Season,
		Phase:             string(session.Phase),
		Status:            string(session.Status),
		Payload:           session.Payload,
		LastModified:      session.LastModified,
		Active:            machine.Active,
		Submission:        string(machine.Submission),
		SubmissionMessage: machine.SubmissionMessage,
	}
}

func (i *Interactor) Reset() {
	if _, err := i.runner.Dispatch(context.Background(), domain.ResetEvent{}); err != nil {
		i.logger.Warn("machine reset failed", "error", err)
	}
}

func (i *Interactor) Resumable(ctx context.Context) ([]sessiondto.ResumeEntry, error) {
	stored, err := i.store.ListNonTerminal(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resumable sessions: %w", err)
	}
	i.resumeMu.Lock()
	defer i.resumeMu.Unlock()
	if len(stored) > 0 {
		i.resumeBlocked = true
	}
	out := make([]sessiondto.ResumeEntry, 0, len(stored))
	for _, session := range stored {
		state, ok := i.resumeStates[session.Identity.Key()]
		if !ok {
			state = sessiondto.ResumeAvailable
		}
		out = append(out, sessiondto.ResumeEntry{
			MatchType:    session.Identity.MatchType,
			MatchNumber:  session.Identity.MatchNumber,
			TeamNumber:   session.Identity.TeamNumber,
			Alliance:     session.Alliance,
			Phase:        string(session.Phase),
			Status:       string(session.Status),
			LastModified: session.LastModified,
			State:        state,
		})
	}
	return out, nil
}

// Continue re-attaches to a stored session: claim first, then load the
// stored payload merged against the current season defaults at the
// stored phase. A conflict marks the entry unavailable without touching
// the stored data.
func (i *Interactor) Continue(ctx context.Context, matchType string, match, team int) (sessiondto.ResumeEntry, error) {
	identity := domain.Identity{MatchType: matchType, MatchNumber: match, TeamNumber: team}
	if !i.tryLockResume(identity) {
		// A continue click is already in flight for this entry.
		return i.resumeEntry(ctx, identity)
	}

	stored, err := i.store.Get(ctx, identity)
	if err != nil {
		i.setResumeState(identity, sessiondto.ResumeRetry)
		return sessiondto.ResumeEntry{}, fmt.Errorf("load stored session %s: %w", identity, err)
	}

	machine := i.runner.Snapshot()
	result := i.claims.Claim(ctx, claimdto.SlotInput{
		MatchType: identity.MatchType,
		Match:     identity.MatchNumber,
		Team:      identity.TeamNumber,
		Scouter:   machine.Scouter,
	})
	switch result {
	case claimdomain.ResultConflict:
		i.setResumeState(identity, sessiondto.ResumeConflict)
		return i.resumeEntry(ctx, identity)
	case claimdomain.ResultNetworkError:
		i.setResumeState(identity, sessiondto.ResumeRetry)
		return i.resumeEntry(ctx, identity)
	}

	merged, err := i.mergedPayload(ctx, stored)
	if err != nil {
		i.logger.Warn("payload merge failed, using stored document", "identity", identity, "error", err)
		merged = stored.Payload
	}
	stored.Payload = merged
	if stored.Scouter == "" {
		stored.Scouter = machine.Scouter
	}

	if _, err := i.runner.Dispatch(ctx, domain.ResumeEvent{Session: stored}); err != nil {
		i.setResumeState(identity, sessiondto.ResumeRetry)
		return sessiondto.ResumeEntry{}, err
	}

	i.resumeMu.Lock()
	delete(i.resumeStates, identity.Key())
	i.resumeBlocked = false
	i.resumeMu.Unlock()
	return sessiondto.ResumeEntry{
		MatchType:    identity.MatchType,
		MatchNumber:  identity.MatchNumber,
		TeamNumber:   identity.TeamNumber,
		Alliance:     stored.Alliance,
		Phase:        string(stored.Phase),
		Status:       string(stored.Status),
		LastModified: stored.LastModified,
		State:        sessiondto.ResumeAvailable,
	}, nil
}

func (i *Interactor) Discard(ctx context.Context, matchType string, match, team int) error {
	identity := domain.Identity{MatchType: matchType, MatchNumber: match, TeamNumber: team}
	machine := i.runner.Snapshot()
	go i.claims.Release(context.Background(), claimdto.SlotInput{
		MatchType: identity.MatchType,
		Match:     identity.MatchNumber,
		Team:      identity.TeamNumber,
		Scouter:   machine.Scouter,
	})
	if err := i.store.Delete(ctx, identity); err != nil {
		return fmt.Errorf("discard session %s: %w", identity, err)
	}
	i.resumeMu.Lock()
	delete(i.resumeStates, identity.Key())
	i.resumeMu.Unlock()

	remaining, err := i.store.ListNonTerminal(ctx)
	if err == nil && len(remaining) == 0 {
		i.resumeMu.Lock()
		i.resumeBlocked = false
		i.resumeMu.Unlock()
	}
	return nil
}

func (i *Interactor) AbandonResume() {
	i.resumeMu.Lock()
	defer i.resumeMu.Unlock()
	i.resumeBlocked = false
}

func (i *Interactor) Pending(ctx context.Context) ([]sessiondto.PendingRecord, error) {
	stored, err := i.store.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending records: %w", err)
	}
	out := make([]sessiondto.PendingRecord, 0, len(stored))
	for _, session := range stored {
		out = append(out, sessiondto.PendingRecord{
			MatchType:    session.Identity.MatchType,
			MatchNumber:  session.Identity.MatchNumber,
			TeamNumber:   session.Identity.TeamNumber,
			Alliance:     session.Alliance,
			LastModified: session.LastModified,
		})
	}
	return out, nil
}

// PushPending re-attempts delivery of locally-completed records. Records
// stay put unless the authority confirms them.
func (i *Interactor) PushPending(ctx context.Context) (sessiondto.PushOutput, error) {
	stored, err := i.store.ListCompleted(ctx)
	if err != nil {
		return sessiondto.PushOutput{}, fmt.Errorf("list pending records: %w", err)
	}
	delivered := 0
	for _, session := range stored {
		if i.reconciler.Resubmit(ctx, session) == claimdomain.SubmitDelivered {
			delivered++
		}
	}
	return sessiondto.PushOutput{Delivered: delivered, Remaining: len(stored) - delivered}, nil
}

func (i *Interactor) PeekClaims(ctx context.Context, input sessiondto.PeekInput) (sessiondto.PeekOutput, error) {
	out := i.claims.Peek(ctx, claimdto.PeekInput{
		MatchType: input.MatchType,
		Match:     input.Match,
		Alliance:  input.Alliance,
	})
	return sessiondto.PeekOutput{Claims: out.Claims}, nil
}

func (i *Interactor) Teardown() {
	i.guard.Trigger()
}

func (i *Interactor) resumePending() bool {
	i.resumeMu.Lock()
	defer i.resumeMu.Unlock()
	return i.resumeBlocked
}

func (i *Interactor) tryLockResume(identity domain.Identity) bool {
	i.resumeMu.Lock()
	defer i.resumeMu.Unlock()
	if i.resumeStates[identity.Key()] == sessiondto.ResumeChecking {
		return false
	}
	i.resumeStates[identity.Key()] = sessiondto.ResumeChecking
	return true
}

func (i *Interactor) setResumeState(identity domain.Identity, state sessiondto.ResumeEntryState) {
	i.resumeMu.Lock()
	defer i.resumeMu.Unlock()
	i.resumeStates[identity.Key()] = state
}

func (i *Interactor) resumeEntry(ctx context.Context, identity domain.Identity) (sessiondto.ResumeEntry, error) {
	stored, err := i.store.Get(ctx, identity)
	if err != nil {
		return sessiondto.ResumeEntry{}, err
	}
	i.resumeMu.Lock()
	state := i.resumeStates[identity.Key()]
	i.resumeMu.Unlock()
	if state == "" {
		state = sessiondto.ResumeAvailable
	}
	return sessiondto.ResumeEntry{
		MatchType:    identity.MatchType,
		MatchNumber:  identity.MatchNumber,
		TeamNumber:   identity.TeamNumber,
		Alliance:     stored.Alliance,
		Phase:        string(stored.Phase),
		Status:       string(stored.Status),
		LastModified: stored.LastModified,
		State:        state,
	}, nil
}

func (i *Interactor) mergedPayload(ctx context.Context, stored domain.Session) (json.RawMessage, error) {
	defaults, err := i.defaults.DefaultPayload(ctx, stored.Season)
	if err != nil {
		return nil, err
	}
	return domain.MergeRaw(stored.Payload, defaults)
}
