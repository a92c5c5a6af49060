package service

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	claimdomain "matchscout/internal/modules/claim/domain"
	claimdto "matchscout/internal/modules/claim/dto"
	claimin "matchscout/internal/modules/claim/port/in"
	"matchscout/internal/modules/session/domain"
	sessionout "matchscout/internal/modules/session/port/out"
	"matchscout/internal/platform/clock"
)

// Runner owns the one live machine and executes the effects its pure
// transitions emit. Claims are awaited before a selection is committed;
// unclaims and state updates are fired without waiting, since their
// failure never blocks the scouter.
type Runner struct {
	mu      sync.Mutex
	machine domain.Machine

	claims     claimin.Usecase
	store      sessionout.Store
	defaults   sessionout.Defaults
	reconciler *Reconciler
	clock      clock.Clock
	logger     hclog.Logger
}

// DispatchResult carries side-channel outcomes of effect execution back
// to the caller alongside the settled machine.
type DispatchResult struct {
	Machine     domain.Machine
	ClaimResult claimdomain.Result
	ClaimRan    bool
}

func NewRunner(claims claimin.Usecase, store sessionout.Store, defaults sessionout.Defaults, reconciler *Reconciler, clk clock.Clock, logger hclog.Logger) *Runner {
	return &Runner{
		machine:    domain.Machine{Submission: domain.SubmissionIdle},
		claims:     claims,
		store:      store,
		defaults:   defaults,
		reconciler: reconciler,
		clock:      clk,
		logger:     logger,
	}
}

func (r *Runner) SetContext(scouter, season string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.machine.Scouter = scouter
	r.machine.Season = season
}

func (r *Runner) Snapshot() domain.Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.machine
	snap.Session = r.machine.Session.Clone()
	return snap
}

// Dispatch steps the machine with the event and runs the emitted effects,
// feeding effect outcomes back in as further events until the machine
// settles. The first (external) event's guard error is returned; events
// generated internally never error by construction.
func (r *Runner) Dispatch(ctx context.Context, event domain.Event) (DispatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := DispatchResult{}
	queue := []domain.Event{event}
	first := true
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		stepped, effects, err := domain.Step(r.machine, next)
		if err != nil {
			if first {
				return DispatchResult{Machine: r.machine}, err
			}
			r.logger.Warn("internal machine event rejected", "error", err)
			continue
		}
		first = false
		r.machine = stepped
		for _, effect := range effects {
			queue = append(queue, r.execute(ctx, effect, &result)...)
		}
	}
	result.Machine = r.machine
	return result, nil
}

func (r *Runner) execute(ctx context.Context, effect domain.Effect, result *DispatchResult) []domain.Event {
	switch effect.Kind {
	case domain.EffectClaim:
		return r.runClaim(ctx, effect, result)
	case domain.EffectUnclaim:
		// Best-effort, not awaited: the next claim acts on a different
		// identity and cannot conflict with this release.
		input := r.slotInput(effect.Identity)
		go r.claims.Release(context.WithoutCancel(ctx), input)
		return nil
	case domain.EffectBeaconUnclaim:
		r.claims.ReleaseBeacon(r.slotInput(effect.Identity))
		return nil
	case domain.EffectStateUpdate:
		input := r.slotInput(effect.Identity)
		phase := string(effect.Phase)
		go r.claims.UpdateState(context.WithoutCancel(ctx), input, phase)
		return nil
	case domain.EffectPersist:
		session := effect.Session
		session.LastModified = r.clock.Now()
		if err := r.store.Put(ctx, session); err != nil {
			// A failed save never blocks a phase transition.
			r.logger.Warn("session save failed", "identity", session.Identity, "error", err)
		}
		return nil
	case domain.EffectLoadDefaults:
		payload, err := r.defaults.DefaultPayload(ctx, r.machine.Season)
		if err != nil {
			r.logger.Warn("default payload unavailable", "season", r.machine.Season, "error", err)
			return nil
		}
		return []domain.Event{domain.EditPayloadEvent{Payload: payload}}
	case domain.EffectSubmit:
		outcome, message := r.reconciler.Submit(ctx, effect.Session)
		return []domain.Event{domain.SubmitResultEvent{Outcome: outcome, Message: message}}
	default:
		r.logger.Warn("unknown effect", "kind", effect.Kind)
		return nil
	}
}

func (r *Runner) runClaim(ctx context.Context, effect domain.Effect, result *DispatchResult) []domain.Event {
	claimResult := r.claims.Claim(ctx, r.slotInput(effect.Identity))
	result.ClaimRan = true
	result.ClaimResult = claimResult
	switch claimResult {
	case claimdomain.ResultOK:
		return []domain.Event{domain.ClaimGrantedEvent{Identity: effect.Identity}}
	default:
		return []domain.Event{domain.ClaimConflictEvent{Identity: effect.Identity}}
	}
}

func (r *Runner) slotInput(identity domain.Identity) claimdto.SlotInput {
	return claimdto.SlotInput{
		MatchType: identity.MatchType,
		Match:     identity.MatchNumber,
		Team:      identity.TeamNumber,
		Scouter:   r.machine.Scouter,
	}
}
