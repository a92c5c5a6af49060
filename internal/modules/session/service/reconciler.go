package service

import (
	"context"
	"encoding/json"

	hclog "github.com/hashicorp/go-hclog"

	claimdomain "matchscout/internal/modules/claim/domain"
	claimdto "matchscout/internal/modules/claim/dto"
	claimin "matchscout/internal/modules/claim/port/in"
	"matchscout/internal/modules/session/domain"
	sessionout "matchscout/internal/modules/session/port/out"
	"matchscout/internal/platform/clock"
)

// Reconciler decides whether a completed session is confirmed by the
// remote authority or deferred as a locally-completed, pending-sync
// record. Data loss is worse than a possibly-duplicate resubmission, so
// anything short of a clean rejection keeps the payload on disk.
type Reconciler struct {
	claims claimin.Usecase
	store  sessionout.Store
	clock  clock.Clock
	logger hclog.Logger
}

func NewReconciler(claims claimin.Usecase, store sessionout.Store, clk clock.Clock, logger hclog.Logger) *Reconciler {
	return &Reconciler{claims: claims, store: store, clock: clk, logger: logger}
}

// Submit attempts delivery and returns the user-visible outcome.
func (r *Reconciler) Submit(ctx context.Context, session domain.Session) (domain.SubmissionState, string) {
	if !r.claims.Online() {
		return r.keepLocal(ctx, session, domain.SubmissionLocal, "offline: saved locally, not yet sent")
	}

	body, err := submitBody(session)
	if err != nil {
		r.logger.Error("submit body build failed", "identity", session.Identity, "error", err)
		return domain.SubmissionError, "payload could not be encoded"
	}

	outcome := r.claims.Submit(ctx, claimdto.SubmitInput{
		Slot: claimdto.SlotInput{
			MatchType: session.Identity.MatchType,
			Match:     session.Identity.MatchNumber,
			Team:      session.Identity.TeamNumber,
			Scouter:   session.Scouter,
		},
		Body: body,
	})
	switch outcome {
	case claimdomain.SubmitDelivered:
		if err := r.store.Delete(ctx, session.Identity); err != nil {
			r.logger.Warn("confirmed session cleanup failed", "identity", session.Identity, "error", err)
		}
		return domain.SubmissionSuccess, ""
	case claimdomain.SubmitRejected:
		// Clean rejection: payload stays in memory, manual retry only.
		return domain.SubmissionError, "submission rejected by server"
	default:
		return r.keepLocal(ctx, session, domain.SubmissionWarning, "sent status unknown, preserved locally")
	}
}

// Resubmit re-attempts delivery of a locally-completed record. The record
// is only deleted on confirmed success.
func (r *Reconciler) Resubmit(ctx context.Context, session domain.Session) claimdomain.SubmitOutcome {
	body, err := submitBody(session)
	if err != nil {
		r.logger.Error("resubmit body build failed", "identity", session.Identity, "error", err)
		return claimdomain.SubmitRejected
	}
	outcome := r.claims.Submit(ctx, claimdto.SubmitInput{
		Slot: claimdto.SlotInput{
			MatchType: session.Identity.MatchType,
			Match:     session.Identity.MatchNumber,
			Team:      session.Identity.TeamNumber,
			Scouter:   session.Scouter,
		},
		Body: body,
	})
	if outcome == claimdomain.SubmitDelivered {
		if err := r.store.Delete(ctx, session.Identity); err != nil {
			r.logger.Warn("pending record cleanup failed", "identity", session.Identity, "error", err)
		}
	}
	return outcome
}

// keepLocal demotes the session to a completed pending-sync record. The
// in-progress autosave record occupies the same slot; flipping the status
// is the whole demotion.
func (r *Reconciler) keepLocal(ctx context.Context, session domain.Session, state domain.SubmissionState, message string) (domain.SubmissionState, string) {
	session.Status = domain.StatusCompleted
	session.LastModified = r.clock.Now()
	if err := r.store.Put(ctx, session); err != nil {
		r.logger.Error("local completion save failed", "identity", session.Identity, "error", err)
		return domain.SubmissionError, "could not save locally"
	}
	return state, message
}

// submitBody flattens the payload document and tags it with the identity
// fields the authority requires.
func submitBody(session domain.Session) (json.RawMessage, error) {
	doc := map[string]any{}
	if len(session.Payload) > 0 {
		if err := json.Unmarshal(session.Payload, &doc); err != nil {
			return nil, err
		}
	}
	doc["match_type"] = session.Identity.MatchType
	doc["alliance"] = session.Alliance
	doc["scouter"] = session.Scouter
	return json.Marshal(doc)
}
