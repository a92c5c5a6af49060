package in

import (
	"context"
	"encoding/json"

	"matchscout/internal/modules/session/dto"
)

// Usecase is the session engine surface the UI shell consumes.
type Usecase interface {
	// SelectTeam acquires the claim for a (matchType, match, team) slot
	// and, on success, starts a fresh session at the pre phase. A
	// conflict leaves all local state untouched.
	SelectTeam(ctx context.Context, input dto.SelectInput) (dto.SelectOutput, error)
	Next(ctx context.Context) error
	Back(ctx context.Context) error
	EditPayload(ctx context.Context, payload json.RawMessage) error
	// Submit runs the submission reconciler; the outcome lands in the
	// session view's Submission field, never in an error.
	Submit(ctx context.Context) error
	Current() dto.SessionView
	// Reset clears the machine to a blank session after a resolved
	// submission has been shown to the scouter.
	Reset()

	// Resumable lists sessions left non-terminal by a previous run.
	Resumable(ctx context.Context) ([]dto.ResumeEntry, error)
	Continue(ctx context.Context, matchType string, match, team int) (dto.ResumeEntry, error)
	Discard(ctx context.Context, matchType string, match, team int) error
	// AbandonResume unblocks new session creation without touching the
	// stored entries; discard stays explicit per entry.
	AbandonResume()

	Pending(ctx context.Context) ([]dto.PendingRecord, error)
	PushPending(ctx context.Context) (dto.PushOutput, error)

	PeekClaims(ctx context.Context, input dto.PeekInput) (dto.PeekOutput, error)

	// Teardown fires the exit guard: an at-most-once, fire-and-forget
	// release of the active claim.
	Teardown()
}
