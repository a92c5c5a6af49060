package in

import (
	"context"

	"matchscout/internal/modules/claim/domain"
	"matchscout/internal/modules/claim/dto"
)

// Usecase is the claim coordination surface other modules consume.
// Every remote failure is absorbed here and reported as a result value;
// nothing on this interface returns a transport error.
type Usecase interface {
	// Claim must succeed before entry begins for a slot. Offline it is
	// a deliberate no-op reporting ResultOK.
	Claim(ctx context.Context, input dto.SlotInput) domain.Result
	// Release is best-effort and never blocks the calling flow.
	Release(ctx context.Context, input dto.SlotInput)
	// ReleaseBeacon queues a fire-and-forget unclaim for teardown.
	ReleaseBeacon(input dto.SlotInput)
	// UpdateState mirrors the local phase to the authority. Not-holder
	// and regression rejections are logged, never surfaced.
	UpdateState(ctx context.Context, input dto.SlotInput, status string)
	// Submit hands a completed payload to the authority.
	Submit(ctx context.Context, input dto.SubmitInput) domain.SubmitOutcome
	// Peek returns the current claim map, empty on any failure.
	Peek(ctx context.Context, input dto.PeekInput) dto.PeekOutput

	// Online reports the cached reachability signal.
	Online() bool
	// Refresh probes the authority now and updates the cached signal.
	Refresh(ctx context.Context) bool
}
