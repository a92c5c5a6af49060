package out

import (
	"context"

	"matchscout/internal/modules/claim/domain"
)

// Transport is the raw wire contract with the remote authority. Errors
// are translated into the domain sentinels where the authority answered,
// and wrapped transport errors where it did not.
type Transport interface {
	Claim(ctx context.Context, slot domain.Slot, scouter string) error
	Unclaim(ctx context.Context, slot domain.Slot, scouter string) error
	UpdateState(ctx context.Context, slot domain.Slot, scouter, status string) error
	Submit(ctx context.Context, slot domain.Slot, body []byte) error
	ClaimMap(ctx context.Context, matchType string, match int, alliance string) (domain.ClaimMap, error)
	// Ping is the reachability probe; it carries its own short timeout
	// and is the only call the engine ever aborts mid-flight.
	Ping(ctx context.Context) error
}

// Beacon delivers teardown unclaims without waiting for a response.
type Beacon interface {
	Enqueue(msg domain.BeaconMessage)
	Close()
}
