package out

import (
	"context"
	"encoding/json"

	"matchscout/internal/modules/session/domain"
)

// Store is the durable, per-device session store. Implementations key
// records by the composite identity; Put overwrites in place.
type Store interface {
	Put(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, identity domain.Identity) (domain.Session, error)
	Delete(ctx context.Context, identity domain.Identity) error
	// ListNonTerminal returns sessions interrupted mid-entry, for resume.
	ListNonTerminal(ctx context.Context) ([]domain.Session, error)
	// ListCompleted returns locally-completed records awaiting sync.
	ListCompleted(ctx context.Context) ([]domain.Session, error)
}

// Defaults supplies the season's fresh payload document. Implemented by
// the schema module; the engine never constructs payload shapes itself.
type Defaults interface {
	DefaultPayload(ctx context.Context, season string) (json.RawMessage, error)
}
