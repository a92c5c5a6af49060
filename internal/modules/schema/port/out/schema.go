package out

import (
	"context"
	"encoding/json"

	"matchscout/internal/modules/schema/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	Check(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
	DefaultPayload(ctx context.Context, manifest domain.Manifest) (json.RawMessage, error)
}
