package in

import (
	"context"
	"encoding/json"

	"matchscout/internal/modules/schema/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.SchemaInfo, error)
	Describe(ctx context.Context, season string) (dto.SchemaInfo, error)
	Check(ctx context.Context, season string) error
	DefaultPayload(ctx context.Context, season string) (json.RawMessage, error)
}
