package out

import (
	"context"
	"encoding/json"

	schemain "matchscout/internal/modules/schema/port/in"
	sessionout "matchscout/internal/modules/session/port/out"
)

// SchemaDefaultsAdapter bridges the session engine's Defaults port to the
// schema module's season providers.
type SchemaDefaultsAdapter struct {
	schema schemain.Usecase
}

func NewSchemaDefaultsAdapter(schema schemain.Usecase) sessionout.Defaults {
	return &SchemaDefaultsAdapter{schema: schema}
}

func (a *SchemaDefaultsAdapter) DefaultPayload(ctx context.Context, season string) (json.RawMessage, error) {
	return a.schema.DefaultPayload(ctx, season)
}
