package in

import (
	"context"
	"encoding/json"

	"matchscout/internal/modules/schema/dto"
	schemain "matchscout/internal/modules/schema/port/in"
)

type CLIHandler struct {
	usecase schemain.Usecase
}

func NewCLIHandler(usecase schemain.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) ([]dto.SchemaInfo, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Describe(ctx context.Context, season string) (dto.SchemaInfo, error) {
	return h.usecase.Describe(ctx, season)
}

func (h CLIHandler) Check(ctx context.Context, season string) error {
	return h.usecase.Check(ctx, season)
}

func (h CLIHandler) DefaultPayload(ctx context.Context, season string) (json.RawMessage, error) {
	return h.usecase.DefaultPayload(ctx, season)
}
