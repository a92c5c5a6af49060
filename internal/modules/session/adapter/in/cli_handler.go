package in

import (
	"context"
	"encoding/json"

	sessiondto "matchscout/internal/modules/session/dto"
	sessionin "matchscout/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) SelectTeam(ctx context.Context, matchType string, match, team int, alliance string) (sessiondto.SelectOutput, error) {
	return h.usecase.SelectTeam(ctx, sessiondto.SelectInput{
		MatchType:   matchType,
		MatchNumber: match,
		TeamNumber:  team,
		Alliance:    alliance,
	})
}

func (h CLIHandler) Next(ctx context.Context) error {
	return h.usecase.Next(ctx)
}

func (h CLIHandler) Back(ctx context.Context) error {
	return h.usecase.Back(ctx)
}

func (h CLIHandler) EditPayload(ctx context.Context, payload json.RawMessage) error {
	return h.usecase.EditPayload(ctx, payload)
}

func (h CLIHandler) Submit(ctx context.Context) error {
	return h.usecase.Submit(ctx)
}

func (h CLIHandler) Current() sessiondto.SessionView {
	return h.usecase.Current()
}

func (h CLIHandler) Resumable(ctx context.Context) ([]sessiondto.ResumeEntry, error) {
	return h.usecase.Resumable(ctx)
}

func (h CLIHandler) Continue(ctx context.Context, matchType string, match, team int) (sessiondto.ResumeEntry, error) {
	return h.usecase.Continue(ctx, matchType, match, team)
}

func (h CLIHandler) Discard(ctx context.Context, matchType string, match, team int) error {
	return h.usecase.Discard(ctx, matchType, match, team)
}

func (h CLIHandler) Pending(ctx context.Context) ([]sessiondto.PendingRecord, error) {
	return h.usecase.Pending(ctx)
}

func (h CLIHandler) PushPending(ctx context.Context) (sessiondto.PushOutput, error) {
	return h.usecase.PushPending(ctx)
}

func (h CLIHandler) PeekClaims(ctx context.Context, matchType string, match int, alliance string) (sessiondto.PeekOutput, error) {
	return h.usecase.PeekClaims(ctx, sessiondto.PeekInput{MatchType: matchType, Match: match, Alliance: alliance})
}

func (h CLIHandler) Teardown() {
	h.usecase.Teardown()
}
