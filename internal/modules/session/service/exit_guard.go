package service

import (
	"context"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"matchscout/internal/modules/session/domain"
)

// ExitGuard releases the active claim when the client is torn down. The
// release is fire-and-forget over the beacon transport and latched so
// repeated teardown signals produce at most one unclaim attempt.
type ExitGuard struct {
	runner *Runner
	logger hclog.Logger
	once   sync.Once
}

func NewExitGuard(runner *Runner, logger hclog.Logger) *ExitGuard {
	return &ExitGuard{runner: runner, logger: logger}
}

func (g *ExitGuard) Trigger() {
	g.once.Do(func() {
		if _, err := g.runner.Dispatch(context.Background(), domain.ExitEvent{}); err != nil {
			g.logger.Warn("exit guard dispatch failed", "error", err)
		}
	})
}
