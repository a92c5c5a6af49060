package service

import (
	"context"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"matchscout/internal/modules/session/domain"
	sessionout "matchscout/internal/modules/session/port/out"
	"matchscout/internal/platform/clock"
)

// Autosave periodically snapshots the active session into the store.
// It only writes once the session has left the pre phase, when the
// identity is presumed stable, and it never propagates a failure.
type Autosave struct {
	runner   *Runner
	store    sessionout.Store
	clock    clock.Clock
	interval time.Duration
	tickers  clock.TickerFactory
	logger   hclog.Logger
}

func NewAutosave(runner *Runner, store sessionout.Store, clk clock.Clock, interval time.Duration, tickers clock.TickerFactory, logger hclog.Logger) *Autosave {
	if tickers == nil {
		tickers = clock.NewSystemTicker
	}
	return &Autosave{
		runner:   runner,
		store:    store,
		clock:    clk,
		interval: interval,
		tickers:  tickers,
		logger:   logger,
	}
}

// Run ticks until ctx is done.
func (a *Autosave) Run(ctx context.Context) {
	ticker := a.tickers(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			a.Tick(ctx)
		}
	}
}

// Tick takes one snapshot. The snapshot is a deep clone, so a concurrent
// payload edit between the copy and the write cannot tear the record.
func (a *Autosave) Tick(ctx context.Context) {
	machine := a.runner.Snapshot()
	if !machine.Active {
		return
	}
	session := machine.Session
	if session.Phase == domain.PhasePre {
		return
	}
	if !session.Identity.Complete() {
		return
	}
	switch machine.Submission {
	case domain.SubmissionIdle, domain.SubmissionError:
	default:
		// In-flight, confirmed, local and warning outcomes all own the
		// slot's record; a snapshot here would demote a pending-sync
		// record back to in-progress.
		return
	}
	session.Status = domain.StatusForPhase(session.Phase)
	session.LastModified = a.clock.Now()
	if err := a.store.Put(ctx, session); err != nil {
		a.logger.Warn("autosave failed", "identity", session.Identity, "error", err)
	}
}
