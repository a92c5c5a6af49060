package service

import (
	"context"
	"sync/atomic"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	claimout "matchscout/internal/modules/claim/port/out"
)

// Monitor collapses the reachability of the remote authority into a
// cached boolean. The probe carries its own timeout and is abortable;
// it is the only remote call the engine cancels mid-flight.
type Monitor struct {
	transport claimout.Transport
	timeout   time.Duration
	logger    hclog.Logger

	online atomic.Bool
}

func NewMonitor(transport claimout.Transport, timeout time.Duration, logger hclog.Logger) *Monitor {
	m := &Monitor{transport: transport, timeout: timeout, logger: logger}
	return m
}

func (m *Monitor) Online() bool {
	return m.online.Load()
}

// Refresh probes the authority and updates the cached signal.
func (m *Monitor) Refresh(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	err := m.transport.Ping(probeCtx)
	reachable := err == nil
	previous := m.online.Swap(reachable)
	if previous != reachable {
		m.logger.Info("connectivity changed", "online", reachable)
	}
	return reachable
}

// Poll refreshes the signal at the given interval until ctx is done.
func (m *Monitor) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}
