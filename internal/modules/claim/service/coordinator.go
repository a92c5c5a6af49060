package service

import (
	"context"
	"errors"

	hclog "github.com/hashicorp/go-hclog"

	"matchscout/internal/modules/claim/domain"
	"matchscout/internal/modules/claim/dto"
	claimin "matchscout/internal/modules/claim/port/in"
	claimout "matchscout/internal/modules/claim/port/out"
	"matchscout/internal/platform/id"
)

// Coordinator owns exclusive-claim coordination with the remote
// authority. While offline, claim and unclaim are deliberate no-ops
// reporting success: availability over consistency, there is no
// authority to coordinate with.
type Coordinator struct {
	transport claimout.Transport
	beacon    claimout.Beacon
	monitor   *Monitor
	idGen     id.Generator
	logger    hclog.Logger
}

func NewCoordinator(transport claimout.Transport, beacon claimout.Beacon, monitor *Monitor, idGen id.Generator, logger hclog.Logger) claimin.Usecase {
	return &Coordinator{
		transport: transport,
		beacon:    beacon,
		monitor:   monitor,
		idGen:     idGen,
		logger:    logger,
	}
}

func slotOf(input dto.SlotInput) domain.Slot {
	return domain.Slot{MatchType: input.MatchType, Match: input.Match, Team: input.Team}
}

func (c *Coordinator) Claim(ctx context.Context, input dto.SlotInput) domain.Result {
	slot := slotOf(input)
	if err := slot.Validate(); err != nil {
		c.logger.Warn("claim skipped", "slot", slot, "error", err)
		return domain.ResultNetworkError
	}
	if !c.monitor.Online() {
		return domain.ResultOK
	}
	err := c.transport.Claim(ctx, slot, input.Scouter)
	switch {
	case err == nil:
		return domain.ResultOK
	case errors.Is(err, domain.ErrConflict):
		c.logger.Info("claim conflict", "slot", slot, "scouter", input.Scouter)
		return domain.ResultConflict
	default:
		c.logger.Warn("claim transport failure", "slot", slot, "error", err)
		return domain.ResultNetworkError
	}
}

func (c *Coordinator) Release(ctx context.Context, input dto.SlotInput) {
	slot := slotOf(input)
	if !c.monitor.Online() {
		return
	}
	if err := c.transport.Unclaim(ctx, slot, input.Scouter); err != nil {
		// A failed unclaim never blocks the calling flow.
		c.logger.Warn("unclaim failed", "slot", slot, "error", err)
	}
}

func (c *Coordinator) ReleaseBeacon(input dto.SlotInput) {
	if !c.monitor.Online() {
		return
	}
	c.beacon.Enqueue(domain.BeaconMessage{
		ID:      c.idGen.New(),
		Slot:    slotOf(input),
		Scouter: input.Scouter,
	})
}

func (c *Coordinator) UpdateState(ctx context.Context, input dto.SlotInput, status string) {
	slot := slotOf(input)
	if !c.monitor.Online() {
		return
	}
	err := c.transport.UpdateState(ctx, slot, input.Scouter, status)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotHolder), errors.Is(err, domain.ErrRegression):
		// The local view of progress wins locally; the authority's
		// rejection is informational only.
		c.logger.Info("state update rejected", "slot", slot, "status", status, "error", err)
	default:
		c.logger.Warn("state update failed", "slot", slot, "status", status, "error", err)
	}
}

func (c *Coordinator) Submit(ctx context.Context, input dto.SubmitInput) domain.SubmitOutcome {
	slot := slotOf(input.Slot)
	if !c.monitor.Online() {
		return domain.SubmitUnknown
	}
	err := c.transport.Submit(ctx, slot, input.Body)
	switch {
	case err == nil:
		return domain.SubmitDelivered
	case errors.Is(err, domain.ErrRejected):
		c.logger.Warn("submission rejected", "slot", slot, "error", err)
		return domain.SubmitRejected
	default:
		c.logger.Warn("submission delivery unknown", "slot", slot, "error", err)
		return domain.SubmitUnknown
	}
}

func (c *Coordinator) Peek(ctx context.Context, input dto.PeekInput) dto.PeekOutput {
	if !c.monitor.Online() {
		return dto.PeekOutput{Claims: map[int]string{}}
	}
	claims, err := c.transport.ClaimMap(ctx, input.MatchType, input.Match, input.Alliance)
	if err != nil {
		c.logger.Warn("claim map fetch failed", "match_type", input.MatchType, "match", input.Match, "error", err)
		return dto.PeekOutput{Claims: map[int]string{}}
	}
	out := make(map[int]string, len(claims))
	for team, scouter := range claims {
		out[team] = scouter
	}
	return dto.PeekOutput{Claims: out}
}

func (c *Coordinator) Online() bool {
	return c.monitor.Online()
}

func (c *Coordinator) Refresh(ctx context.Context) bool {
	return c.monitor.Refresh(ctx)
}
