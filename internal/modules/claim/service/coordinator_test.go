package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"matchscout/internal/modules/claim/domain"
	"matchscout/internal/modules/claim/dto"
	claimin "matchscout/internal/modules/claim/port/in"
	"matchscout/internal/modules/claim/service"
	"matchscout/internal/platform/logging"
)

type fakeTransport struct {
	mu sync.Mutex

	claimErr  error
	submitErr error
	pingErr   error

	claims   []domain.Slot
	unclaims []domain.Slot
	updates  []string
	submits  int
}

func (f *fakeTransport) Claim(_ context.Context, slot domain.Slot, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims = append(f.claims, slot)
	return f.claimErr
}

func (f *fakeTransport) Unclaim(_ context.Context, slot domain.Slot, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unclaims = append(f.unclaims, slot)
	return nil
}

func (f *fakeTransport) UpdateState(_ context.Context, _ domain.Slot, _, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
	return nil
}

func (f *fakeTransport) Submit(context.Context, domain.Slot, []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	return f.submitErr
}

func (f *fakeTransport) ClaimMap(context.Context, string, int, string) (domain.ClaimMap, error) {
	return domain.ClaimMap{254: "bob"}, nil
}

func (f *fakeTransport) Ping(context.Context) error {
	return f.pingErr
}

type fakeBeacon struct {
	mu   sync.Mutex
	msgs []domain.BeaconMessage
}

func (f *fakeBeacon) Enqueue(msg domain.BeaconMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *fakeBeacon) Close() {}

type fixedID struct{}

func (fixedID) New() string { return "beacon-1" }

func newCoordinator(transport *fakeTransport, beacon *fakeBeacon, online bool) (*service.Monitor, claimin.Usecase) {
	monitor := service.NewMonitor(transport, time.Second, logging.Nop())
	if online {
		monitor.Refresh(context.Background())
	}
	coordinator := service.NewCoordinator(transport, beacon, monitor, fixedID{}, logging.Nop())
	return monitor, coordinator
}

func slot(team int) dto.SlotInput {
	return dto.SlotInput{MatchType: "qm", Match: 12, Team: team, Scouter: "alice"}
}

func TestOfflineClaimIsGrantedWithoutTransport(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	_, coordinator := newCoordinator(transport, &fakeBeacon{}, false)

	if result := coordinator.Claim(context.Background(), slot(254)); result != domain.ResultOK {
		t.Fatalf("offline claim must report ok, got %s", result)
	}
	if len(transport.claims) != 0 {
		t.Fatalf("offline claim must not hit the wire")
	}

	coordinator.Release(context.Background(), slot(254))
	coordinator.UpdateState(context.Background(), slot(254), "auto")
	coordinator.ReleaseBeacon(slot(254))
	if len(transport.unclaims) != 0 || len(transport.updates) != 0 {
		t.Fatalf("offline release and update must be no-ops")
	}
	if outcome := coordinator.Submit(context.Background(), dto.SubmitInput{Slot: slot(254)}); outcome != domain.SubmitUnknown {
		t.Fatalf("offline submit outcome must be unknown, got %s", outcome)
	}
}

func TestClaimMapsAuthorityAnswers(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want domain.Result
	}{
		{"granted", nil, domain.ResultOK},
		{"conflict", domain.ErrConflict, domain.ResultConflict},
		{"unreachable", domain.ErrUnreachable, domain.ResultNetworkError},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			transport := &fakeTransport{claimErr: tc.err}
			_, coordinator := newCoordinator(transport, &fakeBeacon{}, true)
			if got := coordinator.Claim(context.Background(), slot(254)); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestClaimInvalidSlotNeverHitsWire(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	_, coordinator := newCoordinator(transport, &fakeBeacon{}, true)
	if result := coordinator.Claim(context.Background(), dto.SlotInput{Scouter: "alice"}); result != domain.ResultNetworkError {
		t.Fatalf("invalid slot must block entry, got %s", result)
	}
	if len(transport.claims) != 0 {
		t.Fatalf("invalid slot must not be sent")
	}
}

func TestSubmitDistinguishesRejectionFromUnknown(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want domain.SubmitOutcome
	}{
		{"delivered", nil, domain.SubmitDelivered},
		{"rejected", domain.ErrRejected, domain.SubmitRejected},
		{"unreachable", domain.ErrUnreachable, domain.SubmitUnknown},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			transport := &fakeTransport{submitErr: tc.err}
			_, coordinator := newCoordinator(transport, &fakeBeacon{}, true)
			if got := coordinator.Submit(context.Background(), dto.SubmitInput{Slot: slot(254)}); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestReleaseBeaconCarriesMessageID(t *testing.T) {
	t.Parallel()
	beacon := &fakeBeacon{}
	_, coordinator := newCoordinator(&fakeTransport{}, beacon, true)

	coordinator.ReleaseBeacon(slot(254))
	if len(beacon.msgs) != 1 {
		t.Fatalf("expected one queued message, got %d", len(beacon.msgs))
	}
	msg := beacon.msgs[0]
	if msg.ID != "beacon-1" || msg.Scouter != "alice" || msg.Slot.Team != 254 {
		t.Fatalf("unexpected beacon message %+v", msg)
	}
}

func TestMonitorTracksConnectivityChanges(t *testing.T) {
	t.Parallel()
	transport := &fakeTransport{}
	monitor := service.NewMonitor(transport, time.Second, logging.Nop())

	if monitor.Online() {
		t.Fatalf("monitor must start offline")
	}
	if !monitor.Refresh(context.Background()) {
		t.Fatalf("successful probe must flip online")
	}
	transport.pingErr = domain.ErrUnreachable
	if monitor.Refresh(context.Background()) {
		t.Fatalf("failed probe must flip offline")
	}
	if monitor.Online() {
		t.Fatalf("cached signal must reflect the last probe")
	}
}

func TestPeekReturnsEmptyMapOffline(t *testing.T) {
	t.Parallel()
	_, coordinator := newCoordinator(&fakeTransport{}, &fakeBeacon{}, false)
	out := coordinator.Peek(context.Background(), dto.PeekInput{MatchType: "qm", Match: 12, Alliance: "red"})
	if len(out.Claims) != 0 {
		t.Fatalf("offline peek must be empty, got %+v", out.Claims)
	}

	_, coordinator = newCoordinator(&fakeTransport{}, &fakeBeacon{}, true)
	out = coordinator.Peek(context.Background(), dto.PeekInput{MatchType: "qm", Match: 12, Alliance: "red"})
	if out.Claims[254] != "bob" {
		t.Fatalf("online peek must pass the claim map through, got %+v", out.Claims)
	}
}
