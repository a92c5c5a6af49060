package out

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"matchscout/internal/modules/claim/domain"
	claimout "matchscout/internal/modules/claim/port/out"
)

const (
	beaconQueueDepth = 8
	beaconTimeout    = 2 * time.Second
)

// HTTPBeacon is the teardown transport: a small outbound queue drained
// by a single goroutine that fires unclaim-beacon requests and ignores
// the responses. At-least-once attempt, zero delivery guarantee; a full
// queue drops the message rather than block the caller.
type HTTPBeacon struct {
	baseURL string
	client  *http.Client
	logger  hclog.Logger

	queue     chan domain.BeaconMessage
	closeOnce sync.Once
	done      chan struct{}
}

func NewHTTPBeacon(baseURL string, logger hclog.Logger) claimout.Beacon {
	b := &HTTPBeacon{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: beaconTimeout},
		logger:  logger,
		queue:   make(chan domain.BeaconMessage, beaconQueueDepth),
		done:    make(chan struct{}),
	}
	go b.drain()
	return b
}

func (b *HTTPBeacon) Enqueue(msg domain.BeaconMessage) {
	select {
	case b.queue <- msg:
	default:
		b.logger.Warn("beacon queue full, dropping unclaim", "id", msg.ID, "slot", msg.Slot)
	}
}

func (b *HTTPBeacon) Close() {
	b.closeOnce.Do(func() {
		close(b.queue)
		<-b.done
	})
}

func (b *HTTPBeacon) drain() {
	defer close(b.done)
	for msg := range b.queue {
		b.send(msg)
	}
}

func (b *HTTPBeacon) send(msg domain.BeaconMessage) {
	rawURL := fmt.Sprintf("%s/scouting/%s/%d/%d/unclaim-beacon?scouter=%s",
		b.baseURL, url.PathEscape(msg.Slot.MatchType), msg.Slot.Match, msg.Slot.Team, url.QueryEscape(msg.Scouter))
	req, err := http.NewRequest(http.MethodPatch, rawURL, nil)
	if err != nil {
		b.logger.Warn("beacon request build failed", "id", msg.ID, "error", err)
		return
	}
	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Debug("beacon delivery unknown", "id", msg.ID, "slot", msg.Slot, "error", err)
		return
	}
	_ = resp.Body.Close()
}
