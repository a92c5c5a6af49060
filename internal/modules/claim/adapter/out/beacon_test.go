package out_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	out "matchscout/internal/modules/claim/adapter/out"
	"matchscout/internal/modules/claim/domain"
	"matchscout/internal/platform/logging"
)

func TestBeaconFiresUnclaimAndIgnoresResponse(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()
		w.WriteHeader(http.StatusForbidden) // response must not matter
	}))
	defer server.Close()

	beacon := out.NewHTTPBeacon(server.URL, logging.Nop())
	beacon.Enqueue(domain.BeaconMessage{
		ID:      "b-1",
		Slot:    domain.Slot{MatchType: "qm", Match: 12, Team: 254},
		Scouter: "alice",
	})
	beacon.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 {
		t.Fatalf("expected one beacon request, got %d", len(paths))
	}
	if paths[0] != "/scouting/qm/12/254/unclaim-beacon?scouter=alice" {
		t.Fatalf("unexpected request %s", paths[0])
	}
}

func TestBeaconCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	beacon := out.NewHTTPBeacon(server.URL, logging.Nop())
	beacon.Close()
	beacon.Close()
}
