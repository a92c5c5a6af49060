package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	out "matchscout/internal/modules/session/adapter/out"
	"matchscout/internal/modules/session/domain"
	apperrors "matchscout/internal/platform/errors"
)

func openStore(t *testing.T) *out.SQLiteSessionStore {
	t.Helper()
	store, err := out.NewSQLiteSessionStore(filepath.Join(t.TempDir(), "matchscout.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSession(team int, status domain.Status) domain.Session {
	return domain.Session{
		Identity:     domain.Identity{MatchType: "qm", MatchNumber: 12, TeamNumber: team},
		Scouter:      "alice",
		Alliance:     "red",
		Season:       "reference",
		Phase:        domain.PhaseAuto,
		Status:       status,
		Payload:      json.RawMessage(`{"auto":{"scored_high":2}}`),
		LastModified: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	want := sampleSession(254, domain.StatusAuto)
	if err := store.Put(context.Background(), want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(context.Background(), want.Identity)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Identity != want.Identity || got.Scouter != want.Scouter || got.Alliance != want.Alliance {
		t.Fatalf("identity fields mangled: %+v", got)
	}
	if got.Phase != want.Phase || got.Status != want.Status {
		t.Fatalf("lifecycle fields mangled: %s/%s", got.Phase, got.Status)
	}
	if string(got.Payload) != string(want.Payload) {
		t.Fatalf("payload must round-trip byte-for-byte: %s", got.Payload)
	}
	if !got.LastModified.Equal(want.LastModified) {
		t.Fatalf("timestamp mangled: %s", got.LastModified)
	}
}

func TestPutOverwritesSameIdentity(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	first := sampleSession(254, domain.StatusAuto)
	if err := store.Put(context.Background(), first); err != nil {
		t.Fatalf("put: %v", err)
	}

	second := first
	second.Phase = domain.PhaseTeleop
	second.Status = domain.StatusTeleop
	second.Payload = json.RawMessage(`{"teleop":{"scored_low":5}}`)
	if err := store.Put(context.Background(), second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	sessions, err := store.ListNonTerminal(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("one record per identity, got %d", len(sessions))
	}
	if sessions[0].Phase != domain.PhaseTeleop {
		t.Fatalf("last write must win, got %s", sessions[0].Phase)
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	_, err := store.Get(context.Background(), domain.Identity{MatchType: "qm", MatchNumber: 99, TeamNumber: 1})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListsSplitOnTerminalStatus(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	_ = store.Put(context.Background(), sampleSession(254, domain.StatusAuto))
	_ = store.Put(context.Background(), sampleSession(1678, domain.StatusCompleted))

	open, err := store.ListNonTerminal(context.Background())
	if err != nil {
		t.Fatalf("list open: %v", err)
	}
	if len(open) != 1 || open[0].Identity.TeamNumber != 254 {
		t.Fatalf("non-terminal list wrong: %+v", open)
	}

	done, err := store.ListCompleted(context.Background())
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(done) != 1 || done[0].Identity.TeamNumber != 1678 {
		t.Fatalf("completed list wrong: %+v", done)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	t.Parallel()
	store := openStore(t)
	session := sampleSession(254, domain.StatusCompleted)
	_ = store.Put(context.Background(), session)
	if err := store.Delete(context.Background(), session.Identity); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(context.Background(), session.Identity); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("record must be gone, got %v", err)
	}
}
