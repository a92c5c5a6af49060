package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	claimdomain "matchscout/internal/modules/claim/domain"
	"matchscout/internal/modules/session/domain"
	"matchscout/internal/modules/session/service"
	"matchscout/internal/platform/logging"
)

func postSession() domain.Session {
	return domain.Session{
		Identity: domain.Identity{MatchType: "qm", MatchNumber: 12, TeamNumber: 254},
		Scouter:  "alice",
		Alliance: "red",
		Season:   "reference",
		Phase:    domain.PhasePost,
		Status:   domain.StatusPost,
		Payload:  json.RawMessage(`{"post":{"endgame":"park"}}`),
	}
}

func TestSubmitOfflineDemotesToLocalRecord(t *testing.T) {
	t.Parallel()
	claims := &fakeClaims{online: false}
	store := newFakeStore()
	clk := &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	reconciler := service.NewReconciler(claims, store, clk, logging.Nop())

	state, message := reconciler.Submit(context.Background(), postSession())
	if state != domain.SubmissionLocal {
		t.Fatalf("offline submit must resolve locally, got %s", state)
	}
	if message != "offline: saved locally, not yet sent" {
		t.Fatalf("unexpected message %q", message)
	}
	stored, ok := store.get(postSession().Identity)
	if !ok {
		t.Fatalf("record must be preserved")
	}
	if stored.Status != domain.StatusCompleted {
		t.Fatalf("record must be demoted to completed, got %s", stored.Status)
	}
	if !stored.LastModified.Equal(clk.now) {
		t.Fatalf("demotion must stamp the clock")
	}
	if len(claims.submitted) != 0 {
		t.Fatalf("offline submit must not touch the transport")
	}
}

func TestSubmitDeliveredDeletesRecord(t *testing.T) {
	t.Parallel()
	claims := &fakeClaims{online: true, submitOutcome: claimdomain.SubmitDelivered}
	store := newFakeStore()
	session := postSession()
	if err := store.Put(context.Background(), session); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	reconciler := service.NewReconciler(claims, store, &fakeClock{now: time.Now()}, logging.Nop())

	state, _ := reconciler.Submit(context.Background(), session)
	if state != domain.SubmissionSuccess {
		t.Fatalf("expected success, got %s", state)
	}
	if _, ok := store.get(session.Identity); ok {
		t.Fatalf("confirmed record must be deleted")
	}

	if len(claims.submitted) != 1 {
		t.Fatalf("expected one delivery attempt")
	}
	body := map[string]any{}
	if err := json.Unmarshal(claims.submitted[0].Body, &body); err != nil {
		t.Fatalf("decode submit body: %v", err)
	}
	for _, key := range []string{"match_type", "alliance", "scouter", "post"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("submit body missing %q: %v", key, body)
		}
	}
}

func TestSubmitRejectedKeepsPayloadWithoutDemotion(t *testing.T) {
	t.Parallel()
	claims := &fakeClaims{online: true, submitOutcome: claimdomain.SubmitRejected}
	store := newFakeStore()
	reconciler := service.NewReconciler(claims, store, &fakeClock{now: time.Now()}, logging.Nop())

	state, message := reconciler.Submit(context.Background(), postSession())
	if state != domain.SubmissionError {
		t.Fatalf("clean rejection is an error, got %s", state)
	}
	if message == "" {
		t.Fatalf("rejection needs a user-visible message")
	}
	if _, ok := store.get(postSession().Identity); ok {
		t.Fatalf("a rejection must not write a completed record")
	}
}

func TestSubmitUnknownOutcomePreservesLocally(t *testing.T) {
	t.Parallel()
	claims := &fakeClaims{online: true, submitOutcome: claimdomain.SubmitUnknown}
	store := newFakeStore()
	reconciler := service.NewReconciler(claims, store, &fakeClock{now: time.Now()}, logging.Nop())

	state, message := reconciler.Submit(context.Background(), postSession())
	if state != domain.SubmissionWarning {
		t.Fatalf("unknown outcome warns, got %s", state)
	}
	if message != "sent status unknown, preserved locally" {
		t.Fatalf("unexpected message %q", message)
	}
	stored, ok := store.get(postSession().Identity)
	if !ok || stored.Status != domain.StatusCompleted {
		t.Fatalf("record must be preserved as completed")
	}
}

func TestResubmitDeletesOnlyOnDelivery(t *testing.T) {
	t.Parallel()
	session := postSession()
	session.Status = domain.StatusCompleted

	claims := &fakeClaims{online: true, submitOutcome: claimdomain.SubmitUnknown}
	store := newFakeStore()
	_ = store.Put(context.Background(), session)
	reconciler := service.NewReconciler(claims, store, &fakeClock{now: time.Now()}, logging.Nop())

	if outcome := reconciler.Resubmit(context.Background(), session); outcome != claimdomain.SubmitUnknown {
		t.Fatalf("expected unknown, got %s", outcome)
	}
	if _, ok := store.get(session.Identity); !ok {
		t.Fatalf("record must survive an unconfirmed push")
	}

	claims.submitOutcome = claimdomain.SubmitDelivered
	if outcome := reconciler.Resubmit(context.Background(), session); outcome != claimdomain.SubmitDelivered {
		t.Fatalf("expected delivered, got %s", outcome)
	}
	if _, ok := store.get(session.Identity); ok {
		t.Fatalf("confirmed record must be deleted")
	}
}
