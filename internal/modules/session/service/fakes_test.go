package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	claimdomain "matchscout/internal/modules/claim/domain"
	claimdto "matchscout/internal/modules/claim/dto"
	"matchscout/internal/modules/session/domain"
	apperrors "matchscout/internal/platform/errors"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

type fakeClaims struct {
	mu sync.Mutex

	online        bool
	claimResult   claimdomain.Result
	submitOutcome claimdomain.SubmitOutcome

	claimed   []claimdto.SlotInput
	released  []claimdto.SlotInput
	beaconed  []claimdto.SlotInput
	updates   []string
	submitted []claimdto.SubmitInput
}

func (f *fakeClaims) Claim(_ context.Context, input claimdto.SlotInput) claimdomain.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claimed = append(f.claimed, input)
	return f.claimResult
}

func (f *fakeClaims) Release(_ context.Context, input claimdto.SlotInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, input)
}

func (f *fakeClaims) ReleaseBeacon(input claimdto.SlotInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beaconed = append(f.beaconed, input)
}

func (f *fakeClaims) UpdateState(_ context.Context, _ claimdto.SlotInput, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, status)
}

func (f *fakeClaims) Submit(_ context.Context, input claimdto.SubmitInput) claimdomain.SubmitOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, input)
	return f.submitOutcome
}

func (f *fakeClaims) Peek(context.Context, claimdto.PeekInput) claimdto.PeekOutput {
	return claimdto.PeekOutput{Claims: map[int]string{}}
}

func (f *fakeClaims) Online() bool { return f.online }

func (f *fakeClaims) Refresh(context.Context) bool { return f.online }

func (f *fakeClaims) releasedSlots() []claimdto.SlotInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]claimdto.SlotInput(nil), f.released...)
}

type fakeStore struct {
	mu      sync.Mutex
	records map[string]domain.Session
	putErr  error
	deleted []domain.Identity
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]domain.Session{}}
}

func (f *fakeStore) Put(_ context.Context, session domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.records[session.Identity.Key()] = session.Clone()
	return nil
}

func (f *fakeStore) Get(_ context.Context, identity domain.Identity) (domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.records[identity.Key()]
	if !ok {
		return domain.Session{}, apperrors.ErrNotFound
	}
	return session.Clone(), nil
}

func (f *fakeStore) Delete(_ context.Context, identity domain.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, identity.Key())
	f.deleted = append(f.deleted, identity)
	return nil
}

func (f *fakeStore) ListNonTerminal(context.Context) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Session{}
	for _, session := range f.records {
		if !session.Status.Terminal() {
			out = append(out, session.Clone())
		}
	}
	return out, nil
}

func (f *fakeStore) ListCompleted(context.Context) ([]domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Session{}
	for _, session := range f.records {
		if session.Status.Terminal() {
			out = append(out, session.Clone())
		}
	}
	return out, nil
}

func (f *fakeStore) get(identity domain.Identity) (domain.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.records[identity.Key()]
	return session, ok
}

type fakeDefaults struct {
	payload json.RawMessage
	err     error
}

func (f *fakeDefaults) DefaultPayload(context.Context, string) (json.RawMessage, error) {
	return f.payload, f.err
}

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {}
