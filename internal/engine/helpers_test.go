package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Conversly/clinic-assist/internal/loaders"
	"github.com/Conversly/clinic-assist/internal/session"
)

// fixedNow is a Wednesday; tests that care about weekday math rely on it.
var fixedNow = time.Date(2025, 7, 9, 12, 0, 0, 0, time.UTC)

type fakeProvider struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string, temperature float32, model string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeProvider) promptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeOverrideStore struct {
	mu      sync.Mutex
	records []loaders.OverrideRecord
	err     error
}

func (f *fakeOverrideStore) CreateOverride(ctx context.Context, rec loaders.OverrideRecord) (loaders.OverrideRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return loaders.OverrideRecord{}, f.err
	}
	rec.ID = fmt.Sprintf("ovr-%d", len(f.records)+1)
	rec.CreatedAt = fixedNow
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeOverrideStore) ListOverridesByDate(ctx context.Context, date string) ([]loaders.OverrideRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []loaders.OverrideRecord
	for _, rec := range f.records {
		if rec.Date == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeOverrideStore) all() []loaders.OverrideRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]loaders.OverrideRecord, len(f.records))
	copy(out, f.records)
	return out
}

type fakeAppointmentStore struct {
	mu      sync.Mutex
	records []loaders.AppointmentRecord
	err     error
}

func (f *fakeAppointmentStore) CreateAppointment(ctx context.Context, rec loaders.AppointmentRecord) (loaders.AppointmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return loaders.AppointmentRecord{}, f.err
	}
	rec.ID = fmt.Sprintf("appt-%d", len(f.records)+1)
	rec.CreatedAt = fixedNow
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAppointmentStore) all() []loaders.AppointmentRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]loaders.AppointmentRecord, len(f.records))
	copy(out, f.records)
	return out
}

type testEnv struct {
	engine       *Engine
	sessions     *session.MemoryStore
	overrides    *fakeOverrideStore
	appointments *fakeAppointmentStore
	ai           *fakeProvider
}

func newTestEnv() *testEnv {
	env := &testEnv{
		sessions:     session.NewMemoryStore(),
		overrides:    &fakeOverrideStore{},
		appointments: &fakeAppointmentStore{},
		ai:           &fakeProvider{reply: "canned answer"},
	}
	env.engine = New(env.sessions, env.overrides, env.appointments, env.ai)
	env.engine.now = func() time.Time { return fixedNow }
	return env
}

func textEvent(sender, text string) InboundEvent {
	return InboundEvent{
		SenderID:  sender,
		Kind:      EventText,
		Text:      text,
		ChannelID: "chan-1",
		MessageID: "wamid." + sender + "." + text,
	}
}

func buttonEvent(sender, selectionID string) InboundEvent {
	return InboundEvent{
		SenderID:    sender,
		Kind:        EventButton,
		SelectionID: selectionID,
		ChannelID:   "chan-1",
		MessageID:   "wamid." + sender + "." + selectionID,
	}
}

func listEvent(sender, selectionID string) InboundEvent {
	ev := buttonEvent(sender, selectionID)
	ev.Kind = EventList
	return ev
}

func mustSession(env *testEnv, sender string) *session.Session {
	sess, err := env.sessions.Get(context.Background(), sender)
	if err != nil || sess == nil {
		panic(fmt.Sprintf("no session for %s: %v", sender, err))
	}
	return sess
}

func mustAdminSession(env *testEnv, sender string) *session.AdminSession {
	sess, err := env.sessions.GetAdmin(context.Background(), sender)
	if err != nil || sess == nil {
		panic(fmt.Sprintf("no admin session for %s: %v", sender, err))
	}
	return sess
}
