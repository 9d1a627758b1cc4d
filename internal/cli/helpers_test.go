package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"focustrack/internal/engine"
	"focustrack/internal/model"
	"focustrack/internal/streak"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memoryStore struct {
	mu       sync.Mutex
	snapshot *engine.Snapshot
	loadErr  error
}

func (s *memoryStore) Load() (engine.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return engine.Snapshot{}, false, s.loadErr
	}
	if s.snapshot == nil {
		return engine.Snapshot{}, false, nil
	}
	return *s.snapshot, true, nil
}

func (s *memoryStore) Save(snapshot engine.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &snapshot
	return nil
}

func (s *memoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	return nil
}

type fakeBackend struct {
	mu        sync.Mutex
	intervals []engine.Interval
	deleted   []string
	pauses    []model.PausePeriod
	emitErr   error
	password  string
}

func (b *fakeBackend) EmitSession(_ context.Context, interval engine.Interval) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.emitErr != nil {
		return "", b.emitErr
	}
	b.intervals = append(b.intervals, interval)
	return "session-id", nil
}

func (b *fakeBackend) DeleteSequence(_ context.Context, sequenceID string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, sequenceID)
	kept := b.intervals[:0]
	removed := 0
	for _, iv := range b.intervals {
		if iv.SequenceID == sequenceID {
			removed++
			continue
		}
		kept = append(kept, iv)
	}
	b.intervals = kept
	return removed, nil
}

func (b *fakeBackend) ListSessions(_ context.Context, since time.Time) ([]streak.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	records := make([]streak.Record, 0, len(b.intervals))
	for _, iv := range b.intervals {
		if iv.StartTime.Before(since) {
			continue
		}
		records = append(records, streak.Record{StartTime: iv.StartTime, DurationSeconds: iv.DurationSeconds})
	}
	return records, nil
}

func (b *fakeBackend) ListPausePeriods(ctx context.Context) ([]streak.PausePeriod, error) {
	periods, _ := b.PausePeriods(ctx)
	out := make([]streak.PausePeriod, 0, len(periods))
	for _, p := range periods {
		out = append(out, streak.PausePeriod{Start: streak.Date(p.StartDate), End: streak.Date(p.EndDate)})
	}
	return out, nil
}

func (b *fakeBackend) PausePeriods(context.Context) ([]model.PausePeriod, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.PausePeriod(nil), b.pauses...), nil
}

func (b *fakeBackend) CreatePausePeriod(_ context.Context, start, end streak.Date, reason string) (model.PausePeriod, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := model.PausePeriod{ID: "pause-1", StartDate: start.String(), EndDate: end.String(), Reason: reason}
	b.pauses = append(b.pauses, p)
	return p, nil
}

func (b *fakeBackend) Streak(ctx context.Context, today streak.Date) (streak.Result, error) {
	records, _ := b.ListSessions(ctx, time.Time{})
	pauses, _ := b.ListPausePeriods(ctx)
	return streak.Compute(streak.Dates(records, time.UTC), pauses, today), nil
}

func (b *fakeBackend) Login(_ context.Context, _ string, password string) (string, error) {
	if password != b.password {
		return "", errors.New("invalid email or password")
	}
	return "token-123", nil
}

func (b *fakeBackend) Intervals() []engine.Interval {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]engine.Interval(nil), b.intervals...)
}

func (b *fakeBackend) Deleted() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

type testEnv struct {
	app     *App
	clock   *testClock
	store   *memoryStore
	backend *fakeBackend
	saved   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		clock:   &testClock{now: time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)},
		store:   &memoryStore{},
		backend: &fakeBackend{password: "secret1"},
	}
	env.app = &App{
		Timer:       engine.DefaultConfig(),
		Location:    time.UTC,
		Clock:       env.clock,
		Store:       env.store,
		Backend:     env.backend,
		EmitTimeout: time.Second,
		SaveCredentials: func(token string) error {
			env.saved = token
			return nil
		},
	}
	return env
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func mustExecute(t *testing.T, app *App, args ...string) string {
	t.Helper()
	out, err := executeCmd(t, app, args...)
	require.NoError(t, err, out)
	return out
}
