package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"focustrack/internal/engine"
	"focustrack/internal/model"
	"focustrack/internal/streak"
)

// Backend is the server as the client sees it.
type Backend interface {
	engine.SessionEmitter
	engine.SequenceDeleter
	streak.HistorySource
	streak.PauseSource
	PausePeriods(ctx context.Context) ([]model.PausePeriod, error)
	CreatePausePeriod(ctx context.Context, start, end streak.Date, reason string) (model.PausePeriod, error)
	Streak(ctx context.Context, today streak.Date) (streak.Result, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// SnapshotStore persists the timer between invocations.
type SnapshotStore interface {
	Load() (engine.Snapshot, bool, error)
	Save(snapshot engine.Snapshot) error
	Clear() error
}

// App holds what the commands need. Every command that touches the timer
// rebuilds it from the store, runs, re-checks completion, saves and then
// waits for queued emissions to drain.
type App struct {
	Timer       engine.Config
	Location    *time.Location
	Clock       engine.Clock
	Store       SnapshotStore
	Backend     Backend
	EmitTimeout time.Duration

	// IsInteractive reports whether stdin is a terminal; forms and the live
	// view only run when it is.
	IsInteractive func() bool
	// SaveCredentials persists a token obtained by login.
	SaveCredentials func(token string) error

	verbose bool
}

func (a *App) clock() engine.Clock {
	if a.Clock == nil {
		return engine.SystemClock()
	}
	return a.Clock
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) observer(errOut io.Writer) engine.Observer {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelInfo
	}
	return engine.NewLogObserver(errOut, level)
}

// session is one invocation's view of the timer.
type session struct {
	timer  *engine.Timer
	outbox *engine.Outbox
	staged *stagedPublisher
	store  SnapshotStore
}

func (s *session) emit(interval engine.Interval) {
	s.staged.Publish(engine.Command{Kind: engine.CommandEmitInterval, Interval: &interval})
}

// commit writes the current snapshot and only then hands staged commands to
// the outbox. A process killed between the two loses an emission instead of
// replaying an interval from a stale snapshot on the next run.
func (s *session) commit() error {
	defer s.staged.flush()

	if s.timer.Phase() == engine.PhaseIdle {
		if err := s.store.Clear(); err != nil {
			return fmt.Errorf("clear timer state: %w", err)
		}
		return nil
	}
	if err := s.store.Save(s.timer.Snapshot()); err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// stagedPublisher holds commands published by the timer until the session
// commits.
type stagedPublisher struct {
	mu     sync.Mutex
	staged []engine.Command
	next   engine.Publisher
}

func (p *stagedPublisher) Publish(cmd engine.Command) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.staged = append(p.staged, cmd)
}

func (p *stagedPublisher) flush() {
	p.mu.Lock()
	commands := p.staged
	p.staged = nil
	p.mu.Unlock()

	for _, cmd := range commands {
		p.next.Publish(cmd)
	}
}

func (a *App) withTimer(ctx context.Context, out, errOut io.Writer, fn func(*session) error) error {
	observer := a.observer(errOut)
	outbox := engine.NewOutbox(a.Backend, a.Backend,
		engine.WithOutboxObserver(observer),
		engine.WithCommandTimeout(a.EmitTimeout),
	)
	staged := &stagedPublisher{next: outbox}
	timer, err := engine.NewTimer(a.Timer,
		engine.WithClock(a.clock()),
		engine.WithPublisher(staged),
		engine.WithObserver(observer),
	)
	if err != nil {
		_ = outbox.Close(ctx)
		return err
	}

	a.restore(timer, errOut)
	s := &session{timer: timer, outbox: outbox, staged: staged, store: a.Store}
	if timer.Tick() {
		fmt.Fprintln(out, "An interval finished while you were away; it has been logged.")
		if err := s.commit(); err != nil {
			fmt.Fprintf(errOut, "warning: %v\n", err)
		}
	}

	runErr := fn(s)
	timer.Tick()
	saveErr := s.commit()

	if err := a.drain(ctx, outbox); err != nil {
		fmt.Fprintf(errOut, "warning: %d queued updates were not sent: %v\n", outbox.Pending(), err)
	}
	return errors.Join(runErr, saveErr)
}

func (a *App) restore(timer *engine.Timer, errOut io.Writer) {
	snapshot, ok, err := a.Store.Load()
	if err != nil {
		fmt.Fprintf(errOut, "warning: ignoring saved timer state: %v\n", err)
		return
	}
	if !ok {
		return
	}
	if err := timer.Restore(snapshot); err != nil {
		fmt.Fprintf(errOut, "warning: saved timer state was reset: %v\n", err)
	}
}

func (a *App) drain(ctx context.Context, outbox *engine.Outbox) error {
	timeout := a.EmitTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout*time.Duration(outbox.Pending()+1))
	defer cancel()
	return outbox.Close(ctx)
}
