package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"focustrack/internal/model"
)

// Interval is one finished stretch of time handed to the session log.
type Interval struct {
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	DurationSeconds int         `json:"durationSeconds"`
	TaskID          string      `json:"taskId"`
	GoalID          string      `json:"goalId"`
	Mode            model.Mode  `json:"mode"`
	PomodoroCycle   model.Cycle `json:"pomodoroCycle,omitempty"`
	SequenceID      string      `json:"sequenceId,omitempty"`
	Vibe            model.Vibe  `json:"vibe,omitempty"`
	Note            string      `json:"note,omitempty"`
}

type CommandKind string

const (
	CommandEmitInterval   CommandKind = "emit_interval"
	CommandDeleteSequence CommandKind = "delete_sequence"
)

// Command is an outbound request from the timer to its collaborators.
type Command struct {
	Kind       CommandKind
	Interval   *Interval
	SequenceID string
}

// Publisher accepts commands without blocking the caller.
type Publisher interface {
	Publish(cmd Command)
}

type discardPublisher struct{}

func (discardPublisher) Publish(Command) {}

// SessionEmitter persists a finished interval and returns the created id.
type SessionEmitter interface {
	EmitSession(ctx context.Context, interval Interval) (string, error)
}

// SequenceDeleter removes every interval logged under a sequence.
type SequenceDeleter interface {
	DeleteSequence(ctx context.Context, sequenceID string) (int, error)
}

var ErrOutboxClosed = errors.New("outbox closed")

const defaultCommandTimeout = 10 * time.Second

// Outbox is a one-way FIFO queue between the timer and the network. A single
// worker delivers commands in publish order, so a sequence deletion always
// runs after the intervals of that sequence published before it. Failures
// are reported to the observer and never retried here.
type Outbox struct {
	emitter  SessionEmitter
	deleter  SequenceDeleter
	observer Observer
	timeout  time.Duration

	mu      sync.Mutex
	cond    *sync.Cond
	pending []Command
	closed  bool
	done    chan struct{}
}

type OutboxOption func(*Outbox)

func WithOutboxObserver(observer Observer) OutboxOption {
	return func(o *Outbox) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithCommandTimeout bounds each collaborator call.
func WithCommandTimeout(timeout time.Duration) OutboxOption {
	return func(o *Outbox) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func NewOutbox(emitter SessionEmitter, deleter SequenceDeleter, opts ...OutboxOption) *Outbox {
	o := &Outbox{
		emitter:  emitter,
		deleter:  deleter,
		observer: NoopObserver{},
		timeout:  defaultCommandTimeout,
		done:     make(chan struct{}),
	}
	o.cond = sync.NewCond(&o.mu)
	for _, opt := range opts {
		opt(o)
	}
	go o.run()
	return o
}

func (o *Outbox) Publish(cmd Command) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		o.observer.Observe(context.Background(), Event{
			Name: string(cmd.Kind),
			Err:  ErrOutboxClosed,
			At:   time.Now(),
		})
		return
	}
	o.pending = append(o.pending, cmd)
	o.mu.Unlock()
	o.cond.Signal()
}

// Pending reports how many commands are waiting for delivery.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Close stops accepting commands and waits until queued ones are delivered
// or ctx expires.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	o.cond.Broadcast()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Outbox) run() {
	defer close(o.done)
	for {
		cmd, ok := o.next()
		if !ok {
			return
		}
		o.deliver(cmd)
	}
}

func (o *Outbox) next() (Command, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for len(o.pending) == 0 {
		if o.closed {
			return Command{}, false
		}
		o.cond.Wait()
	}
	cmd := o.pending[0]
	o.pending = o.pending[1:]
	return cmd, true
}

func (o *Outbox) deliver(cmd Command) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	started := time.Now()
	event := Event{Name: string(cmd.Kind), At: started, Fields: map[string]any{}}

	switch cmd.Kind {
	case CommandEmitInterval:
		if cmd.Interval == nil || o.emitter == nil {
			return
		}
		event.Fields["sequence_id"] = cmd.Interval.SequenceID
		event.Fields["cycle"] = string(cmd.Interval.PomodoroCycle)
		event.Fields["duration_seconds"] = cmd.Interval.DurationSeconds
		id, err := o.emitter.EmitSession(ctx, *cmd.Interval)
		event.Err = err
		if err == nil {
			event.Fields["session_id"] = id
		}
	case CommandDeleteSequence:
		if cmd.SequenceID == "" || o.deleter == nil {
			return
		}
		event.Fields["sequence_id"] = cmd.SequenceID
		deleted, err := o.deleter.DeleteSequence(ctx, cmd.SequenceID)
		event.Err = err
		if err == nil {
			event.Fields["deleted"] = deleted
		}
	default:
		return
	}

	event.Success = event.Err == nil
	event.Duration = time.Since(started)
	o.observer.Observe(ctx, event)
}
