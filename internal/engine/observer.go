package engine

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Event describes something the engine did that an operator may want to see:
// a completed interval, a failed emission, a rejected snapshot.
type Event struct {
	Name     string
	Success  bool
	Err      error
	Duration time.Duration
	Fields   map[string]any
	At       time.Time
}

// Observer receives engine events. Implementations must not block.
type Observer interface {
	Observe(ctx context.Context, event Event)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) Observe(context.Context, Event) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes engine events at or above level to w as structured
// text lines. Failures log at warn, everything else at info.
func NewLogObserver(w io.Writer, level slog.Leveler) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return NewSlogObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewSlogObserver writes engine events through an existing logger.
func NewSlogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) Observe(ctx context.Context, event Event) {
	attrs := make([]any, 0, 6+len(event.Fields)*2)
	attrs = append(attrs,
		"event", event.Name,
		"success", event.Success,
	)
	if event.Duration > 0 {
		attrs = append(attrs, "duration_ms", event.Duration.Milliseconds())
	}
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "focus_engine", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "focus_engine", attrs...)
}
