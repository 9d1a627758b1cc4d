package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogObserver_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogObserver(&buf, slog.LevelWarn)

	obs.Observe(context.Background(), Event{Name: "interval_emitted", Success: true})
	assert.Empty(t, buf.String())

	obs.Observe(context.Background(), Event{
		Name:   "interval_emitted",
		Err:    errors.New("connection refused"),
		Fields: map[string]any{"sequence_id": "seq-1"},
	})
	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "event=interval_emitted")
	assert.Contains(t, out, "sequence_id=seq-1")
	assert.Contains(t, out, `error="connection refused"`)
}

func TestLogObserver_NilWriterIsNoop(t *testing.T) {
	assert.Equal(t, NoopObserver{}, NewLogObserver(nil, slog.LevelInfo))
}
