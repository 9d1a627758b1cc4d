package streak

import (
	"context"
	"fmt"
	"time"
)

// HistorySource returns logged sessions that started at or after since.
type HistorySource interface {
	ListSessions(ctx context.Context, since time.Time) ([]Record, error)
}

// PauseSource returns the user's declared pause periods.
type PauseSource interface {
	ListPausePeriods(ctx context.Context) ([]PausePeriod, error)
}

// Stats is what badges and prompts read.
type Stats struct {
	Today             Date   `json:"today"`
	Streak            Result `json:"streak"`
	TodayFocusSeconds int    `json:"todayFocusSeconds"`
}

// Tracker feeds collaborator data into the pure calculators.
type Tracker struct {
	history HistorySource
	pauses  PauseSource
	loc     *time.Location
	now     func() time.Time
}

type TrackerOption func(*Tracker)

// WithLocation sets the single reference zone used to cut days.
func WithLocation(loc *time.Location) TrackerOption {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func WithNow(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func NewTracker(history HistorySource, pauses PauseSource, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		history: history,
		pauses:  pauses,
		loc:     time.Local,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Today is the current calendar day in the tracker's zone.
func (t *Tracker) Today() Date {
	return DateOf(t.now(), t.loc)
}

// Stats computes the streak and today's focus total as of the current day.
func (t *Tracker) Stats(ctx context.Context) (Stats, error) {
	return t.StatsOn(ctx, t.Today())
}

// StatsOn computes stats as if today were day.
func (t *Tracker) StatsOn(ctx context.Context, day Date) (Stats, error) {
	records, err := t.history.ListSessions(ctx, time.Time{})
	if err != nil {
		return Stats{}, fmt.Errorf("load session history: %w", err)
	}

	var pauses []PausePeriod
	if t.pauses != nil {
		pauses, err = t.pauses.ListPausePeriods(ctx)
		if err != nil {
			return Stats{}, fmt.Errorf("load pause periods: %w", err)
		}
	}

	return Stats{
		Today:             day,
		Streak:            Compute(Dates(records, t.loc), pauses, day),
		TodayFocusSeconds: TodayFocusSeconds(records, day, t.loc),
	}, nil
}
