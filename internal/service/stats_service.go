package service

import (
	"context"
	"log/slog"
	"time"

	apperrors "focustrack/internal/errors"
	"focustrack/internal/repository"
	"focustrack/internal/streak"
)

// StatsService answers streak, today and pace questions from the session
// log. Calendar days are cut in one reference zone for every user.
type StatsService struct {
	sessions *repository.SessionRepository
	pauses   *repository.PauseRepository
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewStatsService(
	sessions *repository.SessionRepository,
	pauses *repository.PauseRepository,
	loc *time.Location,
	logger *slog.Logger,
) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsService{sessions: sessions, pauses: pauses, loc: loc, now: time.Now, logger: logger}
}

type userHistory struct {
	repo   *repository.SessionRepository
	userID string
}

func (h userHistory) ListSessions(ctx context.Context, since time.Time) ([]streak.Record, error) {
	sessions, err := h.repo.ListByUser(ctx, h.userID, since, 0)
	if err != nil {
		return nil, err
	}
	records := make([]streak.Record, 0, len(sessions))
	for _, s := range sessions {
		records = append(records, streak.Record{StartTime: s.StartTime, DurationSeconds: s.DurationSeconds})
	}
	return records, nil
}

type userPauses struct {
	repo   *repository.PauseRepository
	userID string
}

func (p userPauses) ListPausePeriods(ctx context.Context) ([]streak.PausePeriod, error) {
	periods, err := p.repo.ListByUser(ctx, p.userID)
	if err != nil {
		return nil, err
	}
	out := make([]streak.PausePeriod, 0, len(periods))
	for _, period := range periods {
		out = append(out, streak.PausePeriod{Start: streak.Date(period.StartDate), End: streak.Date(period.EndDate)})
	}
	return out, nil
}

func (s *StatsService) tracker(userID string) *streak.Tracker {
	return streak.NewTracker(
		userHistory{repo: s.sessions, userID: userID},
		userPauses{repo: s.pauses, userID: userID},
		streak.WithLocation(s.loc),
		streak.WithNow(s.now),
	)
}

// resolveDay parses an optional YYYY-MM-DD, defaulting to today.
func (s *StatsService) resolveDay(raw string) (streak.Date, *apperrors.APIError) {
	if raw == "" {
		return streak.DateOf(s.now(), s.loc), nil
	}
	day, err := streak.ParseDate(raw)
	if err != nil {
		return "", apperrors.BadRequest("invalid_date", "dates must be YYYY-MM-DD")
	}
	return day, nil
}

func (s *StatsService) Stats(ctx context.Context, userID, rawDay string) (*streak.Stats, *apperrors.APIError) {
	day, apiErr := s.resolveDay(rawDay)
	if apiErr != nil {
		return nil, apiErr
	}
	stats, err := s.tracker(userID).StatsOn(ctx, day)
	if err != nil {
		s.logger.ErrorContext(ctx, "compute stats", "user_id", userID, "error", err)
		return nil, apperrors.Internal("failed to compute stats")
	}
	return &stats, nil
}

type PaceInput struct {
	GoalID        string
	TargetSeconds int
	StartDate     string
	Deadline      string
	Today         string
}

func (s *StatsService) Pace(ctx context.Context, userID string, input PaceInput) (*streak.Pace, *apperrors.APIError) {
	if input.GoalID == "" {
		return nil, apperrors.BadRequest("invalid_goal", "goalId is required")
	}
	if input.TargetSeconds <= 0 {
		return nil, apperrors.BadRequest("invalid_target", "targetSeconds must be positive")
	}
	start, err := streak.ParseDate(input.StartDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_date", "startDate must be YYYY-MM-DD")
	}
	deadline, err := streak.ParseDate(input.Deadline)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_date", "deadline must be YYYY-MM-DD")
	}
	if deadline < start {
		return nil, apperrors.BadRequest("invalid_date_range", "startDate must not be after deadline")
	}
	today, apiErr := s.resolveDay(input.Today)
	if apiErr != nil {
		return nil, apiErr
	}

	logged, err := s.sessions.SumGoalSeconds(ctx, userID, input.GoalID)
	if err != nil {
		s.logger.ErrorContext(ctx, "sum goal seconds", "user_id", userID, "goal_id", input.GoalID, "error", err)
		return nil, apperrors.Internal("failed to compute pace")
	}

	pace := streak.GoalPace(input.TargetSeconds, logged, start, deadline, today)
	return &pace, nil
}
