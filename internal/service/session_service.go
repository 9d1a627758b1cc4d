package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "focustrack/internal/errors"
	"focustrack/internal/model"
	"focustrack/internal/repository"
)

const maxHistoryLimit = 1000

// SessionService is the server side of session emission, history and
// sequence deletion. Durations are computed by the client's engine and
// trusted here; only their shape is checked.
type SessionService struct {
	repo   *repository.SessionRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewSessionService(repo *repository.SessionRepository, logger *slog.Logger) *SessionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{repo: repo, logger: logger, now: time.Now}
}

type CreateSessionInput struct {
	StartTime       time.Time
	EndTime         time.Time
	DurationSeconds int
	TaskID          string
	GoalID          string
	Mode            string
	PomodoroCycle   string
	SequenceID      string
	Vibe            string
	Note            string
}

func (s *SessionService) Create(ctx context.Context, userID string, input CreateSessionInput) (*model.FocusSession, *apperrors.APIError) {
	session, apiErr := s.buildSession(userID, input)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := s.repo.Create(ctx, session); err != nil {
		s.logger.ErrorContext(ctx, "create focus session", "user_id", userID, "error", err)
		return nil, apperrors.Internal("failed to create focus session")
	}
	return session, nil
}

func (s *SessionService) buildSession(userID string, input CreateSessionInput) (*model.FocusSession, *apperrors.APIError) {
	mode := model.Mode(input.Mode)
	if !mode.Valid() {
		return nil, apperrors.BadRequest("invalid_mode", "mode must be stopwatch or pomodoro")
	}
	if strings.TrimSpace(input.TaskID) == "" {
		return nil, apperrors.BadRequest("invalid_task", "taskId is required")
	}
	if input.DurationSeconds < 0 {
		return nil, apperrors.BadRequest("invalid_duration", "durationSeconds must not be negative")
	}
	if input.StartTime.IsZero() || input.EndTime.IsZero() {
		return nil, apperrors.BadRequest("invalid_time_range", "startTime and endTime are required")
	}
	if input.EndTime.Before(input.StartTime) {
		return nil, apperrors.BadRequest("invalid_time_range", "startTime must not be after endTime")
	}

	session := &model.FocusSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		StartTime:       input.StartTime.UTC(),
		EndTime:         input.EndTime.UTC(),
		DurationSeconds: input.DurationSeconds,
		TaskID:          input.TaskID,
		GoalID:          input.GoalID,
		Mode:            mode,
		CreatedAt:       s.now().UTC(),
	}

	if input.PomodoroCycle != "" {
		cycle := model.Cycle(input.PomodoroCycle)
		if !cycle.Valid() {
			return nil, apperrors.BadRequest("invalid_cycle", "pomodoroCycle must be work, short_break or long_break")
		}
		session.PomodoroCycle = &cycle
	}
	if mode == model.ModePomodoro && session.PomodoroCycle == nil {
		return nil, apperrors.BadRequest("invalid_cycle", "pomodoroCycle is required in pomodoro mode")
	}
	if mode == model.ModeStopwatch && session.PomodoroCycle != nil {
		return nil, apperrors.BadRequest("invalid_cycle", "stopwatch sessions have no pomodoroCycle")
	}

	if input.SequenceID != "" {
		sequenceID := input.SequenceID
		session.SequenceID = &sequenceID
	}
	if input.Vibe != "" {
		vibe := model.Vibe(input.Vibe)
		if !vibe.Valid() {
			return nil, apperrors.BadRequest("invalid_vibe", "vibe must be flow, neutral or struggle")
		}
		session.Vibe = &vibe
	}
	if input.Note != "" {
		note := input.Note
		session.Note = &note
	}
	return session, nil
}

// List returns the user's sessions newest first, started at or after since.
// A non-positive limit returns everything.
func (s *SessionService) List(ctx context.Context, userID string, since time.Time, limit int) ([]model.FocusSession, *apperrors.APIError) {
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	sessions, err := s.repo.ListByUser(ctx, userID, since, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "list focus sessions", "user_id", userID, "error", err)
		return nil, apperrors.Internal("failed to list focus sessions")
	}
	return sessions, nil
}

// Get returns one of the user's records. Another user's id reads as missing.
func (s *SessionService) Get(ctx context.Context, userID, id string) (*model.FocusSession, *apperrors.APIError) {
	session, err := s.repo.GetByID(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("session_not_found", "focus session not found")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "get focus session", "user_id", userID, "session_id", id, "error", err)
		return nil, apperrors.Internal("failed to load focus session")
	}
	return session, nil
}

// DeleteSequence removes every record in a Pomodoro sequence. Deleting a
// sequence with nothing logged is not an error.
func (s *SessionService) DeleteSequence(ctx context.Context, userID, sequenceID string) (int, *apperrors.APIError) {
	if strings.TrimSpace(sequenceID) == "" {
		return 0, apperrors.BadRequest("invalid_sequence", "sequenceId is required")
	}

	deleted, err := s.repo.DeleteBySequence(ctx, userID, sequenceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "delete focus sequence", "user_id", userID, "sequence_id", sequenceID, "error", err)
		return 0, apperrors.Internal("failed to delete sequence")
	}
	s.logger.InfoContext(ctx, "focus sequence deleted", "user_id", userID, "sequence_id", sequenceID, "deleted", deleted)
	return deleted, nil
}
