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
	"focustrack/internal/streak"
)

type PauseService struct {
	repo   *repository.PauseRepository
	logger *slog.Logger
}

func NewPauseService(repo *repository.PauseRepository, logger *slog.Logger) *PauseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PauseService{repo: repo, logger: logger}
}

func (s *PauseService) Create(ctx context.Context, userID, startDate, endDate, reason string) (*model.PausePeriod, *apperrors.APIError) {
	start, err := streak.ParseDate(startDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_date", "startDate must be YYYY-MM-DD")
	}
	end, err := streak.ParseDate(endDate)
	if err != nil {
		return nil, apperrors.BadRequest("invalid_date", "endDate must be YYYY-MM-DD")
	}
	if end < start {
		return nil, apperrors.BadRequest("invalid_date_range", "startDate must not be after endDate")
	}

	period := &model.PausePeriod{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartDate: start.String(),
		EndDate:   end.String(),
		Reason:    strings.TrimSpace(reason),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, period); err != nil {
		s.logger.ErrorContext(ctx, "create pause period", "user_id", userID, "error", err)
		return nil, apperrors.Internal("failed to create pause period")
	}
	return period, nil
}

func (s *PauseService) List(ctx context.Context, userID string) ([]model.PausePeriod, *apperrors.APIError) {
	periods, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list pause periods", "user_id", userID, "error", err)
		return nil, apperrors.Internal("failed to list pause periods")
	}
	return periods, nil
}

func (s *PauseService) Delete(ctx context.Context, userID, id string) *apperrors.APIError {
	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("pause_period_not_found", "pause period not found")
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "delete pause period", "user_id", userID, "error", err)
		return apperrors.Internal("failed to delete pause period")
	}
	return nil
}
