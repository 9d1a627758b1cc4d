package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"focustrack/internal/model"
)

type PauseRepository struct {
	db *sql.DB
}

func NewPauseRepository(db *sql.DB) *PauseRepository {
	return &PauseRepository{db: db}
}

func (r *PauseRepository) Create(ctx context.Context, period *model.PausePeriod) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO pause_periods (id, user_id, start_date, end_date, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		period.ID,
		period.UserID,
		period.StartDate,
		period.EndDate,
		period.Reason,
		formatTime(period.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create pause period: %w", err)
	}
	return nil
}

func (r *PauseRepository) ListByUser(ctx context.Context, userID string) ([]model.PausePeriod, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, start_date, end_date, reason, created_at
		 FROM pause_periods
		 WHERE user_id = ?
		 ORDER BY start_date ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pause periods: %w", err)
	}
	defer rows.Close()

	periods := make([]model.PausePeriod, 0)
	for rows.Next() {
		period, scanErr := scanPausePeriod(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		periods = append(periods, *period)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pause periods: %w", err)
	}
	return periods, nil
}

func (r *PauseRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM pause_periods WHERE user_id = ? AND id = ?`,
		userID,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete pause period: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete pause period rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPausePeriod(s scanner) (*model.PausePeriod, error) {
	var period model.PausePeriod
	var createdAt string
	if err := s.Scan(
		&period.ID,
		&period.UserID,
		&period.StartDate,
		&period.EndDate,
		&period.Reason,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan pause period: %w", err)
	}

	parsed, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse pause period created_at: %w", err)
	}
	period.CreatedAt = parsed
	return &period, nil
}
