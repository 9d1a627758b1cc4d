package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focustrack/internal/model"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, start_time, end_time, duration_seconds, task_id, goal_id,
		        mode, pomodoro_cycle, sequence_id, vibe, note, created_at`

func (r *SessionRepository) Create(ctx context.Context, session *model.FocusSession) error {
	var cycle interface{}
	if session.PomodoroCycle != nil {
		cycle = string(*session.PomodoroCycle)
	}
	var vibe interface{}
	if session.Vibe != nil {
		vibe = string(*session.Vibe)
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO focus_sessions (
			id, user_id, start_time, end_time, duration_seconds, task_id, goal_id,
			mode, pomodoro_cycle, sequence_id, vibe, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		formatTime(session.StartTime),
		formatTime(session.EndTime),
		session.DurationSeconds,
		session.TaskID,
		session.GoalID,
		session.Mode,
		cycle,
		nullableString(session.SequenceID),
		vibe,
		nullableString(session.Note),
		formatTime(session.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, userID, id string) (*model.FocusSession, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+sessionColumns+`
		 FROM focus_sessions
		 WHERE user_id = ? AND id = ?`,
		userID,
		id,
	)
	return scanSession(row)
}

// ListByUser returns the user's sessions newest first. A zero since means no
// lower bound; limit <= 0 means no limit.
func (r *SessionRepository) ListByUser(ctx context.Context, userID string, since time.Time, limit int) ([]model.FocusSession, error) {
	query := `SELECT ` + sessionColumns + `
		 FROM focus_sessions
		 WHERE user_id = ?`
	args := []interface{}{userID}
	if !since.IsZero() {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(since))
	}
	query += ` ORDER BY start_time DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.FocusSession, 0)
	for rows.Next() {
		session, scanErr := scanSession(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// SumGoalSeconds totals the logged duration against one goal.
func (r *SessionRepository) SumGoalSeconds(ctx context.Context, userID, goalID string) (int, error) {
	var total sql.NullInt64
	if err := r.db.QueryRowContext(
		ctx,
		`SELECT SUM(duration_seconds) FROM focus_sessions WHERE user_id = ? AND goal_id = ?`,
		userID,
		goalID,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum goal seconds: %w", err)
	}
	return int(total.Int64), nil
}

// DeleteBySequence removes every session logged under sequenceID and reports
// how many went.
func (r *SessionRepository) DeleteBySequence(ctx context.Context, userID, sequenceID string) (int, error) {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM focus_sessions WHERE user_id = ? AND sequence_id = ?`,
		userID,
		sequenceID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete sequence: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete sequence rows: %w", err)
	}
	return int(affected), nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(s scanner) (*model.FocusSession, error) {
	session := model.FocusSession{}
	var startTime string
	var endTime string
	var cycle sql.NullString
	var sequenceID sql.NullString
	var vibe sql.NullString
	var note sql.NullString
	var createdAt string
	err := s.Scan(
		&session.ID,
		&session.UserID,
		&startTime,
		&endTime,
		&session.DurationSeconds,
		&session.TaskID,
		&session.GoalID,
		&session.Mode,
		&cycle,
		&sequenceID,
		&vibe,
		&note,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	if cycle.Valid {
		value := model.Cycle(cycle.String)
		session.PomodoroCycle = &value
	}
	if sequenceID.Valid {
		value := sequenceID.String
		session.SequenceID = &value
	}
	if vibe.Valid {
		value := model.Vibe(vibe.String)
		session.Vibe = &value
	}
	if note.Valid {
		value := note.String
		session.Note = &value
	}

	if session.StartTime, err = parseTime(startTime); err != nil {
		return nil, fmt.Errorf("parse session start_time: %w", err)
	}
	if session.EndTime, err = parseTime(endTime); err != nil {
		return nil, fmt.Errorf("parse session end_time: %w", err)
	}
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse session created_at: %w", err)
	}

	return &session, nil
}
