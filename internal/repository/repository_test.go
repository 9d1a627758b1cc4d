package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focustrack/internal/model"
	"focustrack/internal/repository"
	"focustrack/internal/testutil"
)

func createUser(t *testing.T, repo *repository.UserRepository, email string) model.User {
	t.Helper()
	now := time.Now().UTC()
	user := model.User{ID: uuid.NewString(), Email: email, PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(context.Background(), &user))
	return user
}

func session(userID string, start time.Time, seconds int, sequenceID string) *model.FocusSession {
	s := &model.FocusSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		StartTime:       start,
		EndTime:         start.Add(time.Duration(seconds) * time.Second),
		DurationSeconds: seconds,
		TaskID:          "task-1",
		GoalID:          "goal-1",
		Mode:            model.ModeStopwatch,
		CreatedAt:       start,
	}
	if sequenceID != "" {
		cycle := model.CycleWork
		s.Mode = model.ModePomodoro
		s.PomodoroCycle = &cycle
		s.SequenceID = &sequenceID
	}
	return s
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewTestDB(t))

	user := createUser(t, repo, "a@example.com")

	byEmail, err := repo.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", byID.Email)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dup := user
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, repo.Create(ctx, &dup), repository.ErrDuplicate)
}

func TestSessionRepository_CreateListDelete(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	users := repository.NewUserRepository(database)
	repo := repository.NewSessionRepository(database)

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")

	base := time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC)
	vibe := model.VibeFlow
	note := "deep work"
	first := session(owner.ID, base, 1500, "seq-1")
	first.Vibe = &vibe
	first.Note = &note
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, session(owner.ID, base.Add(30*time.Minute), 300, "seq-1")))
	require.NoError(t, repo.Create(ctx, session(owner.ID, base.Add(-24*time.Hour), 600, "")))
	require.NoError(t, repo.Create(ctx, session(other.ID, base, 1500, "seq-1")))

	got, err := repo.GetByID(ctx, owner.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, got.StartTime.Equal(first.StartTime))
	require.NotNil(t, got.Vibe)
	assert.Equal(t, model.VibeFlow, *got.Vibe)
	require.NotNil(t, got.SequenceID)
	assert.Equal(t, "seq-1", *got.SequenceID)
	assert.Equal(t, "deep work", *got.Note)

	_, err = repo.GetByID(ctx, other.ID, first.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repo.ListByUser(ctx, owner.ID, time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartTime.After(all[1].StartTime), "newest first")
	assert.Nil(t, all[2].PomodoroCycle)

	recent, err := repo.ListByUser(ctx, owner.ID, base, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	limited, err := repo.ListByUser(ctx, owner.ID, time.Time{}, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	total, err := repo.SumGoalSeconds(ctx, owner.ID, "goal-1")
	require.NoError(t, err)
	assert.Equal(t, 2400, total)

	deleted, err := repo.DeleteBySequence(ctx, owner.ID, "seq-1")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	deleted, err = repo.DeleteBySequence(ctx, owner.ID, "seq-1")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	otherSessions, err := repo.ListByUser(ctx, other.ID, time.Time{}, 0)
	require.NoError(t, err)
	assert.Len(t, otherSessions, 1, "other users' sequences are untouched")
}

func TestPauseRepository(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	owner := createUser(t, repository.NewUserRepository(database), "p@example.com")
	repo := repository.NewPauseRepository(database)

	later := model.PausePeriod{ID: uuid.NewString(), UserID: owner.ID, StartDate: "2026-06-01", EndDate: "2026-06-07", Reason: "holiday", CreatedAt: time.Now()}
	earlier := model.PausePeriod{ID: uuid.NewString(), UserID: owner.ID, StartDate: "2026-03-01", EndDate: "2026-03-01", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &later))
	require.NoError(t, repo.Create(ctx, &earlier))

	inverted := model.PausePeriod{ID: uuid.NewString(), UserID: owner.ID, StartDate: "2026-06-07", EndDate: "2026-06-01", CreatedAt: time.Now()}
	assert.Error(t, repo.Create(ctx, &inverted))

	periods, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, "2026-03-01", periods[0].StartDate)
	assert.Equal(t, "holiday", periods[1].Reason)

	require.NoError(t, repo.Delete(ctx, owner.ID, earlier.ID))
	assert.ErrorIs(t, repo.Delete(ctx, owner.ID, earlier.ID), repository.ErrNotFound)
}
