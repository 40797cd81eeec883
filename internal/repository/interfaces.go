package repository

import (
	"context"

	"github.com/vytor/codetrail/internal/models"
)

// AttemptRepository stores the append-only attempt log.
type AttemptRepository interface {
	// Insert stores attempt. Re-inserting an attempt id is ignored.
	Insert(ctx context.Context, attempt models.ExerciseAttempt) error
	ListByUser(ctx context.Context, filter models.AttemptFilter) ([]models.ExerciseAttempt, error)
	CountByUser(ctx context.Context, filter models.AttemptFilter) (int, error)
}

// ProgressRepository stores per-exercise aggregates.
type ProgressRepository interface {
	// Upsert keeps the stored row when it already reflects more attempts.
	Upsert(ctx context.Context, progress models.ExerciseProgress) error
	// Get returns nil without an error when the user never attempted the exercise.
	Get(ctx context.Context, userID, exerciseID string) (*models.ExerciseProgress, error)
	ListByUser(ctx context.Context, userID string) ([]models.ExerciseProgress, error)
}

// StreakRepository stores one challenge streak per user.
type StreakRepository interface {
	// Upsert keeps the stored row when it already counts more completions.
	Upsert(ctx context.Context, streak models.ChallengeStreak) error
	// Get returns nil without an error for users with no completions.
	Get(ctx context.Context, userID string) (*models.ChallengeStreak, error)
}
