package jobs

import (
	"context"

	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/repository"
)

// RepositorySink writes records to the sqlite repositories.
type RepositorySink struct {
	Attempts repository.AttemptRepository
	Progress repository.ProgressRepository
	Streaks  repository.StreakRepository
}

func (s *RepositorySink) SaveAttempt(ctx context.Context, attempt models.ExerciseAttempt) error {
	return s.Attempts.Insert(ctx, attempt)
}

func (s *RepositorySink) SaveProgress(ctx context.Context, progress models.ExerciseProgress) error {
	return s.Progress.Upsert(ctx, progress)
}

func (s *RepositorySink) SaveStreak(ctx context.Context, streak models.ChallengeStreak) error {
	return s.Streaks.Upsert(ctx, streak)
}
