package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/repository"
)

type streakRepository struct {
	db *sql.DB
}

// NewStreakRepository creates a new StreakRepository implementation
func NewStreakRepository(db *sql.DB) repository.StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) Upsert(ctx context.Context, s models.ChallengeStreak) error {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")
	log.Debug("upserting streak: user_id=%s, current=%d, total=%d", s.UserID, s.CurrentStreak, s.TotalChallengesCompleted)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO challenge_streaks (user_id, current_streak, longest_streak, last_completed_date, total_challenges_completed, updated_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id) DO UPDATE SET
    current_streak             = excluded.current_streak,
    longest_streak             = MAX(challenge_streaks.longest_streak, excluded.longest_streak),
    last_completed_date        = excluded.last_completed_date,
    total_challenges_completed = excluded.total_challenges_completed,
    updated_at                 = CURRENT_TIMESTAMP
WHERE excluded.total_challenges_completed >= challenge_streaks.total_challenges_completed
`, s.UserID, s.CurrentStreak, s.LongestStreak, s.LastCompletedDate, s.TotalChallengesCompleted)
	if err != nil {
		log.Error("failed to upsert streak: %v", err)
	}
	return err
}

func (r *streakRepository) Get(ctx context.Context, userID string) (*models.ChallengeStreak, error) {
	log := logger.FromContext(ctx).WithPrefix("streak_repo")

	var s models.ChallengeStreak
	err := r.db.QueryRowContext(ctx, `
SELECT user_id, current_streak, longest_streak, last_completed_date, total_challenges_completed
FROM challenge_streaks
WHERE user_id = ?
`, userID).Scan(&s.UserID, &s.CurrentStreak, &s.LongestStreak, &s.LastCompletedDate, &s.TotalChallengesCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("streak not found: user_id=%s", userID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get streak: %v", err)
		return nil, err
	}
	return &s, nil
}
