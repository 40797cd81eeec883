package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Upsert(ctx context.Context, p models.ExerciseProgress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("upserting progress: user_id=%s, exercise_id=%s, attempts=%d", p.UserID, p.ExerciseID, p.AttemptsCount)

	// Writes may arrive out of order from the sync workers; a row built from
	// fewer attempts never replaces a newer one.
	_, err := r.db.ExecContext(ctx, `
INSERT INTO exercise_progress (user_id, exercise_id, attempts_count, best_score, completed, mastered_at, last_attempt_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, exercise_id) DO UPDATE SET
    attempts_count  = excluded.attempts_count,
    best_score      = MAX(exercise_progress.best_score, excluded.best_score),
    completed       = MAX(exercise_progress.completed, excluded.completed),
    mastered_at     = COALESCE(exercise_progress.mastered_at, excluded.mastered_at),
    last_attempt_at = excluded.last_attempt_at,
    updated_at      = CURRENT_TIMESTAMP
WHERE excluded.attempts_count >= exercise_progress.attempts_count
`, p.UserID, p.ExerciseID, p.AttemptsCount, p.BestScore, p.Completed, nullTime(p.MasteredAt), p.LastAttemptAt.UTC())
	if err != nil {
		log.Error("failed to upsert progress: %v", err)
	}
	return err
}

func (r *progressRepository) Get(ctx context.Context, userID, exerciseID string) (*models.ExerciseProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	row := r.db.QueryRowContext(ctx, `
SELECT user_id, exercise_id, attempts_count, best_score, completed, mastered_at, last_attempt_at
FROM exercise_progress
WHERE user_id = ? AND exercise_id = ?
`, userID, exerciseID)
	p, err := scanProgress(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("progress not found: user_id=%s, exercise_id=%s", userID, exerciseID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	return p, nil
}

func (r *progressRepository) ListByUser(ctx context.Context, userID string) ([]models.ExerciseProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, exercise_id, attempts_count, best_score, completed, mastered_at, last_attempt_at
FROM exercise_progress
WHERE user_id = ?
ORDER BY exercise_id
`, userID)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ExerciseProgress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(s rowScanner) (*models.ExerciseProgress, error) {
	var (
		p           models.ExerciseProgress
		masteredAt  sql.NullTime
		lastAttempt sql.NullTime
	)
	if err := s.Scan(&p.UserID, &p.ExerciseID, &p.AttemptsCount, &p.BestScore, &p.Completed, &masteredAt, &lastAttempt); err != nil {
		return nil, err
	}
	p.MasteredAt = timePtr(masteredAt)
	if lastAttempt.Valid {
		p.LastAttemptAt = lastAttempt.Time
	}
	return &p, nil
}
