package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vytor/codetrail/internal/logger"
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/repository"
)

type attemptRepository struct {
	db *sql.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sql.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Insert(ctx context.Context, a models.ExerciseAttempt) error {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("inserting attempt: id=%s, user_id=%s, exercise_id=%s", a.ID, a.UserID, a.ExerciseID)

	answer, err := json.Marshal(a.Answer)
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	result, err := json.Marshal(a.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO exercise_attempts (id, user_id, exercise_id, answer, result, is_correct, score, hints_used, earned_xp, time_spent_seconds, attempted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING
`, a.ID, a.UserID, a.ExerciseID, string(answer), string(result), a.Result.IsCorrect, a.Result.Score,
		a.HintsUsed, a.EarnedXP, a.TimeSpentSeconds, a.Timestamp.UTC())
	if err != nil {
		log.Error("failed to insert attempt: %v", err)
		return err
	}
	return nil
}

func (r *attemptRepository) ListByUser(ctx context.Context, filter models.AttemptFilter) ([]models.ExerciseAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: user_id=%s, exercise_id=%s", filter.UserID, filter.ExerciseID)

	query := attemptWhere(sqlBuilder.Select(
		"id", "user_id", "exercise_id", "answer", "result", "hints_used", "earned_xp", "time_spent_seconds", "attempted_at",
	).From("exercise_attempts"), filter)

	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy("attempted_at "+orderDir, "rowid "+orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	defer rows.Close()

	var attempts []models.ExerciseAttempt
	for rows.Next() {
		var (
			a              models.ExerciseAttempt
			answer, result string
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.ExerciseID, &answer, &result, &a.HintsUsed, &a.EarnedXP, &a.TimeSpentSeconds, &a.Timestamp); err != nil {
			log.Error("failed to scan attempt row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(answer), &a.Answer); err != nil {
			return nil, fmt.Errorf("decode answer of attempt %s: %w", a.ID, err)
		}
		if err := json.Unmarshal([]byte(result), &a.Result); err != nil {
			return nil, fmt.Errorf("decode result of attempt %s: %w", a.ID, err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, nil
}

func (r *attemptRepository) CountByUser(ctx context.Context, filter models.AttemptFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")

	stmt, args, err := attemptWhere(sqlBuilder.Select("COUNT(*)").From("exercise_attempts"), filter).ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		log.Error("failed to count attempts: %v", err)
		return 0, err
	}
	return count, nil
}
