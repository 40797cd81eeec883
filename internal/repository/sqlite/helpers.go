package sqlite

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/codetrail/internal/models"
)

// Helper functions shared across repository implementations

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const defaultListLimit = 200

// attemptWhere applies the filter's predicates to query.
func attemptWhere(query squirrel.SelectBuilder, filter models.AttemptFilter) squirrel.SelectBuilder {
	query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	if filter.ExerciseID != "" {
		query = query.Where(squirrel.Eq{"exercise_id": filter.ExerciseID})
	}
	if filter.Correct != nil {
		query = query.Where(squirrel.Eq{"is_correct": *filter.Correct})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"attempted_at": filter.Since.UTC()})
	}
	return query
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
