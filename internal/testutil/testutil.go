package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/codetrail/internal/db"
	"github.com/vytor/codetrail/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Attempt builds a graded attempt for tests.
func Attempt(id, userID, exerciseID string, score int, hintsUsed int, at time.Time) models.ExerciseAttempt {
	return models.ExerciseAttempt{
		ID:         id,
		UserID:     userID,
		ExerciseID: exerciseID,
		Answer:     models.Answer{Prediction: "42"},
		Result: models.ValidationResult{
			IsCorrect: score == 100,
			Score:     score,
			Feedback:  "graded",
		},
		HintsUsed:        hintsUsed,
		EarnedXP:         score / 10,
		TimeSpentSeconds: 30,
		Timestamp:        at,
	}
}
