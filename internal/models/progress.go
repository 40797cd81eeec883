package models

import "time"

// ExerciseAttempt is one append-only ledger entry per submission.
type ExerciseAttempt struct {
	ID               string           `json:"id"`
	UserID           string           `json:"user_id"`
	ExerciseID       string           `json:"exercise_id"`
	Answer           Answer           `json:"answer"`
	Result           ValidationResult `json:"result"`
	HintsUsed        int              `json:"hints_used"`
	EarnedXP         int              `json:"earned_xp"`
	TimeSpentSeconds int              `json:"time_spent_seconds"`
	Timestamp        time.Time        `json:"timestamp"`
}

// ExerciseProgress aggregates all attempts of one user on one exercise.
type ExerciseProgress struct {
	UserID        string     `json:"user_id"`
	ExerciseID    string     `json:"exercise_id"`
	AttemptsCount int        `json:"attempts_count"`
	BestScore     int        `json:"best_score"`
	Completed     bool       `json:"completed"`
	MasteredAt    *time.Time `json:"mastered_at,omitempty"`
	LastAttemptAt time.Time  `json:"last_attempt_at"`
}

// Statistics summarizes a user's ledger.
type Statistics struct {
	CompletedCount   int     `json:"completed_count"`
	TotalXP          int     `json:"total_xp"`
	MasteredCount    int     `json:"mastered_count"`
	AttemptsCount    int     `json:"attempts_count"`
	AverageScore     float64 `json:"average_score"`
	TimeSpentSeconds int     `json:"time_spent_seconds"`
}

// AttemptFilter narrows attempt listings.
type AttemptFilter struct {
	UserID     string
	ExerciseID string
	Correct    *bool
	Since      *time.Time
	Limit      int
	Offset     int
	OrderDir   string
}
