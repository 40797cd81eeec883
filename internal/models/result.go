package models

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationError points at one problem in a submission.
type ValidationError struct {
	Location string   `json:"location"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Hint     string   `json:"hint,omitempty"`
}

// ValidationResult is the immutable outcome of grading one submission.
type ValidationResult struct {
	IsCorrect bool              `json:"is_correct"`
	Score     int               `json:"score"`
	Feedback  string            `json:"feedback"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

type FeedbackType string

const (
	FeedbackSuccess   FeedbackType = "success"
	FeedbackPartial   FeedbackType = "partial"
	FeedbackIncorrect FeedbackType = "incorrect"
)

// ExerciseFeedback is what the learner sees after a submission.
type ExerciseFeedback struct {
	Type          FeedbackType `json:"type"`
	Message       string       `json:"message"`
	Details       string       `json:"details,omitempty"`
	EarnedXP      int          `json:"earned_xp"`
	ShowHint      bool         `json:"show_hint,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
}
