// Package feedback turns a validation result into learner-facing feedback
// and the XP it earns.
package feedback

import (
	"math"

	"github.com/vytor/codetrail/internal/models"
)

const (
	// PartialThreshold is the lowest score reported as partial credit.
	PartialThreshold = 50
	// RevealAfterHints is how many hints must be used before an incorrect
	// submission reveals the correct answer.
	RevealAfterHints = 2
)

// Params carries the session and exercise inputs of Compose.
type Params struct {
	HintsUsed      int
	BaseXP         int
	PerfectScoreXP int
	// CorrectAnswer is disclosed only for incorrect submissions made after
	// RevealAfterHints hints.
	CorrectAnswer string
}

// Compose builds the feedback for result.
func Compose(result models.ValidationResult, p Params) models.ExerciseFeedback {
	kind := Classify(result)

	fb := models.ExerciseFeedback{
		Type:     kind,
		Message:  message(kind, p.HintsUsed),
		Details:  result.Feedback,
		EarnedXP: EarnedXP(p.BaseXP, p.PerfectScoreXP, result.Score, p.HintsUsed, kind == models.FeedbackSuccess),
		ShowHint: kind != models.FeedbackSuccess,
	}
	if kind == models.FeedbackIncorrect && p.HintsUsed >= RevealAfterHints {
		fb.CorrectAnswer = p.CorrectAnswer
	}
	return fb
}

// Classify maps a result onto success, partial or incorrect.
func Classify(result models.ValidationResult) models.FeedbackType {
	switch {
	case result.IsCorrect && result.Score == 100:
		return models.FeedbackSuccess
	case result.Score >= PartialThreshold:
		return models.FeedbackPartial
	default:
		return models.FeedbackIncorrect
	}
}

// EarnedXP is round(baseXP * score / 100), plus perfectXP for a successful
// submission made without hints.
func EarnedXP(baseXP, perfectXP, score, hintsUsed int, success bool) int {
	if baseXP < 0 {
		baseXP = 0
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	xp := int(math.Round(float64(baseXP) * float64(score) / 100))
	if success && hintsUsed == 0 && perfectXP > 0 {
		xp += perfectXP
	}
	return xp
}

func message(kind models.FeedbackType, hintsUsed int) string {
	switch kind {
	case models.FeedbackSuccess:
		if hintsUsed == 0 {
			return "Perfect! Solved without any hints."
		}
		return "Correct! Well done."
	case models.FeedbackPartial:
		return "Almost there. Some parts are still wrong."
	default:
		return "Not quite. Take a look at the next hint and try again."
	}
}
