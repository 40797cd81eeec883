// Package validation grades learner answers. Every exported function is a
// pure function of its inputs; malformed content never panics out of
// Validate and is reported as a zero-score result instead.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/vytor/codetrail/internal/models"
)

// ErrMalformed reports an exercise definition missing required fields.
var ErrMalformed = errors.New("malformed exercise")

const maxPartialScore = 99

// Validate grades answer against ex.
func Validate(ex models.Exercise, answer models.Answer) (result models.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = malformed(fmt.Errorf("%w: %v", ErrMalformed, r))
		}
	}()

	if err := CheckExercise(ex); err != nil {
		return malformed(err)
	}

	switch ex.Type {
	case models.ExerciseCodeCompletion:
		return validateCodeCompletion(*ex.CodeCompletion, answer)
	case models.ExerciseBugFix:
		return validateBugFix(*ex.BugFix, answer)
	case models.ExerciseMultipleChoice:
		return validateMultipleChoice(*ex.MultipleChoice, answer)
	case models.ExerciseOutputPrediction:
		return validateOutputPrediction(*ex.OutputPrediction, answer)
	default:
		return malformed(fmt.Errorf("%w: unknown type %q", ErrMalformed, ex.Type))
	}
}

func malformed(err error) models.ValidationResult {
	return models.ValidationResult{
		IsCorrect: false,
		Score:     0,
		Feedback:  "This exercise could not be checked right now.",
		Errors: []models.ValidationError{{
			Location: "exercise",
			Message:  err.Error(),
			Severity: models.SeverityError,
		}},
	}
}

// percent returns round(100*num/den) clamped to [0, 100].
func percent(num, den int) int {
	if den <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(num) / float64(den)))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// partial caps a score for a submission that is not fully correct so that
// 100 stays reserved for correct answers.
func partial(score int) int {
	if score > maxPartialScore {
		return maxPartialScore
	}
	return score
}
