package validation

import (
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/normalize"
)

func validateOutputPrediction(spec models.OutputPrediction, answer models.Answer) models.ValidationResult {
	predicted := normalize.Default(answer.Prediction)
	if predicted == "" {
		return models.ValidationResult{
			Score:    0,
			Feedback: "No prediction was submitted.",
			Errors: []models.ValidationError{{
				Location: "output",
				Message:  "Enter the output you expect",
				Severity: models.SeverityError,
			}},
		}
	}

	if predictionMatches(spec, predicted) {
		return models.ValidationResult{
			IsCorrect: true,
			Score:     100,
			Feedback:  "Your prediction matches the output.",
		}
	}

	kind := spec.Kind
	if kind == "" {
		kind = models.OutputValue
	}

	score := 0
	if kind.PartialCredit() {
		score = partial(TokenOverlap(normalize.Tokens(predicted), normalize.Tokens(spec.ExpectedOutput)))
	}
	return models.ValidationResult{
		IsCorrect: false,
		Score:     score,
		Feedback:  "Your prediction does not match the output.",
		Errors: []models.ValidationError{{
			Location: "output",
			Message:  "Prediction differs from the actual output",
			Severity: models.SeverityError,
			Hint:     spec.Explanation,
		}},
	}
}

func predictionMatches(spec models.OutputPrediction, predicted string) bool {
	if predicted == normalize.Default(spec.ExpectedOutput) {
		return true
	}
	for _, alt := range spec.AllowableAnswers {
		if predicted == normalize.Default(alt) {
			return true
		}
	}
	return false
}

// TokenOverlap scores two token bags as round(100 * shared / longer), where
// shared counts tokens present in both bags with multiplicity.
func TokenOverlap(predicted, expected []string) int {
	longer := len(expected)
	if len(predicted) > longer {
		longer = len(predicted)
	}
	if longer == 0 {
		return 0
	}

	remaining := make(map[string]int, len(expected))
	for _, tok := range expected {
		remaining[tok]++
	}
	shared := 0
	for _, tok := range predicted {
		if remaining[tok] > 0 {
			remaining[tok]--
			shared++
		}
	}
	return percent(shared, longer)
}
