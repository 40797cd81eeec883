package validation

import (
	"fmt"
	"strings"

	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/normalize"
)

func validateCodeCompletion(spec models.CodeCompletion, answer models.Answer) models.ValidationResult {
	opts := normalize.Options{CaseSensitive: spec.CaseSensitive}

	correct := 0
	var errs []models.ValidationError
	for _, blank := range spec.Blanks {
		given := answer.Blanks[blank.ID]
		if blankMatches(blank, given, opts) {
			correct++
			continue
		}

		msg := fmt.Sprintf("Blank %q is not correct", blank.ID)
		if strings.TrimSpace(given) == "" {
			msg = fmt.Sprintf("Blank %q is empty", blank.ID)
		}
		errs = append(errs, models.ValidationError{
			Location: "blank:" + blank.ID,
			Message:  msg,
			Severity: models.SeverityError,
			Hint:     blank.Hint,
		})
	}

	total := len(spec.Blanks)
	if correct == total {
		return models.ValidationResult{
			IsCorrect: true,
			Score:     100,
			Feedback:  "All blanks are filled in correctly.",
		}
	}
	return models.ValidationResult{
		IsCorrect: false,
		Score:     partial(percent(correct, total)),
		Feedback:  fmt.Sprintf("%d of %d blanks are correct.", correct, total),
		Errors:    errs,
	}
}

func blankMatches(blank models.Blank, given string, opts normalize.Options) bool {
	got := normalize.Text(given, opts)
	if got == "" {
		return false
	}
	if got == normalize.Text(blank.CorrectAnswer, opts) {
		return true
	}
	for _, alt := range blank.AcceptableAnswers {
		if got == normalize.Text(alt, opts) {
			return true
		}
	}
	return false
}
