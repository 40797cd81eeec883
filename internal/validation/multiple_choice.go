package validation

import (
	"fmt"

	"github.com/vytor/codetrail/internal/models"
)

// validateMultipleChoice requires the selected set to equal the correct set.
// Wrong selections cancel right ones in the partial score, which never drops
// below zero. Unknown option ids count as wrong selections.
func validateMultipleChoice(spec models.MultipleChoice, answer models.Answer) models.ValidationResult {
	correctIDs := make(map[string]bool)
	byID := make(map[string]models.Option, len(spec.Options))
	for _, o := range spec.Options {
		byID[o.ID] = o
		if o.Correct {
			correctIDs[o.ID] = true
		}
	}

	selected := dedupe(answer.Selected)
	if len(selected) == 0 {
		return models.ValidationResult{
			Score:    0,
			Feedback: "No option was selected.",
			Errors: []models.ValidationError{{
				Location: "options",
				Message:  "Select at least one option",
				Severity: models.SeverityError,
			}},
		}
	}

	right, wrong := 0, 0
	var errs []models.ValidationError
	for _, id := range selected {
		if correctIDs[id] {
			right++
			continue
		}
		wrong++
		errs = append(errs, models.ValidationError{
			Location: "option:" + id,
			Message:  fmt.Sprintf("Option %q is not correct", id),
			Severity: models.SeverityError,
			Hint:     byID[id].Explanation,
		})
	}

	total := len(correctIDs)
	if right == total && wrong == 0 {
		return models.ValidationResult{
			IsCorrect: true,
			Score:     100,
			Feedback:  "Correct!",
		}
	}

	if missed := total - right; missed > 0 {
		errs = append(errs, models.ValidationError{
			Location: "options",
			Message:  fmt.Sprintf("%d correct option(s) not selected", missed),
			Severity: models.SeverityWarning,
		})
	}
	return models.ValidationResult{
		IsCorrect: false,
		Score:     partial(percent(right-wrong, total)),
		Feedback:  fmt.Sprintf("%d of %d correct options selected, %d incorrect.", right, total, wrong),
		Errors:    errs,
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
