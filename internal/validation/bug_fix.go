package validation

import (
	"fmt"
	"strings"

	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/normalize"
)

// validateBugFix compares the submission with the reference fix. Partial
// credit counts declared bug lines whose trimmed text differs from the
// original buggy code.
func validateBugFix(spec models.BugFix, answer models.Answer) models.ValidationResult {
	if strings.TrimSpace(answer.Code) == "" {
		return models.ValidationResult{
			Score:    0,
			Feedback: "No code was submitted.",
			Errors:   bugErrors(spec.Bugs, nil),
		}
	}

	if normalize.Code(answer.Code) == normalize.Code(spec.FixedCode) {
		return models.ValidationResult{
			IsCorrect: true,
			Score:     100,
			Feedback:  "All bugs are fixed.",
		}
	}

	changed := ChangedLines(spec.BuggyCode, answer.Code)
	fixed := 0
	for _, bug := range spec.Bugs {
		if changed[bug.Line] {
			fixed++
		}
	}

	total := len(spec.Bugs)
	feedback := fmt.Sprintf("%d of %d bugs fixed.", fixed, total)
	if fixed == total {
		feedback = "Every buggy line was changed, but the code does not match the expected fix yet."
	}
	return models.ValidationResult{
		IsCorrect: false,
		Score:     partial(percent(fixed, total)),
		Feedback:  feedback,
		Errors:    bugErrors(spec.Bugs, changed),
	}
}

// ChangedLines returns the 1-based line numbers whose trimmed text differs
// between original and submitted. Lines present in only one side count as
// changed.
func ChangedLines(original, submitted string) map[int]bool {
	before := normalize.Lines(original)
	after := normalize.Lines(submitted)

	n := len(before)
	if len(after) > n {
		n = len(after)
	}

	changed := make(map[int]bool)
	for i := 0; i < n; i++ {
		var a, b string
		if i < len(before) {
			a = before[i]
		}
		if i < len(after) {
			b = after[i]
		}
		if a != b || (i >= len(before)) != (i >= len(after)) {
			changed[i+1] = true
		}
	}
	return changed
}

func bugErrors(bugs []models.Bug, changed map[int]bool) []models.ValidationError {
	var errs []models.ValidationError
	for _, bug := range bugs {
		if changed[bug.Line] {
			continue
		}
		errs = append(errs, models.ValidationError{
			Location: fmt.Sprintf("line:%d", bug.Line),
			Message:  bug.Description,
			Severity: models.SeverityError,
			Hint:     bug.Hint,
		})
	}
	return errs
}
