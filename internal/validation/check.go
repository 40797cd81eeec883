package validation

import (
	"fmt"
	"strings"

	"github.com/vytor/codetrail/internal/models"
)

// CheckExercise verifies that ex carries everything its validator needs.
// Returned errors wrap ErrMalformed.
func CheckExercise(ex models.Exercise) error {
	if strings.TrimSpace(ex.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrMalformed)
	}

	switch ex.Type {
	case models.ExerciseCodeCompletion:
		return checkCodeCompletion(ex.CodeCompletion)
	case models.ExerciseBugFix:
		return checkBugFix(ex.BugFix)
	case models.ExerciseMultipleChoice:
		return checkMultipleChoice(ex.MultipleChoice)
	case models.ExerciseOutputPrediction:
		return checkOutputPrediction(ex.OutputPrediction)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformed, ex.Type)
	}
}

func checkCodeCompletion(spec *models.CodeCompletion) error {
	if spec == nil {
		return fmt.Errorf("%w: missing code_completion payload", ErrMalformed)
	}
	if len(spec.Blanks) == 0 {
		return fmt.Errorf("%w: no blanks declared", ErrMalformed)
	}
	seen := make(map[string]bool, len(spec.Blanks))
	for i, b := range spec.Blanks {
		if b.ID == "" {
			return fmt.Errorf("%w: blank %d has no id", ErrMalformed, i)
		}
		if seen[b.ID] {
			return fmt.Errorf("%w: duplicate blank id %q", ErrMalformed, b.ID)
		}
		seen[b.ID] = true
		if strings.TrimSpace(b.CorrectAnswer) == "" {
			return fmt.Errorf("%w: blank %q has no correct answer", ErrMalformed, b.ID)
		}
	}
	return nil
}

func checkBugFix(spec *models.BugFix) error {
	if spec == nil {
		return fmt.Errorf("%w: missing bug_fix payload", ErrMalformed)
	}
	if strings.TrimSpace(spec.BuggyCode) == "" {
		return fmt.Errorf("%w: missing buggy code", ErrMalformed)
	}
	if strings.TrimSpace(spec.FixedCode) == "" {
		return fmt.Errorf("%w: missing fixed code", ErrMalformed)
	}
	if len(spec.Bugs) == 0 {
		return fmt.Errorf("%w: no bugs declared", ErrMalformed)
	}
	for _, bug := range spec.Bugs {
		if bug.Line < 1 {
			return fmt.Errorf("%w: bug line %d out of range", ErrMalformed, bug.Line)
		}
	}
	return nil
}

func checkMultipleChoice(spec *models.MultipleChoice) error {
	if spec == nil {
		return fmt.Errorf("%w: missing multiple_choice payload", ErrMalformed)
	}
	if len(spec.Options) == 0 {
		return fmt.Errorf("%w: no options declared", ErrMalformed)
	}
	seen := make(map[string]bool, len(spec.Options))
	correct := 0
	for i, o := range spec.Options {
		if o.ID == "" {
			return fmt.Errorf("%w: option %d has no id", ErrMalformed, i)
		}
		if seen[o.ID] {
			return fmt.Errorf("%w: duplicate option id %q", ErrMalformed, o.ID)
		}
		seen[o.ID] = true
		if o.Correct {
			correct++
		}
	}
	if correct == 0 {
		return fmt.Errorf("%w: no correct option", ErrMalformed)
	}
	return nil
}

func checkOutputPrediction(spec *models.OutputPrediction) error {
	if spec == nil {
		return fmt.Errorf("%w: missing output_prediction payload", ErrMalformed)
	}
	if strings.TrimSpace(spec.ExpectedOutput) == "" {
		return fmt.Errorf("%w: missing expected output", ErrMalformed)
	}
	switch spec.Kind {
	case "", models.OutputValue, models.OutputType, models.OutputError, models.OutputBoolean:
		return nil
	default:
		return fmt.Errorf("%w: unknown output kind %q", ErrMalformed, spec.Kind)
	}
}
