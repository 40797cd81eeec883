package validation

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"github.com/vytor/codetrail/internal/models"
)

// CorrectAnswer renders the reference answer of ex for display.
func CorrectAnswer(ex models.Exercise) string {
	switch ex.Type {
	case models.ExerciseCodeCompletion:
		if ex.CodeCompletion == nil {
			return ""
		}
		parts := make([]string, 0, len(ex.CodeCompletion.Blanks))
		for _, b := range ex.CodeCompletion.Blanks {
			parts = append(parts, fmt.Sprintf("%s: %s", b.ID, b.CorrectAnswer))
		}
		return strings.Join(parts, "\n")
	case models.ExerciseBugFix:
		if ex.BugFix == nil {
			return ""
		}
		return ex.BugFix.FixedCode
	case models.ExerciseMultipleChoice:
		if ex.MultipleChoice == nil {
			return ""
		}
		var parts []string
		for _, o := range ex.MultipleChoice.Options {
			if o.Correct {
				parts = append(parts, fmt.Sprintf("%s: %s", o.ID, o.Text))
			}
		}
		return strings.Join(parts, "\n")
	case models.ExerciseOutputPrediction:
		if ex.OutputPrediction == nil {
			return ""
		}
		return ex.OutputPrediction.ExpectedOutput
	default:
		return ""
	}
}

// ShuffleOptions returns a shuffled copy of options. The same rng state
// always yields the same order.
func ShuffleOptions(options []models.Option, rng *rand.Rand) []models.Option {
	out := make([]models.Option, len(options))
	copy(out, options)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// SeededRand builds a deterministic generator from seed and a set of keys,
// so one learner sees a stable option order per exercise.
func SeededRand(seed uint64, keys ...string) *rand.Rand {
	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}
