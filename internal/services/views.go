package services

import (
	"github.com/vytor/codetrail/internal/models"
	"github.com/vytor/codetrail/internal/validation"
)

// exerciseView strips answers from ex. Multiple choice options are shuffled
// with a generator seeded by seed, the user and the exercise, so a learner
// always sees the same order for the same exercise.
func exerciseView(ex models.Exercise, seed uint64, userID string) models.ExerciseView {
	v := models.ExerciseView{
		ID:             ex.ID,
		Type:           ex.Type,
		Title:          ex.Title,
		Prompt:         ex.Prompt,
		Difficulty:     ex.Difficulty,
		Topic:          ex.Topic,
		BaseXP:         ex.BaseXP,
		PerfectScoreXP: ex.PerfectScoreXP,
		HintCount:      len(ex.Hints),
	}

	switch ex.Type {
	case models.ExerciseCodeCompletion:
		if cc := ex.CodeCompletion; cc != nil {
			v.Template = cc.Template
			for _, b := range cc.Blanks {
				v.BlankIDs = append(v.BlankIDs, b.ID)
			}
		}
	case models.ExerciseBugFix:
		if bf := ex.BugFix; bf != nil {
			v.Code = bf.BuggyCode
			v.BugCount = len(bf.Bugs)
		}
	case models.ExerciseMultipleChoice:
		if mc := ex.MultipleChoice; mc != nil {
			correct := 0
			options := validation.ShuffleOptions(mc.Options, validation.SeededRand(seed, userID, ex.ID))
			for _, o := range options {
				v.Options = append(v.Options, models.OptionView{ID: o.ID, Text: o.Text})
				if o.Correct {
					correct++
				}
			}
			v.MultiPick = correct > 1
		}
	case models.ExerciseOutputPrediction:
		if op := ex.OutputPrediction; op != nil {
			v.Code = op.Code
			v.Kind = op.Kind
			if v.Kind == "" {
				v.Kind = models.OutputValue
			}
		}
	}
	return v
}

func challengeView(c models.Challenge, seed uint64, userID string) models.ChallengeView {
	return models.ChallengeView{
		Date:     c.Date,
		Index:    c.Index,
		Title:    c.Title,
		BonusXP:  c.BonusXP,
		Exercise: exerciseView(c.Exercise, seed, userID),
	}
}
