package challenge

import "github.com/vytor/codetrail/internal/models"

// StreakTiers lists streak bonuses from the highest threshold down.
var StreakTiers = []models.StreakTier{
	{Days: 100, BonusXP: 1000},
	{Days: 60, BonusXP: 400},
	{Days: 30, BonusXP: 200},
	{Days: 14, BonusXP: 100},
	{Days: 7, BonusXP: 50},
}

// BonusXPForStreak returns the bonus of the highest tier reached by days.
func BonusXPForStreak(days int) int {
	for _, tier := range StreakTiers {
		if days >= tier.Days {
			return tier.BonusXP
		}
	}
	return 0
}

// NextTier returns the lowest tier not yet reached by days.
func NextTier(days int) (models.StreakTier, bool) {
	for i := len(StreakTiers) - 1; i >= 0; i-- {
		if StreakTiers[i].Days > days {
			return StreakTiers[i], true
		}
	}
	return models.StreakTier{}, false
}
