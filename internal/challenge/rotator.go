// Package challenge selects the daily challenge and maintains challenge
// streaks. Selection is a pure function of the calendar date.
package challenge

import (
	"errors"
	"time"

	"github.com/vytor/codetrail/internal/models"
)

// ErrEmptyRotation is returned when a rotation table has no entries.
var ErrEmptyRotation = errors.New("rotation table is empty")

// Rotator maps calendar dates onto a fixed rotation table.
type Rotator struct {
	start time.Time
	table []models.RotationEntry
}

// NewRotator creates a Rotator whose first entry is served on start.
func NewRotator(start time.Time, table []models.RotationEntry) (*Rotator, error) {
	if len(table) == 0 {
		return nil, ErrEmptyRotation
	}
	entries := make([]models.RotationEntry, len(table))
	copy(entries, table)
	return &Rotator{start: Day(start), table: entries}, nil
}

// Start returns the date served by the first rotation entry.
func (r *Rotator) Start() time.Time { return r.start }

// Len returns the rotation period in days.
func (r *Rotator) Len() int { return len(r.table) }

// Index returns the rotation slot for date. Dates before the start wrap
// backwards so the result is always in [0, Len()).
func (r *Rotator) Index(date time.Time) int {
	n := len(r.table)
	i := DaysBetween(r.start, date) % n
	if i < 0 {
		i += n
	}
	return i
}

// SelectForDate returns the challenge served on date.
func (r *Rotator) SelectForDate(date time.Time) models.Challenge {
	i := r.Index(date)
	entry := r.table[i]
	return models.Challenge{
		Date:     FormatDate(date),
		Index:    i,
		Title:    entry.Title,
		BonusXP:  entry.BonusXP,
		Exercise: entry.Exercise,
	}
}

// Preview returns the challenges for days consecutive dates starting at from.
func (r *Rotator) Preview(from time.Time, days int) []models.Challenge {
	if days <= 0 {
		return nil
	}
	out := make([]models.Challenge, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, r.SelectForDate(Day(from).AddDate(0, 0, i)))
	}
	return out
}
