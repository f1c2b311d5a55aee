// Package ledger records care events against plants.
package ledger

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/schedule"
)

type Ledger struct {
	calc  *schedule.Calculator
	newID func() string
}

func New(calc *schedule.Calculator) *Ledger {
	return &Ledger{
		calc:  calc,
		newID: func() string { return uuid.New().String() },
	}
}

// Record appends a care entry to the plant's history. A watering entry moves
// LastWatered (and clears any postponement) only when it is at least as recent
// as every watering already known for the plant: the logged ones and the
// LastWatered value itself. Future and duplicate entries are accepted as-is.
func (l *Ledger) Record(p *models.Plant, careType models.CareType, date time.Time, notes string) models.CareLog {
	latest := latestWatering(*p)

	entry := models.CareLog{
		ID:      l.newID(),
		PlantID: p.ID,
		Date:    date,
		Type:    careType,
		Notes:   notes,
	}
	p.CareHistory = append(p.CareHistory, entry)

	if careType == models.CareWatering && (latest == nil || !date.Before(*latest)) {
		l.calc.MarkWatered(p, date)
	}
	return entry
}

func latestWatering(p models.Plant) *time.Time {
	latest := LastWatering(p.CareHistory)
	if latest == nil || (p.LastWatered != nil && p.LastWatered.After(*latest)) {
		return p.LastWatered
	}
	return latest
}

// History returns a copy of the logs sorted newest first. Entries on the same
// instant keep reverse insertion order.
func History(logs []models.CareLog) []models.CareLog {
	out := slices.Clone(logs)
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b models.CareLog) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// LastWatering returns the date of the latest watering entry, or nil.
func LastWatering(logs []models.CareLog) *time.Time {
	var last *time.Time
	for _, entry := range logs {
		if entry.Type != models.CareWatering {
			continue
		}
		if last == nil || entry.Date.After(*last) {
			d := entry.Date
			last = &d
		}
	}
	return last
}

// Filter returns the entries of the given type, preserving order.
func Filter(logs []models.CareLog, careType models.CareType) []models.CareLog {
	var out []models.CareLog
	for _, entry := range logs {
		if entry.Type == careType {
			out = append(out, entry)
		}
	}
	return out
}
