// Package schedule computes watering frequency, next watering dates and urgency.
package schedule

import (
	"fmt"
	"time"

	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/utils"
)

// Urgency classifies how soon a plant needs water.
type Urgency string

const (
	UrgencyUrgent    Urgency = "urgent"
	UrgencyDueSoon   Urgency = "due_soon"
	UrgencyScheduled Urgency = "scheduled"
)

// Color returns the display colour class for the urgency.
func (u Urgency) Color() string {
	switch u {
	case UrgencyUrgent:
		return "red"
	case UrgencyDueSoon:
		return "orange"
	default:
		return "green"
	}
}

// Status is the human-facing watering state of a plant.
type Status struct {
	Label        string     `json:"label"`
	Urgency      Urgency    `json:"urgency"`
	DaysUntil    int        `json:"days_until"`
	NextWatering *time.Time `json:"next_watering,omitempty"`
	Color        string     `json:"color"`
}

// Calculator derives watering dates in a fixed timezone.
type Calculator struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithLocation sets the timezone used for calendar-day arithmetic.
func WithLocation(loc *time.Location) Option {
	return func(c *Calculator) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns a Calculator using time.Local and time.Now unless overridden.
func New(opts ...Option) *Calculator {
	c := &Calculator{loc: time.Local, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Location returns the calculator's timezone.
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// Now returns the calculator's current time in its location.
func (c *Calculator) Now() time.Time {
	return c.now().In(c.loc)
}

// BaseFrequency is the species frequency, or the default when the plant has none.
func BaseFrequency(p models.Plant) int {
	if p.Species != nil {
		return p.Species.BaseWateringFrequencyDays
	}
	return constants.DefaultFrequencyDays
}

// AdjustedFrequency applies location, container and light rules to the base
// frequency. A water vase always yields WaterVaseFrequencyDays.
func AdjustedFrequency(p models.Plant) int {
	if p.Container == models.ContainerWaterVase {
		return constants.WaterVaseFrequencyDays
	}

	freq := BaseFrequency(p)

	if p.Location == models.LocationIndoor {
		freq++
	}

	switch p.Container {
	case models.ContainerPot:
		freq--
	case models.ContainerGround:
		freq++
	}

	switch p.LightLevel {
	case models.LightDirect:
		freq--
	case models.LightShade:
		freq++
	}

	return max(freq, constants.MinFrequencyDays)
}

// StartDate is the anchor the schedule counts from: LastWatered, else AddedDate.
func StartDate(p models.Plant) *time.Time {
	if p.LastWatered != nil {
		t := *p.LastWatered
		return &t
	}
	if !p.AddedDate.IsZero() {
		t := p.AddedDate
		return &t
	}
	return nil
}

// NextWateringDate derives the next watering date including any explicit
// postponement. It returns nil when the plant has no start date.
func (c *Calculator) NextWateringDate(p models.Plant) *time.Time {
	start := StartDate(p)
	if start == nil {
		return nil
	}
	postponed := max(p.PostponedDays, 0)
	next := utils.AddCalendarDays(*start, AdjustedFrequency(p)+postponed, c.loc)
	return &next
}

// Status classifies the plant relative to the calculator's clock.
func (c *Calculator) Status(p models.Plant) Status {
	return c.StatusAt(c.NextWateringDate(p))
}

// StatusAt classifies an already computed (possibly weather-shifted) next date.
func (c *Calculator) StatusAt(next *time.Time) Status {
	now := c.Now()
	if next == nil || !next.After(now) {
		return newStatus(UrgencyUrgent, "Water today", 0, next)
	}

	days := utils.CalendarDaysBetween(now, *next, c.loc)
	switch {
	case days <= 0:
		// later today
		return newStatus(UrgencyUrgent, "Water today", 0, next)
	case days == 1:
		return newStatus(UrgencyDueSoon, "Water tomorrow", 1, next)
	default:
		return newStatus(UrgencyScheduled, fmt.Sprintf("Water in %d days", days), days, next)
	}
}

func newStatus(u Urgency, label string, days int, next *time.Time) Status {
	return Status{Label: label, Urgency: u, DaysUntil: days, NextWatering: next, Color: u.Color()}
}

// MarkWatered records a watering at the given time and clears any postponement.
func (c *Calculator) MarkWatered(p *models.Plant, at time.Time) {
	t := at
	p.LastWatered = &t
	p.PostponedDays = 0
}

// Postpone pushes the next watering date forward by days calendar days.
// Successive calls add up. It is a no-op when there is no next date or days <= 0.
func (c *Calculator) Postpone(p *models.Plant, days int) bool {
	if days <= 0 || c.NextWateringDate(*p) == nil {
		return false
	}
	p.PostponedDays += days
	return true
}

// Effective shifts the next watering date by a weather adjustment. The result is
// never earlier than one day after the start date.
func (c *Calculator) Effective(p models.Plant, adj models.WateringAdjustment) *time.Time {
	next := c.NextWateringDate(p)
	if next == nil {
		return nil
	}
	shift := adj.ShiftDays()
	if shift == 0 {
		return next
	}
	shifted := utils.AddCalendarDays(*next, shift, c.loc)
	floor := utils.AddCalendarDays(*StartDate(p), constants.MinFrequencyDays, c.loc)
	if shifted.Before(floor) {
		shifted = floor
	}
	return &shifted
}

// InputsChanged reports whether any field the schedule depends on differs.
func InputsChanged(old, updated models.Plant) bool {
	if !sameTime(old.LastWatered, updated.LastWatered) {
		return true
	}
	if derefString(old.SpeciesID) != derefString(updated.SpeciesID) {
		return true
	}
	return old.Location != updated.Location ||
		old.Container != updated.Container ||
		old.LightLevel != updated.LightLevel
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
