package models

import "time"

// Reminder is a pending local watering notification. There is at most one per plant.
type Reminder struct {
	PlantID string     `json:"plant_id"`
	FireAt  time.Time  `json:"fire_at"`
	Title   string     `json:"title"`
	Body    string     `json:"body"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
}

// IsDue reports whether the reminder should be delivered at now.
func (r *Reminder) IsDue(now time.Time) bool {
	return r.SentAt == nil && !r.FireAt.After(now)
}
