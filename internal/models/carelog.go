package models

import "time"

// CareLog is an append-only record of an action taken on a plant.
type CareLog struct {
	ID      string    `json:"id"`
	PlantID string    `json:"plant_id"`
	Date    time.Time `json:"date"`
	Type    CareType  `json:"type"`
	Notes   string    `json:"notes"`
	// Seq is the insertion sequence assigned by storage; lower means recorded earlier.
	Seq int64 `json:"seq"`
}
