package models

import (
	"fmt"
	"strings"
	"time"
)

// Plant is a tracked bamboo plant.
//
// The next watering date is deliberately not a field: it is derived from
// LastWatered/AddedDate, the species frequency, Location, Container, LightLevel
// and PostponedDays every time it is needed (see package schedule).
type Plant struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Location   PlantLocation `json:"location"`
	LightLevel LightLevel    `json:"light_level"`
	Container  ContainerType `json:"container"`
	AddedDate  time.Time     `json:"added_date"`
	// LastWatered is nil until the first watering event.
	LastWatered *time.Time `json:"last_watered,omitempty"`
	SpeciesID   *string    `json:"species_id,omitempty"`
	// Species is populated by storage when SpeciesID references an existing species.
	Species *Species `json:"species,omitempty"`
	// PostponedDays is the explicit postponement applied on top of the computed
	// schedule. Watering, or editing any scheduling input, resets it to zero.
	PostponedDays int       `json:"postponed_days"`
	CareHistory   []CareLog `json:"care_history,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

func (p *Plant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("plant name cannot be empty")
	}
	if !p.Location.Valid() {
		return fmt.Errorf("invalid location %q", p.Location)
	}
	if !p.LightLevel.Valid() {
		return fmt.Errorf("invalid light level %q", p.LightLevel)
	}
	if !p.Container.Valid() {
		return fmt.Errorf("invalid container %q", p.Container)
	}
	if p.AddedDate.IsZero() {
		return fmt.Errorf("added date is required")
	}
	if p.PostponedDays < 0 {
		return fmt.Errorf("postponed days cannot be negative")
	}
	return nil
}

// IsOutdoor reports whether weather can affect this plant.
func (p *Plant) IsOutdoor() bool {
	return p.Location == LocationOutdoor
}

// SpeciesName returns the species common name or a placeholder.
func (p *Plant) SpeciesName() string {
	if p.Species == nil {
		return "Unknown species"
	}
	return p.Species.CommonName
}
