package models

import (
	"fmt"
	"strings"
	"time"
)

// Species is reference data describing a bamboo variety.
type Species struct {
	ID                        string    `json:"id"`
	CommonName                string    `json:"common_name"`
	ScientificName            string    `json:"scientific_name"`
	Description               string    `json:"description"`
	BaseWateringFrequencyDays int       `json:"base_watering_frequency_days"`
	WaterAmountGuide          string    `json:"water_amount_guide"` // display only
	CreatedAt                 time.Time `json:"created_at"`
}

func (s *Species) Validate() error {
	if strings.TrimSpace(s.CommonName) == "" {
		return fmt.Errorf("species common name cannot be empty")
	}
	if s.BaseWateringFrequencyDays < 1 {
		return fmt.Errorf("base watering frequency must be at least 1 day")
	}
	return nil
}
