// Package weather turns current conditions and a short forecast into watering
// adjustments and advisory alerts.
package weather

import (
	"context"
	"fmt"
	"time"
)

// Condition is a normalized high-level weather category.
type Condition string

const (
	ConditionUnknown       Condition = "unknown"
	ConditionClear         Condition = "clear"
	ConditionCloudy        Condition = "cloudy"
	ConditionFog           Condition = "fog"
	ConditionDrizzle       Condition = "drizzle"
	ConditionRain          Condition = "rain"
	ConditionSnow          Condition = "snow"
	ConditionThunderstorm  Condition = "thunderstorm"
	ConditionTropicalStorm Condition = "tropical_storm"
	ConditionHurricane     Condition = "hurricane"
)

// IsSevereStorm reports whether the condition is in the tropical-storm/hurricane category.
func (c Condition) IsSevereStorm() bool {
	return c == ConditionTropicalStorm || c == ConditionHurricane
}

// Coordinate is a geographic position in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// Validate checks the coordinate is on the globe.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", c.Longitude)
	}
	return nil
}

// Conditions are the current observations, in metric units.
type Conditions struct {
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPct     float64   `json:"humidity_pct"`
	WindSpeedKmh    float64   `json:"wind_speed_kmh"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	Condition       Condition `json:"condition"`
}

// Daily is one day of observed or forecast weather.
type Daily struct {
	Date                   string  `json:"date"` // YYYY-MM-DD, provider local
	PrecipitationMM        float64 `json:"precipitation_mm"`
	PrecipitationChancePct float64 `json:"precipitation_chance_pct"`
	MinTempC               float64 `json:"min_temp_c"`
	MaxTempC               float64 `json:"max_temp_c"`
}

// Snapshot is what the engine reads. Recent holds past days and Forecast holds
// today onwards, both ordered by date ascending.
type Snapshot struct {
	Current   Conditions `json:"current"`
	Recent    []Daily    `json:"recent,omitempty"`
	Forecast  []Daily    `json:"forecast,omitempty"`
	FetchedAt time.Time  `json:"fetched_at"`
	Source    string     `json:"source,omitempty"`
}

// Provider fetches a snapshot for a coordinate.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coord Coordinate) (*Snapshot, error)
}
