package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string   `json:"timezone"`              // IANA timezone name or "Local"
	NotificationsEnabled bool     `json:"notifications_enabled"` // whether watering reminders are scheduled
	ReminderTime         string   `json:"reminder_time"`         // HH:MM; empty fires at the exact next-watering instant
	Latitude             *float64 `json:"latitude,omitempty"`    // weather location, nil disables weather
	Longitude            *float64 `json:"longitude,omitempty"`
	WeatherEnabled       bool     `json:"weather_enabled"`
	UseMetricUnits       bool     `json:"use_metric_units"`
	WeatherTimeoutSec    int      `json:"weather_timeout_sec"`
}

// HasCoordinates reports whether a weather location has been configured.
func (s Settings) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}
