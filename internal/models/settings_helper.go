package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/bamboocare/internal/constants"
)

// DefaultSettings returns the settings written on first initialization.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
		ReminderTime:         constants.DefaultReminderTime,
		WeatherEnabled:       constants.DefaultWeatherEnabled,
		UseMetricUnits:       constants.DefaultUseMetricUnits,
		WeatherTimeoutSec:    constants.DefaultWeatherTimeoutSec,
	}
}

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingReminderTime:
			settings.ReminderTime = value
		case constants.SettingLatitude:
			f, err := parseOptionalFloat(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing latitude: %w", err)
			}
			settings.Latitude = f
		case constants.SettingLongitude:
			f, err := parseOptionalFloat(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing longitude: %w", err)
			}
			settings.Longitude = f
		case constants.SettingWeatherEnabled:
			settings.WeatherEnabled = value == "true"
		case constants.SettingUseMetricUnits:
			settings.UseMetricUnits = value == "true"
		case constants.SettingWeatherTimeoutSec:
			if _, err := fmt.Sscanf(value, "%d", &settings.WeatherTimeoutSec); err != nil {
				return Settings{}, fmt.Errorf("parsing weather_timeout_sec: %w", err)
			}
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingNotificationsEnabled: fmt.Sprintf("%v", settings.NotificationsEnabled),
		constants.SettingReminderTime:         settings.ReminderTime,
		constants.SettingLatitude:             formatOptionalFloat(settings.Latitude),
		constants.SettingLongitude:            formatOptionalFloat(settings.Longitude),
		constants.SettingWeatherEnabled:       fmt.Sprintf("%v", settings.WeatherEnabled),
		constants.SettingUseMetricUnits:       fmt.Sprintf("%v", settings.UseMetricUnits),
		constants.SettingWeatherTimeoutSec:    fmt.Sprintf("%d", settings.WeatherTimeoutSec),
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.WeatherTimeoutSec <= 0 {
		settings.WeatherTimeoutSec = constants.DefaultWeatherTimeoutSec
	}
}

func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
