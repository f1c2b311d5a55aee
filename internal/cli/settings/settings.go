package settings

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/utils"
	"github.com/julianstephens/bamboocare/internal/weather"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	location := "not set"
	if settings.HasCoordinates() {
		location = weather.Coordinate{Latitude: *settings.Latitude, Longitude: *settings.Longitude}.String()
	}
	reminderTime := settings.ReminderTime
	if reminderTime == "" {
		reminderTime = "exact due time"
	}

	fmt.Println("Current Settings:")
	fmt.Printf("  Timezone:              %s\n", settings.Timezone)
	fmt.Printf("  Use Metric Units:      %v\n", settings.UseMetricUnits)
	fmt.Println("\nNotification Settings:")
	fmt.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
	fmt.Printf("  Reminder Time:         %s\n", reminderTime)
	fmt.Println("\nWeather Settings:")
	fmt.Printf("  Weather Enabled:       %v\n", settings.WeatherEnabled)
	fmt.Printf("  Location:              %s\n", location)
	fmt.Printf("  Fetch Timeout:         %ds\n", settings.WeatherTimeoutSec)
	return nil
}

type SettingsSetCmd struct {
	Timezone             *string  `help:"IANA timezone name or Local."`
	NotificationsEnabled *bool    `help:"Enable or disable watering reminders."`
	ReminderTime         *string  `help:"Time of day reminders fire (HH:MM, empty for the exact due time)."`
	Latitude             *float64 `help:"Latitude for weather lookups."`
	Longitude            *float64 `help:"Longitude for weather lookups."`
	ClearLocation        bool     `help:"Remove the weather location." name:"clear-location"`
	WeatherEnabled       *bool    `help:"Enable or disable weather adjustments."`
	UseMetricUnits       *bool    `help:"Display metric units."`
	WeatherTimeout       *int     `help:"Weather fetch timeout in seconds."`
}

func (c *SettingsSetCmd) Validate() error {
	if c.Timezone != nil && !utils.ValidateTimezone(*c.Timezone) {
		return fmt.Errorf("invalid timezone %q", *c.Timezone)
	}
	if c.ReminderTime != nil && *c.ReminderTime != "" && !utils.ValidateTimeFormat(*c.ReminderTime) {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM)", *c.ReminderTime)
	}
	if (c.Latitude == nil) != (c.Longitude == nil) {
		return fmt.Errorf("--latitude and --longitude must be set together")
	}
	if c.Latitude != nil {
		if err := (weather.Coordinate{Latitude: *c.Latitude, Longitude: *c.Longitude}).Validate(); err != nil {
			return err
		}
	}
	if c.WeatherTimeout != nil && *c.WeatherTimeout <= 0 {
		return fmt.Errorf("weather timeout must be positive")
	}
	return nil
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.ReminderTime != nil {
		settings.ReminderTime = *c.ReminderTime
		updated = true
	}
	if c.Latitude != nil {
		settings.Latitude, settings.Longitude = c.Latitude, c.Longitude
		updated = true
	}
	if c.ClearLocation {
		settings.Latitude, settings.Longitude = nil, nil
		updated = true
	}
	if c.WeatherEnabled != nil {
		settings.WeatherEnabled = *c.WeatherEnabled
		updated = true
	}
	if c.UseMetricUnits != nil {
		settings.UseMetricUnits = *c.UseMetricUnits
		updated = true
	}
	if c.WeatherTimeout != nil {
		settings.WeatherTimeoutSec = *c.WeatherTimeout
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use 'settings show' to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	// Reminder times depend on these, so bring stored reminders in line.
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	if _, err := svc.RescheduleAll(ctx.Ctx()); err != nil {
		return fmt.Errorf("settings saved but reminders could not be refreshed: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}
