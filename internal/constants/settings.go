package constants

const (
	SettingTimezone             = "timezone"
	SettingNotificationsEnabled = "notifications_enabled"
	SettingReminderTime         = "reminder_time"
	SettingLatitude             = "latitude"
	SettingLongitude            = "longitude"
	SettingWeatherEnabled       = "weather_enabled"
	SettingUseMetricUnits       = "use_metric_units"
	SettingWeatherTimeoutSec    = "weather_timeout_sec"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultNotificationsEnabled = true
	DefaultReminderTime         = "09:00"
	DefaultWeatherEnabled       = true
	DefaultUseMetricUnits       = true
	DefaultWeatherTimeoutSec    = 10
)
