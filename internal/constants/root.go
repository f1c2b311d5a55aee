package constants

import "time"

const (
	AppName            = "bamboocare"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/bamboocare/bamboocare.db"
	Version            = "v0.3.0"

	// Environment variables recognised by the CLI (also loadable from a .env file)
	EnvConfig       = "BAMBOOCARE_CONFIG"
	EnvDebug        = "BAMBOOCARE_DEBUG"
	EnvDBConnection = "BAMBOOCARE_DB_CONNECTION"
	EnvS3Bucket     = "BAMBOOCARE_BACKUP_S3_BUCKET"
	EnvS3Region     = "BAMBOOCARE_BACKUP_S3_REGION"
	EnvS3Endpoint   = "BAMBOOCARE_BACKUP_S3_ENDPOINT"

	// Schedule constants
	DefaultFrequencyDays   = 7 // used when a plant has no species
	WaterVaseFrequencyDays = 7 // vase water is changed weekly regardless of anything else
	MinFrequencyDays       = 1

	// Weather thresholds
	RecentRainMM          = 5.0
	RainChancePct         = 70.0
	HighTemperatureC      = 30.0
	HeatWaveTemperatureC  = 35.0
	LowHumidityPct        = 30.0
	StrongWindKmh         = 30.0
	FrostTemperatureC     = 0.0
	RecentRainPostponeDay = 2
	DefaultAdjustmentDays = 1
	RecentDaysWindow      = 2
	RainForecastWindow    = 2
	FrostForecastWindow   = 3
	DefaultWeatherTimeout = 10 * time.Second

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "bamboocare-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotifierLockfileName   = "bamboocare-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.bamboocare"
	TrayExecutable         = "bamboocare-tray"
	TraySecretHeader       = "X-Bamboocare-Secret"
	ReminderIDPrefix       = "watering-"

	// HTTP API
	DefaultServeAddr = "127.0.0.1:8087"
)
