package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/cli/backups"
	"github.com/julianstephens/bamboocare/internal/cli/plants"
	"github.com/julianstephens/bamboocare/internal/cli/settings"
	"github.com/julianstephens/bamboocare/internal/cli/species"
	"github.com/julianstephens/bamboocare/internal/cli/system"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/errors"
	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/metrics"
	"github.com/julianstephens/bamboocare/internal/storage/postgres"
	"github.com/julianstephens/bamboocare/internal/weather"
)

type cliArgs struct {
	Version     kong.VersionFlag
	Config      string `help:"Database path (.db for SQLite, .json for a JSON file), a PostgreSQL URL, or 'postgres' to use the connection string from BAMBOOCARE_DB_CONNECTION or the OS keyring. Credentials must NOT be embedded in the URL." default:"${default_config}" env:"BAMBOOCARE_CONFIG"`
	Debug       bool   `help:"Log debug output to stderr." env:"BAMBOOCARE_DEBUG"`
	LogLevel    string `help:"Minimum level written to the log file (debug, info, warn, error)." name:"log-level" default:"warn" env:"BAMBOOCARE_LOG_LEVEL"`
	WeatherFile string `help:"Read weather from a JSON snapshot instead of Open-Meteo." type:"path" env:"BAMBOOCARE_WEATHER_FILE"`
	NoWeather   bool   `help:"Do not fetch weather." name:"no-weather"`

	Init    system.InitCmd    `cmd:"" help:"Initialize bamboocare storage and seed species."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Serve   system.ServeCmd   `cmd:"" help:"Serve the JSON HTTP API."`

	Species struct {
		List   species.SpeciesListCmd   `cmd:"" help:"List species." default:"1"`
		Show   species.SpeciesShowCmd   `cmd:"" help:"Show a species."`
		Add    species.SpeciesAddCmd    `cmd:"" help:"Add a custom species."`
		Edit   species.SpeciesEditCmd   `cmd:"" help:"Edit a species and reschedule its plants."`
		Delete species.SpeciesDeleteCmd `cmd:"" help:"Delete a species."`
	} `cmd:"" help:"Manage bamboo species."`
	Plant struct {
		Add    plants.PlantAddCmd    `cmd:"" help:"Add a plant."`
		List   plants.PlantListCmd   `cmd:"" help:"List plants." default:"1"`
		Show   plants.PlantShowCmd   `cmd:"" help:"Show a plant and its schedule."`
		Edit   plants.PlantEditCmd   `cmd:"" help:"Edit a plant."`
		Delete plants.PlantDeleteCmd `cmd:"" help:"Delete a plant and its care history."`
	} `cmd:"" help:"Manage plants."`

	Water     plants.WaterCmd     `cmd:"" help:"Record a watering."`
	Postpone  plants.PostponeCmd  `cmd:"" help:"Postpone the next watering."`
	Log       plants.LogCmd       `cmd:"" help:"Record a care event."`
	History   plants.HistoryCmd   `cmd:"" help:"Show or export care history."`
	Status    plants.StatusCmd    `cmd:"" help:"Show the watering dashboard."`
	Weather   system.WeatherCmd   `cmd:"" help:"Show weather and outdoor adjustments."`
	Notify    system.NotifyCmd    `cmd:"" help:"Refresh reminders and send the due ones (run from cron)."`
	Reminders system.RemindersCmd `cmd:"" help:"List scheduled reminders."`

	Settings struct {
		Show settings.SettingsShowCmd `cmd:"" help:"Show settings." default:"1"`
		Set  settings.SettingsSetCmd  `cmd:"" help:"Change settings."`
	} `cmd:"" help:"Manage application settings."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the PostgreSQL connection string."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		S3     system.KeyringS3Cmd     `cmd:"" name:"s3" help:"Store S3 backup credentials."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
	} `cmd:"" help:"Manage credentials in the OS keyring."`
}

func newParser(args *cliArgs) (*kong.Kong, error) {
	return kong.New(args,
		kong.Name(constants.AppName),
		kong.Description("Watering schedules for bamboo plants, adjusted for the weather"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"serve_addr":     constants.DefaultServeAddr,
		},
	)
}

func main() {
	cli.LoadEnv(".env", filepath.Join(defaultConfigDir(), ".env"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		stop()
		errors.Fatal(err)
	}
}

func run(ctx context.Context, argv []string) error {
	var args cliArgs
	parser, err := newParser(&args)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(argv)
	if err != nil {
		return err
	}
	command := kctx.Command()
	serving := strings.HasPrefix(command, "serve")

	if err := logger.Init(logger.Config{Debug: args.Debug, Level: args.LogLevel, ConfigDir: configDir(args.Config), Stderr: serving}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := &cli.Context{
		Base:    ctx,
		Metrics: metrics.New(serving),
	}

	if !strings.HasPrefix(command, "keyring") {
		store, err := cli.OpenStore(args.Config)
		if err != nil {
			return err
		}
		defer store.Close()
		appCtx.Store = store

		// init creates the store and doctor reports load failures itself
		if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "doctor") {
			if err := store.Load(); err != nil {
				return err
			}
		}
	}

	if !args.NoWeather {
		provider, err := weatherProvider(args.WeatherFile)
		if err != nil {
			return err
		}
		appCtx.Weather = provider
	}

	return kctx.Run(appCtx)
}

func weatherProvider(file string) (weather.Provider, error) {
	if file != "" {
		return weather.LoadStatic(file)
	}
	return weather.NewOpenMeteo(), nil
}

func defaultConfigDir() string {
	dir, err := cli.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	if err != nil {
		return "."
	}
	return dir
}

// configDir is where logs are written: next to a file database, otherwise the
// default config directory.
func configDir(config string) string {
	if config == cli.PostgresKeyword || postgres.IsConnString(config) {
		return defaultConfigDir()
	}
	path, err := cli.ExpandPath(config)
	if err != nil {
		return defaultConfigDir()
	}
	return filepath.Dir(path)
}
