package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/bamboocare/internal/backup"
	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/keyring"
	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/metrics"
	"github.com/julianstephens/bamboocare/internal/migration"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/reminder"
	"github.com/julianstephens/bamboocare/internal/schedule"
	"github.com/julianstephens/bamboocare/internal/storage"
	"github.com/julianstephens/bamboocare/internal/storage/postgres"
	"github.com/julianstephens/bamboocare/internal/storage/sqlite"
	"github.com/julianstephens/bamboocare/internal/utils"
	"github.com/julianstephens/bamboocare/internal/weather"
)

// PostgresKeyword selects PostgreSQL with the connection string taken from the
// environment or the OS keyring.
const PostgresKeyword = "postgres"

type Context struct {
	Store   storage.Provider
	Weather weather.Provider
	Metrics *metrics.Recorder
	// Now overrides the wall clock; nil means time.Now.
	Now func() time.Time
	// Base is cancelled on SIGINT/SIGTERM by main.
	Base context.Context

	svc *care.Service
}

// Migrator is implemented by the database-backed stores.
type Migrator interface {
	RunMigrations(logFn func(string)) (int, error)
	PendingMigrations() ([]migration.Migration, error)
}

// Ctx returns the command's context.
func (c *Context) Ctx() context.Context {
	if c.Base == nil {
		return context.Background()
	}
	return c.Base
}

// Clock returns the current time.
func (c *Context) Clock() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Service returns the care service over the loaded store, building it on first use.
func (c *Context) Service() (*care.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}

	opts := []care.Option{
		care.WithReminders(reminder.NewStoreScheduler(c.Store)),
		care.WithMetrics(c.Metrics),
	}
	if c.Weather != nil {
		opts = append(opts, care.WithWeather(c.Weather))
	}
	if c.Now != nil {
		loc, err := c.Location()
		if err != nil {
			return nil, err
		}
		opts = append(opts, care.WithCalculator(schedule.New(schedule.WithLocation(loc), schedule.WithClock(c.Now))))
	}

	svc, err := care.New(c.Store, opts...)
	if err != nil {
		return nil, err
	}
	c.svc = svc
	return svc, nil
}

// Location is the timezone from settings.
func (c *Context) Location() (*time.Location, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return utils.LoadLocation(settings.Timezone)
}

// ParseWhen parses a user supplied date. Empty means now.
func (c *Context) ParseWhen(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	return utils.ParseDateTimeInLocation(value, loc)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks a backend from the --config value: a PostgreSQL URL or the
// "postgres" keyword, a .json file, or otherwise a SQLite database path.
func OpenStore(config string) (storage.Provider, error) {
	config = strings.TrimSpace(config)

	switch {
	case config == PostgresKeyword:
		connStr, source, err := keyring.ResolveConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return nil, errors.New("no PostgreSQL connection string found: set BAMBOOCARE_DB_CONNECTION or run 'bamboocare keyring set'")
			}
			return nil, err
		}
		logger.Debug("Using PostgreSQL connection string", "source", source)
		return postgres.New(connStr), nil

	case postgres.IsConnString(config):
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, errors.New("PostgreSQL connection strings with embedded credentials are not allowed: use BAMBOOCARE_DB_CONNECTION, the OS keyring or .pgpass")
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// FormatDate renders an optional date in loc, "-" when nil.
func FormatDate(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("Mon 2006-01-02")
}

// DescribePlant is the one-line summary used by list output.
func DescribePlant(p models.Plant) string {
	return fmt.Sprintf("%s, %s, %s", p.Location, p.Container.Label(), p.LightLevel.Label())
}
