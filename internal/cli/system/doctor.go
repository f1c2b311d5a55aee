package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/bamboocare/internal/backup"
	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/storage/sqlite"
	"github.com/julianstephens/bamboocare/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name    string
	run     func(*cli.Context) error
	warning bool
	needsDB bool
}

var doctorChecks = []check{
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Timezone", run: checkTimezone, needsDB: true},
	{name: "Plant integrity", run: checkPlantIntegrity, needsDB: true},
	{name: "Care log integrity", run: checkCareLogIntegrity, needsDB: true},
	{name: "Reminder integrity", run: checkReminderIntegrity, needsDB: true},
	{name: "Weather location", run: checkWeatherLocation, needsDB: true, warning: true},
	{name: "Backups present", run: checkBackupsPresent, warning: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Database reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		fmt.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warning:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return nil
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return fmt.Errorf("%d pending migration(s); run 'bamboocare migrate'", len(pending))
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return err
	}
	if settings.ReminderTime != "" && !utils.ValidateTimeFormat(settings.ReminderTime) {
		return fmt.Errorf("invalid reminder time %q (expected HH:MM)", settings.ReminderTime)
	}
	return nil
}

func checkPlantIntegrity(ctx *cli.Context) error {
	plants, err := ctx.Store.GetAllPlants()
	if err != nil {
		return err
	}
	var errs []error
	for _, p := range plants {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("plant %s: %w", p.ID, err))
		}
		if p.SpeciesID != nil && p.Species == nil {
			errs = append(errs, fmt.Errorf("plant %s references missing species %s", p.ID, *p.SpeciesID))
		}
		if p.LastWatered != nil && p.LastWatered.Before(p.AddedDate) {
			errs = append(errs, fmt.Errorf("plant %s was last watered before it was added", p.ID))
		}
		if p.PostponedDays < 0 {
			errs = append(errs, fmt.Errorf("plant %s has negative postponement", p.ID))
		}
	}
	return errors.Join(errs...)
}

func checkCareLogIntegrity(ctx *cli.Context) error {
	plants, err := ctx.Store.GetAllPlants()
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(plants))
	for _, p := range plants {
		known[p.ID] = true
	}

	logs, err := ctx.Store.GetAllCareLogs()
	if err != nil {
		return err
	}
	var errs []error
	for _, l := range logs {
		if !known[l.PlantID] {
			errs = append(errs, fmt.Errorf("care log %s belongs to missing plant %s", l.ID, l.PlantID))
		}
		if !l.Type.Valid() {
			errs = append(errs, fmt.Errorf("care log %s has invalid type %q", l.ID, l.Type))
		}
	}
	return errors.Join(errs...)
}

func checkReminderIntegrity(ctx *cli.Context) error {
	reminders, err := ctx.Store.GetAllReminders()
	if err != nil {
		return err
	}
	var errs []error
	for _, r := range reminders {
		if _, err := ctx.Store.GetPlant(r.PlantID); err != nil {
			errs = append(errs, fmt.Errorf("reminder for missing plant %s", r.PlantID))
		}
	}
	return errors.Join(errs...)
}

func checkWeatherLocation(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if settings.WeatherEnabled && !settings.HasCoordinates() {
		return errors.New("weather is enabled but no location is set; outdoor plants will not be adjusted (bamboocare settings set --latitude ... --longitude ...)")
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s", mgr.GetBackupDir())
	}
	return nil
}
