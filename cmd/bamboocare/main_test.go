package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage/sqlite"
)

const weatherJSON = `{
  "current": {"temperature_c": 36, "humidity_pct": 20, "wind_speed_kmh": 5, "condition": "clear"},
  "forecast": [{"date": "2024-06-10", "max_temp_c": 38, "min_temp_c": 24}]
}`

type workflow struct {
	t      *testing.T
	dir    string
	db     string
	global []string
}

func newWorkflow(t *testing.T) *workflow {
	t.Helper()
	dir := t.TempDir()
	weatherFile := filepath.Join(dir, "weather.json")
	if err := os.WriteFile(weatherFile, []byte(weatherJSON), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BAMBOOCARE_DB_CONNECTION", "")
	db := filepath.Join(dir, "bamboocare.db")
	return &workflow{
		t:      t,
		dir:    dir,
		db:     db,
		global: []string{"--config", db, "--weather-file", weatherFile},
	}
}

func (w *workflow) run(args ...string) error {
	w.t.Helper()
	return run(context.Background(), append(append([]string{}, w.global...), args...))
}

func (w *workflow) mustRun(args ...string) {
	w.t.Helper()
	if err := w.run(args...); err != nil {
		w.t.Fatalf("bamboocare %s: %v", strings.Join(args, " "), err)
	}
}

func TestEndToEndWorkflow(t *testing.T) {
	w := newWorkflow(t)

	w.mustRun("init")
	w.mustRun("settings", "set", "--timezone", "UTC", "--latitude", "40.4", "--longitude=-3.7")
	w.mustRun("species")

	w.mustRun("plant", "add", "Kenji",
		"--species", "Golden Bamboo", "--location", "outdoor", "--container", "ground", "--light", "direct",
		"--added", "2024-05-01", "--watered", "2024-06-01")
	w.mustRun("plant", "add", "Mochi", "--container", "vase")

	w.mustRun("water", "Mochi", "--notes", "first drink")
	w.mustRun("log", "Kenji", "pruning", "--notes", "thinned canes")
	w.mustRun("postpone", "Mochi", "2")

	w.mustRun("status")
	w.mustRun("plant", "show", "Kenji")
	w.mustRun("history", "Mochi")
	w.mustRun("weather")
	w.mustRun("notify", "--dry-run")
	w.mustRun("reminders", "--all")

	export := filepath.Join(w.dir, "history.xlsx")
	w.mustRun("history", "--export", export)
	if _, err := os.Stat(export); err != nil {
		t.Errorf("export not written: %v", err)
	}

	w.mustRun("backup", "create")
	w.mustRun("backup", "list")
	w.mustRun("doctor")

	w.mustRun("plant", "delete", "Mochi")

	store := sqlite.NewStore(w.db)
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	plants, err := store.GetAllPlants()
	if err != nil {
		t.Fatal(err)
	}
	if len(plants) != 1 || plants[0].Name != "Kenji" {
		t.Fatalf("plants = %+v, want only Kenji", plants)
	}
	kenji := plants[0]
	if kenji.Location != models.LocationOutdoor || kenji.Species == nil || kenji.Species.CommonName != "Golden Bamboo" {
		t.Errorf("Kenji = %+v", kenji)
	}

	logs, err := store.GetCareLogs(kenji.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].Type != models.CarePruning {
		t.Errorf("Kenji care logs = %+v", logs)
	}

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Timezone != "UTC" || !settings.HasCoordinates() {
		t.Errorf("settings = %+v", settings)
	}

	if entries, err := os.ReadDir(filepath.Join(w.dir, "backups")); err != nil || len(entries) == 0 {
		t.Errorf("expected a backup, got %v (%v)", entries, err)
	}
	if _, err := os.Stat(filepath.Join(w.dir, "logs")); err != nil {
		t.Errorf("log directory missing: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	w := newWorkflow(t)
	w.mustRun("init")
	w.mustRun("plant", "add", "Kenji")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown command", args: []string{"prune-everything"}},
		{name: "unknown plant", args: []string{"water", "Nobody"}},
		{name: "bad location", args: []string{"plant", "add", "X", "--location", "moon"}},
		{name: "bad care type", args: []string{"log", "Kenji", "dancing"}},
		{name: "zero postpone", args: []string{"postpone", "Kenji", "0"}},
		{name: "bad reminder time", args: []string{"settings", "set", "--reminder-time", "noon"}},
		{name: "unknown species", args: []string{"plant", "add", "Z", "--species", "Kudzu"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := w.run(tt.args...); err == nil {
				t.Errorf("bamboocare %v: expected error", tt.args)
			}
		})
	}
}

func TestRunUninitializedStore(t *testing.T) {
	w := newWorkflow(t)
	if err := w.run("status"); err == nil {
		t.Error("expected error before init")
	}
}

func TestConfigDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		config string
		want   string
	}{
		{config: "/data/plants.db", want: "/data"},
		{config: "~/garden/plants.db", want: filepath.Join(home, "garden")},
		{config: "postgres", want: defaultConfigDir()},
		{config: "postgres://db.example.com/bamboo", want: defaultConfigDir()},
	}
	for _, tt := range tests {
		if got := configDir(tt.config); got != tt.want {
			t.Errorf("configDir(%q) = %q, want %q", tt.config, got, tt.want)
		}
	}
}
