package plants

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/export"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/species"
	"github.com/julianstephens/bamboocare/internal/storage"
	"github.com/julianstephens/bamboocare/internal/storage/sqlite"
)

var now = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "bamboocare.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	settings, _ := store.GetSettings()
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}
	for _, sp := range species.Seed(now) {
		if err := store.AddSpecies(sp); err != nil {
			t.Fatal(err)
		}
	}
	return &cli.Context{Store: store, Now: func() time.Time { return now }}
}

func mustAdd(t *testing.T, ctx *cli.Context, cmd PlantAddCmd) models.Plant {
	t.Helper()
	if cmd.Location == "" {
		cmd.Location = "indoor"
	}
	if cmd.Light == "" {
		cmd.Light = "indirect"
	}
	if cmd.Container == "" {
		cmd.Container = "pot"
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("plant add failed: %v", err)
	}
	svc, _ := ctx.Service()
	p, err := svc.FindPlant(cmd.Name)
	if err != nil {
		t.Fatalf("FindPlant(%q) error = %v", cmd.Name, err)
	}
	return p
}

func TestPlantAddCmd(t *testing.T) {
	ctx := setupTestDB(t)

	p := mustAdd(t, ctx, PlantAddCmd{Name: "Kenji", Species: "golden bamboo", Location: "Outdoor", Container: "ground", Light: "direct"})
	if p.Species == nil || p.Species.CommonName != "Golden Bamboo" {
		t.Errorf("Species = %+v", p.Species)
	}
	if p.Location != models.LocationOutdoor || p.Container != models.ContainerGround || p.LightLevel != models.LightDirect {
		t.Errorf("placement = %s/%s/%s", p.Location, p.Container, p.LightLevel)
	}
	if !p.AddedDate.Equal(now) {
		t.Errorf("AddedDate = %v, want %v", p.AddedDate, now)
	}
}

func TestPlantAddCmd_Invalid(t *testing.T) {
	ctx := setupTestDB(t)
	tests := []struct {
		name string
		cmd  PlantAddCmd
	}{
		{name: "empty name", cmd: PlantAddCmd{Name: "  ", Location: "indoor", Light: "shade", Container: "pot"}},
		{name: "bad location", cmd: PlantAddCmd{Name: "A", Location: "moon", Light: "shade", Container: "pot"}},
		{name: "bad container", cmd: PlantAddCmd{Name: "A", Location: "indoor", Light: "shade", Container: "bucket"}},
		{name: "unknown species", cmd: PlantAddCmd{Name: "A", Species: "Kudzu", Location: "indoor", Light: "shade", Container: "pot"}},
		{name: "bad date", cmd: PlantAddCmd{Name: "A", Added: "soon", Location: "indoor", Light: "shade", Container: "pot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWaterAndPostpone(t *testing.T) {
	ctx := setupTestDB(t)
	p := mustAdd(t, ctx, PlantAddCmd{Name: "Kenji", Added: "2024-05-20"})

	if err := (&WaterCmd{Plant: "kenji", At: "2024-05-30", Notes: "deep soak"}).Run(ctx); err != nil {
		t.Fatalf("water failed: %v", err)
	}
	svc, _ := ctx.Service()
	got, _ := svc.GetPlant(p.ID)
	want := time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC)
	if got.LastWatered == nil || !got.LastWatered.Equal(want) {
		t.Fatalf("LastWatered = %v, want %v", got.LastWatered, want)
	}

	if err := (&PostponeCmd{Plant: p.ID, Days: 2}).Run(ctx); err != nil {
		t.Fatalf("postpone failed: %v", err)
	}
	got, _ = svc.GetPlant(p.ID)
	if got.PostponedDays != 2 {
		t.Errorf("PostponedDays = %d, want 2", got.PostponedDays)
	}

	// watering clears the postponement
	if err := (&WaterCmd{Plant: p.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.GetPlant(p.ID)
	if got.PostponedDays != 0 || !got.LastWatered.Equal(now) {
		t.Errorf("after water: postponed=%d lastWatered=%v", got.PostponedDays, got.LastWatered)
	}

	r, err := ctx.Store.GetReminder(p.ID)
	if err != nil {
		t.Fatalf("reminder not scheduled: %v", err)
	}
	if r.FireAt.Before(now) {
		t.Errorf("reminder FireAt %v should be after the watering", r.FireAt)
	}
}

func TestPostponeCmd_Validate(t *testing.T) {
	if err := (&PostponeCmd{Days: 0}).Validate(); err == nil {
		t.Error("expected error for zero days")
	}
}

func TestLogAndHistory(t *testing.T) {
	ctx := setupTestDB(t)
	p := mustAdd(t, ctx, PlantAddCmd{Name: "Kenji"})

	if err := (&LogCmd{Plant: "Kenji", Type: "fertilizing", Notes: "liquid feed"}).Run(ctx); err != nil {
		t.Fatalf("log failed: %v", err)
	}
	if err := (&LogCmd{Plant: "Kenji", Type: "dancing"}).Run(ctx); err == nil {
		t.Error("expected error for unknown care type")
	}

	svc, _ := ctx.Service()
	got, _ := svc.GetPlant(p.ID)
	if got.LastWatered != nil {
		t.Error("fertilizing must not count as watering")
	}

	if err := (&HistoryCmd{Plant: "Kenji"}).Run(ctx); err != nil {
		t.Errorf("history failed: %v", err)
	}
	if err := (&HistoryCmd{Plant: "Kenji", Type: "watering"}).Run(ctx); err != nil {
		t.Errorf("filtered history failed: %v", err)
	}
	if err := (&HistoryCmd{}).Run(ctx); err == nil {
		t.Error("history without plant or export should fail")
	}
}

func TestHistoryExport(t *testing.T) {
	ctx := setupTestDB(t)
	mustAdd(t, ctx, PlantAddCmd{Name: "Kenji"})
	mustAdd(t, ctx, PlantAddCmd{Name: "Mochi"})
	for _, name := range []string{"Kenji", "Mochi"} {
		if err := (&WaterCmd{Plant: name}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "history.xlsx")
	if err := (&HistoryCmd{Export: path}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetHistory)
	if err != nil {
		t.Fatal(err)
	}
	// header + one watering per plant
	if len(rows) != 3 {
		t.Errorf("history rows = %d, want 3", len(rows))
	}

	if err := (&HistoryCmd{Export: filepath.Join(t.TempDir(), "history.csv")}).Run(ctx); err == nil {
		t.Error("expected error for non-xlsx export path")
	}
}

func TestPlantEditCmd(t *testing.T) {
	ctx := setupTestDB(t)
	p := mustAdd(t, ctx, PlantAddCmd{Name: "Kenji", Species: "Lucky Bamboo"})
	if err := (&PostponeCmd{Plant: p.ID, Days: 3}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	container := "water_vase"
	newName := "Kenji II"
	if err := (&PlantEditCmd{Plant: "Kenji", Name: &newName, Container: &container}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	svc, _ := ctx.Service()
	got, _ := svc.GetPlant(p.ID)
	if got.Name != newName || got.Container != models.ContainerWaterVase {
		t.Errorf("got %+v", got)
	}
	if got.PostponedDays != 0 {
		t.Errorf("PostponedDays = %d, want reset to 0", got.PostponedDays)
	}
	if !got.AddedDate.Equal(p.AddedDate) {
		t.Error("AddedDate must not change")
	}

	if err := (&PlantEditCmd{Plant: p.ID, NoSpecies: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.GetPlant(p.ID)
	if got.SpeciesID != nil {
		t.Error("species should be cleared")
	}
}

func TestPlantDeleteCmd(t *testing.T) {
	ctx := setupTestDB(t)
	p := mustAdd(t, ctx, PlantAddCmd{Name: "Kenji"})
	if err := (&WaterCmd{Plant: p.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if err := (&PlantDeleteCmd{Plant: "Kenji"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := ctx.Store.GetPlant(p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetPlant() error = %v, want ErrNotFound", err)
	}
	logs, _ := ctx.Store.GetAllCareLogs()
	if len(logs) != 0 {
		t.Errorf("care logs = %d, want 0", len(logs))
	}
	if _, err := ctx.Store.GetReminder(p.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("reminder should be removed, got %v", err)
	}
}

func TestListShowStatus(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&StatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("status on empty db failed: %v", err)
	}
	if err := (&PlantListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	mustAdd(t, ctx, PlantAddCmd{Name: "Kenji", Watered: "2024-05-20", Added: "2024-05-01"})
	mustAdd(t, ctx, PlantAddCmd{Name: "Mochi"})

	for name, cmd := range map[string]interface{ Run(*cli.Context) error }{
		"list":          &PlantListCmd{ShowIDs: true},
		"show":          &PlantShowCmd{Plant: "Kenji"},
		"status":        &StatusCmd{},
		"status single": &StatusCmd{Plant: "Mochi"},
	} {
		if err := cmd.Run(ctx); err != nil {
			t.Errorf("%s failed: %v", name, err)
		}
	}

	if err := (&PlantShowCmd{Plant: "Nobody"}).Run(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("show unknown error = %v, want ErrNotFound", err)
	}
}

func TestNextWateringUsesEffectiveDate(t *testing.T) {
	next := time.Date(2024, 6, 7, 9, 0, 0, 0, time.UTC)
	shifted := next.AddDate(0, 0, 2)
	tests := []struct {
		name string
		st   care.PlantStatus
		want string
	}{
		{
			name: "rain postpones",
			st: care.PlantStatus{
				NextWatering: &next,
				Effective:    &shifted,
				Adjustment:   models.WateringAdjustment{Kind: models.AdjustmentPostpone, Reason: "recent rain", MagnitudeDays: 2},
			},
			want: "Sun 2024-06-09 (recent rain)",
		},
		{
			name: "indoor",
			st: care.PlantStatus{
				NextWatering: &next,
				Effective:    &next,
				Adjustment:   models.Normal("indoor plant"),
			},
			want: "Fri 2024-06-07",
		},
		{name: "no date", st: care.PlantStatus{}, want: "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextWatering(tt.st, time.UTC); got != tt.want {
				t.Errorf("nextWatering() = %q, want %q", got, tt.want)
			}
		})
	}
}
