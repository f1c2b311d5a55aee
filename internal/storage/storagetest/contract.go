// Package storagetest holds behavioural tests shared by every storage.Provider backend.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
)

// Factory returns a freshly initialized provider. Cleanup is the caller's job.
type Factory func(t *testing.T) storage.Provider

var base = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func newSpecies(id, name string, days int) models.Species {
	return models.Species{ID: id, CommonName: name, ScientificName: name + " sp.", BaseWateringFrequencyDays: days, CreatedAt: base}
}

func newPlant(id, name string, speciesID *string) models.Plant {
	return models.Plant{
		ID:         id,
		Name:       name,
		Location:   models.LocationOutdoor,
		LightLevel: models.LightIndirect,
		Container:  models.ContainerPot,
		AddedDate:  base,
		SpeciesID:  speciesID,
	}
}

// Run exercises the full Provider contract.
func Run(t *testing.T, factory Factory) {
	t.Run("settings round trip", func(t *testing.T) { testSettings(t, factory(t)) })
	t.Run("species crud", func(t *testing.T) { testSpecies(t, factory(t)) })
	t.Run("species delete nullifies plants", func(t *testing.T) { testSpeciesDeleteNullifies(t, factory(t)) })
	t.Run("plant crud", func(t *testing.T) { testPlants(t, factory(t)) })
	t.Run("plant delete cascades", func(t *testing.T) { testPlantDeleteCascades(t, factory(t)) })
	t.Run("care logs keep insertion order", func(t *testing.T) { testCareLogOrder(t, factory(t)) })
	t.Run("record care updates schedule", func(t *testing.T) { testRecordCare(t, factory(t)) })
	t.Run("reminders", func(t *testing.T) { testReminders(t, factory(t)) })
}

func testSettings(t *testing.T, store storage.Provider) {
	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if settings.Timezone == "" || settings.ReminderTime == "" {
		t.Errorf("expected default settings after init, got %+v", settings)
	}

	lat, lon := 19.43, -99.13
	settings.Timezone = "America/Mexico_City"
	settings.Latitude = &lat
	settings.Longitude = &lon
	settings.NotificationsEnabled = false
	settings.WeatherTimeoutSec = 4
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() error = %v", err)
	}
	if got.Timezone != "America/Mexico_City" || got.NotificationsEnabled || got.WeatherTimeoutSec != 4 {
		t.Errorf("settings not persisted: %+v", got)
	}
	if !got.HasCoordinates() || *got.Latitude != lat || *got.Longitude != lon {
		t.Errorf("coordinates not persisted: %+v", got)
	}
}

func testSpecies(t *testing.T, store storage.Provider) {
	sp := newSpecies("sp-1", "Golden Bamboo", 3)
	if err := store.AddSpecies(sp); err != nil {
		t.Fatalf("AddSpecies() error = %v", err)
	}
	if err := store.AddSpecies(newSpecies("sp-bad", "Broken", 0)); err == nil {
		t.Error("expected validation error for zero frequency")
	}

	got, err := store.GetSpecies("sp-1")
	if err != nil {
		t.Fatalf("GetSpecies() error = %v", err)
	}
	if got.CommonName != "Golden Bamboo" || got.BaseWateringFrequencyDays != 3 || !got.CreatedAt.Equal(base) {
		t.Errorf("GetSpecies() = %+v", got)
	}

	got.BaseWateringFrequencyDays = 4
	if err := store.UpdateSpecies(got); err != nil {
		t.Fatalf("UpdateSpecies() error = %v", err)
	}
	all, err := store.GetAllSpecies()
	if err != nil {
		t.Fatalf("GetAllSpecies() error = %v", err)
	}
	if len(all) != 1 || all[0].BaseWateringFrequencyDays != 4 {
		t.Errorf("GetAllSpecies() = %+v", all)
	}

	if _, err := store.GetSpecies("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetSpecies(missing) error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteSpecies("missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteSpecies(missing) error = %v, want ErrNotFound", err)
	}
}

func testSpeciesDeleteNullifies(t *testing.T, store storage.Provider) {
	if err := store.AddSpecies(newSpecies("sp-1", "Black Bamboo", 3)); err != nil {
		t.Fatalf("AddSpecies() error = %v", err)
	}
	postponed := newPlant("p-1", "Kenji", strPtr("sp-1"))
	postponed.PostponedDays = 5
	if err := store.AddPlant(postponed); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}

	p, err := store.GetPlant("p-1")
	if err != nil {
		t.Fatalf("GetPlant() error = %v", err)
	}
	if p.Species == nil || p.Species.CommonName != "Black Bamboo" {
		t.Fatalf("expected species to be loaded, got %+v", p.Species)
	}

	if err := store.DeleteSpecies("sp-1"); err != nil {
		t.Fatalf("DeleteSpecies() error = %v", err)
	}

	p, err = store.GetPlant("p-1")
	if err != nil {
		t.Fatalf("plant must survive species deletion: %v", err)
	}
	if p.SpeciesID != nil || p.Species != nil {
		t.Errorf("expected species reference to be cleared, got %v / %+v", p.SpeciesID, p.Species)
	}
	if p.PostponedDays != 0 {
		t.Errorf("PostponedDays = %d, want 0 after species delete", p.PostponedDays)
	}
}

func testPlants(t *testing.T, store storage.Provider) {
	if err := store.AddSpecies(newSpecies("sp-1", "Fargesia", 4)); err != nil {
		t.Fatalf("AddSpecies() error = %v", err)
	}
	for _, p := range []models.Plant{newPlant("p-2", "zen", nil), newPlant("p-1", "Hana", strPtr("sp-1"))} {
		if err := store.AddPlant(p); err != nil {
			t.Fatalf("AddPlant(%s) error = %v", p.Name, err)
		}
	}

	bad := newPlant("p-3", "", nil)
	if err := store.AddPlant(bad); err == nil {
		t.Error("expected validation error for empty name")
	}

	all, err := store.GetAllPlants()
	if err != nil {
		t.Fatalf("GetAllPlants() error = %v", err)
	}
	if len(all) != 2 || all[0].Name != "Hana" || all[1].Name != "zen" {
		t.Fatalf("GetAllPlants() order = %+v", all)
	}
	if all[0].Species == nil || all[0].Species.BaseWateringFrequencyDays != 4 {
		t.Errorf("expected species loaded on list, got %+v", all[0].Species)
	}

	p, err := store.GetPlant("p-2")
	if err != nil {
		t.Fatalf("GetPlant() error = %v", err)
	}
	watered := base.Add(48 * time.Hour)
	p.LastWatered = &watered
	p.PostponedDays = 2
	p.Notes = "moved to the patio"
	p.Location = models.LocationIndoor
	if err := store.UpdatePlant(p); err != nil {
		t.Fatalf("UpdatePlant() error = %v", err)
	}

	got, err := store.GetPlant("p-2")
	if err != nil {
		t.Fatalf("GetPlant() error = %v", err)
	}
	if got.LastWatered == nil || !got.LastWatered.Equal(watered) {
		t.Errorf("LastWatered = %v, want %v", got.LastWatered, watered)
	}
	if got.PostponedDays != 2 || got.Notes != "moved to the patio" || got.Location != models.LocationIndoor {
		t.Errorf("update not persisted: %+v", got)
	}
	if !got.AddedDate.Equal(base) {
		t.Errorf("AddedDate = %v, want %v", got.AddedDate, base)
	}

	missing := newPlant("nope", "Ghost", nil)
	if err := store.UpdatePlant(missing); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("UpdatePlant(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetPlant("nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetPlant(missing) error = %v, want ErrNotFound", err)
	}
}

func testPlantDeleteCascades(t *testing.T, store storage.Provider) {
	if err := store.AddPlant(newPlant("p-1", "Kenji", nil)); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	if err := store.AddPlant(newPlant("p-2", "Hana", nil)); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	for i, plantID := range []string{"p-1", "p-1", "p-2"} {
		l := models.CareLog{ID: "log-" + string(rune('a'+i)), PlantID: plantID, Date: base, Type: models.CareWatering}
		if _, err := store.AddCareLog(l); err != nil {
			t.Fatalf("AddCareLog() error = %v", err)
		}
	}
	if err := store.SaveReminder(models.Reminder{PlantID: "p-1", FireAt: base, Title: "Time to water!", Body: "x"}); err != nil {
		t.Fatalf("SaveReminder() error = %v", err)
	}

	if err := store.DeletePlant("p-1"); err != nil {
		t.Fatalf("DeletePlant() error = %v", err)
	}

	logs, err := store.GetAllCareLogs()
	if err != nil {
		t.Fatalf("GetAllCareLogs() error = %v", err)
	}
	if len(logs) != 1 || logs[0].PlantID != "p-2" {
		t.Errorf("expected only p-2's log to remain, got %+v", logs)
	}
	if _, err := store.GetReminder("p-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected reminder to be deleted, got %v", err)
	}
	if err := store.DeletePlant("p-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeletePlant() error = %v, want ErrNotFound", err)
	}
}

func testCareLogOrder(t *testing.T, store storage.Provider) {
	if err := store.AddPlant(newPlant("p-1", "Kenji", nil)); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}

	// Dates deliberately out of order; storage must preserve insertion order.
	dates := []time.Time{base.Add(72 * time.Hour), base, base.Add(24 * time.Hour)}
	var lastSeq int64
	for i, d := range dates {
		l, err := store.AddCareLog(models.CareLog{ID: "log-" + string(rune('a'+i)), PlantID: "p-1", Date: d, Type: models.CarePruning, Notes: "trim"})
		if err != nil {
			t.Fatalf("AddCareLog() error = %v", err)
		}
		if l.Seq <= lastSeq {
			t.Errorf("Seq %d not increasing after %d", l.Seq, lastSeq)
		}
		lastSeq = l.Seq
	}

	logs, err := store.GetCareLogs("p-1")
	if err != nil {
		t.Fatalf("GetCareLogs() error = %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	for i, l := range logs {
		if !l.Date.Equal(dates[i]) {
			t.Errorf("log %d date = %v, want %v", i, l.Date, dates[i])
		}
	}

	p, err := store.GetPlant("p-1")
	if err != nil {
		t.Fatalf("GetPlant() error = %v", err)
	}
	if len(p.CareHistory) != 3 || p.CareHistory[0].ID != "log-a" {
		t.Errorf("GetPlant() care history = %+v", p.CareHistory)
	}

	if _, err := store.AddCareLog(models.CareLog{ID: "orphan", PlantID: "ghost", Date: base, Type: models.CareWatering}); err == nil {
		t.Error("expected error logging care for an unknown plant")
	}
}

func testRecordCare(t *testing.T, store storage.Provider) {
	p := newPlant("p-1", "Kenji", nil)
	p.PostponedDays = 3
	if err := store.AddPlant(p); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}

	watered := base.Add(24 * time.Hour)
	p.LastWatered = &watered
	p.PostponedDays = 0
	l, err := store.RecordCare(models.CareLog{ID: "log-a", PlantID: "p-1", Date: watered, Type: models.CareWatering}, p)
	if err != nil {
		t.Fatalf("RecordCare() error = %v", err)
	}
	if l.Seq == 0 {
		t.Error("RecordCare() did not assign Seq")
	}

	got, err := store.GetPlant("p-1")
	if err != nil {
		t.Fatalf("GetPlant() error = %v", err)
	}
	if got.LastWatered == nil || !got.LastWatered.Equal(watered) || got.PostponedDays != 0 {
		t.Errorf("plant schedule = %v / %d, want %v / 0", got.LastWatered, got.PostponedDays, watered)
	}
	if len(got.CareHistory) != 1 {
		t.Errorf("care history = %d entries, want 1", len(got.CareHistory))
	}

	later := watered.Add(24 * time.Hour)
	other := got
	other.ID = "p-2"
	other.LastWatered = &later
	if _, err := store.RecordCare(models.CareLog{ID: "log-b", PlantID: "p-1", Date: later, Type: models.CareWatering}, other); err == nil {
		t.Error("expected error for a log recorded against another plant")
	}
	if _, err := store.RecordCare(models.CareLog{ID: "log-c", PlantID: "p-1", Date: later, Type: "singing"}, got); err == nil {
		t.Error("expected error for an invalid care type")
	}

	got, err = store.GetPlant("p-1")
	if err != nil {
		t.Fatalf("GetPlant() error = %v", err)
	}
	if len(got.CareHistory) != 1 || !got.LastWatered.Equal(watered) {
		t.Errorf("failed RecordCare wrote data: history %d, LastWatered %v", len(got.CareHistory), got.LastWatered)
	}
}

func testReminders(t *testing.T, store storage.Provider) {
	for _, id := range []string{"p-1", "p-2"} {
		if err := store.AddPlant(newPlant(id, "Plant "+id, nil)); err != nil {
			t.Fatalf("AddPlant() error = %v", err)
		}
	}

	first := models.Reminder{PlantID: "p-1", FireAt: base.Add(48 * time.Hour), Title: "Time to water!", Body: "It's time to water your 'Plant p-1'"}
	if err := store.SaveReminder(first); err != nil {
		t.Fatalf("SaveReminder() error = %v", err)
	}
	// Saving again replaces, never duplicates.
	first.FireAt = base.Add(24 * time.Hour)
	if err := store.SaveReminder(first); err != nil {
		t.Fatalf("SaveReminder() error = %v", err)
	}
	if err := store.SaveReminder(models.Reminder{PlantID: "p-2", FireAt: base.Add(96 * time.Hour), Title: "t", Body: "b"}); err != nil {
		t.Fatalf("SaveReminder() error = %v", err)
	}

	all, err := store.GetAllReminders()
	if err != nil {
		t.Fatalf("GetAllReminders() error = %v", err)
	}
	if len(all) != 2 || all[0].PlantID != "p-1" || !all[0].FireAt.Equal(first.FireAt) {
		t.Fatalf("GetAllReminders() = %+v", all)
	}

	sentAt := base.Add(25 * time.Hour)
	if err := store.MarkReminderSent("p-1", sentAt); err != nil {
		t.Fatalf("MarkReminderSent() error = %v", err)
	}
	got, err := store.GetReminder("p-1")
	if err != nil {
		t.Fatalf("GetReminder() error = %v", err)
	}
	if got.SentAt == nil || !got.SentAt.Equal(sentAt) {
		t.Errorf("SentAt = %v, want %v", got.SentAt, sentAt)
	}

	if err := store.DeleteReminder("p-2"); err != nil {
		t.Fatalf("DeleteReminder() error = %v", err)
	}
	if err := store.DeleteReminder("p-2"); err != nil {
		t.Errorf("DeleteReminder() on missing reminder should be a no-op, got %v", err)
	}
	if err := store.MarkReminderSent("p-2", sentAt); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("MarkReminderSent(missing) error = %v, want ErrNotFound", err)
	}
}
