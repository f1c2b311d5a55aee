package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/schedule"
	"github.com/julianstephens/bamboocare/internal/storage/sqlite"
	"github.com/julianstephens/bamboocare/internal/tui/components/forecast"
	"github.com/julianstephens/bamboocare/internal/weather"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func setupModel(t *testing.T) (Model, *care.Service) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "bamboocare.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	calc := schedule.New(schedule.WithLocation(time.UTC), schedule.WithClock(func() time.Time { return now }))
	svc, err := care.New(store, care.WithCalculator(calc))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SeedSpecies(context.Background()); err != nil {
		t.Fatal(err)
	}

	m := NewModel(context.Background(), svc)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, svc
}

func addPlant(t *testing.T, svc *care.Service, name string, watered time.Time) models.Plant {
	t.Helper()
	p, err := svc.AddPlant(context.Background(), models.Plant{
		Name: name, Location: models.LocationIndoor, LightLevel: models.LightIndirect, Container: models.ContainerPot,
		AddedDate: watered, LastWatered: &watered,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// send delivers msg and then runs any resulting commands, feeding their
// messages back in, until nothing is left to do.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0; i++ {
		if i > 50 {
			t.Fatal("too many messages")
		}
		next := queue[0]
		queue = queue[1:]

		updated, cmd := m.Update(next)
		m = updated.(Model)
		queue = append(queue, run(cmd)...)
	}
	return m
}

func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	switch msg.(type) {
	case tea.QuitMsg:
		return nil
	}
	return []tea.Msg{msg}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitLoadsDashboard(t *testing.T) {
	m, svc := setupModel(t)
	addPlant(t, svc, "Kenji", now.AddDate(0, 0, -10))
	addPlant(t, svc, "Mochi", now)

	for _, msg := range run(m.Init()) {
		m = send(t, m, msg)
	}

	if m.plants.Len() != 2 {
		t.Fatalf("plants = %d, want 2", m.plants.Len())
	}
	first, ok := m.plants.Selected()
	if !ok || first.Plant.Name != "Kenji" {
		t.Errorf("first plant = %+v, want the overdue Kenji", first.Plant.Name)
	}
	if len(m.species) != 6 {
		t.Errorf("species = %d, want 6", len(m.species))
	}
	if !strings.Contains(m.View(), "Kenji") {
		t.Error("view should list plants")
	}
}

func TestWaterSelectedPlant(t *testing.T) {
	m, svc := setupModel(t)
	p := addPlant(t, svc, "Kenji", now.AddDate(0, 0, -10))
	m = send(t, m, m.loadDashboard()())

	m = send(t, m, keyRune('w'))

	got, err := svc.GetPlant(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastWatered == nil || !got.LastWatered.Equal(now) {
		t.Errorf("LastWatered = %v, want %v", got.LastWatered, now)
	}
	if m.err != nil || !strings.Contains(m.message, "Watered Kenji") {
		t.Errorf("message = %q, err = %v", m.message, m.err)
	}
	st, _ := m.plants.Selected()
	if st.Status.Urgency == schedule.UrgencyUrgent {
		t.Error("dashboard should be refreshed after watering")
	}
}

func TestPostponeSelectedPlant(t *testing.T) {
	m, svc := setupModel(t)
	p := addPlant(t, svc, "Kenji", now.AddDate(0, 0, -2))
	m = send(t, m, m.loadDashboard()())

	m = send(t, m, keyRune('p'))
	m = send(t, m, keyRune('p'))

	got, _ := svc.GetPlant(p.ID)
	if got.PostponedDays != 2 {
		t.Errorf("PostponedDays = %d, want 2", got.PostponedDays)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, svc := setupModel(t)
	addPlant(t, svc, "Kenji", now)
	m = send(t, m, m.loadDashboard()())

	m = send(t, m, keyRune('d'))
	if m.state != StateConfirmDelete {
		t.Fatalf("state = %v, want StateConfirmDelete", m.state)
	}
	if !strings.Contains(m.View(), "Delete Kenji") {
		t.Error("confirmation should name the plant")
	}
	m = send(t, m, keyRune('n'))
	if m.state != StatePlants {
		t.Fatalf("state = %v, want StatePlants", m.state)
	}
	if all, _ := svc.ListPlants(); len(all) != 1 {
		t.Fatal("plant deleted without confirmation")
	}

	m = send(t, m, keyRune('d'))
	m = send(t, m, keyRune('y'))
	if all, _ := svc.ListPlants(); len(all) != 0 {
		t.Errorf("plants = %d, want 0", len(all))
	}
	if m.plants.Len() != 0 {
		t.Errorf("list = %d, want 0 after refresh", m.plants.Len())
	}
}

func TestFormsOpenAndCancel(t *testing.T) {
	m, svc := setupModel(t)
	addPlant(t, svc, "Kenji", now)
	m = send(t, m, m.loadDashboard()())

	tests := []struct {
		name string
		key  rune
		want SessionState
	}{
		{name: "add plant", key: 'a', want: StateAddPlant},
		{name: "log care", key: 'c', want: StateLogCare},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := m
			m.state = StatePlants
			_, cmd := m.Update(keyRune(tt.key))
			msgs := run(cmd)
			if len(msgs) != 1 {
				t.Fatalf("expected one message, got %v", msgs)
			}
			updated, _ := m.Update(msgs[0])
			m = updated.(Model)
			if m.state != tt.want || m.form == nil {
				t.Fatalf("state = %v, want %v", m.state, tt.want)
			}

			updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
			m = updated.(Model)
			if m.state != StatePlants {
				t.Errorf("state after esc = %v, want StatePlants", m.state)
			}
		})
	}
}

func TestAddPlantCommand(t *testing.T) {
	m, svc := setupModel(t)
	sp, err := svc.FindSpecies("Lucky Bamboo")
	if err != nil {
		t.Fatal(err)
	}

	m = send(t, m, m.addPlant(PlantFormModel{
		Name: "Kenji", SpeciesID: sp.ID,
		Location: models.LocationIndoor, Light: models.LightShade, Container: models.ContainerWaterVase,
		Watered: "2024-06-09",
	})())

	if m.err != nil {
		t.Fatalf("add failed: %v", m.err)
	}
	p, err := svc.FindPlant("Kenji")
	if err != nil {
		t.Fatal(err)
	}
	if p.SpeciesID == nil || *p.SpeciesID != sp.ID || !p.AddedDate.Equal(now) {
		t.Errorf("plant = %+v", p)
	}
	if m.plants.Len() != 1 {
		t.Errorf("list = %d, want 1", m.plants.Len())
	}

	m = send(t, m, m.addPlant(PlantFormModel{Name: "Bad", Location: models.LocationIndoor, Light: models.LightShade, Container: models.ContainerPot, Watered: "yesterday"})())
	if m.err == nil {
		t.Error("expected error for a bad date")
	}
}

func TestLogCareCommand(t *testing.T) {
	m, svc := setupModel(t)
	p := addPlant(t, svc, "Kenji", now.AddDate(0, 0, -1))

	m = send(t, m, m.logCare(p.ID, CareFormModel{Type: models.CarePruning, Notes: "dead leaves"})())
	if m.err != nil {
		t.Fatal(m.err)
	}
	logs, _ := svc.History(p.ID)
	if len(logs) != 1 || logs[0].Type != models.CarePruning || !logs[0].Date.Equal(now) {
		t.Errorf("history = %+v", logs)
	}
}

func TestTabsCycle(t *testing.T) {
	m, _ := setupModel(t)
	tests := []struct {
		key  tea.KeyMsg
		want SessionState
	}{
		{key: tea.KeyMsg{Type: tea.KeyTab}, want: StateWeather},
		{key: tea.KeyMsg{Type: tea.KeyTab}, want: StateSpecies},
		{key: tea.KeyMsg{Type: tea.KeyTab}, want: StatePlants},
		{key: tea.KeyMsg{Type: tea.KeyShiftTab}, want: StateSpecies},
	}
	for _, tt := range tests {
		m = send(t, m, tt.key)
		if m.state != tt.want {
			t.Fatalf("state = %v, want %v", m.state, tt.want)
		}
	}
}

func TestForecastRender(t *testing.T) {
	if got := forecast.Render(nil, nil); !strings.Contains(got, "Weather unavailable") {
		t.Errorf("Render(nil) = %q", got)
	}

	snap := &weather.Snapshot{
		Current:  weather.Conditions{TemperatureC: 31.5, HumidityPct: 40, Condition: weather.ConditionClear},
		Forecast: []weather.Daily{{Date: "2024-06-10", MaxTempC: 36, MinTempC: 22}},
		Source:   "static",
	}
	got := forecast.Render(snap, []string{"Extreme heat"})
	for _, want := range []string{"31.5°C", "2024-06-10", "Extreme heat", "static"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}
