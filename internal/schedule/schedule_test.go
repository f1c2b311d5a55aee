package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/julianstephens/bamboocare/internal/models"
)

func speciesWith(days int) *models.Species {
	id := "sp-1"
	return &models.Species{ID: id, CommonName: "Test Bamboo", BaseWateringFrequencyDays: days}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAdjustedFrequencyScenarios(t *testing.T) {
	tests := []struct {
		name  string
		plant models.Plant
		want  int
	}{
		{
			name: "indoor pot indirect cancels out",
			plant: models.Plant{
				Species:    speciesWith(7),
				Location:   models.LocationIndoor,
				Container:  models.ContainerPot,
				LightLevel: models.LightIndirect,
			},
			want: 7,
		},
		{
			name: "water vase overrides everything",
			plant: models.Plant{
				Species:    speciesWith(3),
				Location:   models.LocationOutdoor,
				Container:  models.ContainerWaterVase,
				LightLevel: models.LightDirect,
			},
			want: 7,
		},
		{
			name: "no species falls back to default",
			plant: models.Plant{
				Location:   models.LocationOutdoor,
				Container:  models.ContainerGround,
				LightLevel: models.LightShade,
			},
			want: 9,
		},
		{
			name: "clamped to one day",
			plant: models.Plant{
				Species:    speciesWith(1),
				Location:   models.LocationOutdoor,
				Container:  models.ContainerPot,
				LightLevel: models.LightDirect,
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AdjustedFrequency(tt.plant); got != tt.want {
				t.Errorf("AdjustedFrequency() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAdjustedFrequencyProperties(t *testing.T) {
	for base := 1; base <= 10; base++ {
		for _, loc := range models.AllLocations {
			for _, container := range models.AllContainers {
				for _, light := range models.AllLightLevels {
					p := models.Plant{Species: speciesWith(base), Location: loc, Container: container, LightLevel: light}
					got := AdjustedFrequency(p)
					if got < 1 {
						t.Errorf("base=%d %s/%s/%s: adjusted %d < 1", base, loc, container, light, got)
					}
					if container == models.ContainerWaterVase && got != 7 {
						t.Errorf("base=%d %s/%s: water vase adjusted %d, want 7", base, loc, light, got)
					}
				}
			}
		}
	}
}

func TestNextWateringDate(t *testing.T) {
	calc := New(WithLocation(time.UTC))
	day0 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	p := models.Plant{
		Species:     speciesWith(7),
		Location:    models.LocationIndoor,
		Container:   models.ContainerPot,
		LightLevel:  models.LightIndirect,
		AddedDate:   day0.AddDate(0, -1, 0),
		LastWatered: &day0,
	}

	next := calc.NextWateringDate(p)
	if next == nil {
		t.Fatal("expected a next watering date")
	}
	if want := day0.AddDate(0, 0, 7); !next.Equal(want) {
		t.Errorf("NextWateringDate() = %v, want %v", next, want)
	}

	never := models.Plant{Container: models.ContainerPot, AddedDate: day0}
	if got := calc.NextWateringDate(never); got == nil || !got.After(day0) {
		t.Errorf("expected added date to anchor the schedule, got %v", got)
	}

	if got := calc.NextWateringDate(models.Plant{}); got != nil {
		t.Errorf("expected nil without a start date, got %v", got)
	}
}

func TestNextWateringDateMonotonic(t *testing.T) {
	calc := New(WithLocation(time.UTC))
	day0 := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	p := models.Plant{Species: speciesWith(3), Location: models.LocationOutdoor, Container: models.ContainerGround, LightLevel: models.LightShade, LastWatered: &day0}
	base := *calc.NextWateringDate(p)

	for d := 1; d <= 30; d++ {
		later := day0.AddDate(0, 0, d)
		p.LastWatered = &later
		got := *calc.NextWateringDate(p)
		if want := base.AddDate(0, 0, d); !got.Equal(want) {
			t.Fatalf("advance %d: got %v, want %v", d, got, want)
		}
	}
}

func TestNextWateringDateAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	calc := New(WithLocation(ny))

	watered := time.Date(2024, 3, 8, 9, 0, 0, 0, ny)
	p := models.Plant{
		Species:     speciesWith(3),
		Location:    models.LocationOutdoor,
		Container:   models.ContainerGround,
		LightLevel:  models.LightDirect,
		LastWatered: &watered,
	}

	next := calc.NextWateringDate(p)
	if want := time.Date(2024, 3, 11, 9, 0, 0, 0, ny); !next.Equal(want) {
		t.Errorf("NextWateringDate() = %v, want %v (wall clock preserved)", next, want)
	}
}

func TestStatus(t *testing.T) {
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	calc := New(WithLocation(time.UTC), WithClock(fixedClock(now)))

	// Ground, outdoor, indirect: base 7 +1 = 8.
	lastFor := func(next time.Time) *time.Time {
		t := next.AddDate(0, 0, -8)
		return &t
	}

	tests := []struct {
		name      string
		next      time.Time
		urgency   Urgency
		label     string
		daysUntil int
	}{
		{name: "overdue", next: now.AddDate(0, 0, -2), urgency: UrgencyUrgent, label: "Water today"},
		{name: "exactly now", next: now, urgency: UrgencyUrgent, label: "Water today"},
		{name: "later today", next: now.Add(5 * time.Hour), urgency: UrgencyUrgent, label: "Water today"},
		{name: "tomorrow morning", next: time.Date(2024, 6, 11, 1, 0, 0, 0, time.UTC), urgency: UrgencyDueSoon, label: "Water tomorrow", daysUntil: 1},
		{name: "in three days", next: now.AddDate(0, 0, 3), urgency: UrgencyScheduled, label: "Water in 3 days", daysUntil: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Plant{
				Species:     speciesWith(7),
				Location:    models.LocationOutdoor,
				Container:   models.ContainerGround,
				LightLevel:  models.LightIndirect,
				LastWatered: lastFor(tt.next),
			}
			got := calc.Status(p)
			if got.Urgency != tt.urgency {
				t.Errorf("Urgency = %s, want %s", got.Urgency, tt.urgency)
			}
			if got.Label != tt.label {
				t.Errorf("Label = %q, want %q", got.Label, tt.label)
			}
			if got.DaysUntil != tt.daysUntil {
				t.Errorf("DaysUntil = %d, want %d", got.DaysUntil, tt.daysUntil)
			}
			if got.Color != tt.urgency.Color() {
				t.Errorf("Color = %q, want %q", got.Color, tt.urgency.Color())
			}
		})
	}

	if got := calc.StatusAt(nil); got.Urgency != UrgencyUrgent {
		t.Errorf("nil next date should be urgent, got %s", got.Urgency)
	}
}

func TestMarkWateredNeverUrgent(t *testing.T) {
	now := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	calc := New(WithLocation(time.UTC), WithClock(fixedClock(now)))

	for base := 1; base <= 7; base++ {
		for _, loc := range models.AllLocations {
			for _, container := range models.AllContainers {
				for _, light := range models.AllLightLevels {
					p := models.Plant{
						Species:       speciesWith(base),
						Location:      loc,
						Container:     container,
						LightLevel:    light,
						AddedDate:     now.AddDate(0, -2, 0),
						PostponedDays: 3,
					}
					calc.MarkWatered(&p, now)
					if p.PostponedDays != 0 {
						t.Fatalf("MarkWatered did not reset postponement")
					}
					if st := calc.Status(p); st.Urgency == UrgencyUrgent {
						t.Errorf("base=%d %s/%s/%s: urgent right after watering", base, loc, container, light)
					}
				}
			}
		}
	}
}

func TestPostponeIsAdditive(t *testing.T) {
	calc := New(WithLocation(time.UTC))
	watered := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	mk := func() models.Plant {
		w := watered
		return models.Plant{Species: speciesWith(4), Location: models.LocationOutdoor, Container: models.ContainerPot, LightLevel: models.LightIndirect, LastWatered: &w}
	}

	twice := mk()
	calc.Postpone(&twice, 1)
	calc.Postpone(&twice, 1)

	once := mk()
	calc.Postpone(&once, 2)

	a, b := calc.NextWateringDate(twice), calc.NextWateringDate(once)
	if !a.Equal(*b) {
		t.Errorf("postpone(1)x2 = %v, postpone(2) = %v", a, b)
	}
	if want := watered.AddDate(0, 0, 3+2); !a.Equal(want) {
		t.Errorf("next = %v, want %v", a, want)
	}
}

func TestPostponeNoOp(t *testing.T) {
	calc := New()
	p := models.Plant{}
	if calc.Postpone(&p, 2) {
		t.Error("expected no-op without a next watering date")
	}
	if p.PostponedDays != 0 {
		t.Errorf("PostponedDays = %d, want 0", p.PostponedDays)
	}

	p.AddedDate = time.Now()
	if calc.Postpone(&p, 0) || calc.Postpone(&p, -1) {
		t.Error("expected non-positive days to be ignored")
	}
}

func TestEffective(t *testing.T) {
	calc := New(WithLocation(time.UTC))
	watered := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	// base 7 outdoor ground indirect = 8
	p := models.Plant{Species: speciesWith(7), Location: models.LocationOutdoor, Container: models.ContainerGround, LightLevel: models.LightIndirect, LastWatered: &watered}

	tests := []struct {
		name string
		adj  models.WateringAdjustment
		want time.Time
	}{
		{name: "normal", adj: models.Normal("conditions normal"), want: watered.AddDate(0, 0, 8)},
		{name: "postpone", adj: models.WateringAdjustment{Kind: models.AdjustmentPostpone, MagnitudeDays: 2}, want: watered.AddDate(0, 0, 10)},
		{name: "accelerate", adj: models.WateringAdjustment{Kind: models.AdjustmentAccelerate, MagnitudeDays: 1}, want: watered.AddDate(0, 0, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calc.Effective(p, tt.adj); !got.Equal(tt.want) {
				t.Errorf("Effective() = %v, want %v", got, tt.want)
			}
		})
	}

	short := models.Plant{Species: speciesWith(1), Location: models.LocationOutdoor, Container: models.ContainerPot, LightLevel: models.LightDirect, LastWatered: &watered}
	got := calc.Effective(short, models.WateringAdjustment{Kind: models.AdjustmentAccelerate, MagnitudeDays: 1})
	if want := watered.AddDate(0, 0, 1); !got.Equal(want) {
		t.Errorf("accelerated date = %v, want floor %v", got, want)
	}
}

func TestInputsChanged(t *testing.T) {
	watered := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	later := watered.Add(time.Hour)
	sp := "sp-1"
	other := "sp-2"
	base := models.Plant{Name: "Kenji", Location: models.LocationIndoor, Container: models.ContainerPot, LightLevel: models.LightShade, LastWatered: &watered, SpeciesID: &sp}

	tests := []struct {
		name   string
		mutate func(p *models.Plant)
		want   bool
	}{
		{name: "rename only", mutate: func(p *models.Plant) { p.Name = "Hana"; p.Notes = "repotted" }, want: false},
		{name: "last watered", mutate: func(p *models.Plant) { p.LastWatered = &later }, want: true},
		{name: "species", mutate: func(p *models.Plant) { p.SpeciesID = &other }, want: true},
		{name: "species cleared", mutate: func(p *models.Plant) { p.SpeciesID = nil }, want: true},
		{name: "location", mutate: func(p *models.Plant) { p.Location = models.LocationOutdoor }, want: true},
		{name: "container", mutate: func(p *models.Plant) { p.Container = models.ContainerGround }, want: true},
		{name: "light", mutate: func(p *models.Plant) { p.LightLevel = models.LightDirect }, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := base
			tt.mutate(&updated)
			if got := InputsChanged(base, updated); got != tt.want {
				t.Errorf("InputsChanged() = %v, want %v", got, tt.want)
			}
		})
	}
}
