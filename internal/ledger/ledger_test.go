package ledger

import (
	"testing"
	"time"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/schedule"
)

var day1 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newLedger() *Ledger {
	calc := schedule.New(schedule.WithLocation(time.UTC), schedule.WithClock(func() time.Time { return day1 }))
	l := New(calc)
	n := 0
	l.newID = func() string {
		n++
		return "log-" + string(rune('0'+n))
	}
	return l
}

func testPlant() *models.Plant {
	return &models.Plant{
		ID:         "p-1",
		Name:       "Kenji",
		Location:   models.LocationOutdoor,
		LightLevel: models.LightIndirect,
		Container:  models.ContainerPot,
		AddedDate:  day1.AddDate(0, 0, -10),
	}
}

func TestRecordWateringUpdatesLastWatered(t *testing.T) {
	l := newLedger()
	p := testPlant()
	p.PostponedDays = 2

	entry := l.Record(p, models.CareWatering, day1, "deep soak")

	if entry.ID != "log-1" || entry.PlantID != "p-1" || entry.Notes != "deep soak" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if len(p.CareHistory) != 1 {
		t.Fatalf("history length = %d, want 1", len(p.CareHistory))
	}
	if p.LastWatered == nil || !p.LastWatered.Equal(day1) {
		t.Errorf("LastWatered = %v, want %v", p.LastWatered, day1)
	}
	if p.PostponedDays != 0 {
		t.Errorf("PostponedDays = %d, want 0", p.PostponedDays)
	}
}

func TestRecordBackdatedWateringKeepsLastWatered(t *testing.T) {
	l := newLedger()
	p := testPlant()
	l.Record(p, models.CareWatering, day1, "")
	l.Record(p, models.CareWatering, day1.AddDate(0, 0, -3), "forgot to log")

	if !p.LastWatered.Equal(day1) {
		t.Errorf("LastWatered regressed to %v", p.LastWatered)
	}
	if len(p.CareHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(p.CareHistory))
	}
}

func TestRecordComparesAgainstLoggedWaterings(t *testing.T) {
	tests := []struct {
		name        string
		lastWatered time.Time
		date        time.Time
		want        time.Time
	}{
		{
			// LastWatered was edited behind the newest log; the log still wins.
			name:        "edited behind newest log",
			lastWatered: day1.AddDate(0, 0, -10),
			date:        day1.AddDate(0, 0, -5),
			want:        day1.AddDate(0, 0, -10),
		},
		{
			name:        "edited ahead of newest log",
			lastWatered: day1.AddDate(0, 0, -1),
			date:        day1.AddDate(0, 0, -2),
			want:        day1.AddDate(0, 0, -1),
		},
		{
			name:        "newer than everything",
			lastWatered: day1.AddDate(0, 0, -10),
			date:        day1,
			want:        day1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLedger()
			p := testPlant()
			l.Record(p, models.CareWatering, day1.AddDate(0, 0, -2), "")
			edited := tt.lastWatered
			p.LastWatered = &edited

			l.Record(p, models.CareWatering, tt.date, "")
			if !p.LastWatered.Equal(tt.want) {
				t.Errorf("LastWatered = %v, want %v", p.LastWatered, tt.want)
			}
		})
	}
}

func TestRecordNonWateringLeavesSchedule(t *testing.T) {
	l := newLedger()
	p := testPlant()
	p.PostponedDays = 1

	for _, ct := range []models.CareType{models.CareFertilizing, models.CarePruning, models.CareTransplanting, models.CareObservation} {
		l.Record(p, ct, day1, "")
	}

	if p.LastWatered != nil {
		t.Errorf("LastWatered = %v, want nil", p.LastWatered)
	}
	if p.PostponedDays != 1 {
		t.Errorf("PostponedDays = %d, want 1", p.PostponedDays)
	}
	if len(p.CareHistory) != 4 {
		t.Errorf("history length = %d, want 4", len(p.CareHistory))
	}
}

func TestRecordAcceptsDuplicates(t *testing.T) {
	l := newLedger()
	p := testPlant()
	l.Record(p, models.CareWatering, day1, "")
	l.Record(p, models.CareWatering, day1, "")
	if len(p.CareHistory) != 2 {
		t.Errorf("history length = %d, want 2", len(p.CareHistory))
	}
}

func TestHistory(t *testing.T) {
	logs := []models.CareLog{
		{ID: "a", Date: day1.AddDate(0, 0, -2)},
		{ID: "b", Date: day1},
		{ID: "c", Date: day1.AddDate(0, 0, -5)},
		{ID: "d", Date: day1},
	}

	got := History(logs)
	want := []string{"d", "b", "a", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("History()[%d] = %s, want %s", i, got[i].ID, id)
		}
	}
	if logs[0].ID != "a" {
		t.Error("History() mutated its input")
	}
}

func TestLastWatering(t *testing.T) {
	tests := []struct {
		name string
		logs []models.CareLog
		want *time.Time
	}{
		{name: "empty", logs: nil, want: nil},
		{name: "no watering", logs: []models.CareLog{{Type: models.CarePruning, Date: day1}}, want: nil},
		{
			name: "latest wins",
			logs: []models.CareLog{
				{Type: models.CareWatering, Date: day1},
				{Type: models.CareWatering, Date: day1.AddDate(0, 0, -4)},
				{Type: models.CareFertilizing, Date: day1.AddDate(0, 0, 2)},
			},
			want: &day1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastWatering(tt.logs)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("LastWatering() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("LastWatering() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	logs := []models.CareLog{
		{ID: "1", Type: models.CareWatering},
		{ID: "2", Type: models.CarePruning},
		{ID: "3", Type: models.CareWatering},
	}
	got := Filter(logs, models.CareWatering)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "3" {
		t.Errorf("Filter() = %+v", got)
	}
}
