package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/bamboocare/internal/models"
)

func TestWriteXLSX(t *testing.T) {
	day := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	watered := day.AddDate(0, 0, 3)
	next := day.AddDate(0, 0, 9)

	rows := []Row{
		{
			Plant: models.Plant{
				ID: "p-1", Name: "Kenji", Location: models.LocationOutdoor,
				LightLevel: models.LightShade, Container: models.ContainerGround,
				AddedDate: day, LastWatered: &watered,
				Species: &models.Species{CommonName: "Golden Bamboo"},
				CareHistory: []models.CareLog{
					{Date: day.AddDate(0, 0, 1), Type: models.CarePruning, Notes: "trimmed"},
					{Date: watered, Type: models.CareWatering},
				},
			},
			NextWatering: &next,
		},
		{
			Plant: models.Plant{
				ID: "p-2", Name: "Hana", Location: models.LocationIndoor,
				LightLevel: models.LightIndirect, Container: models.ContainerWaterVase, AddedDate: day,
				CareHistory: []models.CareLog{{Date: day, Type: models.CareObservation, Notes: "new leaf"}},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, rows, time.UTC); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	plants, err := f.GetRows(SheetPlants)
	if err != nil {
		t.Fatal(err)
	}
	if len(plants) != 3 {
		t.Fatalf("plant rows = %d, want 3", len(plants))
	}
	want := []string{"p-1", "Kenji", "Golden Bamboo", "outdoor", "Shade", "Ground", "2024-06-01", "2024-06-04", "2024-06-10"}
	for i, v := range want {
		if plants[1][i] != v {
			t.Errorf("plant row cell %d = %q, want %q", i, plants[1][i], v)
		}
	}
	if plants[2][2] != "Unknown species" || plants[2][5] != "Water vase" {
		t.Errorf("second plant row = %v", plants[2])
	}

	history, err := f.GetRows(SheetHistory)
	if err != nil {
		t.Fatal(err)
	}
	// header + every log
	if len(history) != 4 {
		t.Fatalf("history rows = %d, want 4", len(history))
	}
	if history[1][0] != "Kenji" || history[1][2] != "watering" || history[1][1] != "2024-06-04 09:00" {
		t.Errorf("newest Kenji entry = %v", history[1])
	}
	if history[2][3] != "trimmed" {
		t.Errorf("second entry = %v", history[2])
	}
	if history[3][0] != "Hana" || history[3][3] != "new leaf" {
		t.Errorf("Hana entry = %v", history[3])
	}
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil, nil); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if rows, _ := f.GetRows(SheetHistory); len(rows) != 1 {
		t.Errorf("history rows = %d, want header only", len(rows))
	}
}
