// Package export writes plant care history to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/ledger"
	"github.com/julianstephens/bamboocare/internal/models"
)

const (
	SheetPlants  = "Plants"
	SheetHistory = "Care History"
)

var (
	plantHeader   = []any{"ID", "Name", "Species", "Location", "Light", "Container", "Added", "Last watered", "Next watering"}
	historyHeader = []any{"Plant", "Date", "Type", "Notes"}
)

// Row is a plant with its derived next watering date.
type Row struct {
	Plant        models.Plant
	NextWatering *time.Time
}

// WriteXLSX writes a workbook with a plant summary sheet and every care log
// entry (newest first per plant). Dates are rendered in loc.
func WriteXLSX(w io.Writer, rows []Row, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPlants); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetHistory); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRow(f, SheetPlants, 1, plantHeader); err != nil {
		return err
	}
	if err := writeRow(f, SheetHistory, 1, historyHeader); err != nil {
		return err
	}
	for _, sheet := range []string{SheetPlants, SheetHistory} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}

	line := 2
	for i, row := range rows {
		p := row.Plant
		values := []any{
			p.ID,
			p.Name,
			p.SpeciesName(),
			string(p.Location),
			p.LightLevel.Label(),
			p.Container.Label(),
			formatDate(&p.AddedDate, loc),
			formatDate(p.LastWatered, loc),
			formatDate(row.NextWatering, loc),
		}
		if err := writeRow(f, SheetPlants, i+2, values); err != nil {
			return err
		}

		for _, entry := range ledger.History(p.CareHistory) {
			values := []any{p.Name, entry.Date.In(loc).Format(constants.DateTimeFormat), string(entry.Type), entry.Notes}
			if err := writeRow(f, SheetHistory, line, values); err != nil {
				return err
			}
			line++
		}
	}

	if err := f.SetColWidth(SheetPlants, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetHistory, "B", "B", 18); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(constants.DateFormat)
}
