package plants

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/export"
	"github.com/julianstephens/bamboocare/internal/ledger"
	"github.com/julianstephens/bamboocare/internal/models"
)

type HistoryCmd struct {
	Plant  string `arg:"" optional:"" help:"Plant ID or name. Omit with --export to export every plant."`
	Type   string `short:"t" help:"Only show this care type."`
	Export string `help:"Write the history to an .xlsx workbook at this path." type:"path"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Export != "" {
		return c.exportXLSX(ctx)
	}
	if c.Plant == "" {
		return fmt.Errorf("a plant is required unless --export is given")
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err := svc.FindPlant(c.Plant)
	if err != nil {
		return err
	}
	logs, err := svc.History(p.ID)
	if err != nil {
		return err
	}
	if c.Type != "" {
		careType, err := models.ParseCareType(c.Type)
		if err != nil {
			return err
		}
		logs = ledger.Filter(logs, careType)
	}

	if len(logs) == 0 {
		fmt.Printf("No care history for %s\n", p.Name)
		return nil
	}

	loc := svc.Calculator().Location()
	fmt.Printf("Care history for %s:\n", p.Name)
	for _, l := range logs {
		fmt.Printf("  %s  %-13s %s\n", l.Date.In(loc).Format(constants.DateTimeFormat), l.Type, l.Notes)
	}
	return nil
}

func (c *HistoryCmd) exportXLSX(ctx *cli.Context) error {
	if !strings.EqualFold(filepath.Ext(c.Export), ".xlsx") {
		return fmt.Errorf("export path must end in .xlsx")
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	var plants []models.Plant
	if c.Plant != "" {
		p, err := svc.FindPlant(c.Plant)
		if err != nil {
			return err
		}
		plants = []models.Plant{p}
	} else {
		all, err := svc.ListPlants()
		if err != nil {
			return err
		}
		for _, p := range all {
			full, err := svc.GetPlant(p.ID)
			if err != nil {
				return err
			}
			plants = append(plants, full)
		}
	}

	calc := svc.Calculator()
	rows := make([]export.Row, 0, len(plants))
	for _, p := range plants {
		rows = append(rows, export.Row{Plant: p, NextWatering: calc.NextWateringDate(p)})
	}

	f, err := os.Create(c.Export)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.WriteXLSX(f, rows, calc.Location()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("✓ Exported care history for %d plant(s) to %s\n", len(rows), c.Export)
	return nil
}
