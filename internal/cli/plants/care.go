package plants

import (
	"fmt"
	"time"

	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/models"
)

type WaterCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
	At    string `help:"When it was watered (YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"). Defaults to now."`
	Notes string `short:"n" help:"Notes for the care log."`
}

func (c *WaterCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err := svc.FindPlant(c.Plant)
	if err != nil {
		return err
	}
	at, err := ctx.ParseWhen(c.At)
	if err != nil {
		return err
	}
	if _, err := svc.Water(ctx.Ctx(), p.ID, at, c.Notes); err != nil {
		return fmt.Errorf("failed to record watering: %w", err)
	}

	st, err := svc.Status(ctx.Ctx(), p.ID)
	if err != nil {
		return err
	}
	fmt.Printf("💧 Watered %s. Next watering: %s\n", p.Name, nextWatering(st, svc.Calculator().Location()))
	return nil
}

type PostponeCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
	Days  int    `arg:"" optional:"" help:"Days to postpone." default:"1"`
}

func (c *PostponeCmd) Validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("days must be greater than zero")
	}
	return nil
}

func (c *PostponeCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err := svc.FindPlant(c.Plant)
	if err != nil {
		return err
	}
	changed, err := svc.Postpone(ctx.Ctx(), p.ID, c.Days)
	if err != nil {
		return fmt.Errorf("failed to postpone: %w", err)
	}
	if !changed {
		fmt.Printf("%s has no watering date to postpone\n", p.Name)
		return nil
	}

	st, err := svc.Status(ctx.Ctx(), p.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Postponed %s by %d day(s). Next watering: %s\n", p.Name, c.Days, nextWatering(st, svc.Calculator().Location()))
	return nil
}

// nextWatering formats the weather-adjusted date, the one reminders and the
// dashboard use.
func nextWatering(st care.PlantStatus, loc *time.Location) string {
	out := cli.FormatDate(st.Effective, loc)
	if st.Adjustment.ShiftDays() != 0 {
		out += fmt.Sprintf(" (%s)", st.Adjustment.Reason)
	}
	return out
}

// LogCmd records a non-watering care event (or a watering, with --type watering).
type LogCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
	Type  string `arg:"" help:"Care type (watering|fertilizing|pruning|transplanting|observation)."`
	At    string `help:"When it happened. Defaults to now."`
	Notes string `short:"n" help:"Notes for the care log."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	careType, err := models.ParseCareType(c.Type)
	if err != nil {
		return err
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err := svc.FindPlant(c.Plant)
	if err != nil {
		return err
	}
	at, err := ctx.ParseWhen(c.At)
	if err != nil {
		return err
	}
	entry, err := svc.Record(ctx.Ctx(), p.ID, careType, at, c.Notes)
	if err != nil {
		return fmt.Errorf("failed to record care: %w", err)
	}
	fmt.Printf("Logged %s for %s on %s\n", entry.Type, p.Name, cli.FormatDate(&entry.Date, svc.Calculator().Location()))
	return nil
}
