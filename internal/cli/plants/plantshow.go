package plants

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/ledger"
)

type PlantShowCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
}

func (c *PlantShowCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err := svc.FindPlant(c.Plant)
	if err != nil {
		return err
	}
	st, err := svc.Status(ctx.Ctx(), p.ID)
	if err != nil {
		return err
	}
	loc := svc.Calculator().Location()

	fmt.Printf("%s (ID: %s)\n", p.Name, p.ID)
	fmt.Printf("  Species:        %s\n", p.SpeciesName())
	if p.Species != nil && p.Species.WaterAmountGuide != "" {
		fmt.Printf("  Water guide:    %s\n", p.Species.WaterAmountGuide)
	}
	fmt.Printf("  Placement:      %s\n", cli.DescribePlant(p))
	fmt.Printf("  Added:          %s\n", p.AddedDate.In(loc).Format(constants.DateFormat))
	fmt.Printf("  Last watered:   %s\n", cli.FormatDate(p.LastWatered, loc))
	fmt.Printf("  Frequency:      every %d days\n", st.Frequency)
	if p.PostponedDays > 0 {
		fmt.Printf("  Postponed:      %d day(s)\n", p.PostponedDays)
	}
	fmt.Printf("  Next watering:  %s\n", cli.FormatDate(st.NextWatering, loc))
	if shift := st.Adjustment.ShiftDays(); shift != 0 {
		fmt.Printf("  Weather:        %+d day(s), %s\n", shift, st.Adjustment.Reason)
	}
	fmt.Printf("  Status:         %s\n", st.Status.Label)
	if p.Notes != "" {
		fmt.Printf("  Notes:          %s\n", p.Notes)
	}

	if recent := ledger.History(p.CareHistory); len(recent) > 0 {
		fmt.Println("  Recent care:")
		for i, l := range recent {
			if i == 5 {
				break
			}
			fmt.Printf("    %s  %-13s %s\n", l.Date.In(loc).Format(constants.DateFormat), l.Type, l.Notes)
		}
	}
	return nil
}
