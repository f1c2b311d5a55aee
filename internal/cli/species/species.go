package species

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/models"
)

type SpeciesListCmd struct {
	ShowIDs bool `help:"Show species IDs." name:"show-ids"`
}

func (c *SpeciesListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	all, err := svc.ListSpecies()
	if err != nil {
		return fmt.Errorf("failed to get species: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No species found. Run 'bamboocare init' to load the built-in species.")
		return nil
	}

	fmt.Println("Species:")
	for _, sp := range all {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", sp.ID)
		}
		fmt.Printf("  %-16s %-22s every %d days%s\n", sp.CommonName, sp.ScientificName, sp.BaseWateringFrequencyDays, idStr)
	}
	return nil
}

type SpeciesShowCmd struct {
	Species string `arg:"" help:"Species ID, common or scientific name."`
}

func (c *SpeciesShowCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	sp, err := svc.FindSpecies(c.Species)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", sp.CommonName, sp.ScientificName)
	fmt.Printf("  ID:          %s\n", sp.ID)
	fmt.Printf("  Watering:    every %d days\n", sp.BaseWateringFrequencyDays)
	if sp.WaterAmountGuide != "" {
		fmt.Printf("  Guide:       %s\n", sp.WaterAmountGuide)
	}
	if sp.Description != "" {
		fmt.Printf("  Description: %s\n", sp.Description)
	}
	return nil
}

type SpeciesAddCmd struct {
	CommonName     string `arg:"" help:"Common name."`
	Frequency      int    `short:"f" help:"Base watering frequency in days." required:""`
	ScientificName string `short:"s" help:"Scientific name."`
	Description    string `short:"d" help:"Description."`
	Guide          string `short:"g" help:"How much water to give (display only)."`
}

func (c *SpeciesAddCmd) Run(ctx *cli.Context) error {
	sp := models.Species{
		CommonName:                c.CommonName,
		ScientificName:            c.ScientificName,
		Description:               c.Description,
		BaseWateringFrequencyDays: c.Frequency,
		WaterAmountGuide:          c.Guide,
	}
	if err := sp.Validate(); err != nil {
		return err
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	sp, err = svc.AddSpecies(ctx.Ctx(), sp)
	if err != nil {
		return fmt.Errorf("failed to add species: %w", err)
	}
	fmt.Printf("Added species: %s (ID: %s)\n", sp.CommonName, sp.ID)
	return nil
}

type SpeciesEditCmd struct {
	Species        string  `arg:"" help:"Species ID, common or scientific name."`
	CommonName     *string `short:"n" name:"name" help:"New common name."`
	Frequency      *int    `short:"f" help:"Base watering frequency in days."`
	ScientificName *string `short:"s" help:"Scientific name."`
	Description    *string `short:"d" help:"Description."`
	Guide          *string `short:"g" help:"How much water to give (display only)."`
}

func (c *SpeciesEditCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	sp, err := svc.FindSpecies(c.Species)
	if err != nil {
		return err
	}

	if c.CommonName != nil {
		sp.CommonName = *c.CommonName
	}
	if c.Frequency != nil {
		sp.BaseWateringFrequencyDays = *c.Frequency
	}
	if c.ScientificName != nil {
		sp.ScientificName = *c.ScientificName
	}
	if c.Description != nil {
		sp.Description = *c.Description
	}
	if c.Guide != nil {
		sp.WaterAmountGuide = *c.Guide
	}
	if err := sp.Validate(); err != nil {
		return err
	}

	sp, err = svc.UpdateSpecies(ctx.Ctx(), sp)
	if err != nil {
		return fmt.Errorf("failed to update species: %w", err)
	}
	fmt.Printf("Updated species: %s (every %d days)\n", sp.CommonName, sp.BaseWateringFrequencyDays)
	return nil
}

type SpeciesDeleteCmd struct {
	Species string `arg:"" help:"Species ID, common or scientific name."`
}

func (c *SpeciesDeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	sp, err := svc.FindSpecies(c.Species)
	if err != nil {
		return err
	}
	if err := svc.DeleteSpecies(ctx.Ctx(), sp.ID); err != nil {
		return fmt.Errorf("failed to delete species: %w", err)
	}
	fmt.Printf("Deleted species: %s. Plants using it now follow the default schedule.\n", sp.CommonName)
	return nil
}
