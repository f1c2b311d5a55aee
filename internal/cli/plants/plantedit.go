package plants

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/models"
)

type PlantEditCmd struct {
	Plant       string  `arg:"" help:"Plant ID or name."`
	Name        *string `help:"New name."`
	Species     *string `short:"s" help:"Species id or name."`
	NoSpecies   bool    `help:"Clear the species." name:"no-species"`
	Location    *string `short:"l" help:"Location (indoor|outdoor)."`
	Light       *string `short:"L" help:"Light level (direct|indirect|shade)."`
	Container   *string `short:"c" help:"Container (pot|ground|water_vase)."`
	LastWatered *string `help:"Correct the last watered date (YYYY-MM-DD)." name:"last-watered"`
	Notes       *string `short:"n" help:"Notes."`
}

func (c *PlantEditCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err := svc.FindPlant(c.Plant)
	if err != nil {
		return err
	}

	if c.Name != nil {
		p.Name = *c.Name
	}
	if c.Notes != nil {
		p.Notes = *c.Notes
	}
	if c.Location != nil {
		if p.Location, err = models.ParseLocation(*c.Location); err != nil {
			return err
		}
	}
	if c.Light != nil {
		if p.LightLevel, err = models.ParseLightLevel(*c.Light); err != nil {
			return err
		}
	}
	if c.Container != nil {
		if p.Container, err = models.ParseContainer(*c.Container); err != nil {
			return err
		}
	}
	if c.LastWatered != nil {
		t, err := ctx.ParseWhen(*c.LastWatered)
		if err != nil {
			return err
		}
		p.LastWatered = &t
	}
	switch {
	case c.NoSpecies:
		p.SpeciesID = nil
		p.Species = nil
	case c.Species != nil:
		id, err := resolveSpecies(ctx, *c.Species)
		if err != nil {
			return err
		}
		p.SpeciesID = &id
		p.Species = nil
	}

	if err := p.Validate(); err != nil {
		return err
	}

	updated, err := svc.UpdatePlant(ctx.Ctx(), p)
	if err != nil {
		return fmt.Errorf("failed to update plant: %w", err)
	}
	fmt.Printf("Updated plant: %s (ID: %s)\n", updated.Name, updated.ID)
	return nil
}
