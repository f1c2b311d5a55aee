package plants

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/models"
)

type PlantAddCmd struct {
	Name      string `arg:"" help:"Plant name."`
	Species   string `short:"s" help:"Species id, common or scientific name."`
	Location  string `short:"l" help:"Location (indoor|outdoor)." default:"indoor"`
	Light     string `short:"L" help:"Light level (direct|indirect|shade)." default:"indirect"`
	Container string `short:"c" help:"Container (pot|ground|water_vase)." default:"pot"`
	Added     string `help:"Date the plant was added (YYYY-MM-DD). Defaults to now."`
	Watered   string `help:"Date the plant was last watered (YYYY-MM-DD)."`
	Notes     string `short:"n" help:"Free-form notes."`
}

func (c *PlantAddCmd) Run(ctx *cli.Context) error {
	p, err := c.build(ctx)
	if err != nil {
		return err
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err = svc.AddPlant(ctx.Ctx(), p)
	if err != nil {
		return fmt.Errorf("failed to add plant: %w", err)
	}

	st, err := svc.Status(ctx.Ctx(), p.ID)
	if err != nil {
		return err
	}
	fmt.Printf("Added plant: %s (ID: %s)\n", p.Name, p.ID)
	fmt.Printf("  %s, every %d days; %s\n", p.SpeciesName(), st.Frequency, st.Status.Label)
	return nil
}

func (c *PlantAddCmd) build(ctx *cli.Context) (models.Plant, error) {
	var p models.Plant
	var err error

	p.Name = c.Name
	p.Notes = c.Notes
	if p.Location, err = models.ParseLocation(c.Location); err != nil {
		return p, err
	}
	if p.LightLevel, err = models.ParseLightLevel(c.Light); err != nil {
		return p, err
	}
	if p.Container, err = models.ParseContainer(c.Container); err != nil {
		return p, err
	}
	if p.AddedDate, err = ctx.ParseWhen(c.Added); err != nil {
		return p, err
	}
	if p.AddedDate.IsZero() {
		p.AddedDate = ctx.Clock()
	}
	if c.Watered != "" {
		t, err := ctx.ParseWhen(c.Watered)
		if err != nil {
			return p, err
		}
		p.LastWatered = &t
	}
	if c.Species != "" {
		id, err := resolveSpecies(ctx, c.Species)
		if err != nil {
			return p, err
		}
		p.SpeciesID = &id
	}
	return p, p.Validate()
}

func resolveSpecies(ctx *cli.Context, ref string) (string, error) {
	svc, err := ctx.Service()
	if err != nil {
		return "", err
	}
	sp, err := svc.FindSpecies(ref)
	if err != nil {
		return "", err
	}
	return sp.ID, nil
}
