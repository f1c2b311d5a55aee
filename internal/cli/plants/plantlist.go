package plants

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
)

type PlantListCmd struct {
	ShowIDs bool `help:"Show plant IDs." name:"show-ids"`
}

func (c *PlantListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	plants, err := svc.ListPlants()
	if err != nil {
		return fmt.Errorf("failed to get plants: %w", err)
	}
	if len(plants) == 0 {
		fmt.Println("No plants found")
		return nil
	}

	fmt.Println("Plants:")
	for _, p := range plants {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", p.ID)
		}
		fmt.Printf("  %s%s - %s (%s)\n", p.Name, idStr, p.SpeciesName(), cli.DescribePlant(p))
	}
	return nil
}
