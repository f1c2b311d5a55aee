package plants

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
)

type PlantDeleteCmd struct {
	Plant string `arg:"" help:"Plant ID or name."`
}

func (c *PlantDeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	p, err := svc.FindPlant(c.Plant)
	if err != nil {
		return fmt.Errorf("failed to find plant %s: %w", c.Plant, err)
	}
	if err := svc.DeletePlant(ctx.Ctx(), p.ID); err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}

	fmt.Printf("Deleted plant: %s (ID: %s) and its care history\n", p.Name, p.ID)
	return nil
}
