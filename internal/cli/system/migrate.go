package system

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
)

type MigrateCmd struct {
	DryRun bool `help:"List pending migrations without applying them."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return fmt.Errorf("migrate is not supported for %s", ctx.Store.GetConfigPath())
	}

	if c.DryRun {
		pending, err := m.PendingMigrations()
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("No pending migrations. Database is up to date.")
			return nil
		}
		fmt.Println("Pending migrations:")
		for _, mig := range pending {
			fmt.Printf("  %03d  %s\n", mig.Version, mig.Name)
		}
		return nil
	}

	count, err := m.RunMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
