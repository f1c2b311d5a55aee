package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool `help:"Force reset by deleting existing database before initialization."`
	NoSeed bool `help:"Do not seed the built-in bamboo species." name:"no-seed"`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*postgres.Store); ok {
			return errors.New("--force is not supported for PostgreSQL; drop the bamboocare schema manually")
		}
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			// Close first to release file locks
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized bamboocare storage at: %s\n", ctx.Store.GetConfigPath())

	if c.NoSeed {
		return nil
	}

	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	n, err := svc.SeedSpecies(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to seed species: %w", err)
	}
	if n > 0 {
		fmt.Printf("Seeded %d bamboo species\n", n)
	}
	return nil
}
