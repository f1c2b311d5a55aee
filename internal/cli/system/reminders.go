package system

import (
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/reminder"
	"github.com/julianstephens/bamboocare/internal/storage"
)

// RemindersCmd lists pending and sent reminders.
type RemindersCmd struct {
	All bool `help:"Include reminders that were already sent."`
}

func (c *RemindersCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	reminders, err := ctx.Store.GetAllReminders()
	if err != nil {
		return fmt.Errorf("failed to get reminders: %w", err)
	}
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].FireAt.Before(reminders[j].FireAt)
	})

	shown := 0
	for _, r := range reminders {
		if r.SentAt != nil && !c.All {
			continue
		}
		name := r.PlantID
		if p, err := ctx.Store.GetPlant(r.PlantID); err == nil {
			name = p.Name
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		state := "pending"
		if r.SentAt != nil {
			state = "sent " + r.SentAt.In(loc).Format(constants.DateTimeFormat)
		} else if r.IsDue(ctx.Clock()) {
			state = "due"
		}
		if shown == 0 {
			fmt.Println("Reminders:")
		}
		fmt.Printf("  %s  %-20s %-10s (%s)\n", r.FireAt.In(loc).Format(constants.DateTimeFormat), name, state, reminder.ID(r.PlantID))
		shown++
	}

	if shown == 0 {
		fmt.Println("No reminders scheduled")
	}
	return nil
}
