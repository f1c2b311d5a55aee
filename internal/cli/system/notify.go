package system

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/notifier"
	"github.com/julianstephens/bamboocare/internal/reminder"
)

// newSender is replaced in tests.
var newSender = func() reminder.Sender { return notifier.New() }

// NotifyCmd refreshes every reminder from the current schedule and weather,
// then delivers the ones that are due. Meant to be run from cron.
type NotifyCmd struct {
	DryRun      bool   `help:"Print notifications to stdout instead of sending them."`
	MetricsFile string `help:"Write Prometheus metrics in text format to this file after the run." type:"path"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	n, err := svc.RescheduleAll(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("failed to refresh reminders: %w", err)
	}
	logger.Debug("Refreshed reminders", "plants", n)

	d := reminder.NewDispatcher(ctx.Store, newSender(), reminder.WithMetrics(ctx.Metrics))
	res, err := d.Dispatch(ctx.Ctx(), ctx.Clock(), c.DryRun)
	if err != nil {
		return err
	}

	if c.DryRun {
		if len(res.Due) == 0 {
			fmt.Println("No reminders due.")
		}
		for _, r := range res.Due {
			fmt.Printf("[DryRun] %s: %s\n", r.Title, r.Body)
		}
	} else if res.Failed > 0 {
		fmt.Printf("Sent %d reminder(s), %d failed (will retry on the next run)\n", res.Sent, res.Failed)
	}

	if c.MetricsFile != "" && ctx.Metrics != nil {
		if err := ctx.Metrics.WriteTextfile(c.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics file", "path", c.MetricsFile, "error", err)
		}
	}
	return nil
}
