package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/metrics"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
)

// Sender delivers a notification.
type Sender interface {
	Notify(title, body string) error
}

type Dispatcher struct {
	store   storage.Provider
	sender  Sender
	metrics *metrics.Recorder
}

type DispatchOption func(*Dispatcher)

func WithMetrics(m *metrics.Recorder) DispatchOption {
	return func(d *Dispatcher) { d.metrics = m }
}

func NewDispatcher(store storage.Provider, sender Sender, opts ...DispatchOption) *Dispatcher {
	d := &Dispatcher{store: store, sender: sender}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Result summarises one dispatch run.
type Result struct {
	Due    []models.Reminder
	Sent   int
	Failed int
}

// Dispatch delivers every unsent reminder whose fire time is not after now and
// marks it sent. Delivery failures are logged and left pending for the next run.
// With dryRun nothing is sent or marked.
func (d *Dispatcher) Dispatch(ctx context.Context, now time.Time, dryRun bool) (Result, error) {
	var res Result

	settings, err := d.store.GetSettings()
	if err != nil {
		return res, fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		return res, nil
	}

	all, err := d.store.GetAllReminders()
	if err != nil {
		return res, err
	}

	for _, r := range all {
		if !r.IsDue(now) {
			continue
		}
		res.Due = append(res.Due, r)
		if dryRun {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := d.sender.Notify(r.Title, r.Body); err != nil {
			logger.Warn("Failed to send reminder", "id", ID(r.PlantID), "error", err)
			d.metrics.Reminder("failed")
			res.Failed++
			continue
		}
		if err := d.store.MarkReminderSent(r.PlantID, now); err != nil {
			return res, err
		}
		d.metrics.Reminder("sent")
		res.Sent++
	}

	return res, nil
}
