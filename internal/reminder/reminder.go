// Package reminder keeps one pending watering reminder per plant and delivers
// the ones that have come due.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
	"github.com/julianstephens/bamboocare/internal/utils"
)

const Title = "Time to water!"

// Scheduler accepts reminder requests from the care service.
type Scheduler interface {
	Schedule(ctx context.Context, r models.Reminder) error
	Cancel(ctx context.Context, plantID string) error
}

// ID returns the notification identifier used for a plant's reminder.
func ID(plantID string) string {
	return constants.ReminderIDPrefix + plantID
}

// ForPlant builds the reminder for a plant due at next.
func ForPlant(p models.Plant, next time.Time) models.Reminder {
	return models.Reminder{
		PlantID: p.ID,
		FireAt:  next,
		Title:   Title,
		Body:    fmt.Sprintf("It's time to water your '%s'", p.Name),
	}
}

// StoreScheduler persists reminders through a storage.Provider. Settings are
// read on every call so changes apply without a restart.
type StoreScheduler struct {
	store storage.Provider
}

func NewStoreScheduler(store storage.Provider) *StoreScheduler {
	return &StoreScheduler{store: store}
}

// Schedule replaces the plant's pending reminder, unless the same fire time was
// already delivered. When notifications are
// disabled the existing reminder is cancelled instead. A configured
// reminder_time moves the fire time to that wall-clock time on the due day.
func (s *StoreScheduler) Schedule(ctx context.Context, r models.Reminder) error {
	settings, err := s.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	if !settings.NotificationsEnabled {
		return s.Cancel(ctx, r.PlantID)
	}

	fireAt, err := FireTime(r.FireAt, settings)
	if err != nil {
		return err
	}
	r.FireAt = fireAt
	r.SentAt = nil

	// Already delivered for this due date; keep it sent.
	if existing, err := s.store.GetReminder(r.PlantID); err == nil && existing.SentAt != nil && existing.FireAt.Equal(fireAt) {
		return nil
	}

	if err := s.store.SaveReminder(r); err != nil {
		return err
	}
	logger.Debug("Reminder scheduled", "id", ID(r.PlantID), "fire_at", r.FireAt)
	return nil
}

func (s *StoreScheduler) Cancel(_ context.Context, plantID string) error {
	if err := s.store.DeleteReminder(plantID); err != nil {
		return err
	}
	logger.Debug("Reminder cancelled", "id", ID(plantID))
	return nil
}

// FireTime applies the reminder_time setting to a due date.
func FireTime(due time.Time, settings models.Settings) (time.Time, error) {
	if settings.ReminderTime == "" {
		return due, nil
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	return utils.AtTimeOfDay(due, settings.ReminderTime, loc)
}
