package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/bamboocare/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotLoaded is returned when a store is used before Init or Load.
var ErrNotLoaded = errors.New("storage not loaded")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Species
	AddSpecies(models.Species) error
	GetSpecies(id string) (models.Species, error)
	GetAllSpecies() ([]models.Species, error)
	UpdateSpecies(models.Species) error
	// DeleteSpecies removes the species and clears species_id and the
	// postponement offset on every plant that referenced it. Plants are never
	// deleted.
	DeleteSpecies(id string) error

	// Plants
	AddPlant(models.Plant) error
	// GetPlant returns the plant with its species and care history loaded.
	GetPlant(id string) (models.Plant, error)
	// GetAllPlants returns every plant with its species loaded, ordered by name.
	// Care history is not loaded.
	GetAllPlants() ([]models.Plant, error)
	UpdatePlant(models.Plant) error
	// DeletePlant removes the plant, its care logs and its reminder.
	DeletePlant(id string) error

	// Care logs
	// AddCareLog appends a log entry and returns it with Seq assigned.
	AddCareLog(models.CareLog) (models.CareLog, error)
	// RecordCare appends a log entry and stores the plant's LastWatered and
	// PostponedDays atomically. Nothing is written when either part fails.
	RecordCare(l models.CareLog, p models.Plant) (models.CareLog, error)
	// GetCareLogs returns a plant's logs in insertion order.
	GetCareLogs(plantID string) ([]models.CareLog, error)
	GetAllCareLogs() ([]models.CareLog, error)

	// Reminders
	SaveReminder(models.Reminder) error
	GetReminder(plantID string) (models.Reminder, error)
	GetAllReminders() ([]models.Reminder, error)
	DeleteReminder(plantID string) error
	MarkReminderSent(plantID string, at time.Time) error

	// Utils
	GetConfigPath() string
}
