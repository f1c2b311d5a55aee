// Package care orchestrates plant care: it loads plants from storage, runs the
// schedule calculator and weather engine over them, records care events and
// keeps reminders in step with the derived next watering date.
package care

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/bamboocare/internal/ledger"
	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/metrics"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/reminder"
	"github.com/julianstephens/bamboocare/internal/schedule"
	"github.com/julianstephens/bamboocare/internal/storage"
	"github.com/julianstephens/bamboocare/internal/utils"
	"github.com/julianstephens/bamboocare/internal/weather"
)

// ErrUnknownSpecies is returned when a plant references a species that does not exist.
var ErrUnknownSpecies = errors.New("unknown species")

// Service is safe for concurrent use. Reads share mu, writes hold it
// exclusively, so stores without their own locking can sit behind it.
type Service struct {
	mu sync.RWMutex

	store     storage.Provider
	weather   weather.Provider
	reminders reminder.Scheduler
	calc      *schedule.Calculator
	ledger    *ledger.Ledger
	engine    *weather.Engine
	metrics   *metrics.Recorder
	newID     func() string
}

type Option func(*Service)

// WithWeather sets the provider used for adjustments. Without one every outdoor
// plant is evaluated as "weather unavailable".
func WithWeather(p weather.Provider) Option {
	return func(s *Service) { s.weather = p }
}

func WithReminders(r reminder.Scheduler) Option {
	return func(s *Service) { s.reminders = r }
}

// WithCalculator overrides the calculator built from the timezone setting.
func WithCalculator(c *schedule.Calculator) Option {
	return func(s *Service) { s.calc = c }
}

func WithEngine(e *weather.Engine) Option {
	return func(s *Service) { s.engine = e }
}

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = m }
}

// New builds a service over a loaded store.
func New(store storage.Provider, opts ...Option) (*Service, error) {
	s := &Service{
		store:  store,
		engine: weather.NewEngine(),
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.calc == nil {
		settings, err := store.GetSettings()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		loc, err := utils.LoadLocation(settings.Timezone)
		if err != nil {
			return nil, err
		}
		s.calc = schedule.New(schedule.WithLocation(loc))
	}
	s.ledger = ledger.New(s.calc)

	return s, nil
}

// Calculator exposes the schedule calculator used by the service.
func (s *Service) Calculator() *schedule.Calculator {
	return s.calc
}

func (s *Service) Store() storage.Provider {
	return s.store
}

func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, time.Since(start))
}

// AddPlant stores a new plant. ID and AddedDate are filled in when empty.
func (s *Service) AddPlant(ctx context.Context, p models.Plant) (plant models.Plant, err error) {
	defer func(start time.Time) { s.observe(ctx, "add_plant", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.newID()
	}
	if p.AddedDate.IsZero() {
		p.AddedDate = s.calc.Now()
	}
	p.Name = strings.TrimSpace(p.Name)
	if err := s.attachSpecies(&p); err != nil {
		return models.Plant{}, err
	}

	if err := s.store.AddPlant(p); err != nil {
		return models.Plant{}, err
	}
	logger.Info("Added plant", "id", p.ID, "name", p.Name)

	s.reschedule(ctx, p, nil)
	return p, nil
}

// UpdatePlant saves edits to a plant. AddedDate cannot change, and any change
// to a scheduling input clears the postponement offset.
func (s *Service) UpdatePlant(ctx context.Context, p models.Plant) (plant models.Plant, err error) {
	defer func(start time.Time) { s.observe(ctx, "update_plant", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.store.GetPlant(p.ID)
	if err != nil {
		return models.Plant{}, err
	}

	p.AddedDate = old.AddedDate
	p.CareHistory = old.CareHistory
	p.Name = strings.TrimSpace(p.Name)
	if err := s.attachSpecies(&p); err != nil {
		return models.Plant{}, err
	}
	if schedule.InputsChanged(old, p) {
		p.PostponedDays = 0
	}

	if err := s.store.UpdatePlant(p); err != nil {
		return models.Plant{}, err
	}

	s.reschedule(ctx, p, nil)
	return p, nil
}

// DeletePlant removes a plant with its care history and cancels its reminder.
func (s *Service) DeletePlant(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe(ctx, "delete_plant", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeletePlant(id); err != nil {
		return err
	}
	if s.reminders != nil {
		if err := s.reminders.Cancel(ctx, id); err != nil {
			logger.Warn("Failed to cancel reminder", "plant", id, "error", err)
		}
	}
	logger.Info("Deleted plant", "id", id)
	return nil
}

// GetPlant returns a plant with species and care history loaded.
func (s *Service) GetPlant(id string) (models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetPlant(id)
}

// FindPlant resolves a plant by id, or by case-insensitive name when the name is unique.
func (s *Service) FindPlant(ref string) (models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, err := s.store.GetPlant(ref); err == nil {
		return p, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return models.Plant{}, err
	}

	all, err := s.store.GetAllPlants()
	if err != nil {
		return models.Plant{}, err
	}
	var matches []models.Plant
	for _, p := range all {
		if strings.EqualFold(p.Name, strings.TrimSpace(ref)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Plant{}, fmt.Errorf("plant %q: %w", ref, storage.ErrNotFound)
	case 1:
		return s.store.GetPlant(matches[0].ID)
	default:
		return models.Plant{}, fmt.Errorf("%d plants are named %q, use the id instead", len(matches), ref)
	}
}

// ListPlants returns every plant ordered by name.
func (s *Service) ListPlants() ([]models.Plant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetAllPlants()
}

// Water records a watering event. A zero at means now.
func (s *Service) Water(ctx context.Context, id string, at time.Time, notes string) (models.CareLog, error) {
	return s.Record(ctx, id, models.CareWatering, at, notes)
}

// Record appends a care event. Watering entries move the plant's schedule
// unless they are back-dated behind the latest watering.
func (s *Service) Record(ctx context.Context, id string, careType models.CareType, at time.Time, notes string) (entry models.CareLog, err error) {
	defer func(start time.Time) { s.observe(ctx, "record_care", start, err) }(time.Now())
	if !careType.Valid() {
		return models.CareLog{}, fmt.Errorf("invalid care type %q", careType)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.GetPlant(id)
	if err != nil {
		return models.CareLog{}, err
	}
	if at.IsZero() {
		at = s.calc.Now()
	}

	before := p
	entry = s.ledger.Record(&p, careType, at, notes)

	moved := !sameTime(before.LastWatered, p.LastWatered) || before.PostponedDays != p.PostponedDays
	if moved {
		entry, err = s.store.RecordCare(entry, p)
	} else {
		entry, err = s.store.AddCareLog(entry)
	}
	if err != nil {
		return models.CareLog{}, err
	}
	s.metrics.CareEvent(string(careType))
	if moved {
		s.reschedule(ctx, p, nil)
	}

	logger.Info("Recorded care", "plant", p.Name, "type", careType, "date", at)
	return entry, nil
}

// History returns a plant's care log, newest first.
func (s *Service) History(id string) ([]models.CareLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs, err := s.store.GetCareLogs(id)
	if err != nil {
		return nil, err
	}
	return ledger.History(logs), nil
}

// Postpone pushes a plant's next watering by days. It reports false, without
// error, when nothing changed.
func (s *Service) Postpone(ctx context.Context, id string, days int) (changed bool, err error) {
	defer func(start time.Time) { s.observe(ctx, "postpone", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.GetPlant(id)
	if err != nil {
		return false, err
	}
	if !s.calc.Postpone(&p, days) {
		return false, nil
	}
	if err := s.store.UpdatePlant(p); err != nil {
		return false, err
	}

	s.reschedule(ctx, p, nil)
	return true, nil
}

// RescheduleAll refreshes every plant's reminder using a single weather
// snapshot, so reminders follow weather adjustments. Returns the number of
// plants processed.
func (s *Service) RescheduleAll(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { s.observe(ctx, "reschedule_all", start, err) }(time.Now())

	snap := s.snapshot(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	plants, err := s.store.GetAllPlants()
	if err != nil {
		return 0, err
	}
	for _, p := range plants {
		s.reschedule(ctx, p, snap)
	}
	return len(plants), nil
}

// reschedule replaces the plant's reminder with one at its effective date.
// Failures are logged and swallowed.
func (s *Service) reschedule(ctx context.Context, p models.Plant, snap *weather.Snapshot) {
	if s.reminders == nil {
		return
	}

	next := s.calc.Effective(p, s.engine.Evaluate(snap, p))
	if next == nil {
		if err := s.reminders.Cancel(ctx, p.ID); err != nil {
			logger.Warn("Failed to cancel reminder", "plant", p.ID, "error", err)
		}
		return
	}

	if err := s.reminders.Schedule(ctx, reminder.ForPlant(p, *next)); err != nil {
		logger.Warn("Failed to schedule reminder", "plant", p.ID, "error", err)
	}
}

func (s *Service) attachSpecies(p *models.Plant) error {
	p.Species = nil
	if p.SpeciesID == nil || *p.SpeciesID == "" {
		p.SpeciesID = nil
		return nil
	}
	sp, err := s.store.GetSpecies(*p.SpeciesID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownSpecies, *p.SpeciesID)
	}
	if err != nil {
		return err
	}
	p.Species = &sp
	return nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
