package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/models"
)

// Store is the on-disk document of the JSON backend.
type Store struct {
	Version   int                        `json:"version"`
	Settings  models.Settings            `json:"settings"`
	Species   map[string]models.Species  `json:"species"`
	Plants    map[string]models.Plant    `json:"plants"`
	CareLogs  []models.CareLog           `json:"care_logs"`
	NextSeq   int64                      `json:"next_seq"`
	Reminders map[string]models.Reminder `json:"reminders"`
}

// JSONStore keeps everything in a single JSON file. It is meant for tests and
// portable exports, not concurrent use.
type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version:  1,
		Settings: models.DefaultSettings(),
	}
	s.ensureMaps()

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	s.ensureMaps()

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) ensureMaps() {
	if s.store.Species == nil {
		s.store.Species = make(map[string]models.Species)
	}
	if s.store.Plants == nil {
		s.store.Plants = make(map[string]models.Plant)
	}
	if s.store.Reminders == nil {
		s.store.Reminders = make(map[string]models.Reminder)
	}
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if s.store == nil {
		return models.Settings{}, ErrNotLoaded
	}
	settings := s.store.Settings
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) AddSpecies(sp models.Species) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if err := sp.Validate(); err != nil {
		return err
	}
	if _, exists := s.store.Species[sp.ID]; exists {
		return fmt.Errorf("species %s already exists", sp.ID)
	}
	s.store.Species[sp.ID] = sp
	return s.save()
}

func (s *JSONStore) GetSpecies(id string) (models.Species, error) {
	if s.store == nil {
		return models.Species{}, ErrNotLoaded
	}
	sp, ok := s.store.Species[id]
	if !ok {
		return models.Species{}, fmt.Errorf("species %s: %w", id, ErrNotFound)
	}
	return sp, nil
}

func (s *JSONStore) GetAllSpecies() ([]models.Species, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}
	all := make([]models.Species, 0, len(s.store.Species))
	for _, sp := range s.store.Species {
		all = append(all, sp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CommonName < all[j].CommonName })
	return all, nil
}

func (s *JSONStore) UpdateSpecies(sp models.Species) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if err := sp.Validate(); err != nil {
		return err
	}
	existing, ok := s.store.Species[sp.ID]
	if !ok {
		return fmt.Errorf("species %s: %w", sp.ID, ErrNotFound)
	}
	sp.CreatedAt = existing.CreatedAt
	s.store.Species[sp.ID] = sp
	return s.save()
}

func (s *JSONStore) DeleteSpecies(id string) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if _, ok := s.store.Species[id]; !ok {
		return fmt.Errorf("species %s: %w", id, ErrNotFound)
	}
	for pid, p := range s.store.Plants {
		if p.SpeciesID != nil && *p.SpeciesID == id {
			p.SpeciesID = nil
			p.PostponedDays = 0
			s.store.Plants[pid] = p
		}
	}
	delete(s.store.Species, id)
	return s.save()
}

// strip drops loaded relations so they are not duplicated in the document.
func strip(p models.Plant) models.Plant {
	p.Species = nil
	p.CareHistory = nil
	return p
}

func (s *JSONStore) attachSpecies(p *models.Plant) {
	if p.SpeciesID == nil {
		return
	}
	if sp, ok := s.store.Species[*p.SpeciesID]; ok {
		p.Species = &sp
	}
}

func (s *JSONStore) AddPlant(p models.Plant) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if _, exists := s.store.Plants[p.ID]; exists {
		return fmt.Errorf("plant %s already exists", p.ID)
	}
	s.store.Plants[p.ID] = strip(p)
	return s.save()
}

func (s *JSONStore) GetPlant(id string) (models.Plant, error) {
	if s.store == nil {
		return models.Plant{}, ErrNotLoaded
	}
	p, ok := s.store.Plants[id]
	if !ok {
		return models.Plant{}, fmt.Errorf("plant %s: %w", id, ErrNotFound)
	}
	s.attachSpecies(&p)
	logs, err := s.GetCareLogs(id)
	if err != nil {
		return models.Plant{}, err
	}
	p.CareHistory = logs
	return p, nil
}

func (s *JSONStore) GetAllPlants() ([]models.Plant, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}
	plants := make([]models.Plant, 0, len(s.store.Plants))
	for _, p := range s.store.Plants {
		s.attachSpecies(&p)
		plants = append(plants, p)
	}
	sort.Slice(plants, func(i, j int) bool {
		return strings.ToLower(plants[i].Name) < strings.ToLower(plants[j].Name)
	})
	return plants, nil
}

func (s *JSONStore) UpdatePlant(p models.Plant) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if err := p.Validate(); err != nil {
		return err
	}
	existing, ok := s.store.Plants[p.ID]
	if !ok {
		return fmt.Errorf("plant %s: %w", p.ID, ErrNotFound)
	}
	p.AddedDate = existing.AddedDate
	s.store.Plants[p.ID] = strip(p)
	return s.save()
}

func (s *JSONStore) DeletePlant(id string) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if _, ok := s.store.Plants[id]; !ok {
		return fmt.Errorf("plant %s: %w", id, ErrNotFound)
	}
	kept := s.store.CareLogs[:0]
	for _, l := range s.store.CareLogs {
		if l.PlantID != id {
			kept = append(kept, l)
		}
	}
	s.store.CareLogs = kept
	delete(s.store.Reminders, id)
	delete(s.store.Plants, id)
	return s.save()
}

func (s *JSONStore) AddCareLog(l models.CareLog) (models.CareLog, error) {
	if s.store == nil {
		return models.CareLog{}, ErrNotLoaded
	}
	if !l.Type.Valid() {
		return models.CareLog{}, fmt.Errorf("invalid care type %q", l.Type)
	}
	if _, ok := s.store.Plants[l.PlantID]; !ok {
		return models.CareLog{}, fmt.Errorf("cannot log care for unknown plant %s", l.PlantID)
	}
	s.store.NextSeq++
	l.Seq = s.store.NextSeq
	s.store.CareLogs = append(s.store.CareLogs, l)
	if err := s.save(); err != nil {
		return models.CareLog{}, err
	}
	return l, nil
}

func (s *JSONStore) RecordCare(l models.CareLog, p models.Plant) (models.CareLog, error) {
	if s.store == nil {
		return models.CareLog{}, ErrNotLoaded
	}
	if l.PlantID != p.ID {
		return models.CareLog{}, fmt.Errorf("care log for %s recorded against plant %s", l.PlantID, p.ID)
	}
	if !l.Type.Valid() {
		return models.CareLog{}, fmt.Errorf("invalid care type %q", l.Type)
	}
	existing, ok := s.store.Plants[p.ID]
	if !ok {
		return models.CareLog{}, fmt.Errorf("cannot log care for unknown plant %s", l.PlantID)
	}

	prevLogs, prevSeq := s.store.CareLogs, s.store.NextSeq
	updated := existing
	updated.LastWatered = p.LastWatered
	updated.PostponedDays = p.PostponedDays

	s.store.NextSeq++
	l.Seq = s.store.NextSeq
	s.store.CareLogs = append(slices.Clip(s.store.CareLogs), l)
	s.store.Plants[p.ID] = updated
	if err := s.save(); err != nil {
		s.store.CareLogs, s.store.NextSeq = prevLogs, prevSeq
		s.store.Plants[p.ID] = existing
		return models.CareLog{}, err
	}
	return l, nil
}

func (s *JSONStore) GetCareLogs(plantID string) ([]models.CareLog, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}
	var logs []models.CareLog
	for _, l := range s.store.CareLogs {
		if l.PlantID == plantID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

func (s *JSONStore) GetAllCareLogs() ([]models.CareLog, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}
	logs := make([]models.CareLog, len(s.store.CareLogs))
	copy(logs, s.store.CareLogs)
	return logs, nil
}

func (s *JSONStore) SaveReminder(r models.Reminder) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	s.store.Reminders[r.PlantID] = r
	return s.save()
}

func (s *JSONStore) GetReminder(plantID string) (models.Reminder, error) {
	if s.store == nil {
		return models.Reminder{}, ErrNotLoaded
	}
	r, ok := s.store.Reminders[plantID]
	if !ok {
		return models.Reminder{}, fmt.Errorf("reminder for plant %s: %w", plantID, ErrNotFound)
	}
	return r, nil
}

func (s *JSONStore) GetAllReminders() ([]models.Reminder, error) {
	if s.store == nil {
		return nil, ErrNotLoaded
	}
	all := make([]models.Reminder, 0, len(s.store.Reminders))
	for _, r := range s.store.Reminders {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FireAt.Before(all[j].FireAt) })
	return all, nil
}

func (s *JSONStore) DeleteReminder(plantID string) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	if _, ok := s.store.Reminders[plantID]; !ok {
		return nil
	}
	delete(s.store.Reminders, plantID)
	return s.save()
}

func (s *JSONStore) MarkReminderSent(plantID string, at time.Time) error {
	if s.store == nil {
		return ErrNotLoaded
	}
	r, ok := s.store.Reminders[plantID]
	if !ok {
		return fmt.Errorf("reminder for plant %s: %w", plantID, ErrNotFound)
	}
	r.SentAt = &at
	s.store.Reminders[plantID] = r
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
