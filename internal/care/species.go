package care

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/bamboocare/internal/logger"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/species"
)

// AddSpecies stores a custom species.
func (s *Service) AddSpecies(ctx context.Context, sp models.Species) (out models.Species, err error) {
	defer func(start time.Time) { s.observe(ctx, "add_species", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	if sp.ID == "" {
		sp.ID = s.newID()
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = s.calc.Now()
	}
	sp.CommonName = strings.TrimSpace(sp.CommonName)

	all, err := s.store.GetAllSpecies()
	if err != nil {
		return models.Species{}, err
	}
	if _, ok := species.Find(all, sp.CommonName); ok {
		return models.Species{}, fmt.Errorf("species %q already exists", sp.CommonName)
	}

	if err := s.store.AddSpecies(sp); err != nil {
		return models.Species{}, err
	}
	return sp, nil
}

// ListSpecies returns every species ordered by common name.
func (s *Service) ListSpecies() ([]models.Species, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.GetAllSpecies()
}

// FindSpecies resolves a species by id, common name or scientific name.
func (s *Service) FindSpecies(ref string) (models.Species, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.store.GetAllSpecies()
	if err != nil {
		return models.Species{}, err
	}
	sp, ok := species.Find(all, ref)
	if !ok {
		return models.Species{}, fmt.Errorf("%w: %s", ErrUnknownSpecies, ref)
	}
	return sp, nil
}

// UpdateSpecies saves edits to a species. When the base frequency changes,
// every plant using it loses its postponement and is rescheduled.
func (s *Service) UpdateSpecies(ctx context.Context, sp models.Species) (out models.Species, err error) {
	defer func(start time.Time) { s.observe(ctx, "update_species", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	old, err := s.store.GetSpecies(sp.ID)
	if err != nil {
		return models.Species{}, err
	}
	sp.CommonName = strings.TrimSpace(sp.CommonName)
	sp.CreatedAt = old.CreatedAt

	if !strings.EqualFold(sp.CommonName, old.CommonName) {
		all, err := s.store.GetAllSpecies()
		if err != nil {
			return models.Species{}, err
		}
		if other, ok := species.Find(all, sp.CommonName); ok && other.ID != sp.ID {
			return models.Species{}, fmt.Errorf("species %q already exists", sp.CommonName)
		}
	}
	if err := s.store.UpdateSpecies(sp); err != nil {
		return models.Species{}, err
	}
	if sp.BaseWateringFrequencyDays == old.BaseWateringFrequencyDays {
		return sp, nil
	}

	plants, err := s.store.GetAllPlants()
	if err != nil {
		return models.Species{}, err
	}
	for _, p := range plants {
		if p.SpeciesID == nil || *p.SpeciesID != sp.ID {
			continue
		}
		if p.PostponedDays != 0 {
			p.PostponedDays = 0
			if err := s.store.UpdatePlant(p); err != nil {
				return models.Species{}, err
			}
		}
		p.Species = &sp
		s.reschedule(ctx, p, nil)
	}
	logger.Info("Updated species", "id", sp.ID, "frequency", sp.BaseWateringFrequencyDays)
	return sp, nil
}

// DeleteSpecies removes a species. Plants that used it fall back to the
// default frequency, lose any postponement and are rescheduled.
func (s *Service) DeleteSpecies(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { s.observe(ctx, "delete_species", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	plants, err := s.store.GetAllPlants()
	if err != nil {
		return err
	}

	if err := s.store.DeleteSpecies(id); err != nil {
		return err
	}

	for _, p := range plants {
		if p.SpeciesID == nil || *p.SpeciesID != id {
			continue
		}
		p.SpeciesID = nil
		p.Species = nil
		p.PostponedDays = 0
		s.reschedule(ctx, p, nil)
	}
	logger.Info("Deleted species", "id", id)
	return nil
}

// SeedSpecies loads the built-in species when none exist yet and reports how
// many were added.
func (s *Service) SeedSpecies(ctx context.Context) (n int, err error) {
	defer func(start time.Time) { s.observe(ctx, "seed_species", start, err) }(time.Now())
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.GetAllSpecies()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for _, sp := range species.Seed(s.calc.Now()) {
		if err := s.store.AddSpecies(sp); err != nil {
			return n, fmt.Errorf("failed to seed %s: %w", sp.CommonName, err)
		}
		n++
	}
	logger.Info("Seeded species", "count", n)
	return n, nil
}
