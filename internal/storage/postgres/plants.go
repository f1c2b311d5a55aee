package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
)

const plantColumns = `id, name, location, light_level, container, added_date,
	last_watered, species_id, postponed_days, notes`

func scanPlant(row rowScanner) (models.Plant, error) {
	var p models.Plant
	var location, light, container string
	var lastWatered sql.NullTime
	var speciesID sql.NullString

	if err := row.Scan(
		&p.ID, &p.Name, &location, &light, &container, &p.AddedDate,
		&lastWatered, &speciesID, &p.PostponedDays, &p.Notes,
	); err != nil {
		return models.Plant{}, err
	}

	p.Location = models.PlantLocation(location)
	p.LightLevel = models.LightLevel(light)
	p.Container = models.ContainerType(container)
	p.LastWatered = timePtr(lastWatered)
	if speciesID.Valid {
		id := speciesID.String
		p.SpeciesID = &id
	}
	return p, nil
}

func (s *Store) AddPlant(p models.Plant) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO plants (`+plantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		p.ID, p.Name, string(p.Location), string(p.LightLevel), string(p.Container),
		p.AddedDate, nullTime(p.LastWatered), p.SpeciesID, p.PostponedDays, p.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to insert plant: %w", err)
	}
	return nil
}

func (s *Store) GetPlant(id string) (models.Plant, error) {
	if err := s.ensureDB(); err != nil {
		return models.Plant{}, err
	}

	p, err := scanPlant(s.db.QueryRow(`SELECT `+plantColumns+` FROM plants WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Plant{}, fmt.Errorf("plant %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Plant{}, fmt.Errorf("failed to get plant: %w", err)
	}

	if p.SpeciesID != nil {
		sp, err := s.GetSpecies(*p.SpeciesID)
		switch {
		case err == nil:
			p.Species = &sp
		case !errors.Is(err, storage.ErrNotFound):
			return models.Plant{}, err
		}
	}

	logs, err := s.GetCareLogs(id)
	if err != nil {
		return models.Plant{}, err
	}
	p.CareHistory = logs

	return p, nil
}

func (s *Store) GetAllPlants() ([]models.Plant, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	all, err := s.GetAllSpecies()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Species, len(all))
	for _, sp := range all {
		byID[sp.ID] = sp
	}

	rows, err := s.db.Query(`SELECT ` + plantColumns + ` FROM plants ORDER BY LOWER(name) ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plants: %w", err)
	}
	defer rows.Close()

	var plants []models.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plant: %w", err)
		}
		if p.SpeciesID != nil {
			if sp, ok := byID[*p.SpeciesID]; ok {
				p.Species = &sp
			}
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func (s *Store) UpdatePlant(p models.Plant) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE plants
		SET name = $1, location = $2, light_level = $3, container = $4,
			last_watered = $5, species_id = $6, postponed_days = $7, notes = $8
		WHERE id = $9
	`,
		p.Name, string(p.Location), string(p.LightLevel), string(p.Container),
		nullTime(p.LastWatered), p.SpeciesID, p.PostponedDays, p.Notes, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plant: %w", err)
	}
	return requireAffected(res, "plant", p.ID)
}

func (s *Store) DeletePlant(id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM care_logs WHERE plant_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete care logs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM reminders WHERE plant_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}
	if err := requireAffected(res, "plant", id); err != nil {
		return err
	}

	return tx.Commit()
}
