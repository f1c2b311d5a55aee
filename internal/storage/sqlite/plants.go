package sqlite

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
	var location, light, container, addedDate string
	var lastWatered, speciesID sql.NullString

	if err := row.Scan(
		&p.ID, &p.Name, &location, &light, &container, &addedDate,
		&lastWatered, &speciesID, &p.PostponedDays, &p.Notes,
	); err != nil {
		return models.Plant{}, err
	}

	p.Location = models.PlantLocation(location)
	p.LightLevel = models.LightLevel(light)
	p.Container = models.ContainerType(container)

	t, err := parseTime(addedDate)
	if err != nil {
		return models.Plant{}, fmt.Errorf("failed to parse added_date: %w", err)
	}
	p.AddedDate = t

	if p.LastWatered, err = parseOptionalTime(lastWatered); err != nil {
		return models.Plant{}, fmt.Errorf("failed to parse last_watered: %w", err)
	}
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, string(p.Location), string(p.LightLevel), string(p.Container),
		formatTime(p.AddedDate), formatOptionalTime(p.LastWatered), p.SpeciesID,
		p.PostponedDays, p.Notes,
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

	p, err := scanPlant(s.db.QueryRow(`SELECT `+plantColumns+` FROM plants WHERE id = ?`, id))
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

	rows, err := s.db.Query(`SELECT ` + plantColumns + ` FROM plants ORDER BY name COLLATE NOCASE ASC`)
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

	// added_date is immutable
	res, err := s.db.Exec(`
		UPDATE plants
		SET name = ?, location = ?, light_level = ?, container = ?,
			last_watered = ?, species_id = ?, postponed_days = ?, notes = ?
		WHERE id = ?
	`,
		p.Name, string(p.Location), string(p.LightLevel), string(p.Container),
		formatOptionalTime(p.LastWatered), p.SpeciesID, p.PostponedDays, p.Notes,
		p.ID,
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

	if _, err := tx.Exec(`DELETE FROM care_logs WHERE plant_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete care logs: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM reminders WHERE plant_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
	}
	if err := requireAffected(res, "plant", id); err != nil {
		return err
	}

	return tx.Commit()
}
