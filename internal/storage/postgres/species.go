package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
)

const speciesColumns = `id, common_name, scientific_name, description,
	base_watering_frequency_days, water_amount_guide, created_at`

func scanSpecies(row rowScanner) (models.Species, error) {
	var sp models.Species
	err := row.Scan(
		&sp.ID, &sp.CommonName, &sp.ScientificName, &sp.Description,
		&sp.BaseWateringFrequencyDays, &sp.WaterAmountGuide, &sp.CreatedAt,
	)
	return sp, err
}

func (s *Store) AddSpecies(sp models.Species) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := sp.Validate(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO species (`+speciesColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		sp.ID, sp.CommonName, sp.ScientificName, sp.Description,
		sp.BaseWateringFrequencyDays, sp.WaterAmountGuide, sp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert species: %w", err)
	}
	return nil
}

func (s *Store) GetSpecies(id string) (models.Species, error) {
	if err := s.ensureDB(); err != nil {
		return models.Species{}, err
	}

	sp, err := scanSpecies(s.db.QueryRow(`SELECT `+speciesColumns+` FROM species WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Species{}, fmt.Errorf("species %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Species{}, fmt.Errorf("failed to get species: %w", err)
	}
	return sp, nil
}

func (s *Store) GetAllSpecies() ([]models.Species, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT ` + speciesColumns + ` FROM species ORDER BY common_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query species: %w", err)
	}
	defer rows.Close()

	var all []models.Species
	for rows.Next() {
		sp, err := scanSpecies(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan species: %w", err)
		}
		all = append(all, sp)
	}
	return all, rows.Err()
}

func (s *Store) UpdateSpecies(sp models.Species) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := sp.Validate(); err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE species
		SET common_name = $1, scientific_name = $2, description = $3,
			base_watering_frequency_days = $4, water_amount_guide = $5
		WHERE id = $6
	`,
		sp.CommonName, sp.ScientificName, sp.Description,
		sp.BaseWateringFrequencyDays, sp.WaterAmountGuide, sp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update species: %w", err)
	}
	return requireAffected(res, "species", sp.ID)
}

func (s *Store) DeleteSpecies(id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE plants SET species_id = NULL, postponed_days = 0 WHERE species_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach plants from species: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM species WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete species: %w", err)
	}
	if err := requireAffected(res, "species", id); err != nil {
		return err
	}

	return tx.Commit()
}
