package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
)

const speciesColumns = `id, common_name, scientific_name, description,
	base_watering_frequency_days, water_amount_guide, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSpecies(row rowScanner) (models.Species, error) {
	var sp models.Species
	var createdAt string
	if err := row.Scan(
		&sp.ID, &sp.CommonName, &sp.ScientificName, &sp.Description,
		&sp.BaseWateringFrequencyDays, &sp.WaterAmountGuide, &createdAt,
	); err != nil {
		return models.Species{}, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return models.Species{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	sp.CreatedAt = t
	return sp, nil
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
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		sp.ID, sp.CommonName, sp.ScientificName, sp.Description,
		sp.BaseWateringFrequencyDays, sp.WaterAmountGuide, formatTime(sp.CreatedAt),
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

	row := s.db.QueryRow(`SELECT `+speciesColumns+` FROM species WHERE id = ?`, id)
	sp, err := scanSpecies(row)
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
		SET common_name = ?, scientific_name = ?, description = ?,
			base_watering_frequency_days = ?, water_amount_guide = ?
		WHERE id = ?
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

	if _, err := tx.Exec(`UPDATE plants SET species_id = NULL, postponed_days = 0 WHERE species_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach plants from species: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM species WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete species: %w", err)
	}
	if err := requireAffected(res, "species", id); err != nil {
		return err
	}

	return tx.Commit()
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
