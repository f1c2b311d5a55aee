package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/bamboocare/internal/models"
)

const careLogColumns = `seq, id, plant_id, date, type, notes`

func scanCareLog(row rowScanner) (models.CareLog, error) {
	var l models.CareLog
	var date, careType string
	if err := row.Scan(&l.Seq, &l.ID, &l.PlantID, &date, &careType, &l.Notes); err != nil {
		return models.CareLog{}, err
	}
	t, err := parseTime(date)
	if err != nil {
		return models.CareLog{}, fmt.Errorf("failed to parse care log date: %w", err)
	}
	l.Date = t
	l.Type = models.CareType(careType)
	return l, nil
}

func (s *Store) AddCareLog(l models.CareLog) (models.CareLog, error) {
	if err := s.ensureDB(); err != nil {
		return models.CareLog{}, err
	}
	return insertCareLog(s.db, l)
}

func (s *Store) RecordCare(l models.CareLog, p models.Plant) (models.CareLog, error) {
	if err := s.ensureDB(); err != nil {
		return models.CareLog{}, err
	}
	if l.PlantID != p.ID {
		return models.CareLog{}, fmt.Errorf("care log for %s recorded against plant %s", l.PlantID, p.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.CareLog{}, err
	}
	defer tx.Rollback()

	l, err = insertCareLog(tx, l)
	if err != nil {
		return models.CareLog{}, err
	}
	res, err := tx.Exec(`UPDATE plants SET last_watered = ?, postponed_days = ? WHERE id = ?`,
		formatOptionalTime(p.LastWatered), p.PostponedDays, p.ID)
	if err != nil {
		return models.CareLog{}, fmt.Errorf("failed to update plant schedule: %w", err)
	}
	if err := requireAffected(res, "plant", p.ID); err != nil {
		return models.CareLog{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.CareLog{}, err
	}
	return l, nil
}

type queryExecer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func insertCareLog(db queryExecer, l models.CareLog) (models.CareLog, error) {
	if !l.Type.Valid() {
		return models.CareLog{}, fmt.Errorf("invalid care type %q", l.Type)
	}

	var exists int
	if err := db.QueryRow(`SELECT COUNT(*) FROM plants WHERE id = ?`, l.PlantID).Scan(&exists); err != nil {
		return models.CareLog{}, fmt.Errorf("failed to check plant: %w", err)
	}
	if exists == 0 {
		return models.CareLog{}, fmt.Errorf("cannot log care for unknown plant %s", l.PlantID)
	}

	res, err := db.Exec(`
		INSERT INTO care_logs (id, plant_id, date, type, notes)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, l.PlantID, formatTime(l.Date), string(l.Type), l.Notes)
	if err != nil {
		return models.CareLog{}, fmt.Errorf("failed to insert care log: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return models.CareLog{}, fmt.Errorf("failed to read care log sequence: %w", err)
	}
	l.Seq = seq
	return l, nil
}

func (s *Store) GetCareLogs(plantID string) ([]models.CareLog, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return s.queryCareLogs(`SELECT `+careLogColumns+` FROM care_logs WHERE plant_id = ? ORDER BY seq ASC`, plantID)
}

func (s *Store) GetAllCareLogs() ([]models.CareLog, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	return s.queryCareLogs(`SELECT ` + careLogColumns + ` FROM care_logs ORDER BY seq ASC`)
}

func (s *Store) queryCareLogs(query string, args ...any) ([]models.CareLog, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query care logs: %w", err)
	}
	defer rows.Close()

	var logs []models.CareLog
	for rows.Next() {
		l, err := scanCareLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan care log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
