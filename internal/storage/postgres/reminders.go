package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
)

func scanReminder(row rowScanner) (models.Reminder, error) {
	var r models.Reminder
	var sentAt sql.NullTime
	if err := row.Scan(&r.PlantID, &r.FireAt, &r.Title, &r.Body, &sentAt); err != nil {
		return models.Reminder{}, err
	}
	r.SentAt = timePtr(sentAt)
	return r, nil
}

func (s *Store) SaveReminder(r models.Reminder) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT INTO reminders (plant_id, fire_at, title, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (plant_id) DO UPDATE SET
			fire_at = EXCLUDED.fire_at,
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			sent_at = EXCLUDED.sent_at
	`, r.PlantID, r.FireAt, r.Title, r.Body, nullTime(r.SentAt))
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}
	return nil
}

func (s *Store) GetReminder(plantID string) (models.Reminder, error) {
	if err := s.ensureDB(); err != nil {
		return models.Reminder{}, err
	}

	r, err := scanReminder(s.db.QueryRow(`
		SELECT plant_id, fire_at, title, body, sent_at FROM reminders WHERE plant_id = $1
	`, plantID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, fmt.Errorf("reminder for plant %s: %w", plantID, storage.ErrNotFound)
	}
	if err != nil {
		return models.Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

func (s *Store) GetAllReminders() ([]models.Reminder, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`SELECT plant_id, fire_at, title, body, sent_at FROM reminders ORDER BY fire_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *Store) DeleteReminder(plantID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM reminders WHERE plant_id = $1`, plantID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (s *Store) MarkReminderSent(plantID string, at time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE reminders SET sent_at = $1 WHERE plant_id = $2`, at, plantID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return requireAffected(res, "reminder for plant", plantID)
}
