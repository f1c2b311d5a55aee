package sqlite

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
	var fireAt string
	var sentAt sql.NullString
	if err := row.Scan(&r.PlantID, &fireAt, &r.Title, &r.Body, &sentAt); err != nil {
		return models.Reminder{}, err
	}
	t, err := parseTime(fireAt)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("failed to parse fire_at: %w", err)
	}
	r.FireAt = t
	if r.SentAt, err = parseOptionalTime(sentAt); err != nil {
		return models.Reminder{}, fmt.Errorf("failed to parse sent_at: %w", err)
	}
	return r, nil
}

// SaveReminder inserts or replaces the plant's single pending reminder.
func (s *Store) SaveReminder(r models.Reminder) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO reminders (plant_id, fire_at, title, body, sent_at)
		VALUES (?, ?, ?, ?, ?)
	`, r.PlantID, formatTime(r.FireAt), r.Title, r.Body, formatOptionalTime(r.SentAt))
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
		SELECT plant_id, fire_at, title, body, sent_at FROM reminders WHERE plant_id = ?
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

// DeleteReminder is a no-op when the plant has no reminder.
func (s *Store) DeleteReminder(plantID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if _, err := s.db.Exec(`DELETE FROM reminders WHERE plant_id = ?`, plantID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (s *Store) MarkReminderSent(plantID string, at time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE reminders SET sent_at = ? WHERE plant_id = ?`, formatTime(at), plantID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return requireAffected(res, "reminder for plant", plantID)
}
