package sqlite

import (
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/storage"
)

func (s *Store) GetSettings() (models.Settings, error) {
	if err := s.ensureDB(); err != nil {
		return models.Settings{}, err
	}
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	return storage.ReadSettings(rows)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if err := storage.WriteSettings(stmt, settings); err != nil {
		return err
	}
	return tx.Commit()
}
