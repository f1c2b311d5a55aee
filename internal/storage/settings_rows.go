package storage

import (
	"database/sql"
	"fmt"
	"maps"
	"slices"

	"github.com/julianstephens/bamboocare/internal/models"
)

// ReadSettings decodes key/value rows from a settings table and fills in
// defaults for keys added after the database was created.
func ReadSettings(rows *sql.Rows) (models.Settings, error) {
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return models.Settings{}, err
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(kv) == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", ErrNotFound)
	}

	settings, err := models.MapToSettings(kv)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

// WriteSettings upserts every settings key with stmt, which takes (key, value).
func WriteSettings(stmt *sql.Stmt, settings models.Settings) error {
	kv := models.SettingsToMap(settings)
	for _, k := range slices.Sorted(maps.Keys(kv)) {
		if _, err := stmt.Exec(k, kv[k]); err != nil {
			return fmt.Errorf("saving setting %s: %w", k, err)
		}
	}
	return nil
}
