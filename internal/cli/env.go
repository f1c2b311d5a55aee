package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/julianstephens/bamboocare/internal/logger"
)

// LoadEnv reads KEY=VALUE files into the process environment before flags are
// parsed. Missing files are skipped and existing variables win.
func LoadEnv(paths ...string) []string {
	var loaded []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Cannot read env file", "path", path, "error", err)
			}
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("Failed to load env file", "path", path, "error", err)
			continue
		}
		loaded = append(loaded, path)
	}
	return loaded
}
