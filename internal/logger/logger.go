// Package logger holds the process-wide structured logger. Output always goes
// to a rotated file under <config dir>/logs and is mirrored to stderr for
// --debug and for the HTTP server.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/bamboocare/internal/constants"
)

// Logger is nil until Init succeeds; the package helpers are no-ops before then.
var Logger *log.Logger

type Config struct {
	Debug bool
	// Level is parsed with log.ParseLevel. Empty means warn, or info when
	// Stderr is set. Debug overrides it.
	Level     string
	ConfigDir string
	Stderr    bool
}

func (c Config) level() (log.Level, error) {
	switch {
	case c.Debug:
		return log.DebugLevel, nil
	case c.Level != "":
		lvl, err := log.ParseLevel(c.Level)
		if err != nil {
			return log.WarnLevel, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		return lvl, nil
	case c.Stderr:
		return log.InfoLevel, nil
	}
	return log.WarnLevel, nil
}

// Path returns the log file used for configDir.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init replaces the global logger. An invalid level still installs a logger
// at warn level and reports the error.
func Init(cfg Config) error {
	file := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   file,
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	if cfg.Debug || cfg.Stderr {
		out = io.MultiWriter(os.Stderr, out)
	}

	level, err := cfg.level()
	Logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return err
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
