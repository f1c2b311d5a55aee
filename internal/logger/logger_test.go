package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("hidden at warn level")
	Info("hidden at warn level")
	Warn("plant overdue", "plant", "p-1")
	Error("reminder failed")

	data, err := os.ReadFile(Path(configDir))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "plant overdue") || !strings.Contains(out, "reminder failed") {
		t.Errorf("log file missing entries:\n%s", out)
	}
	if strings.Contains(out, "hidden at warn level") {
		t.Errorf("log file contains entries below warn:\n%s", out)
	}
}

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    log.Level
		wantErr bool
	}{
		{name: "default", cfg: Config{}, want: log.WarnLevel},
		{name: "server", cfg: Config{Stderr: true}, want: log.InfoLevel},
		{name: "explicit", cfg: Config{Level: "error", Stderr: true}, want: log.ErrorLevel},
		{name: "debug wins", cfg: Config{Debug: true, Level: "error"}, want: log.DebugLevel},
		{name: "invalid", cfg: Config{Level: "chatty"}, want: log.WarnLevel, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.level()
			if (err != nil) != tt.wantErr {
				t.Fatalf("level() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("level() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{Level: "chatty", ConfigDir: t.TempDir()}); err == nil {
		t.Fatal("expected error for invalid level")
	}
	if Logger == nil || Logger.GetLevel() != log.WarnLevel {
		t.Error("expected a warn-level logger despite the invalid level")
	}
}

func TestLoggingWithoutInit(t *testing.T) {
	old := Logger
	Logger = nil
	defer func() { Logger = old }()

	Debug("no-op")
	Info("no-op")
	Warn("no-op")
	Error("no-op")
}
