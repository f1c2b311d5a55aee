package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Static always returns the same snapshot, or Err when set.
type Static struct {
	Snapshot *Snapshot
	Err      error
}

func (s *Static) Name() string { return "static" }

func (s *Static) Fetch(ctx context.Context, _ Coordinate) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Snapshot == nil {
		return nil, fmt.Errorf("no static weather snapshot configured")
	}
	snap := *s.Snapshot
	return &snap, nil
}

// LoadStatic reads a JSON-encoded Snapshot from path.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse weather file: %w", err)
	}
	if snap.Source == "" {
		snap.Source = "file"
	}
	return &Static{Snapshot: &snap}, nil
}
