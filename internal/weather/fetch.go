package weather

import (
	"context"
	"time"

	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/logger"
)

// FetchSnapshot asks the provider for a snapshot, bounded by timeout. Any failure
// is logged and reported as a nil snapshot so scheduling falls back to normal.
func FetchSnapshot(ctx context.Context, p Provider, coord Coordinate, timeout time.Duration) *Snapshot {
	if p == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = constants.DefaultWeatherTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		snap *Snapshot
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		snap, err := p.Fetch(ctx, coord)
		ch <- result{snap, err}
	}()

	select {
	case <-ctx.Done():
		logger.Warn("Weather fetch timed out", "provider", p.Name(), "coord", coord.String(), "timeout", timeout)
		return nil
	case r := <-ch:
		if r.err != nil {
			logger.Warn("Weather fetch failed", "provider", p.Name(), "coord", coord.String(), "error", r.err)
			return nil
		}
		if r.snap == nil {
			return nil
		}
		logger.Debug("Fetched weather", "provider", p.Name(), "temp_c", r.snap.Current.TemperatureC, "condition", r.snap.Current.Condition)
		return r.snap
	}
}
