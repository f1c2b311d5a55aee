package care

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/schedule"
	"github.com/julianstephens/bamboocare/internal/weather"
)

// PlantStatus is a plant's schedule as shown on the dashboard.
type PlantStatus struct {
	Plant     models.Plant `json:"plant"`
	Frequency int          `json:"frequency_days"`
	// NextWatering includes any explicit postponement but no weather shift.
	NextWatering *time.Time                `json:"next_watering,omitempty"`
	Effective    *time.Time                `json:"effective_watering,omitempty"`
	Adjustment   models.WateringAdjustment `json:"adjustment"`
	Status       schedule.Status           `json:"status"`
}

func (s *Service) statusOf(p models.Plant, snap *weather.Snapshot) PlantStatus {
	adj := s.engine.Evaluate(snap, p)
	effective := s.calc.Effective(p, adj)
	return PlantStatus{
		Plant:        p,
		Frequency:    schedule.AdjustedFrequency(p),
		NextWatering: s.calc.NextWateringDate(p),
		Effective:    effective,
		Adjustment:   adj,
		Status:       s.calc.StatusAt(effective),
	}
}

// Status computes one plant's status with the current weather.
func (s *Service) Status(ctx context.Context, id string) (ps PlantStatus, err error) {
	defer func(start time.Time) { s.observe(ctx, "status", start, err) }(time.Now())

	s.mu.RLock()
	p, err := s.store.GetPlant(id)
	s.mu.RUnlock()
	if err != nil {
		return PlantStatus{}, err
	}

	var snap *weather.Snapshot
	if p.IsOutdoor() {
		snap = s.snapshot(ctx)
	}
	ps = s.statusOf(p, snap)
	s.metrics.Adjustment(string(ps.Adjustment.Kind))
	return ps, nil
}

// Dashboard returns every plant's status, most urgent first. Ties are broken by name.
func (s *Service) Dashboard(ctx context.Context) (out []PlantStatus, err error) {
	defer func(start time.Time) { s.observe(ctx, "dashboard", start, err) }(time.Now())

	s.mu.RLock()
	plants, err := s.store.GetAllPlants()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	var snap *weather.Snapshot
	if slices.ContainsFunc(plants, func(p models.Plant) bool { return p.IsOutdoor() }) {
		snap = s.snapshot(ctx)
	}

	counts := map[string]int{}
	for _, p := range plants {
		ps := s.statusOf(p, snap)
		counts[string(ps.Status.Urgency)]++
		out = append(out, ps)
	}
	s.metrics.SetUrgencyCounts(counts)

	slices.SortStableFunc(out, func(a, b PlantStatus) int {
		if c := compareDates(a.Effective, b.Effective); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Plant.Name), strings.ToLower(b.Plant.Name))
	})
	return out, nil
}

// Weather returns the current snapshot and advisory alerts. Both are empty when
// weather is disabled, unconfigured or unavailable.
func (s *Service) Weather(ctx context.Context) (*weather.Snapshot, []string) {
	snap := s.snapshot(ctx)
	return snap, s.engine.CheckAlerts(snap)
}

// snapshot releases mu before fetching so a slow provider never blocks writers.
func (s *Service) snapshot(ctx context.Context) *weather.Snapshot {
	if s.weather == nil {
		return nil
	}
	s.mu.RLock()
	settings, err := s.store.GetSettings()
	s.mu.RUnlock()
	if err != nil || !settings.WeatherEnabled || !settings.HasCoordinates() {
		return nil
	}
	coord := weather.Coordinate{Latitude: *settings.Latitude, Longitude: *settings.Longitude}
	timeout := time.Duration(settings.WeatherTimeoutSec) * time.Second
	return weather.FetchSnapshot(ctx, s.weather, coord, timeout)
}

// nil sorts first: a plant with no date needs water now.
func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}
