package weather

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/models"
)

// Reason codes returned with adjustments.
const (
	ReasonIndoor       = "indoor plant"
	ReasonUnavailable  = "weather unavailable"
	ReasonRecentRain   = "recent rain"
	ReasonRainExpected = "rain expected soon"
	ReasonHighTemp     = "high temperature"
	ReasonLowHumidity  = "low humidity"
	ReasonWind         = "high evaporation from wind"
	ReasonNormal       = "conditions normal"
)

// Thresholds configure the decision chain and the alerts.
type Thresholds struct {
	RecentRainMM         float64
	RecentDays           int
	RainChancePct        float64
	RainForecastDays     int
	HighTemperatureC     float64
	LowHumidityPct       float64
	StrongWindKmh        float64
	HeatWaveTemperatureC float64
	FrostTemperatureC    float64
	FrostForecastDays    int
	RecentRainPostpone   int
	AdjustmentDays       int
}

// DefaultThresholds returns the canonical rule set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RecentRainMM:         constants.RecentRainMM,
		RecentDays:           constants.RecentDaysWindow,
		RainChancePct:        constants.RainChancePct,
		RainForecastDays:     constants.RainForecastWindow,
		HighTemperatureC:     constants.HighTemperatureC,
		LowHumidityPct:       constants.LowHumidityPct,
		StrongWindKmh:        constants.StrongWindKmh,
		HeatWaveTemperatureC: constants.HeatWaveTemperatureC,
		FrostTemperatureC:    constants.FrostTemperatureC,
		FrostForecastDays:    constants.FrostForecastWindow,
		RecentRainPostpone:   constants.RecentRainPostponeDay,
		AdjustmentDays:       constants.DefaultAdjustmentDays,
	}
}

// Engine turns forecasts into schedule adjustments.
type Engine struct {
	t Thresholds
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithThresholds replaces the default thresholds.
func WithThresholds(t Thresholds) EngineOption {
	return func(e *Engine) { e.t = t }
}

// WithoutWindRule disables the strong-wind acceleration rule.
func WithoutWindRule() EngineOption {
	return func(e *Engine) { e.t.StrongWindKmh = 0 }
}

// NewEngine returns an Engine with DefaultThresholds.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{t: DefaultThresholds()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the engine's active thresholds.
func (e *Engine) Thresholds() Thresholds {
	return e.t
}

// Evaluate runs the decision chain; the first matching rule wins. Precipitation
// rules come before the evaporation rules.
func (e *Engine) Evaluate(s *Snapshot, p models.Plant) models.WateringAdjustment {
	if !p.IsOutdoor() {
		return models.Normal(ReasonIndoor)
	}
	if s == nil {
		return models.Normal(ReasonUnavailable)
	}

	if e.recentPrecipitation(s) > e.t.RecentRainMM {
		return postpone(ReasonRecentRain, e.t.RecentRainPostpone)
	}

	for _, d := range firstN(s.Forecast, e.t.RainForecastDays) {
		if d.PrecipitationChancePct > e.t.RainChancePct {
			return postpone(ReasonRainExpected, e.t.AdjustmentDays)
		}
	}

	if s.Current.TemperatureC > e.t.HighTemperatureC {
		return accelerate(ReasonHighTemp, e.t.AdjustmentDays)
	}
	if s.Current.HumidityPct < e.t.LowHumidityPct {
		return accelerate(ReasonLowHumidity, e.t.AdjustmentDays)
	}
	if e.t.StrongWindKmh > 0 && s.Current.WindSpeedKmh > e.t.StrongWindKmh {
		return accelerate(ReasonWind, e.t.AdjustmentDays)
	}

	return models.Normal(ReasonNormal)
}

// recentPrecipitation sums the last RecentDays past days, or falls back to the
// current reading when the provider gave no history.
func (e *Engine) recentPrecipitation(s *Snapshot) float64 {
	if len(s.Recent) == 0 {
		return s.Current.PrecipitationMM
	}
	start := max(len(s.Recent)-e.t.RecentDays, 0)
	var total float64
	for _, d := range s.Recent[start:] {
		total += d.PrecipitationMM
	}
	return total
}

// CheckAlerts returns advisory messages. It never affects the schedule.
func (e *Engine) CheckAlerts(s *Snapshot) []string {
	if s == nil {
		return nil
	}
	var alerts []string
	if s.Current.TemperatureC > e.t.HeatWaveTemperatureC {
		alerts = append(alerts, fmt.Sprintf("Heat wave: %.1f°C. Check outdoor plants for drought stress.", s.Current.TemperatureC))
	}
	for _, d := range firstN(s.Forecast, e.t.FrostForecastDays) {
		if d.MinTempC < e.t.FrostTemperatureC {
			alerts = append(alerts, fmt.Sprintf("Frost expected on %s (low %.1f°C). Protect sensitive bamboo.", d.Date, d.MinTempC))
			break
		}
	}
	if s.Current.Condition.IsSevereStorm() {
		alerts = append(alerts, fmt.Sprintf("Severe storm warning (%s). Secure tall canes and containers.", s.Current.Condition))
	}
	return alerts
}

func postpone(reason string, days int) models.WateringAdjustment {
	return models.WateringAdjustment{Kind: models.AdjustmentPostpone, Reason: reason, MagnitudeDays: days}
}

func accelerate(reason string, days int) models.WateringAdjustment {
	return models.WateringAdjustment{Kind: models.AdjustmentAccelerate, Reason: reason, MagnitudeDays: days}
}

func firstN(days []Daily, n int) []Daily {
	if n <= 0 {
		return nil
	}
	if n < len(days) {
		return days[:n]
	}
	return days
}
