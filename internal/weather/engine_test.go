package weather

import (
	"strings"
	"testing"

	"github.com/julianstephens/bamboocare/internal/models"
)

var outdoor = models.Plant{Name: "Kenji", Location: models.LocationOutdoor, Container: models.ContainerGround, LightLevel: models.LightDirect}

// mild returns a snapshot that triggers no rule.
func mild() *Snapshot {
	return &Snapshot{
		Current: Conditions{TemperatureC: 22, HumidityPct: 55, WindSpeedKmh: 10, Condition: ConditionCloudy},
		Recent: []Daily{
			{Date: "2024-06-08", PrecipitationMM: 0},
			{Date: "2024-06-09", PrecipitationMM: 1},
		},
		Forecast: []Daily{
			{Date: "2024-06-10", PrecipitationChancePct: 20, MinTempC: 12},
			{Date: "2024-06-11", PrecipitationChancePct: 10, MinTempC: 13},
			{Date: "2024-06-12", PrecipitationChancePct: 90, MinTempC: 11},
		},
	}
}

func TestEvaluate(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name   string
		plant  models.Plant
		snap   func() *Snapshot
		kind   models.AdjustmentKind
		reason string
		days   int
	}{
		{
			name:   "indoor ignores weather",
			plant:  models.Plant{Location: models.LocationIndoor},
			snap:   func() *Snapshot { s := mild(); s.Current.TemperatureC = 40; return s },
			kind:   models.AdjustmentNormal,
			reason: ReasonIndoor,
		},
		{
			name:   "missing snapshot",
			plant:  outdoor,
			snap:   func() *Snapshot { return nil },
			kind:   models.AdjustmentNormal,
			reason: ReasonUnavailable,
		},
		{
			name:  "recent rain",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Recent[0].PrecipitationMM = 3
				s.Recent[1].PrecipitationMM = 3
				return s
			},
			kind: models.AdjustmentPostpone, reason: ReasonRecentRain, days: 2,
		},
		{
			name:  "rain older than the window is ignored",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Recent = append([]Daily{{Date: "2024-06-07", PrecipitationMM: 40}}, s.Recent...)
				return s
			},
			kind: models.AdjustmentNormal, reason: ReasonNormal,
		},
		{
			name:  "current precipitation used without history",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Recent = nil
				s.Current.PrecipitationMM = 6
				return s
			},
			kind: models.AdjustmentPostpone, reason: ReasonRecentRain, days: 2,
		},
		{
			name:  "exactly five millimetres is not rain",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Recent[0].PrecipitationMM = 1
				s.Recent[1].PrecipitationMM = 4
				return s
			},
			kind: models.AdjustmentNormal, reason: ReasonNormal,
		},
		{
			name:  "rain expected tomorrow",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Forecast[1].PrecipitationChancePct = 75
				return s
			},
			kind: models.AdjustmentPostpone, reason: ReasonRainExpected, days: 1,
		},
		{
			name:  "high temperature",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Current.TemperatureC = 31
				return s
			},
			kind: models.AdjustmentAccelerate, reason: ReasonHighTemp, days: 1,
		},
		{
			name:  "low humidity",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Current.HumidityPct = 25
				return s
			},
			kind: models.AdjustmentAccelerate, reason: ReasonLowHumidity, days: 1,
		},
		{
			name:  "strong wind",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Current.WindSpeedKmh = 35
				return s
			},
			kind: models.AdjustmentAccelerate, reason: ReasonWind, days: 1,
		},
		{
			name:  "rain outranks heat",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Recent[0].PrecipitationMM = 6
				s.Current.TemperatureC = 36
				return s
			},
			kind: models.AdjustmentPostpone, reason: ReasonRecentRain, days: 2,
		},
		{
			name:  "forecast rain outranks low humidity",
			plant: outdoor,
			snap: func() *Snapshot {
				s := mild()
				s.Forecast[0].PrecipitationChancePct = 80
				s.Current.HumidityPct = 10
				return s
			},
			kind: models.AdjustmentPostpone, reason: ReasonRainExpected, days: 1,
		},
		{
			name:   "normal",
			plant:  outdoor,
			snap:   mild,
			kind:   models.AdjustmentNormal,
			reason: ReasonNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Evaluate(tt.snap(), tt.plant)
			if got.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", got.Kind, tt.kind)
			}
			if got.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.reason)
			}
			if got.MagnitudeDays != tt.days {
				t.Errorf("MagnitudeDays = %d, want %d", got.MagnitudeDays, tt.days)
			}
		})
	}
}

func TestEvaluateWithoutWindRule(t *testing.T) {
	engine := NewEngine(WithoutWindRule())
	s := mild()
	s.Current.WindSpeedKmh = 50
	if got := engine.Evaluate(s, outdoor); got.Kind != models.AdjustmentNormal {
		t.Errorf("Kind = %s, want normal with wind rule disabled", got.Kind)
	}
}

func TestEvaluateCustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.HighTemperatureC = 35
	engine := NewEngine(WithThresholds(th))

	s := mild()
	s.Current.TemperatureC = 33
	if got := engine.Evaluate(s, outdoor); got.Kind != models.AdjustmentNormal {
		t.Errorf("33°C with a 35°C threshold: Kind = %s, want normal", got.Kind)
	}
}

func TestCheckAlerts(t *testing.T) {
	engine := NewEngine()

	if got := engine.CheckAlerts(nil); len(got) != 0 {
		t.Errorf("expected no alerts without a snapshot, got %v", got)
	}
	if got := engine.CheckAlerts(mild()); len(got) != 0 {
		t.Errorf("expected no alerts for mild weather, got %v", got)
	}

	s := mild()
	s.Current.TemperatureC = 38
	s.Current.Condition = ConditionHurricane
	s.Forecast[2].MinTempC = -3
	got := engine.CheckAlerts(s)
	if len(got) != 3 {
		t.Fatalf("expected 3 alerts, got %d: %v", len(got), got)
	}
	for i, want := range []string{"Heat wave", "Frost expected on 2024-06-12", "Severe storm"} {
		if !strings.HasPrefix(got[i], want) {
			t.Errorf("alert %d = %q, want prefix %q", i, got[i], want)
		}
	}

	// Frost beyond the three-day window does not alert.
	s = mild()
	s.Forecast = append(s.Forecast, Daily{Date: "2024-06-13", MinTempC: -5})
	if got := engine.CheckAlerts(s); len(got) != 0 {
		t.Errorf("expected no alerts for distant frost, got %v", got)
	}
}

func TestAlertsDoNotChangeAdjustment(t *testing.T) {
	engine := NewEngine()
	s := mild()
	s.Current.Condition = ConditionTropicalStorm
	before := engine.Evaluate(s, outdoor)
	_ = engine.CheckAlerts(s)
	if after := engine.Evaluate(s, outdoor); after != before {
		t.Errorf("alerts changed evaluation: %v -> %v", before, after)
	}
}
