package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

	hurricaneWindKmh     = 118.0
	tropicalStormWindKmh = 63.0
	forecastDays         = 7
)

// OpenMeteo fetches conditions from the Open-Meteo forecast API. Wind speeds are
// requested in km/h and temperatures in Celsius.
type OpenMeteo struct {
	BaseURL string
	Client  *http.Client
	// PastDays is how many observed days to request for the recent-rain rule.
	PastDays int
	now      func() time.Time
}

func NewOpenMeteo() *OpenMeteo {
	return &OpenMeteo{
		BaseURL:  DefaultOpenMeteoURL,
		Client:   &http.Client{},
		PastDays: 2,
		now:      time.Now,
	}
}

func (o *OpenMeteo) Name() string { return "open-meteo" }

type openMeteoResponse struct {
	Timezone string `json:"timezone"`
	Current  struct {
		Time             string   `json:"time"`
		Temperature      *float64 `json:"temperature_2m"`
		RelativeHumidity *float64 `json:"relative_humidity_2m"`
		Precipitation    *float64 `json:"precipitation"`
		WindSpeed        *float64 `json:"wind_speed_10m"`
		WeatherCode      *int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Time                        []string   `json:"time"`
		PrecipitationSum            []*float64 `json:"precipitation_sum"`
		PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
		TemperatureMin              []*float64 `json:"temperature_2m_min"`
		TemperatureMax              []*float64 `json:"temperature_2m_max"`
	} `json:"daily"`
}

func (o *OpenMeteo) requestURL(coord Coordinate) (string, error) {
	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid open-meteo url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m,weather_code")
	q.Set("daily", "precipitation_sum,precipitation_probability_max,temperature_2m_min,temperature_2m_max")
	q.Set("past_days", strconv.Itoa(o.PastDays))
	q.Set("forecast_days", strconv.Itoa(forecastDays))
	q.Set("wind_speed_unit", "kmh")
	q.Set("timezone", "auto")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch implements Provider.
func (o *OpenMeteo) Fetch(ctx context.Context, coord Coordinate) (*Snapshot, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	reqURL, err := o.requestURL(coord)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("open-meteo returned status: %s", res.Status)
	}

	var body openMeteoResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	now := time.Now
	if o.now != nil {
		now = o.now
	}
	return body.toSnapshot(now())
}

func (r *openMeteoResponse) toSnapshot(fetchedAt time.Time) (*Snapshot, error) {
	c := r.Current
	if c.Temperature == nil || c.RelativeHumidity == nil {
		return nil, fmt.Errorf("open-meteo response missing current conditions")
	}

	current := Conditions{
		TemperatureC:    deref(c.Temperature),
		HumidityPct:     deref(c.RelativeHumidity),
		WindSpeedKmh:    deref(c.WindSpeed),
		PrecipitationMM: deref(c.Precipitation),
		Condition:       ConditionUnknown,
	}
	if c.WeatherCode != nil {
		current.Condition = ConditionFromWMO(*c.WeatherCode)
	}
	current.Condition = classifyWind(current.Condition, current.WindSpeedKmh)

	// Days before the current local date are observations.
	today := ""
	if len(c.Time) >= len("2006-01-02") {
		today = c.Time[:len("2006-01-02")]
	}

	snap := &Snapshot{Current: current, FetchedAt: fetchedAt, Source: "open-meteo"}
	d := r.Daily
	for i, date := range d.Time {
		day := Daily{
			Date:                   date,
			PrecipitationMM:        at(d.PrecipitationSum, i),
			PrecipitationChancePct: at(d.PrecipitationProbabilityMax, i),
			MinTempC:               at(d.TemperatureMin, i),
			MaxTempC:               at(d.TemperatureMax, i),
		}
		if today != "" && date < today {
			snap.Recent = append(snap.Recent, day)
		} else {
			snap.Forecast = append(snap.Forecast, day)
		}
	}
	return snap, nil
}

// ConditionFromWMO maps a WMO weather interpretation code to a Condition.
func ConditionFromWMO(code int) Condition {
	switch {
	case code == 0:
		return ConditionClear
	case code >= 1 && code <= 3:
		return ConditionCloudy
	case code == 45 || code == 48:
		return ConditionFog
	case code >= 51 && code <= 57:
		return ConditionDrizzle
	case (code >= 61 && code <= 67) || (code >= 80 && code <= 82):
		return ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return ConditionSnow
	case code >= 95 && code <= 99:
		return ConditionThunderstorm
	default:
		return ConditionUnknown
	}
}

// classifyWind upgrades the condition to a storm category on sustained wind
// speed (Beaufort 8+ tropical storm, 12 hurricane).
func classifyWind(c Condition, windKmh float64) Condition {
	switch {
	case windKmh >= hurricaneWindKmh:
		return ConditionHurricane
	case windKmh >= tropicalStormWindKmh:
		return ConditionTropicalStorm
	default:
		return c
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func at(values []*float64, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return deref(values[i])
}
