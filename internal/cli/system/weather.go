package system

import (
	"fmt"

	"github.com/julianstephens/bamboocare/internal/cli"
)

// WeatherCmd shows the current snapshot, advisories and how each outdoor plant
// is adjusted.
type WeatherCmd struct{}

func (c *WeatherCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.WeatherEnabled {
		fmt.Println("Weather adjustments are disabled (bamboocare settings set --weather-enabled).")
		return nil
	}
	if !settings.HasCoordinates() {
		fmt.Println("No weather location configured (bamboocare settings set --latitude ... --longitude ...).")
		return nil
	}

	snap, alerts := svc.Weather(ctx.Ctx())
	if snap == nil {
		fmt.Println("Weather unavailable: outdoor plants follow their normal schedule.")
		return nil
	}

	cur := snap.Current
	fmt.Printf("Current weather (%s, %s):\n", snap.Source, snap.FetchedAt.Format("2006-01-02 15:04"))
	fmt.Printf("  %s, %.1f°C, humidity %.0f%%, wind %.0f km/h, precipitation %.1f mm\n",
		cur.Condition, cur.TemperatureC, cur.HumidityPct, cur.WindSpeedKmh, cur.PrecipitationMM)

	if len(snap.Forecast) > 0 {
		fmt.Println("\nForecast:")
		for _, d := range snap.Forecast {
			fmt.Printf("  %s  %5.1f-%5.1f°C  rain %3.0f%%  %.1f mm\n", d.Date, d.MinTempC, d.MaxTempC, d.PrecipitationChancePct, d.PrecipitationMM)
		}
	}

	if len(alerts) > 0 {
		fmt.Println("\nAlerts:")
		for _, a := range alerts {
			fmt.Printf("  ⚠ %s\n", a)
		}
	}

	board, err := svc.Dashboard(ctx.Ctx())
	if err != nil {
		return err
	}
	printed := false
	for _, st := range board {
		if !st.Plant.IsOutdoor() {
			continue
		}
		if !printed {
			fmt.Println("\nOutdoor plants:")
			printed = true
		}
		shift := st.Adjustment.ShiftDays()
		fmt.Printf("  %-20s %-10s %+d day(s)  %s\n", st.Plant.Name, st.Adjustment.Kind, shift, st.Adjustment.Reason)
	}
	return nil
}
