package forecast

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bamboocare/internal/weather"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(14)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	alertStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	Snapshot *weather.Snapshot
	Alerts   []string
	loaded   bool
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return "Loading weather..."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetWeather stores the snapshot (nil when weather is off or unavailable).
func (m *Model) SetWeather(snap *weather.Snapshot, alerts []string) {
	m.Snapshot = snap
	m.Alerts = alerts
	m.loaded = true
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(Render(m.Snapshot, m.Alerts))
}

// Render formats a snapshot as text.
func Render(snap *weather.Snapshot, alerts []string) string {
	if snap == nil {
		return mutedStyle.Render("Weather unavailable. Set a location with 'bamboocare settings set --latitude --longitude'.")
	}

	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	c := snap.Current
	row("Condition", string(c.Condition))
	row("Temperature", fmt.Sprintf("%.1f°C", c.TemperatureC))
	row("Humidity", fmt.Sprintf("%.0f%%", c.HumidityPct))
	row("Wind", fmt.Sprintf("%.0f km/h", c.WindSpeedKmh))
	row("Rain", fmt.Sprintf("%.1f mm", c.PrecipitationMM))

	if len(snap.Forecast) > 0 {
		b.WriteString("\nForecast\n")
		for _, d := range snap.Forecast {
			fmt.Fprintf(&b, "  %s  %5.1f/%.1f°C  %4.1f mm  %3.0f%%\n",
				d.Date, d.MinTempC, d.MaxTempC, d.PrecipitationMM, d.PrecipitationChancePct)
		}
	}
	if len(alerts) > 0 {
		b.WriteString("\n")
		for _, a := range alerts {
			b.WriteString(alertStyle.Render("⚠ "+a) + "\n")
		}
	}
	if snap.Source != "" {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("source: %s, fetched %s", snap.Source, snap.FetchedAt.Format("2006-01-02 15:04"))))
	}
	return b.String()
}
