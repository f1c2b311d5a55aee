package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/bamboocare/internal/errors"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StatePlants:
		content = docStyle.Render(m.plants.View())
	case StateWeather:
		content = docStyle.Render(m.forecast.View())
	case StateSpecies:
		content = docStyle.Render(m.viewSpecies())
	case StateAddPlant, StateLogCare:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatusLine(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	if active >= SessionState(len(tabTitles)) {
		active = StatePlants
	}
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatusLine() string {
	switch {
	case m.err != nil:
		return warningStyle.Render(errors.Format(m.err))
	case m.message != "":
		return successStyle.Render(m.message)
	}
	return ""
}

func (m Model) viewSpecies() string {
	if len(m.species) == 0 {
		return "No species found. Run 'bamboocare init' to load the built-in species."
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Species", "Scientific name", "Watering", "Guide")
	for _, sp := range m.species {
		t.Row(sp.CommonName, sp.ScientificName, fmt.Sprintf("every %d days", sp.BaseWateringFrequencyDays), sp.WaterAmountGuide)
	}
	return t.String()
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %s and its care history?", m.targetName)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
