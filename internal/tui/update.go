package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/tui/components/plantlist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Results of background loads apply whatever screen is showing.
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
	case dashboardMsg:
		m.err = msg.err
		if msg.err == nil {
			m.plants.SetStatuses(msg.statuses)
		}
		return m, nil
	case weatherMsg:
		m.forecast.SetWeather(msg.snap, msg.alerts)
		return m, nil
	case speciesMsg:
		if msg.err == nil {
			m.species = msg.species
		}
		return m, nil
	case actionMsg:
		m.message, m.err = msg.text, msg.err
		return m, m.loadDashboard()
	}

	switch m.state {
	case StateAddPlant, StateLogCare:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case plantlist.AddPlantMsg:
		m.plantForm = &PlantFormModel{
			Location:  models.LocationIndoor,
			Light:     models.LightIndirect,
			Container: models.ContainerPot,
		}
		m.form = NewPlantForm(m.plantForm, m.species, m.location())
		m.state = StateAddPlant
		return m, m.form.Init()

	case plantlist.WaterPlantMsg:
		return m, m.water(msg.ID)

	case plantlist.PostponePlantMsg:
		return m, m.postpone(msg.ID)

	case plantlist.LogCareMsg:
		m.targetID, m.targetName = msg.ID, msg.Name
		m.careForm = &CareFormModel{Type: models.CareFertilizing}
		m.form = NewCareForm(m.careForm, msg.Name, m.location())
		m.state = StateLogCare
		return m, m.form.Init()

	case plantlist.DeletePlantMsg:
		m.targetID, m.targetName = msg.ID, msg.Name
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		if m.state == StatePlants && m.plants.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.message = ""
			return m, m.refresh()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StatePlants:
		m.plants, cmd = m.plants.Update(msg)
	case StateWeather:
		m.forecast, cmd = m.forecast.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StatePlants
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		done := m.state
		m.state = StatePlants
		if done == StateAddPlant {
			return m, tea.Batch(cmd, m.addPlant(*m.plantForm))
		}
		return m, tea.Batch(cmd, m.logCare(m.targetID, *m.careForm))
	case huh.StateAborted:
		m.state = StatePlants
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		m.state = StatePlants
		return m, m.deletePlant(m.targetID, m.targetName)
	case key.Matches(k, m.keys.Cancel):
		m.state = StatePlants
	}
	return m, nil
}

func (m *Model) resize() {
	// tabs, status line and help
	h := max(m.height-8, 1)
	w := max(m.width-4, 1)
	m.plants.SetSize(w, h)
	m.forecast.SetSize(w, h)
}
