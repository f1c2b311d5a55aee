package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/models"
	"github.com/julianstephens/bamboocare/internal/tui/components/forecast"
	"github.com/julianstephens/bamboocare/internal/tui/components/plantlist"
	"github.com/julianstephens/bamboocare/internal/utils"
	"github.com/julianstephens/bamboocare/internal/weather"
)

type SessionState int

const (
	StatePlants SessionState = iota
	StateWeather
	StateSpecies
	StateAddPlant
	StateLogCare
	StateConfirmDelete
)

var tabTitles = []string{"Plants", "Weather", "Species"}

type PlantFormModel struct {
	Name      string
	SpeciesID string
	Location  models.PlantLocation
	Light     models.LightLevel
	Container models.ContainerType
	Watered   string
	Notes     string
}

type CareFormModel struct {
	Type  models.CareType
	Date  string
	Notes string
}

type Model struct {
	ctx        context.Context
	svc        *care.Service
	state      SessionState
	keys       KeyMap
	help       help.Model
	plants     plantlist.Model
	forecast   forecast.Model
	species    []models.Species
	form       *huh.Form
	plantForm  *PlantFormModel
	careForm   *CareFormModel
	targetID   string
	targetName string
	message    string
	err        error
	quitting   bool
	width      int
	height     int
}

type dashboardMsg struct {
	statuses []care.PlantStatus
	err      error
}

type weatherMsg struct {
	snap   *weather.Snapshot
	alerts []string
}

type speciesMsg struct {
	species []models.Species
	err     error
}

// actionMsg reports the outcome of a change made from the UI.
type actionMsg struct {
	text string
	err  error
}

func NewModel(ctx context.Context, svc *care.Service) Model {
	return Model{
		ctx:      ctx,
		svc:      svc,
		state:    StatePlants,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		plants:   plantlist.New(nil, 0, 0),
		forecast: forecast.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	return m.refresh()
}

func (m Model) refresh() tea.Cmd {
	return tea.Batch(m.loadDashboard(), m.loadWeather(), m.loadSpecies())
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StatePlants:
		keys = append(keys, m.keys.Water, m.keys.Postpone, m.keys.Add)
	case StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StatePlants {
		actions = []key.Binding{m.keys.Add, m.keys.Water, m.keys.Postpone, m.keys.Log, m.keys.Delete}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) location() *time.Location {
	return m.svc.Calculator().Location()
}

// parseDate reads an optional form date; empty means now.
func (m Model) parseDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return utils.ParseDateTimeInLocation(s, m.location())
}

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		statuses, err := m.svc.Dashboard(m.ctx)
		return dashboardMsg{statuses: statuses, err: err}
	}
}

func (m Model) loadWeather() tea.Cmd {
	return func() tea.Msg {
		snap, alerts := m.svc.Weather(m.ctx)
		return weatherMsg{snap: snap, alerts: alerts}
	}
}

func (m Model) loadSpecies() tea.Cmd {
	return func() tea.Msg {
		all, err := m.svc.ListSpecies()
		return speciesMsg{species: all, err: err}
	}
}

func (m Model) water(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.Water(m.ctx, id, time.Time{}, ""); err != nil {
			return actionMsg{err: fmt.Errorf("failed to record watering: %w", err)}
		}
		p, err := m.svc.GetPlant(id)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("💧 Watered %s", p.Name)}
	}
}

func (m Model) postpone(id string) tea.Cmd {
	return func() tea.Msg {
		changed, err := m.svc.Postpone(m.ctx, id, 1)
		if err != nil {
			return actionMsg{err: fmt.Errorf("failed to postpone: %w", err)}
		}
		if !changed {
			return actionMsg{text: "Nothing to postpone"}
		}
		return actionMsg{text: "Postponed by 1 day"}
	}
}

func (m Model) deletePlant(id, name string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.DeletePlant(m.ctx, id); err != nil {
			return actionMsg{err: fmt.Errorf("failed to delete plant: %w", err)}
		}
		return actionMsg{text: fmt.Sprintf("Deleted %s", name)}
	}
}

func (m Model) addPlant(fm PlantFormModel) tea.Cmd {
	return func() tea.Msg {
		p := models.Plant{
			Name:       fm.Name,
			Location:   fm.Location,
			LightLevel: fm.Light,
			Container:  fm.Container,
			Notes:      fm.Notes,
			AddedDate:  m.svc.Calculator().Now(),
		}
		if fm.SpeciesID != "" {
			id := fm.SpeciesID
			p.SpeciesID = &id
		}
		watered, err := m.parseDate(fm.Watered)
		if err != nil {
			return actionMsg{err: err}
		}
		if !watered.IsZero() {
			p.LastWatered = &watered
		}
		if err := p.Validate(); err != nil {
			return actionMsg{err: err}
		}
		p, err = m.svc.AddPlant(m.ctx, p)
		if err != nil {
			return actionMsg{err: fmt.Errorf("failed to add plant: %w", err)}
		}
		return actionMsg{text: fmt.Sprintf("Added %s", p.Name)}
	}
}

func (m Model) logCare(id string, fm CareFormModel) tea.Cmd {
	return func() tea.Msg {
		at, err := m.parseDate(fm.Date)
		if err != nil {
			return actionMsg{err: err}
		}
		entry, err := m.svc.Record(m.ctx, id, fm.Type, at, fm.Notes)
		if err != nil {
			return actionMsg{err: fmt.Errorf("failed to record care: %w", err)}
		}
		return actionMsg{text: fmt.Sprintf("Logged %s", entry.Type)}
	}
}
