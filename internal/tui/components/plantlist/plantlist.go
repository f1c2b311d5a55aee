package plantlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/schedule"
)

type AddPlantMsg struct{}

type WaterPlantMsg struct {
	ID string
}

type PostponePlantMsg struct {
	ID string
}

type LogCareMsg struct {
	ID   string
	Name string
}

type DeletePlantMsg struct {
	ID   string
	Name string
}

var urgencyStyles = map[schedule.Urgency]lipgloss.Style{
	schedule.UrgencyUrgent:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	schedule.UrgencyDueSoon:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	schedule.UrgencyScheduled: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
}

type Item struct {
	Status care.PlantStatus
}

func (i Item) Title() string {
	return i.Status.Plant.Name
}

func (i Item) Description() string {
	st := i.Status
	label := st.Status.Label
	if style, ok := urgencyStyles[st.Status.Urgency]; ok {
		label = style.Render(label)
	}
	desc := fmt.Sprintf("%s | every %d days | %s", st.Plant.SpeciesName(), st.Frequency, label)
	if shift := st.Adjustment.ShiftDays(); shift != 0 {
		desc += fmt.Sprintf(" | weather %+dd", shift)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Status.Plant.Name }

type KeyMap struct {
	Add      key.Binding
	Water    key.Binding
	Postpone key.Binding
	Log      key.Binding
	Delete   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Water: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "water"),
		),
		Postpone: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "postpone"),
		),
		Log: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "log care"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(statuses []care.PlantStatus, width, height int) Model {
	l := list.New(toItems(statuses), list.NewDefaultDelegate(), width, height)
	l.Title = "Plants"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // help is rendered by the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Water, keys.Postpone, keys.Log}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Water, keys.Postpone, keys.Log, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toItems(statuses []care.PlantStatus) []list.Item {
	items := make([]list.Item, len(statuses))
	for i, st := range statuses {
		items[i] = Item{Status: st}
	}
	return items
}

// SetStatuses replaces the items, keeping the cursor where it was when possible.
func (m *Model) SetStatuses(statuses []care.PlantStatus) {
	idx := m.list.Index()
	m.list.SetItems(toItems(statuses))
	if idx < len(statuses) {
		m.list.Select(idx)
	}
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the highlighted plant's status.
func (m Model) Selected() (care.PlantStatus, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Status, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddPlantMsg{} }
		}
		i, ok := m.list.SelectedItem().(Item)
		if !ok {
			break
		}
		p := i.Status.Plant
		switch {
		case key.Matches(msg, m.keys.Water):
			return m, func() tea.Msg { return WaterPlantMsg{ID: p.ID} }
		case key.Matches(msg, m.keys.Postpone):
			return m, func() tea.Msg { return PostponePlantMsg{ID: p.ID} }
		case key.Matches(msg, m.keys.Log):
			return m, func() tea.Msg { return LogCareMsg{ID: p.ID, Name: p.Name} }
		case key.Matches(msg, m.keys.Delete):
			return m, func() tea.Msg { return DeletePlantMsg{ID: p.ID, Name: p.Name} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No plants yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the user is typing a filter, when keys belong to the list.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
