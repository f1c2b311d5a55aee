package plants

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/bamboocare/internal/care"
	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/schedule"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	urgencyStyles = map[schedule.Urgency]lipgloss.Style{
		schedule.UrgencyUrgent:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		schedule.UrgencyDueSoon:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		schedule.UrgencyScheduled: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}
)

// StatusCmd prints the watering dashboard, most urgent first.
type StatusCmd struct {
	Plant string `arg:"" optional:"" help:"Only show this plant."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	loc := svc.Calculator().Location()

	board, err := svc.Dashboard(ctx.Ctx())
	if err != nil {
		return err
	}
	if c.Plant != "" {
		p, err := svc.FindPlant(c.Plant)
		if err != nil {
			return err
		}
		var only []care.PlantStatus
		for _, st := range board {
			if st.Plant.ID == p.ID {
				only = append(only, st)
			}
		}
		board = only
	}

	if len(board) == 0 {
		fmt.Println("No plants found. Add one with 'bamboocare plant add'.")
		return nil
	}

	fmt.Println(headerStyle.Render("🎋 Watering status"))
	for _, st := range board {
		style := urgencyStyles[st.Status.Urgency]
		line := fmt.Sprintf("  %-20s %s", st.Plant.Name, style.Render(st.Status.Label))

		var extra []string
		extra = append(extra, cli.FormatDate(st.Effective, loc))
		if shift := st.Adjustment.ShiftDays(); shift != 0 {
			extra = append(extra, fmt.Sprintf("weather %+dd: %s", shift, st.Adjustment.Reason))
		}
		if st.Plant.PostponedDays > 0 {
			extra = append(extra, fmt.Sprintf("postponed %dd", st.Plant.PostponedDays))
		}
		fmt.Println(line + "  " + dimStyle.Render(strings.Join(extra, " · ")))
	}
	return nil
}
