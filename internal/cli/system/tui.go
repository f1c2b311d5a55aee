package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	// Automatic backup on startup, after a successful load
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Ctx(), svc), tea.WithAltScreen(), tea.WithContext(ctx.Ctx()))
	_, err = p.Run()
	return err
}
