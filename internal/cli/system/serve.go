package system

import (
	"github.com/julianstephens/bamboocare/internal/cli"
	"github.com/julianstephens/bamboocare/internal/constants"
	"github.com/julianstephens/bamboocare/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address." default:"${serve_addr}" env:"BAMBOOCARE_SERVE_ADDR"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	if c.Addr == "" {
		c.Addr = constants.DefaultServeAddr
	}
	return server.New(svc, ctx.Metrics).Start(ctx.Ctx(), c.Addr)
}
