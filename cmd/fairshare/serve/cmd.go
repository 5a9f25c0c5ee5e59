// Package servecmd implements the `fairshare serve` command.
package servecmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/fairshare/cmd/fairshare/shared"
	"github.com/go-ports/fairshare/internal/service"
	"github.com/go-ports/fairshare/internal/web"
)

// Command implements `fairshare serve`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command

	addr string
}

// New creates the serve command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the expense form over HTTP until interrupted",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	c.cmd.Flags().StringVar(&c.addr, "addr", "", "Listen address (default: server.addr from config)")
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	svc, err := service.New(c.ctx.Home)
	if err != nil {
		return err
	}
	defer svc.Close()

	addr := c.addr
	if addr == "" {
		addr = svc.Config.Server.Addr
	}
	return web.Serve(cmd.Context(), svc, addr)
}
