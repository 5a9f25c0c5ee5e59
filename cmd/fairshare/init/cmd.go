// Package initcmd implements the `fairshare init` command.
package initcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-ports/fairshare/cmd/fairshare/shared"
	"github.com/go-ports/fairshare/internal/service"
)

// Command implements `fairshare init`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the init command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "init",
		Short: "Create the fairshare home directory and value store",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	home := c.ctx.HomeDir()
	svc, err := service.New(home)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	driver := svc.Config.Store.Driver
	if err := svc.Close(); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fairshare initialized at %s (store: %s)\n", home, driver)
	return nil
}
