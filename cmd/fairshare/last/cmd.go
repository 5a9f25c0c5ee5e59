// Package lastcmd implements the `fairshare last` command.
package lastcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/fairshare/cmd/fairshare/shared"
	"github.com/go-ports/fairshare/internal/service"
)

// Command implements `fairshare last`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the last command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "last",
		Short: "Show the last values entered with split",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
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

	values, err := svc.Last(cmd.Context(), "")
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(b))
	return nil
}
