// Package mcpcmd implements the `fairshare mcp` command.
package mcpcmd

import (
	"github.com/spf13/cobra"

	"github.com/go-ports/fairshare/cmd/fairshare/shared"
	internalmcp "github.com/go-ports/fairshare/internal/mcp"
)

// Command implements `fairshare mcp`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the mcp command.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "mcp",
		Short: "Start the fairshare MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

func (c *Command) run(cmd *cobra.Command, _ []string) error {
	return internalmcp.Serve(cmd.Context(), c.ctx.Home)
}
