// Package configcmd implements the `fairshare config` command group.
package configcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-ports/fairshare/cmd/fairshare/shared"
	"github.com/go-ports/fairshare/internal/config"
)

const configTemplate = `# fairshare configuration
# Environment variables FAIRSHARE_ADDR, FAIRSHARE_ROUND, FAIRSHARE_STORE_DRIVER
# and FAIRSHARE_LOG_LEVEL override the values below.

server:
  addr: 127.0.0.1:8080          # listen address of "fairshare serve"

split:
  round: true                   # round shares when the caller does not say

store:
  driver: sqlite                # sqlite | badger | memory

log:
  level: info                   # debug | info | warn | error
`

// Command implements `fairshare config`.
type Command struct {
	ctx *shared.Context
	cmd *cobra.Command
}

// New creates the config command group.
func New(ctx *shared.Context) *Command {
	c := &Command{ctx: ctx}
	c.cmd = &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		RunE:  c.runShow,
	}
	c.cmd.AddCommand(
		newConfigInit(ctx),
		newSetHome(ctx),
		newClearHome(ctx),
	)
	return c
}

// Cmd returns the cobra command.
func (c *Command) Cmd() *cobra.Command { return c.cmd }

// resolved is what `fairshare config` prints: the effective settings after
// file and environment overrides, plus where the home came from.
type resolved struct {
	config.Config `yaml:",inline"`

	Home       string `yaml:"home"`
	HomeSource string `yaml:"home_source"` // flag | env | config | default
}

func (c *Command) runShow(cmd *cobra.Command, _ []string) error {
	out := resolved{}
	out.Home, out.HomeSource = config.ResolveHome()
	if c.ctx.Home != "" {
		out.Home, out.HomeSource = c.ctx.Home, "flag"
	}
	cfg, err := config.Load(filepath.Join(out.Home, "config.yaml"))
	if err != nil {
		return err
	}
	out.Config = *cfg

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return enc.Close()
}

// ---------------------------------------------------------------------------
// config init
// ---------------------------------------------------------------------------

func newConfigInit(ctx *shared.Context) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a starter config.yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			home := ctx.HomeDir()
			cfgPath := filepath.Join(home, "config.yaml")
			out := cmd.OutOrStdout()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				fmt.Fprintf(out, "Config already exists at %s\n", cfgPath)
				fmt.Fprintln(out, "Use --force to overwrite.")
				return nil
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, []byte(configTemplate), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing config")
	return cmd
}

// ---------------------------------------------------------------------------
// config set-home
// ---------------------------------------------------------------------------

func newSetHome(_ *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "set-home <path>",
		Short: "Persist fairshare home location (used when FAIRSHARE_HOME is unset)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := config.SetPersistedHome(args[0])
			if err != nil {
				return err
			}
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Persisted fairshare home: %s\n", home)
			fmt.Fprintln(out, "Override anytime with FAIRSHARE_HOME.")
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// config clear-home
// ---------------------------------------------------------------------------

func newClearHome(_ *shared.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-home",
		Short: "Remove persisted fairshare home location from global config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := config.ClearPersistedHome()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if changed {
				fmt.Fprintln(out, "Cleared persisted fairshare home setting.")
			} else {
				fmt.Fprintln(out, "No persisted fairshare home setting was found.")
			}
			return nil
		},
	}
}
