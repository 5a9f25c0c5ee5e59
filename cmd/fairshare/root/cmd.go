// Package rootcmd wires the root cobra.Command for the fairshare CLI binary.
package rootcmd

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	configcmd "github.com/go-ports/fairshare/cmd/fairshare/config"
	initcmd "github.com/go-ports/fairshare/cmd/fairshare/init"
	lastcmd "github.com/go-ports/fairshare/cmd/fairshare/last"
	mcpcmd "github.com/go-ports/fairshare/cmd/fairshare/mcp"
	servecmd "github.com/go-ports/fairshare/cmd/fairshare/serve"
	"github.com/go-ports/fairshare/cmd/fairshare/shared"
	splitcmd "github.com/go-ports/fairshare/cmd/fairshare/split"
	versioncmd "github.com/go-ports/fairshare/cmd/fairshare/version"
	"github.com/go-ports/fairshare/internal/config"
)

// New creates and returns the root cobra.Command for the fairshare CLI.
func New() *cobra.Command {
	ctx := &shared.Context{}

	root := &cobra.Command{
		Use:           "fairshare",
		Short:         "fairshare: split a shared expense in proportion to two incomes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd, ctx)
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}

	root.PersistentFlags().StringVar(
		&ctx.Home, "home", "",
		"Override fairshare home directory (default: $FAIRSHARE_HOME env → persisted config → ~/.fairshare)",
	)

	root.AddCommand(
		initcmd.New(ctx).Cmd(),
		splitcmd.New(ctx).Cmd(),
		lastcmd.New(ctx).Cmd(),
		servecmd.New(ctx).Cmd(),
		mcpcmd.New(ctx).Cmd(),
		configcmd.New(ctx).Cmd(),
		versioncmd.New(ctx).Cmd(),
	)

	return root
}

// setupLogging installs a stderr text handler at the configured level.
// A config that fails to load leaves the level at info; the command itself
// reports the error.
func setupLogging(cmd *cobra.Command, ctx *shared.Context) {
	level := slog.LevelInfo
	if cfg, err := config.Load(filepath.Join(ctx.HomeDir(), "config.yaml")); err == nil {
		if lvl, err := cfg.SlogLevel(); err == nil {
			level = lvl
		}
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
}
