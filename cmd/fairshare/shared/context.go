// Package shared holds the context passed to all CLI commands.
package shared

import "github.com/go-ports/fairshare/internal/config"

// Context carries global CLI state (flags set on the root command).
type Context struct {
	// Home overrides the fairshare home directory.
	// When empty, resolution falls through to FAIRSHARE_HOME env var → persisted config → ~/.fairshare.
	Home string
}

// HomeDir returns the --home flag value, or the resolved home when unset.
func (c *Context) HomeDir() string {
	if c.Home != "" {
		return c.Home
	}
	return config.GetHome()
}
