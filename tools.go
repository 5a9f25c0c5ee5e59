//go:build tools

// Package fairshare pins build-time tool dependencies in go.mod.
package fairshare

import (
	_ "go.uber.org/mock/mockgen"
)
