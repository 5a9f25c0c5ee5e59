//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_store.go -package=mocks

// Package store persists the last-entered raw form values in a key-value store.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Keys under which the raw form values are saved.
const (
	KeyIncome1 = "income1"
	KeyIncome2 = "income2"
	KeyExpense = "expense"
	KeyRound   = "round"
)

// FormKeys lists every persisted key in form order.
var FormKeys = []string{KeyIncome1, KeyIncome2, KeyExpense, KeyRound}

// Supported driver names.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Drivers lists the accepted values of the store.driver setting.
var Drivers = []string{DriverSQLite, DriverBadger, DriverMemory}

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was set.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set upserts key.
	Set(ctx context.Context, key, value string) error
	// Close releases the underlying resources.
	Close() error
}

// Open opens the store selected by driver, keeping its files under dir.
func Open(driver, dir string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		return OpenSQLite(filepath.Join(dir, "fairshare.db"))
	case DriverBadger:
		return OpenBadger(filepath.Join(dir, "badger"))
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// ---------------------------------------------------------------------------
// Namespacing
// ---------------------------------------------------------------------------

type namespaced struct {
	Store
	prefix string
}

// Namespace returns a view of s where every key is prefixed with ns + "/".
// An empty ns returns s unchanged. Closing the view does not close s.
func Namespace(s Store, ns string) Store {
	ns = strings.Trim(ns, "/")
	if ns == "" {
		return s
	}
	return &namespaced{Store: s, prefix: ns + "/"}
}

// ClientNamespace returns the namespace used for one browser client.
func ClientNamespace(clientID string) string {
	return "client/" + clientID
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.Store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.Store.Set(ctx, n.prefix+key, value)
}

func (*namespaced) Close() error { return nil }
