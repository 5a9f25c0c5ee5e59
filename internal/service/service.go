// Package service implements the Service orchestrator that wires together
// configuration, the value store, the form layer, and the splitter.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/go-ports/fairshare/internal/config"
	"github.com/go-ports/fairshare/internal/form"
	"github.com/go-ports/fairshare/internal/splitter"
	"github.com/go-ports/fairshare/internal/store"
)

// Service orchestrates all split operations.
type Service struct {
	Home   string
	Config *config.Config

	store store.Store
}

// New initialises a Service rooted at home.
// If home is empty it is resolved via config.GetHome.
func New(home string) (*Service, error) {
	if home == "" {
		home = config.GetHome()
	}
	if err := os.MkdirAll(home, 0o755); err != nil {
		return nil, fmt.Errorf("service.New: create home dir: %w", err)
	}

	cfg, err := config.Load(filepath.Join(home, "config.yaml"))
	if err != nil {
		return nil, fmt.Errorf("service.New: load config: %w", err)
	}

	st, err := store.Open(cfg.Store.Driver, home)
	if err != nil {
		return nil, fmt.Errorf("service.New: open store: %w", err)
	}
	slog.Debug("service ready", "home", home, "driver", cfg.Store.Driver)

	return &Service{Home: home, Config: cfg, store: st}, nil
}

// NewWithStore builds a Service over an already opened store.
// A nil cfg uses config.Default.
func NewWithStore(cfg *config.Config, st store.Store) *Service {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Service{Config: cfg, store: st}
}

// Close releases all resources held by the service.
func (s *Service) Close() error {
	return s.store.Close()
}

// ---------------------------------------------------------------------------
// Forms
// ---------------------------------------------------------------------------

// Form returns the form for namespace, loaded with its last-entered values.
// The root namespace "" is the one used by the CLI.
func (s *Service) Form(ctx context.Context, namespace string) (*form.Form, error) {
	f := s.newForm(store.Namespace(s.store, namespace), namespace)
	if err := f.Load(ctx); err != nil {
		return nil, fmt.Errorf("Form: %w", err)
	}
	return f, nil
}

// Last returns the last-entered raw values for namespace.
func (s *Service) Last(ctx context.Context, namespace string) (form.Values, error) {
	f, err := s.Form(ctx, namespace)
	if err != nil {
		return form.Values{}, err
	}
	return f.Values(), nil
}

// Submit loads the form for namespace, applies changes in form order and
// submits it. Fields absent from changes keep their last-entered value.
// When persist is false the changes are not saved.
//
// The form is returned even when the submission fails validation so callers
// can render field errors; it is nil only for infrastructure errors.
//
//revive:disable:flag-parameter
func (s *Service) Submit(ctx context.Context, namespace string, changes map[string]string, persist bool) (*form.Form, splitter.Result, error) {
	f, err := s.Form(ctx, namespace)
	if err != nil {
		return nil, splitter.Result{}, err
	}

	if !persist {
		scratch := s.newForm(store.NewMemory(), namespace)
		if err := scratch.SetValues(ctx, f.Values()); err != nil {
			return nil, splitter.Result{}, fmt.Errorf("Submit: %w", err)
		}
		f = scratch
	}

	for _, key := range store.FormKeys {
		raw, ok := changes[key]
		if !ok {
			continue
		}
		if err := f.Set(ctx, key, raw); err != nil {
			return nil, splitter.Result{}, fmt.Errorf("Submit: %w", err)
		}
	}

	res, err := f.Submit(ctx)
	if err != nil {
		if errors.Is(err, splitter.ErrValidation) {
			slog.Debug("Submit: rejected", "namespace", namespace, "errors", f.Errors())
		}
		return f, splitter.Result{}, err
	}
	return f, res, nil
}

//revive:enable:flag-parameter

func (s *Service) newForm(st store.Store, namespace string) *form.Form {
	return form.New(st,
		form.WithRoundDefault(s.Config.Split.Round),
		form.WithObserver(func(from, to form.State) {
			slog.Debug("form transition", "namespace", namespace, "from", from, "to", to)
		}),
	)
}

// ---------------------------------------------------------------------------
// Stateless split
// ---------------------------------------------------------------------------

// Split computes shares for in without touching the store. A nil Round uses
// the configured default.
func (s *Service) Split(in splitter.Input) (splitter.Result, error) {
	if in.Round == nil {
		in.Round = lo.ToPtr(s.Config.Split.Round)
	}
	return splitter.Compute(in)
}
