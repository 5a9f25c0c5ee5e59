package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/fairshare/internal/store"
)

// backends opens one fresh instance of every driver and registers cleanup.
func backends(t *testing.T) map[string]store.Store {
	t.Helper()

	sq, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	bd, err := store.OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	all := map[string]store.Store{
		store.DriverSQLite: sq,
		store.DriverBadger: bd,
		store.DriverMemory: store.NewMemory(),
	}
	for _, s := range all {
		t.Cleanup(func() { _ = s.Close() })
	}
	return all
}

// ---------------------------------------------------------------------------
// Get / Set
// ---------------------------------------------------------------------------

func TestGetSet_HappyPath(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	for name, s := range backends(t) {
		c.Run(name, func(c *qt.C) {
			_, found, err := s.Get(ctx, store.KeyIncome1)
			c.Assert(err, qt.IsNil)
			c.Assert(found, qt.IsFalse)

			c.Assert(s.Set(ctx, store.KeyIncome1, "4200"), qt.IsNil)
			got, found, err := s.Get(ctx, store.KeyIncome1)
			c.Assert(err, qt.IsNil)
			c.Assert(found, qt.IsTrue)
			c.Assert(got, qt.Equals, "4200")

			c.Assert(s.Set(ctx, store.KeyIncome1, "1.5"), qt.IsNil)
			got, _, err = s.Get(ctx, store.KeyIncome1)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, "1.5")
		})
	}
}

func TestGetSet_EmptyValueIsStored(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	for name, s := range backends(t) {
		c.Run(name, func(c *qt.C) {
			c.Assert(s.Set(ctx, store.KeyExpense, ""), qt.IsNil)
			got, found, err := s.Get(ctx, store.KeyExpense)
			c.Assert(err, qt.IsNil)
			c.Assert(found, qt.IsTrue)
			c.Assert(got, qt.Equals, "")
		})
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fairshare.db")

	s, err := store.OpenSQLite(path)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Set(ctx, store.KeyRound, "false"), qt.IsNil)
	c.Assert(s.Close(), qt.IsNil)

	s, err = store.OpenSQLite(path)
	c.Assert(err, qt.IsNil)
	defer s.Close()
	got, found, err := s.Get(ctx, store.KeyRound)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(got, qt.Equals, "false")
	c.Assert(s.Path(), qt.Equals, path)
}

func TestBadger_PersistsAcrossReopen(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "badger")

	s, err := store.OpenBadger(dir)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Set(ctx, store.KeyIncome2, "300"), qt.IsNil)
	c.Assert(s.Close(), qt.IsNil)

	s, err = store.OpenBadger(dir)
	c.Assert(err, qt.IsNil)
	defer s.Close()
	got, found, err := s.Get(ctx, store.KeyIncome2)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(got, qt.Equals, "300")
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	s := store.NewMemory()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, store.KeyIncome1, string(rune('a'+i)))
			_, _, _ = s.Get(ctx, store.KeyIncome1)
		}()
	}
	wg.Wait()

	_, found, err := s.Get(ctx, store.KeyIncome1)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
}

// ---------------------------------------------------------------------------
// Open
// ---------------------------------------------------------------------------

func TestOpen_HappyPath(t *testing.T) {
	c := qt.New(t)

	for _, driver := range store.Drivers {
		c.Run(driver, func(c *qt.C) {
			s, err := store.Open(driver, t.TempDir())
			c.Assert(err, qt.IsNil)
			c.Assert(s, qt.IsNotNil)
			c.Assert(s.Close(), qt.IsNil)
		})
	}

	c.Run("empty driver defaults to sqlite", func(c *qt.C) {
		s, err := store.Open("", t.TempDir())
		c.Assert(err, qt.IsNil)
		defer s.Close()
		_, ok := s.(*store.SQLite)
		c.Assert(ok, qt.IsTrue)
	})
}

func TestOpen_FailurePath(t *testing.T) {
	c := qt.New(t)

	_, err := store.Open("redis", t.TempDir())
	c.Assert(err, qt.ErrorIs, store.ErrUnknownDriver)
	c.Assert(err, qt.ErrorMatches, `unknown store driver: "redis"`)
}

// ---------------------------------------------------------------------------
// Namespace
// ---------------------------------------------------------------------------

func TestNamespace_HappyPath(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()

	base := store.NewMemory()
	alice := store.Namespace(base, store.ClientNamespace("alice"))
	bob := store.Namespace(base, store.ClientNamespace("bob"))

	c.Assert(alice.Set(ctx, store.KeyExpense, "10"), qt.IsNil)
	c.Assert(bob.Set(ctx, store.KeyExpense, "20"), qt.IsNil)

	got, _, err := alice.Get(ctx, store.KeyExpense)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "10")

	raw, found, err := base.Get(ctx, "client/bob/expense")
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(raw, qt.Equals, "20")

	_, found, err = base.Get(ctx, store.KeyExpense)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsFalse)

	c.Run("empty namespace is the root view", func(c *qt.C) {
		c.Assert(store.Namespace(base, ""), qt.Equals, store.Store(base))
		c.Assert(store.Namespace(base, "/"), qt.Equals, store.Store(base))
	})

	c.Run("closing a view leaves the base open", func(c *qt.C) {
		c.Assert(alice.Close(), qt.IsNil)
		c.Assert(base.Set(ctx, "k", "v"), qt.IsNil)
	})
}
