package kv

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupSQLite(t *testing.T) Store {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func setupRedis(t *testing.T) Store {
	t.Helper()

	m, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	rc := redis.NewClient(&redis.Options{Addr: m.Addr()})
	s := NewRedis(rc)
	t.Cleanup(func() {
		s.Close()
		m.Close()
	})
	return s
}

// Both implementations must satisfy the same contract, so the suite
// runs against each.
func TestStoreContract(t *testing.T) {
	backends := []struct {
		name  string
		setup func(*testing.T) Store
	}{
		{name: "sqlite", setup: setupSQLite},
		{name: "redis", setup: setupRedis},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			s := backend.setup(t)

			t.Run("absent key", func(t *testing.T) {
				_, ok, err := s.Get(ctx, "missing")
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if ok {
					t.Errorf("missing key reported present")
				}
			})

			t.Run("set then get", func(t *testing.T) {
				want := json.RawMessage(`{"name":"Main Board"}`)
				if err := s.Set(ctx, "board", want); err != nil {
					t.Fatalf("set: %v", err)
				}
				got, ok, err := s.Get(ctx, "board")
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if !ok {
					t.Fatalf("key not found after set")
				}
				if string(got) != string(want) {
					t.Errorf("got %s, want %s", got, want)
				}
			})

			t.Run("overwrite", func(t *testing.T) {
				if err := s.Set(ctx, "counter", json.RawMessage(`1`)); err != nil {
					t.Fatalf("set: %v", err)
				}
				if err := s.Set(ctx, "counter", json.RawMessage(`2`)); err != nil {
					t.Fatalf("set: %v", err)
				}
				got, _, err := s.Get(ctx, "counter")
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if string(got) != "2" {
					t.Errorf("got %s after overwrite, want 2", got)
				}
			})

			t.Run("null value round-trips", func(t *testing.T) {
				if err := s.Set(ctx, "pointer", json.RawMessage(`null`)); err != nil {
					t.Fatalf("set: %v", err)
				}
				got, ok, err := s.Get(ctx, "pointer")
				if err != nil {
					t.Fatalf("get: %v", err)
				}
				if !ok || string(got) != "null" {
					t.Errorf("got %s ok=%v, want null", got, ok)
				}
			})
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "key", json.RawMessage(`"value"`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, ok, err := s2.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || string(got) != `"value"` {
		t.Errorf("value did not survive reopen: %s ok=%v", got, ok)
	}
}
