package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Storefront/internal/telemetry"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := telemetry.InitDB(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	s := NewSQLiteStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newSQLiteStore(t) },
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			_, ok, err := s.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok, "absent key should report ok=false")

			require.NoError(t, s.Set(ctx, "cart", `[{"id":"a"}]`))
			v, ok, err := s.Get(ctx, "cart")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"a"}]`, v)

			require.NoError(t, s.Set(ctx, "cart", "[]"))
			v, _, err = s.Get(ctx, "cart")
			require.NoError(t, err)
			assert.Equal(t, "[]", v, "Set should replace the previous value")
		})
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	db, err := telemetry.InitDB(path)
	require.NoError(t, err)
	require.NoError(t, NewSQLiteStore(db).Set(ctx, "k", "v"))
	require.NoError(t, db.Close())

	db, err = telemetry.InitDB(path)
	require.NoError(t, err)
	defer db.Close()

	v, ok, err := NewSQLiteStore(db).Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
