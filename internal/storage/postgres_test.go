package storage

import (
	"context"
	"os"
	"testing"

	"github.com/bradymd/trading212/internal/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live database only when POSTGRES_DSN is set.
func TestPostgresBackend(t *testing.T) {
	if os.Getenv("POSTGRES_DSN") == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx := context.Background()

	db, err := postgres.NewDB(ctx, postgres.NewConfigFromEnv().Setup())
	require.NoError(t, err)

	installation := "test-" + uuid.NewString()
	b := NewPostgresBackend(db, installation)
	defer b.Close()
	defer db.ExecContext(ctx, "DELETE FROM monitor_state WHERE installation = $1", installation)

	require.NoError(t, b.EnsureSchema(ctx))

	empty, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Snapshots)

	want := sampleState()
	require.NoError(t, b.Save(ctx, want))
	require.NoError(t, b.Save(ctx, want))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(want.Snapshots), len(got.Snapshots))
	for key := range want.Snapshots {
		assert.Contains(t, got.Snapshots, key)
	}
}
