package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryHistoryNewestFirst(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	h := NewMemoryHistory(3, clock)
	ctx := context.Background()

	for _, res := range []string{"Heads", "Tails", "4", "inbox"} {
		_, err := h.Record(ctx, Result{Tool: "coin", Result: res})
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	got, err := h.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "inbox", got[0].Result)
	assert.Equal(t, "4", got[1].Result)
	assert.Equal(t, "Tails", got[2].Result)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 3, 0, 0, time.UTC), got[0].CreatedAt)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestMemoryHistoryPartial(t *testing.T) {
	h := NewMemoryHistory(0, nil)
	ctx := context.Background()
	got, err := h.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = h.Record(ctx, Result{Tool: "dice", Result: "6"})
	require.NoError(t, err)
	got, err = h.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "6", got[0].Result)

	got, err = h.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenRequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.ErrorIs(t, err, ErrMissingDSN)
	_, err = NewMigrator("")
	require.ErrorIs(t, err, ErrMissingDSN)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "0001_init.up.sql")
	assert.Contains(t, names, "0001_init.down.sql")
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TIMEKIT_TEST_DSN")
	if dsn == "" {
		t.Skip("TIMEKIT_TEST_DSN not set")
	}
	ctx := context.Background()
	m, err := NewMigrator(dsn)
	require.NoError(t, err)
	if err := m.Up(ctx); err != nil {
		require.ErrorIs(t, err, ErrNoChange)
	}
	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgresRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	repo := NewResultRepo(db)
	at := time.Date(2031, 7, 1, 12, 30, 0, 0, time.UTC)
	rec, err := repo.Record(ctx, Result{Tool: "8ball", Input: "Ship today?", Result: "Signs point to yes", CreatedAt: at})
	require.NoError(t, err)
	assert.True(t, rec.CreatedAt.Equal(at), "caller timestamp kept")

	recent, err := repo.Recent(ctx, 50)
	require.NoError(t, err)
	found := false
	for _, r := range recent {
		if r.ID == rec.ID {
			found = true
			assert.Equal(t, "Ship today?", r.Input)
			assert.True(t, r.CreatedAt.Equal(at))
		}
	}
	assert.True(t, found)

	_, err = NewExportRepo(db).Insert(ctx, "decision", "/tmp/decision.txt", 120)
	require.NoError(t, err)
}

func TestResultRepoPrunesBeyondKeep(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	repo := NewResultRepo(db)
	repo.Keep = 2
	base := time.Date(2032, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, res := range []string{"first", "second", "third"} {
		_, err := repo.Record(ctx, Result{Tool: "coin", Result: res, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Result)
	assert.Equal(t, "second", recent[1].Result)
}
