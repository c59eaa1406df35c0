package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkamau/storesight-api/internal/report"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSnapshotCache(client), mr
}

func testRange() report.Range {
	return report.NewRange(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
	)
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	tenantID := uuid.New()
	rng := testRange()

	snap := &report.Snapshot{
		Start:      rng.Start.Format(time.DateOnly),
		End:        rng.End.Format(time.DateOnly),
		TotalSales: 1700.50,
		OrderCount: 3,
	}

	require.NoError(t, c.Put(ctx, tenantID, rng, snap))

	got, ok := c.Get(ctx, tenantID, rng)
	require.True(t, ok)
	assert.Equal(t, 1700.50, got.TotalSales)
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, "2025-03-01", got.Start)
	assert.Equal(t, "2025-03-07", got.End)
}

func TestSnapshotCacheMissWhenEmpty(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get(context.Background(), uuid.New(), testRange())
	assert.False(t, ok)
}

func TestSnapshotCacheMissOnRangeMismatch(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	tenantID := uuid.New()
	rng := testRange()

	require.NoError(t, c.Put(ctx, tenantID, rng, &report.Snapshot{TotalSales: 10}))

	other := report.NewRange(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	)
	_, ok := c.Get(ctx, tenantID, other)
	assert.False(t, ok)
}

func TestSnapshotCacheMissWhenStale(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	tenantID := uuid.New()
	rng := testRange()

	require.NoError(t, c.Put(ctx, tenantID, rng, &report.Snapshot{TotalSales: 10}))

	// Shift the clock past the TTL without touching the stored entry.
	c.now = func() time.Time { return time.Now().Add(SnapshotTTL + time.Minute) }

	_, ok := c.Get(ctx, tenantID, rng)
	assert.False(t, ok)
}

func TestSnapshotCacheCorruptEntryIsDropped(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	tenantID := uuid.New()

	require.NoError(t, mr.Set("dashboard_cache_"+tenantID.String(), "{not json"))

	_, ok := c.Get(ctx, tenantID, testRange())
	assert.False(t, ok)
	assert.False(t, mr.Exists("dashboard_cache_"+tenantID.String()))
}

func TestSnapshotCacheIsolatedPerTenant(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	rng := testRange()

	tenantA := uuid.New()
	tenantB := uuid.New()

	require.NoError(t, c.Put(ctx, tenantA, rng, &report.Snapshot{TotalSales: 100}))
	require.NoError(t, c.Put(ctx, tenantB, rng, &report.Snapshot{TotalSales: 200}))

	gotA, ok := c.Get(ctx, tenantA, rng)
	require.True(t, ok)
	gotB, ok2 := c.Get(ctx, tenantB, rng)
	require.True(t, ok2)

	assert.Equal(t, 100.0, gotA.TotalSales)
	assert.Equal(t, 200.0, gotB.TotalSales)
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	tenantID := uuid.New()
	rng := testRange()

	require.NoError(t, c.Put(ctx, tenantID, rng, &report.Snapshot{TotalSales: 10}))
	require.NoError(t, c.Invalidate(ctx, tenantID))

	_, ok := c.Get(ctx, tenantID, rng)
	assert.False(t, ok)
}

func TestDraftStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewDraftStore(client)
	ctx := context.Background()
	userID := uuid.New()

	draft := &OnboardingDraft{StoreName: "Mama Njeri Shop", Step: 2}
	require.NoError(t, s.Save(ctx, userID, draft))

	got, err := s.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Mama Njeri Shop", got.StoreName)
	assert.Equal(t, 2, got.Step)
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, s.Delete(ctx, userID))
	got, err = s.Get(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
