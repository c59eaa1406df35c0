package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mkamau/storesight-api/internal/report"
)

// SnapshotTTL is how long a cached dashboard snapshot stays fresh. A
// snapshot older than this is treated as a miss even if still present.
const SnapshotTTL = time.Hour

// snapshotEnvelope wraps a cached snapshot with the metadata needed to
// judge freshness and range relevance on read.
type snapshotEnvelope struct {
	SavedAt  time.Time        `json:"saved_at"`
	Start    time.Time        `json:"start"`
	End      time.Time        `json:"end"`
	Snapshot *report.Snapshot `json:"snapshot"`
}

// SnapshotCache stores one dashboard snapshot per tenant in Redis.
type SnapshotCache struct {
	client *redis.Client
	now    func() time.Time
}

// NewSnapshotCache creates a snapshot cache backed by the given client.
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client, now: time.Now}
}

func snapshotKey(tenantID uuid.UUID) string {
	return "dashboard_cache_" + tenantID.String()
}

// Get returns the cached snapshot for the tenant if it is fresh and was
// computed for the same date range. Any other condition, including a
// payload that fails to decode, is a miss.
func (c *SnapshotCache) Get(ctx context.Context, tenantID uuid.UUID, rng report.Range) (*report.Snapshot, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, snapshotKey(tenantID)).Bytes()
	if err != nil {
		return nil, false
	}

	var env snapshotEnvelope
	if err := json.Unmarshal(payload, &env); err != nil || env.Snapshot == nil {
		// Corrupt entries are dropped so the next write starts clean.
		_ = c.client.Del(ctx, snapshotKey(tenantID)).Err()
		return nil, false
	}

	if c.now().Sub(env.SavedAt) >= SnapshotTTL {
		return nil, false
	}
	if !env.Start.Equal(rng.Start) || !env.End.Equal(rng.End) {
		return nil, false
	}

	return env.Snapshot, true
}

// Put stores the snapshot for the tenant, replacing any previous entry.
// Cache write failures are returned but callers treat them as non-fatal;
// a dashboard that computed successfully should still be served.
func (c *SnapshotCache) Put(ctx context.Context, tenantID uuid.UUID, rng report.Range, snap *report.Snapshot) error {
	if c == nil || c.client == nil {
		return nil
	}

	env := snapshotEnvelope{
		SavedAt:  c.now(),
		Start:    rng.Start,
		End:      rng.End,
		Snapshot: snap,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, snapshotKey(tenantID), payload, SnapshotTTL).Err()
}

// Invalidate removes the cached snapshot for the tenant. Called when new
// transactions are recorded so the next dashboard load recomputes.
func (c *SnapshotCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, snapshotKey(tenantID)).Err()
}
