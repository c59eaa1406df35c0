package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkamau/storesight-api/internal/domain/enum"
	"github.com/mkamau/storesight-api/internal/infrastructure/cache"
	infraRepo "github.com/mkamau/storesight-api/internal/infrastructure/repository"
	"github.com/mkamau/storesight-api/internal/report"
)

func newTransactionFixture(t *testing.T, txnRepo *stubTxnRepo) (*TransactionService, *cache.SnapshotCache) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	snapshots := cache.NewSnapshotCache(client)
	return NewTransactionService(txnRepo, snapshots), snapshots
}

func TestRecordTransactionNormalizesPayload(t *testing.T) {
	txnRepo := &stubTxnRepo{}
	svc, _ := newTransactionFixture(t, txnRepo)

	tenantID := uuid.New()
	ctx := infraRepo.WithTenant(context.Background(), tenantID)

	txn, err := svc.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: uuid.New(),
		Kind:   enum.TransactionKindSale,
		Payload: map[string]interface{}{
			"date":        "2025-03-12",
			"totalAmount": "KSh 1,200.50",
			"customer":    "Jane",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, tenantID, txn.TenantID)
	assert.Equal(t, int64(120050), txn.Total)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), txn.OccurredAt)
	assert.True(t, strings.HasPrefix(txn.ReferenceNo, "TXN-"))
	// The raw payload survives untouched for the reporting engine.
	assert.Equal(t, "Jane", txn.Payload["customer"])
}

func TestRecordTransactionRoundsCents(t *testing.T) {
	txnRepo := &stubTxnRepo{}
	svc, _ := newTransactionFixture(t, txnRepo)

	ctx := infraRepo.WithTenant(context.Background(), uuid.New())

	// 4.35 is not exactly representable, so 4.35*100 lands just below
	// 435 and plain truncation would store 434 cents.
	txn, err := svc.RecordTransaction(ctx, &RecordTransactionInput{
		UserID:  uuid.New(),
		Kind:    enum.TransactionKindSale,
		Payload: map[string]interface{}{"total": "4.35"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(435), txn.Total)
}

func TestRecordTransactionUnreadableDateFallsBackToNow(t *testing.T) {
	txnRepo := &stubTxnRepo{}
	svc, _ := newTransactionFixture(t, txnRepo)

	ctx := infraRepo.WithTenant(context.Background(), uuid.New())
	before := time.Now()

	txn, err := svc.RecordTransaction(ctx, &RecordTransactionInput{
		UserID: uuid.New(),
		Kind:   enum.TransactionKindSale,
		Payload: map[string]interface{}{
			"date":  "not a date",
			"total": 100,
		},
	})
	require.NoError(t, err)
	assert.False(t, txn.OccurredAt.Before(before))
	assert.Equal(t, int64(10000), txn.Total)
}

func TestRecordTransactionRejectsDuplicateReference(t *testing.T) {
	txnRepo := &stubTxnRepo{}
	svc, _ := newTransactionFixture(t, txnRepo)

	ctx := infraRepo.WithTenant(context.Background(), uuid.New())
	input := &RecordTransactionInput{
		UserID:      uuid.New(),
		Kind:        enum.TransactionKindSale,
		ReferenceNo: "TXN-00000001",
		Payload:     map[string]interface{}{"total": 10},
	}

	_, err := svc.RecordTransaction(ctx, input)
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRecordTransactionRequiresTenant(t *testing.T) {
	svc, _ := newTransactionFixture(t, &stubTxnRepo{})

	_, err := svc.RecordTransaction(context.Background(), &RecordTransactionInput{
		UserID:  uuid.New(),
		Kind:    enum.TransactionKindSale,
		Payload: map[string]interface{}{"total": 10},
	})
	require.Error(t, err)
}

func TestRecordTransactionInvalidatesSnapshot(t *testing.T) {
	txnRepo := &stubTxnRepo{}
	svc, snapshots := newTransactionFixture(t, txnRepo)

	tenantID := uuid.New()
	ctx := infraRepo.WithTenant(context.Background(), tenantID)

	rng := report.NewRange(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, snapshots.Put(ctx, tenantID, rng, &report.Snapshot{TotalSales: 500}))

	_, err := svc.RecordTransaction(ctx, &RecordTransactionInput{
		UserID:  uuid.New(),
		Kind:    enum.TransactionKindSale,
		Payload: map[string]interface{}{"total": 10},
	})
	require.NoError(t, err)

	_, ok := snapshots.Get(ctx, tenantID, rng)
	assert.False(t, ok, "cached snapshot should be dropped after a new sale")
}
