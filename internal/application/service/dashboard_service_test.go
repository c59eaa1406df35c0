package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkamau/storesight-api/internal/domain/entity"
	"github.com/mkamau/storesight-api/internal/domain/enum"
	"github.com/mkamau/storesight-api/internal/domain/repository"
	"github.com/mkamau/storesight-api/internal/infrastructure/cache"
	"github.com/mkamau/storesight-api/internal/report"
	"github.com/mkamau/storesight-api/pkg/pagination"
)

type stubTxnRepo struct {
	txns       []entity.Transaction
	err        error
	rangeCalls int
}

func (r *stubTxnRepo) Create(ctx context.Context, txn *entity.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	r.txns = append(r.txns, *txn)
	return nil
}
func (r *stubTxnRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	for i := range r.txns {
		if r.txns[i].ID == id {
			return &r.txns[i], nil
		}
	}
	return nil, nil
}
func (r *stubTxnRepo) GetByReferenceNo(ctx context.Context, referenceNo string) (*entity.Transaction, error) {
	for i := range r.txns {
		if r.txns[i].ReferenceNo == referenceNo {
			return &r.txns[i], nil
		}
	}
	return nil, nil
}
func (r *stubTxnRepo) Update(ctx context.Context, txn *entity.Transaction) error { return nil }
func (r *stubTxnRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }
func (r *stubTxnRepo) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	return nil, 0, nil
}
func (r *stubTxnRepo) ListInRange(ctx context.Context, kind enum.TransactionKind, start, end time.Time) ([]entity.Transaction, error) {
	r.rangeCalls++
	if r.err != nil {
		return nil, r.err
	}
	var out []entity.Transaction
	for _, t := range r.txns {
		if t.Kind == kind && !t.OccurredAt.Before(start) && !t.OccurredAt.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	salespeople []entity.User
}

func (r *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (r *stubUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) Update(ctx context.Context, user *entity.User) error { return nil }
func (r *stubUserRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *stubUserRepo) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error) {
	return nil, 0, nil
}
func (r *stubUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return nil, nil
}
func (r *stubUserRepo) AssignRole(ctx context.Context, userID uuid.UUID, roleID uint) error {
	return nil
}
func (r *stubUserRepo) RemoveRole(ctx context.Context, userID uuid.UUID, roleID uint) error {
	return nil
}
func (r *stubUserRepo) ListByRole(ctx context.Context, tenantID uuid.UUID, roleName string) ([]entity.User, error) {
	return r.salespeople, nil
}

func newDashboardFixture(t *testing.T, txnRepo *stubTxnRepo) *DashboardService {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	snapshots := cache.NewSnapshotCache(client)

	userRepo := &stubUserRepo{salespeople: []entity.User{
		{FirstName: "Alice", LastName: "Wanjiku"},
	}}

	return NewDashboardService(txnRepo, userRepo, snapshots)
}

func saleAt(day time.Time, amount float64, payload map[string]interface{}) entity.Transaction {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return entity.Transaction{
		ID:         uuid.New(),
		Kind:       enum.TransactionKindSale,
		OccurredAt: day,
		Total:      int64(amount * 100),
		Payload:    payload,
	}
}

func TestDashboardLoadComputesSnapshot(t *testing.T) {
	rng := report.NewRange(
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	)

	txnRepo := &stubTxnRepo{txns: []entity.Transaction{
		saleAt(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), 1200.50, map[string]interface{}{
			"totalAmount":   "1,200.50",
			"paymentMethod": "mpesa",
			"customer":      "Jane",
		}),
		saleAt(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC), 500, map[string]interface{}{
			"totalAmount": 500,
			"soldBy":      "alice wanjiku",
		}),
	}}

	svc := newDashboardFixture(t, txnRepo)
	tenantID := uuid.New()

	snap, err := svc.Load(context.Background(), tenantID, rng, false)
	require.NoError(t, err)

	assert.Equal(t, 1700.50, snap.TotalSales)
	assert.Equal(t, 2, snap.OrderCount)

	// The roster maps the lowercase payload name back to the display
	// name; the record without a salesperson falls back to Admin.
	labels := make([]string, 0, len(snap.TopSalespeople))
	for _, b := range snap.TopSalespeople {
		labels = append(labels, b.Label)
	}
	assert.Contains(t, labels, "Alice Wanjiku")
	assert.Contains(t, labels, "Admin")

	state := svc.State(tenantID)
	assert.Equal(t, PhaseReady, state.Phase)
	assert.Empty(t, state.Error)
}

func TestDashboardLoadServesFromCache(t *testing.T) {
	rng := report.NewRange(
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	)

	txnRepo := &stubTxnRepo{txns: []entity.Transaction{
		saleAt(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), 100, nil),
	}}
	svc := newDashboardFixture(t, txnRepo)
	tenantID := uuid.New()
	ctx := context.Background()

	_, err := svc.Load(ctx, tenantID, rng, false)
	require.NoError(t, err)
	assert.Equal(t, 1, txnRepo.rangeCalls)

	// Same range again: served from cache, no second fetch.
	snap, err := svc.Load(ctx, tenantID, rng, false)
	require.NoError(t, err)
	assert.Equal(t, 100.0, snap.TotalSales)
	assert.Equal(t, 1, txnRepo.rangeCalls)

	// A different range misses the cache.
	other := report.NewRange(
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	)
	_, err = svc.Load(ctx, tenantID, other, false)
	require.NoError(t, err)
	assert.Equal(t, 2, txnRepo.rangeCalls)
}

func TestDashboardForceRefreshBypassesCache(t *testing.T) {
	rng := report.NewRange(
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	)

	txnRepo := &stubTxnRepo{}
	svc := newDashboardFixture(t, txnRepo)
	tenantID := uuid.New()
	ctx := context.Background()

	_, err := svc.Load(ctx, tenantID, rng, false)
	require.NoError(t, err)
	assert.Equal(t, 1, txnRepo.rangeCalls)

	_, err = svc.Load(ctx, tenantID, rng, true)
	require.NoError(t, err)
	assert.Equal(t, 2, txnRepo.rangeCalls)
}

func TestDashboardErrorRetainsPreviousSnapshot(t *testing.T) {
	rng := report.NewRange(
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	)

	txnRepo := &stubTxnRepo{txns: []entity.Transaction{
		saleAt(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), 250, nil),
	}}
	svc := newDashboardFixture(t, txnRepo)
	tenantID := uuid.New()
	ctx := context.Background()

	_, err := svc.Load(ctx, tenantID, rng, false)
	require.NoError(t, err)

	txnRepo.err = errors.New("store unreachable")
	_, err = svc.Load(ctx, tenantID, rng, true)
	require.Error(t, err)

	state := svc.State(tenantID)
	assert.Equal(t, PhaseError, state.Phase)
	assert.Equal(t, "store unreachable", state.Error)
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, 250.0, state.Snapshot.TotalSales)
}

func TestDashboardSupersededLoadIsDiscarded(t *testing.T) {
	svc := newDashboardFixture(t, &stubTxnRepo{})
	tenantID := uuid.New()

	gen1 := svc.beginLoad(tenantID)
	gen2 := svc.beginLoad(tenantID)

	// The older load finishes last; its result must not overwrite the
	// newer one.
	svc.commit(tenantID, gen2, &report.Snapshot{TotalSales: 2}, nil)
	svc.commit(tenantID, gen1, &report.Snapshot{TotalSales: 1}, nil)

	state := svc.State(tenantID)
	assert.Equal(t, PhaseReady, state.Phase)
	assert.Equal(t, 2.0, state.Snapshot.TotalSales)
}

func TestDashboardReportFiltersByKind(t *testing.T) {
	rng := report.NewRange(
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	)

	purchase := saleAt(time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC), 80, nil)
	purchase.Kind = enum.TransactionKindPurchase

	txnRepo := &stubTxnRepo{txns: []entity.Transaction{
		saleAt(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC), 100, nil),
		purchase,
	}}
	svc := newDashboardFixture(t, txnRepo)
	tenantID := uuid.New()

	snap, err := svc.Report(context.Background(), tenantID, enum.TransactionKindPurchase, rng)
	require.NoError(t, err)
	assert.Equal(t, 80.0, snap.TotalSales)
	assert.Equal(t, 1, snap.OrderCount)
}
