package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mkamau/storesight-api/internal/domain/entity"
	"github.com/mkamau/storesight-api/internal/domain/enum"
	"github.com/mkamau/storesight-api/internal/domain/repository"
	"github.com/mkamau/storesight-api/internal/infrastructure/cache"
	"github.com/mkamau/storesight-api/internal/report"
)

// Dashboard load phases. A tenant's dashboard starts idle, moves to
// loading while a computation is in flight, and lands on ready or error.
// An error keeps the last ready snapshot visible.
const (
	PhaseIdle    = "idle"
	PhaseLoading = "loading"
	PhaseReady   = "ready"
	PhaseError   = "error"
)

// DashboardState is a read-only view of a tenant's dashboard.
type DashboardState struct {
	Phase    string           `json:"phase"`
	Error    string           `json:"error,omitempty"`
	Snapshot *report.Snapshot `json:"snapshot,omitempty"`
}

type tenantState struct {
	phase      string
	generation uint64
	err        string
	snapshot   *report.Snapshot
}

// DashboardService computes dashboard snapshots from raw transactions.
// Concurrent loads for the same tenant are fenced with a generation
// counter: only the most recently started load may commit its result,
// so a slow stale fetch can never overwrite a newer one.
type DashboardService struct {
	txnRepo   repository.TransactionRepository
	userRepo  repository.UserRepository
	snapshots *cache.SnapshotCache

	mu     sync.Mutex
	states map[uuid.UUID]*tenantState
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	txnRepo repository.TransactionRepository,
	userRepo repository.UserRepository,
	snapshots *cache.SnapshotCache,
) *DashboardService {
	return &DashboardService{
		txnRepo:   txnRepo,
		userRepo:  userRepo,
		snapshots: snapshots,
		states:    make(map[uuid.UUID]*tenantState),
	}
}

// State returns the current dashboard state for a tenant
func (s *DashboardService) State(tenantID uuid.UUID) DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[tenantID]
	if !ok {
		return DashboardState{Phase: PhaseIdle}
	}
	return DashboardState{Phase: st.phase, Error: st.err, Snapshot: st.snapshot}
}

// Load returns the dashboard snapshot for the range, serving from cache
// when a fresh entry for the same range exists. Set force to bypass the
// cache and recompute from the store.
func (s *DashboardService) Load(ctx context.Context, tenantID uuid.UUID, rng report.Range, force bool) (*report.Snapshot, error) {
	gen := s.beginLoad(tenantID)

	if !force {
		if snap, ok := s.snapshots.Get(ctx, tenantID, rng); ok {
			s.commit(tenantID, gen, snap, nil)
			return snap, nil
		}
	}

	snap, err := s.compute(ctx, tenantID, enum.TransactionKindSale, rng)
	if err != nil {
		s.commit(tenantID, gen, nil, err)
		return nil, err
	}

	_ = s.snapshots.Put(ctx, tenantID, rng, snap)
	s.commit(tenantID, gen, snap, nil)
	return snap, nil
}

// Report computes a one-off sales or purchase report for the range. It
// shares the aggregation engine with the dashboard but bypasses the
// snapshot cache and the per-tenant state machine.
func (s *DashboardService) Report(ctx context.Context, tenantID uuid.UUID, kind enum.TransactionKind, rng report.Range) (*report.Snapshot, error) {
	return s.compute(ctx, tenantID, kind, rng)
}

func (s *DashboardService) compute(ctx context.Context, tenantID uuid.UUID, kind enum.TransactionKind, rng report.Range) (*report.Snapshot, error) {
	// The comparison window precedes the current one, so one fetch
	// covers both.
	comparison := report.Comparison(rng)
	txns, err := s.txnRepo.ListInRange(ctx, kind, comparison.Start, rng.End)
	if err != nil {
		return nil, err
	}

	roster, err := s.loadRoster(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	records := make([]report.Record, 0, len(txns))
	for i := range txns {
		records = append(records, toRecord(&txns[i]))
	}

	return report.Aggregate(records, rng, roster), nil
}

func (s *DashboardService) loadRoster(ctx context.Context, tenantID uuid.UUID) (report.Roster, error) {
	users, err := s.userRepo.ListByRole(ctx, tenantID, "salesman")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(users))
	for i := range users {
		if name := users[i].DisplayName(); name != "" {
			names = append(names, name)
		}
	}
	return report.NewRoster(names), nil
}

// beginLoad marks the tenant as loading and returns the generation token
// the caller must present to commit.
func (s *DashboardService) beginLoad(tenantID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[tenantID]
	if !ok {
		st = &tenantState{phase: PhaseIdle}
		s.states[tenantID] = st
	}
	st.generation++
	st.phase = PhaseLoading
	st.err = ""
	return st.generation
}

// commit records the outcome of a load. Results from superseded loads
// are discarded.
func (s *DashboardService) commit(tenantID uuid.UUID, gen uint64, snap *report.Snapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[tenantID]
	if !ok || st.generation != gen {
		return
	}

	if err != nil {
		st.phase = PhaseError
		st.err = err.Error()
		// The previous snapshot, if any, stays visible.
		return
	}

	st.phase = PhaseReady
	st.err = ""
	st.snapshot = snap
}

// toRecord maps a stored transaction onto the reporting engine's record
// shape. The indexed columns provide reliable defaults; everything else
// comes straight from the raw payload.
func toRecord(txn *entity.Transaction) report.Record {
	rec := report.Record{
		ID:         txn.ID.String(),
		OccurredAt: txn.OccurredAt,
		Amount:     txn.GetTotalDecimal(),
	}

	p := txn.Payload
	if p == nil {
		return rec
	}

	if raw, ok := p["totalAmount"]; ok {
		rec.Amount = raw
	} else if raw, ok := p["total"]; ok {
		rec.Amount = raw
	}
	if payments, ok := p["payments"].(map[string]interface{}); ok {
		rec.Payments = payments
	}
	if method, ok := p["paymentMethod"].(string); ok {
		rec.Method = method
	} else if method, ok := p["method"].(string); ok {
		rec.Method = method
	}
	rec.Customer = p["customer"]
	if sp, ok := p["salesperson"]; ok {
		rec.Salesperson = sp
	} else if sp, ok := p["soldBy"]; ok {
		rec.Salesperson = sp
	}

	if items, ok := p["items"].([]interface{}); ok {
		for _, raw := range items {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			item := report.Item{
				Quantity:  m["quantity"],
				UnitPrice: m["price"],
				Total:     m["total"],
			}
			if name, ok := m["name"].(string); ok {
				item.Name = name
			} else if name, ok := m["productName"].(string); ok {
				item.Name = name
			}
			rec.Items = append(rec.Items, item)
		}
	}

	return rec
}
