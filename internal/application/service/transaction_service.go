package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mkamau/storesight-api/internal/domain/entity"
	"github.com/mkamau/storesight-api/internal/domain/enum"
	"github.com/mkamau/storesight-api/internal/domain/repository"
	"github.com/mkamau/storesight-api/internal/infrastructure/cache"
	infraRepo "github.com/mkamau/storesight-api/internal/infrastructure/repository"
	"github.com/mkamau/storesight-api/pkg/apperror"
	"github.com/mkamau/storesight-api/pkg/normalize"
	"github.com/mkamau/storesight-api/pkg/pagination"
	"github.com/mkamau/storesight-api/pkg/utils"
)

// TransactionService records sale and purchase events submitted by POS
// clients. Payloads arrive in whatever shape the client version produces;
// the occurred-at timestamp and total are normalized once at ingest so
// list endpoints can filter and sort without re-parsing, while the raw
// payload is kept for the reporting engine.
type TransactionService struct {
	txnRepo   repository.TransactionRepository
	snapshots *cache.SnapshotCache
}

// NewTransactionService creates a new transaction service
func NewTransactionService(txnRepo repository.TransactionRepository, snapshots *cache.SnapshotCache) *TransactionService {
	return &TransactionService{txnRepo: txnRepo, snapshots: snapshots}
}

// RecordTransactionInput represents the input for recording a transaction
type RecordTransactionInput struct {
	UserID      uuid.UUID
	Kind        enum.TransactionKind
	ReferenceNo string
	Payload     map[string]interface{}
}

// RecordTransaction stores a new sale or purchase event
func (s *TransactionService) RecordTransaction(ctx context.Context, input *RecordTransactionInput) (*entity.Transaction, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	referenceNo := input.ReferenceNo
	if referenceNo == "" {
		referenceNo = utils.GenerateReferenceNo("")
	}

	existing, err := s.txnRepo.GetByReferenceNo(ctx, referenceNo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Reference number already exists")
	}

	// Normalize the fields the database indexes on. A missing or
	// unreadable date falls back to the ingest time rather than
	// rejecting the event.
	occurredAt, ok := normalize.Date(input.Payload["date"])
	if !ok {
		occurredAt = time.Now()
	}
	total := normalize.Amount(input.Payload["totalAmount"])
	if total == 0 {
		total = normalize.Amount(input.Payload["total"])
	}

	txn := &entity.Transaction{
		TenantID:    tenantID,
		UserID:      input.UserID,
		Kind:        input.Kind,
		ReferenceNo: referenceNo,
		OccurredAt:  occurredAt,
		Total:       int64(math.Round(total * 100)),
		Payload:     input.Payload,
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	// New data makes any cached dashboard snapshot stale.
	_ = s.snapshots.Invalidate(ctx, tenantID)

	return txn, nil
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return txn, nil
}

// ListTransactions lists transactions with filtering
func (s *TransactionService) ListTransactions(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	txns, total, err := s.txnRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(txns, pag), nil
}

// DeleteTransaction soft deletes a transaction
func (s *TransactionService) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if txn == nil {
		return apperror.NewNotFoundError("Transaction")
	}
	if err := s.txnRepo.Delete(ctx, id); err != nil {
		return err
	}

	if tenantID, ok := infraRepo.GetTenantID(ctx); ok {
		_ = s.snapshots.Invalidate(ctx, tenantID)
	}
	return nil
}
