package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mkamau/storesight-api/internal/domain/entity"
	"github.com/mkamau/storesight-api/internal/domain/enum"
	"github.com/mkamau/storesight-api/pkg/pagination"
)

// TransactionRepository defines the interface for sale/purchase data operations
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	GetByReferenceNo(ctx context.Context, referenceNo string) (*entity.Transaction, error)
	Update(ctx context.Context, txn *entity.Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// ListInRange retrieves all transactions of one kind that occurred inside
	// [start, end], ordered by occurrence time. Used by the reporting engine,
	// which needs the full window rather than a page.
	ListInRange(ctx context.Context, kind enum.TransactionKind, start, end time.Time) ([]entity.Transaction, error)
}

// TransactionFilterParams contains filtering parameters for transaction queries
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Kind       *enum.TransactionKind
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
