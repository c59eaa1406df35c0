package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mkamau/storesight-api/internal/domain/enum"
	"gorm.io/gorm"
)

// TransactionPayload carries the raw document a POS client submitted with a
// transaction. Shapes vary between client versions (amounts as punctuated
// strings, payment breakdown maps, counterparties as strings or objects),
// so the payload is stored verbatim as JSONB and only interpreted through
// the normalization layer at reporting time.
type TransactionPayload map[string]interface{}

// Scan implements the sql.Scanner interface for TransactionPayload
func (p *TransactionPayload) Scan(value interface{}) error {
	if value == nil {
		*p = TransactionPayload{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TransactionPayload: unsupported type")
	}

	return json.Unmarshal(bytes, p)
}

// Value implements the driver.Valuer interface for TransactionPayload
func (p TransactionPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Transaction represents one sale or purchase event for a tenant. The
// occurred-at timestamp and the total (in cents) are normalized once at
// ingest; everything else stays in the payload.
type Transaction struct {
	ID         uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID            `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID     uuid.UUID            `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind       enum.TransactionKind `gorm:"default:0;index" json:"kind"`
	ReferenceNo string              `gorm:"size:100;unique;not null" json:"reference_no"`
	OccurredAt time.Time            `gorm:"not null;index" json:"occurred_at"`
	Total      int64                `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Payload    TransactionPayload   `gorm:"type:jsonb;serializer:json" json:"payload"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
	DeletedAt  gorm.DeletedAt       `gorm:"index" json:"-"`

	// Relationships
	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(t),
		Total: float64(t.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// GetTotalDecimal returns the total as a decimal
func (t *Transaction) GetTotalDecimal() float64 {
	return float64(t.Total) / 100
}
