// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// IDs are assigned in the application so the same models work against both
// postgres and the in-memory test database.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type TransactionType string

const (
	TransactionTypeUnlock TransactionType = "unlock"
	TransactionTypeTip    TransactionType = "tip"
	TransactionTypeView   TransactionType = "view"
	TransactionTypeRefund TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCrypto    PaymentMethod = "crypto"
	PaymentMethodBasePay   PaymentMethod = "basepay"
	PaymentMethodCredit    PaymentMethod = "credit"
	PaymentMethodFarcaster PaymentMethod = "farcaster"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCrypto, PaymentMethodBasePay, PaymentMethodCredit, PaymentMethodFarcaster:
		return true
	}
	return false
}
