// internal/models/transaction.go
package models

import (
	"github.com/google/uuid"
)

// Transaction is an append-only ledger entry. Rows are created exactly once
// per economic event and never mutated except for the pending -> completed or
// pending -> failed status transition.
type Transaction struct {
	BaseModel
	Type    TransactionType `json:"type" gorm:"type:varchar(20);not null;index"`
	UserID  uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	VideoID uuid.UUID       `json:"video_id" gorm:"type:uuid;not null;index"`

	// Amount is in smallest currency units, after the pricing policy.
	Amount        int64         `json:"amount" gorm:"not null"`
	AmountDisplay string        `json:"amount_display" gorm:"size:32"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(20);not null"`

	// TransactionHash is the payment proof and double-spend dedup key.
	// Unique when present; null for credit-funded and free views.
	TransactionHash *string `json:"transaction_hash,omitempty" gorm:"uniqueIndex;size:80"`

	// RefundedTransactionID points a refund row at the entry it reverses.
	// Unique when present, so an entry can be refunded at most once.
	RefundedTransactionID *uuid.UUID `json:"refunded_transaction_id,omitempty" gorm:"type:uuid;uniqueIndex"`

	Status   TransactionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Metadata JSONB             `json:"metadata,omitempty" gorm:"type:jsonb"`

	// Relationships
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Video Video `json:"video,omitempty" gorm:"foreignKey:VideoID"`
}
