package models

import "time"

type TransactionKind string

const (
	TransactionKindTransfer TransactionKind = "transfer"
	TransactionKindTopUp    TransactionKind = "topup"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

// Transaction is the wallet ledger. Every balance movement writes exactly one
// row inside the same database transaction that adjusts the balances, so the
// ledger and the wallets can never disagree.
type Transaction struct {
	ID      uint            `json:"id" gorm:"primaryKey"`
	Kind    TransactionKind `json:"kind" gorm:"not null;index"`
	PayerID uint            `json:"payer" gorm:"not null;index"`
	PayeeID uint            `json:"receiver" gorm:"index"`

	// Course purchased, when the transfer paid for one. Top-ups and plain
	// transfers leave it nil.
	CourseID *uint `json:"course,omitempty" gorm:"index"`

	Amount int64             `json:"amount" gorm:"not null"`
	Status TransactionStatus `json:"status" gorm:"not null"`
	Reason string            `json:"reason,omitempty"`

	// Unique per logical payment attempt. The database index is the durable
	// idempotency guard; the cache in front of it is only a fast path.
	IdempotencyKey *string `json:"-" gorm:"uniqueIndex:idx_transactions_idempotency_key"`

	CreatedAt time.Time `json:"created_at"`

	Payer  User    `json:"-" gorm:"foreignKey:PayerID"`
	Payee  User    `json:"-" gorm:"foreignKey:PayeeID"`
	Course *Course `json:"-" gorm:"foreignKey:CourseID"`
}

func (Transaction) TableName() string {
	return "transactions"
}
