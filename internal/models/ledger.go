package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType mirrors domain.LedgerEntryType.
type LedgerEntryType string

// LedgerStatus mirrors domain.LedgerStatus.
type LedgerStatus string

// LedgerEntry is the row shape of the ledger_entries table.
type LedgerEntry struct {
	LedgerID        string          `db:"ledger_id"`
	EntryType       LedgerEntryType `db:"entry_type"`
	Amount          decimal.Decimal `db:"amount"`
	PaidAmount      decimal.Decimal `db:"paid_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	Status          LedgerStatus    `db:"status"`
	Counterparty    string          `db:"counterparty"`
	Description     string          `db:"description"`
	EntryDate       time.Time       `db:"entry_date"`
	DueDate         *time.Time      `db:"due_date"`        // Nullable
	CompletionDate  *time.Time      `db:"completion_date"` // Nullable
	SoftDelete
	AuditFields
}

// PaymentRecord is the row shape of the payment_records table.
type PaymentRecord struct {
	PaymentID       string          `db:"payment_id"`
	LedgerID        string          `db:"ledger_id"`
	AmountPaid      decimal.Decimal `db:"amount_paid"`
	PaymentDate     time.Time       `db:"payment_date"`
	PaymentMethod   string          `db:"payment_method"`
	ReferenceNumber string          `db:"reference_number"`
	Notes           string          `db:"notes"`
	AuditFields
}
