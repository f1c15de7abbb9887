package domain

import (
	"time"

	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
	"github.com/shopspring/decimal"
)

// LedgerEntryType classifies money owed or already settled with a counterparty.
// RECEIVED and PAID entries record settled history and are created COMPLETED.
type LedgerEntryType string

const (
	LedgerReceivable LedgerEntryType = "RECEIVABLE"
	LedgerPayable    LedgerEntryType = "PAYABLE"
	LedgerReceived   LedgerEntryType = "RECEIVED"
	LedgerPaid       LedgerEntryType = "PAID"
)

// LedgerStatus tracks settlement progress of a ledger entry.
type LedgerStatus string

const (
	LedgerPending   LedgerStatus = "PENDING"
	LedgerPartial   LedgerStatus = "PARTIAL"
	LedgerCompleted LedgerStatus = "COMPLETED"
	LedgerCancelled LedgerStatus = "CANCELLED"
)

// LedgerEntry is a single obligation owed to or by a counterparty.
// RemainingAmount is always Amount minus PaidAmount and never negative.
type LedgerEntry struct {
	LedgerID        string          `json:"ledgerID"`
	EntryType       LedgerEntryType `json:"entryType"`
	Amount          decimal.Decimal `json:"amount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Status          LedgerStatus    `json:"status"`
	Counterparty    string          `json:"counterparty"`
	Description     string          `json:"description"`
	EntryDate       time.Time       `json:"entryDate"`
	DueDate         *time.Time      `json:"dueDate,omitempty"`
	CompletionDate  *time.Time      `json:"completionDate,omitempty"`
	SoftDelete
	AuditFields
}

// PaymentRecord is an append-only record of a payment against a ledger entry.
type PaymentRecord struct {
	PaymentID       string          `json:"paymentID"`
	LedgerID        string          `json:"ledgerID"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	PaymentDate     time.Time       `json:"paymentDate"`
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes"`
	AuditFields
}

// IsOpen reports whether the entry still carries an outstanding balance.
func (e LedgerEntry) IsOpen() bool {
	return e.Status == LedgerPending || e.Status == LedgerPartial
}

// IsOverdue reports whether an open entry's due date has passed.
func (e LedgerEntry) IsOverdue(today time.Time) bool {
	if !e.IsOpen() || e.DueDate == nil {
		return false
	}
	return e.DueDate.Before(datecalc.DateOnly(today))
}
