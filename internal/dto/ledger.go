package dto

import (
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerEntryRequest defines the data needed to record money owed or settled.
type CreateLedgerEntryRequest struct {
	EntryType    domain.LedgerEntryType `json:"entryType" binding:"required,oneof=RECEIVABLE PAYABLE RECEIVED PAID"`
	Amount       decimal.Decimal        `json:"amount" binding:"required"`
	Counterparty string                 `json:"counterparty" binding:"required"`
	Description  string                 `json:"description"`
	EntryDate    time.Time              `json:"entryDate" binding:"required"`
	DueDate      *time.Time             `json:"dueDate"`
}

// RecordPaymentRequest defines a payment applied against a ledger entry.
type RecordPaymentRequest struct {
	AmountPaid      decimal.Decimal `json:"amountPaid" binding:"required"`
	PaymentDate     time.Time       `json:"paymentDate" binding:"required"`
	PaymentMethod   string          `json:"paymentMethod"`
	ReferenceNumber string          `json:"referenceNumber"`
	Notes           string          `json:"notes"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	LedgerID        string                 `json:"ledgerID"`
	EntryType       domain.LedgerEntryType `json:"entryType"`
	Amount          decimal.Decimal        `json:"amount"`
	PaidAmount      decimal.Decimal        `json:"paidAmount"`
	RemainingAmount decimal.Decimal        `json:"remainingAmount"`
	Status          domain.LedgerStatus    `json:"status"`
	Counterparty    string                 `json:"counterparty"`
	Description     string                 `json:"description"`
	EntryDate       time.Time              `json:"entryDate"`
	DueDate         *time.Time             `json:"dueDate,omitempty"`
	CompletionDate  *time.Time             `json:"completionDate,omitempty"`
	IsOverdue       bool                   `json:"isOverdue"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// PaymentRecordResponse defines the data returned for a payment record.
type PaymentRecordResponse struct {
	PaymentID       string          `json:"paymentID"`
	LedgerID        string          `json:"ledgerID"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	PaymentDate     time.Time       `json:"paymentDate"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO
func ToLedgerEntryResponse(e *domain.LedgerEntry, today time.Time) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerID:        e.LedgerID,
		EntryType:       e.EntryType,
		Amount:          e.Amount,
		PaidAmount:      e.PaidAmount,
		RemainingAmount: e.RemainingAmount,
		Status:          e.Status,
		Counterparty:    e.Counterparty,
		Description:     e.Description,
		EntryDate:       e.EntryDate,
		DueDate:         e.DueDate,
		CompletionDate:  e.CompletionDate,
		IsOverdue:       e.IsOverdue(today),
		CreatedAt:       e.CreatedAt,
	}
}

// ToListLedgerEntryResponse converts a slice of domain.LedgerEntry to a slice of LedgerEntryResponse DTOs
func ToListLedgerEntryResponse(entries []domain.LedgerEntry, today time.Time) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToLedgerEntryResponse(&entries[i], today)
	}
	return res
}

// ToPaymentRecordResponse converts a domain.PaymentRecord to PaymentRecordResponse DTO
func ToPaymentRecordResponse(p *domain.PaymentRecord) PaymentRecordResponse {
	return PaymentRecordResponse{
		PaymentID:       p.PaymentID,
		LedgerID:        p.LedgerID,
		AmountPaid:      p.AmountPaid,
		PaymentDate:     p.PaymentDate,
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
	}
}

// ToPaymentRecordResponses converts a slice of domain.PaymentRecord to []PaymentRecordResponse.
func ToPaymentRecordResponses(payments []domain.PaymentRecord) []PaymentRecordResponse {
	responses := make([]PaymentRecordResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentRecordResponse(&payments[i])
	}
	return responses
}

// ListLedgerEntriesParams defines query parameters for listing ledger entries.
type ListLedgerEntriesParams struct {
	Limit        int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken    *string `form:"nextToken"`
	Counterparty *string `form:"counterparty"`
}

// ListLedgerEntriesResponse wraps the list of entries with the pagination token.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// CashFlowParams defines query parameters for the cash flow projection.
type CashFlowParams struct {
	HorizonDays int `form:"horizonDays,default=30" binding:"omitempty,min=1,max=365"`
}
