package services

import (
	"context"
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/dto"
)

// LedgerReaderSvc defines read operations for ledger data
type LedgerReaderSvc interface {
	// GetLedgerEntryByID retrieves a specific ledger entry by its ID.
	GetLedgerEntryByID(ctx context.Context, ledgerID string, requestingUserID string) (*domain.LedgerEntry, error)

	// ListLedgerEntries retrieves a paginated list of ledger entries.
	ListLedgerEntries(ctx context.Context, userID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)

	// ListOverdueEntries retrieves open entries whose due date has passed.
	ListOverdueEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error)

	// ListPayments retrieves the payment history of a ledger entry.
	ListPayments(ctx context.Context, ledgerID string, requestingUserID string) ([]domain.PaymentRecord, error)
}

// LedgerWriterSvc defines write operations for ledger data
type LedgerWriterSvc interface {
	// CreateLedgerEntry persists a new ledger entry. RECEIVED and PAID entries
	// record settled history and are created COMPLETED.
	CreateLedgerEntry(ctx context.Context, req dto.CreateLedgerEntryRequest, creatorUserID string) (*domain.LedgerEntry, error)

	// RecordPayment applies a payment to an open entry, updating its totals and
	// status in the same transaction.
	RecordPayment(ctx context.Context, ledgerID string, req dto.RecordPaymentRequest, requestingUserID string) (*domain.LedgerEntry, error)

	// CancelLedgerEntry voids an open entry.
	CancelLedgerEntry(ctx context.Context, ledgerID string, requestingUserID string) (*domain.LedgerEntry, error)
}

// LedgerReportingSvc defines the analytics operations over ledger data
type LedgerReportingSvc interface {
	// GetAgingReport buckets open entries by days overdue.
	GetAgingReport(ctx context.Context, userID string) (*domain.AgingReport, error)

	// GetCashFlowProjection projects dated open entries over the horizon.
	GetCashFlowProjection(ctx context.Context, userID string, horizonDays int) ([]domain.CashFlowEntry, error)

	// GetCounterpartyBalance nets open positions against one counterparty as of now.
	GetCounterpartyBalance(ctx context.Context, userID string, counterparty string, asOf time.Time) (*domain.CounterpartyBalance, error)

	// ListCounterpartySummaries returns a balance per counterparty with open
	// entries, ordered by absolute net balance descending.
	ListCounterpartySummaries(ctx context.Context, userID string) ([]domain.CounterpartyBalance, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerReportingSvc
}
