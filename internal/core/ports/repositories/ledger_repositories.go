package repositories

import (
	"context"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerReader defines read operations for ledger data
type LedgerReader interface {
	// FindLedgerEntryByID retrieves a specific ledger entry by its unique identifier.
	FindLedgerEntryByID(ctx context.Context, ledgerID string) (*domain.LedgerEntry, error)

	// ListLedgerEntries retrieves a paginated list of entries using token-based
	// pagination, optionally filtered by counterparty.
	ListLedgerEntries(ctx context.Context, limit int, nextToken *string, counterparty *string) ([]domain.LedgerEntry, *string, error)

	// ListOpenLedgerEntries retrieves every PENDING or PARTIAL entry, optionally
	// filtered by counterparty.
	ListOpenLedgerEntries(ctx context.Context, counterparty *string) ([]domain.LedgerEntry, error)

	// ListCounterparties retrieves the distinct counterparties with open entries.
	ListCounterparties(ctx context.Context) ([]string, error)

	// FindPaymentsByLedgerID retrieves the payment history of an entry, newest first.
	FindPaymentsByLedgerID(ctx context.Context, ledgerID string) ([]domain.PaymentRecord, error)
}

// LedgerWriter defines write operations for ledger data. Payment and
// cancellation flows lock the entry row first and apply every write on the
// same transaction, so concurrent mutations of one entry serialize.
type LedgerWriter interface {
	// SaveLedgerEntry persists a new ledger entry.
	SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error

	// FindLedgerEntryByIDForUpdate selects a ledger entry and locks its row for
	// update. Must be called within a transaction.
	FindLedgerEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID string) (*domain.LedgerEntry, error)

	// SavePaymentInTx inserts a payment record on the given transaction.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.PaymentRecord) error

	// UpdateLedgerEntryInTx updates an existing ledger entry on the given transaction.
	UpdateLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}

// LedgerRepositoryWithTx extends LedgerRepositoryFacade with transaction capabilities
type LedgerRepositoryWithTx interface {
	LedgerRepositoryFacade
	TransactionManager
}
