package repositories

import (
	"context"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ObligationReader defines read operations for obligation data
type ObligationReader interface {
	// FindObligationByID retrieves a specific obligation by its unique identifier.
	FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error)

	// ListObligations retrieves a paginated list of obligations using token-based pagination.
	ListObligations(ctx context.Context, limit int, nextToken *string, statuses []domain.ObligationStatus) ([]domain.Obligation, *string, error)
}

// InstallmentReader defines read operations for installment data
type InstallmentReader interface {
	// FindInstallmentByID retrieves a specific installment by its unique identifier.
	FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error)

	// FindInstallmentsByObligationID retrieves every installment of an obligation
	// ordered by sequence index.
	FindInstallmentsByObligationID(ctx context.Context, obligationID string) ([]domain.Installment, error)
}

// ObligationWriter defines write operations for obligation and installment data.
// The mutating flows read, validate and write on one transaction, so the
// obligation row is locked first and every write takes the same tx.
type ObligationWriter interface {
	// SaveObligationWithInstallments persists an obligation and its full
	// installment series within one database transaction.
	SaveObligationWithInstallments(ctx context.Context, obligation domain.Obligation, installments []domain.Installment) error

	// FindObligationByIDForUpdate selects an obligation and locks its row for
	// update. Must be called within a transaction.
	FindObligationByIDForUpdate(ctx context.Context, tx pgx.Tx, obligationID string) (*domain.Obligation, error)

	// FindInstallmentsByObligationIDInTx retrieves an obligation's installments
	// in sequence order on the given transaction.
	FindInstallmentsByObligationIDInTx(ctx context.Context, tx pgx.Tx, obligationID string) ([]domain.Installment, error)

	// ReplacePendingInstallmentsInTx deletes the obligation's pending installments,
	// inserts the replacements and applies the updated obligation terms on the
	// given transaction.
	ReplacePendingInstallmentsInTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation, replacements []domain.Installment) error

	// UpdateObligationInTx updates an existing obligation on the given transaction.
	UpdateObligationInTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation) error

	// UpdateInstallmentInTx updates an existing installment on the given transaction.
	UpdateInstallmentInTx(ctx context.Context, tx pgx.Tx, installment domain.Installment) error
}

// ObligationRepositoryFacade combines all obligation-related repository interfaces
type ObligationRepositoryFacade interface {
	ObligationReader
	InstallmentReader
	ObligationWriter
}

// ObligationRepositoryWithTx extends ObligationRepositoryFacade with transaction capabilities
type ObligationRepositoryWithTx interface {
	ObligationRepositoryFacade
	TransactionManager
}
