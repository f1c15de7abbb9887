package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/daybook/personal_manager_app/internal/apperrors"
	"github.com/daybook/personal_manager_app/internal/core/domain"
	portsrepo "github.com/daybook/personal_manager_app/internal/core/ports/repositories"
	"github.com/daybook/personal_manager_app/internal/models"
	"github.com/daybook/personal_manager_app/internal/utils/mapping"
	"github.com/daybook/personal_manager_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerColumns = `ledger_id, entry_type, amount, paid_amount, remaining_amount, status,
	counterparty, description, entry_date, due_date, completion_date,
	is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

const updateLedgerEntryQuery = `
	UPDATE ledger_entries
	SET paid_amount = $2, remaining_amount = $3, status = $4, description = $5, due_date = $6,
	    completion_date = $7, is_deleted = $8, deleted_at = $9, last_updated_at = $10, last_updated_by = $11
	WHERE ledger_id = $1;
`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger entry and payment data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryWithTx
var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.LedgerID,
		&m.EntryType,
		&m.Amount,
		&m.PaidAmount,
		&m.RemainingAmount,
		&m.Status,
		&m.Counterparty,
		&m.Description,
		&m.EntryDate,
		&m.DueDate,
		&m.CompletionDate,
		&m.IsDeleted,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func updateLedgerEntryArgs(m models.LedgerEntry) []interface{} {
	return []interface{}{
		m.LedgerID,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.Description,
		m.DueDate,
		m.CompletionDate,
		m.IsDeleted,
		m.DeletedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveLedgerEntry inserts a new ledger entry.
func (r *PgxLedgerRepository) SaveLedgerEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)

	query := `
		INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LedgerID,
		m.EntryType,
		m.Amount,
		m.PaidAmount,
		m.RemainingAmount,
		m.Status,
		m.Counterparty,
		m.Description,
		m.EntryDate,
		m.DueDate,
		m.CompletionDate,
		m.IsDeleted,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: ledger entry with ID %s already exists", apperrors.ErrDuplicate, m.LedgerID)
		}
		return fmt.Errorf("failed to save ledger entry %s: %w", m.LedgerID, err)
	}
	return nil
}

// FindLedgerEntryByIDForUpdate retrieves a ledger entry on the given
// transaction and locks its row until the transaction ends.
func (r *PgxLedgerRepository) FindLedgerEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, ledgerID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE ledger_id = $1 AND is_deleted = FALSE
		FOR UPDATE;
	`
	m, err := scanLedgerEntry(tx.QueryRow(ctx, query, ledgerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock ledger entry %s: %w", ledgerID, err)
	}

	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

// SavePaymentInTx inserts a payment record on the given transaction.
func (r *PgxLedgerRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.PaymentRecord) error {
	pm := mapping.ToModelPaymentRecord(payment)
	query := `
		INSERT INTO payment_records (payment_id, ledger_id, amount_paid, payment_date, payment_method, reference_number, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		pm.PaymentID,
		pm.LedgerID,
		pm.AmountPaid,
		pm.PaymentDate,
		pm.PaymentMethod,
		pm.ReferenceNumber,
		pm.Notes,
		pm.CreatedAt,
		pm.CreatedBy,
		pm.LastUpdatedAt,
		pm.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+pm.PaymentID, err)
	}
	return nil
}

// UpdateLedgerEntryInTx updates an existing ledger entry on the given transaction.
func (r *PgxLedgerRepository) UpdateLedgerEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)

	cmdTag, err := tx.Exec(ctx, updateLedgerEntryQuery, updateLedgerEntryArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry %s: %w", m.LedgerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindLedgerEntryByID retrieves a ledger entry by its ID. Soft-deleted entries are not returned.
func (r *PgxLedgerRepository) FindLedgerEntryByID(ctx context.Context, ledgerID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
		WHERE ledger_id = $1 AND is_deleted = FALSE;
	`
	m, err := scanLedgerEntry(r.Pool.QueryRow(ctx, query, ledgerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry by ID %s: %w", ledgerID, err)
	}

	d := mapping.ToDomainLedgerEntry(m)
	return &d, nil
}

// ListLedgerEntries retrieves a paginated list of entries, newest first,
// optionally filtered by counterparty.
func (r *PgxLedgerRepository) ListLedgerEntries(ctx context.Context, limit int, nextToken *string, counterparty *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
	`
	filterClause := `WHERE is_deleted = FALSE`
	orderByClause := `ORDER BY created_at DESC`
	args := []interface{}{}

	if counterparty != nil && *counterparty != "" {
		args = append(args, *counterparty)
		filterClause += ` AND counterparty = $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt)
		filterClause += ` AND created_at < $` + strconv.Itoa(len(args))
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nextTokenVal, nil
}

// ListOpenLedgerEntries retrieves every PENDING or PARTIAL entry, optionally
// filtered by counterparty.
func (r *PgxLedgerRepository) ListOpenLedgerEntries(ctx context.Context, counterparty *string) ([]domain.LedgerEntry, error) {
	baseQuery := `
		SELECT ` + ledgerColumns + `
		FROM ledger_entries
	`
	filterClause := `WHERE is_deleted = FALSE AND status IN ('PENDING', 'PARTIAL')`
	args := []interface{}{}

	if counterparty != nil && *counterparty != "" {
		args = append(args, *counterparty)
		filterClause += ` AND counterparty = $` + strconv.Itoa(len(args))
	}

	query := baseQuery + " " + filterClause + " ORDER BY entry_date;"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query open ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open ledger entry row: %w", err)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open ledger entry rows: %w", err)
	}

	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListCounterparties retrieves the distinct counterparties with open entries.
func (r *PgxLedgerRepository) ListCounterparties(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT counterparty
		FROM ledger_entries
		WHERE is_deleted = FALSE AND status IN ('PENDING', 'PARTIAL')
		ORDER BY counterparty;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query counterparties: %w", err)
	}
	defer rows.Close()

	counterparties := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan counterparty row: %w", err)
		}
		counterparties = append(counterparties, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counterparty rows: %w", err)
	}

	return counterparties, nil
}

// FindPaymentsByLedgerID retrieves the payment history of an entry, newest first.
func (r *PgxLedgerRepository) FindPaymentsByLedgerID(ctx context.Context, ledgerID string) ([]domain.PaymentRecord, error) {
	query := `
		SELECT payment_id, ledger_id, amount_paid, payment_date, payment_method, reference_number, notes, created_at, created_by, last_updated_at, last_updated_by
		FROM payment_records
		WHERE ledger_id = $1
		ORDER BY payment_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for ledger entry %s: %w", ledgerID, err)
	}
	defer rows.Close()

	payments := []models.PaymentRecord{}
	for rows.Next() {
		var m models.PaymentRecord
		err := rows.Scan(
			&m.PaymentID,
			&m.LedgerID,
			&m.AmountPaid,
			&m.PaymentDate,
			&m.PaymentMethod,
			&m.ReferenceNumber,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row for ledger entry %s: %w", ledgerID, err)
		}
		payments = append(payments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows for ledger entry %s: %w", ledgerID, err)
	}

	return mapping.ToDomainPaymentRecordSlice(payments), nil
}
