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

const obligationColumns = `obligation_id, name, type, total_amount, installment_count, start_date, frequency, custom_days, status,
	is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

const installmentColumns = `installment_id, obligation_id, sequence_index, amount, due_date, status, description,
	created_at, created_by, last_updated_at, last_updated_by`

const insertInstallmentQuery = `
	INSERT INTO installments (` + installmentColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

type PgxObligationRepository struct {
	BaseRepository
}

// newPgxObligationRepository creates a new repository for obligation and installment data.
func newPgxObligationRepository(pool *pgxpool.Pool) portsrepo.ObligationRepositoryWithTx {
	return &PgxObligationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxObligationRepository implements portsrepo.ObligationRepositoryWithTx
var _ portsrepo.ObligationRepositoryWithTx = (*PgxObligationRepository)(nil)

func scanObligation(row pgx.Row) (models.Obligation, error) {
	var m models.Obligation
	err := row.Scan(
		&m.ObligationID,
		&m.Name,
		&m.Type,
		&m.TotalAmount,
		&m.InstallmentCount,
		&m.StartDate,
		&m.Frequency,
		&m.CustomDays,
		&m.Status,
		&m.IsDeleted,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanInstallment(row pgx.Row) (models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID,
		&m.ObligationID,
		&m.SequenceIndex,
		&m.Amount,
		&m.DueDate,
		&m.Status,
		&m.Description,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertInstallmentArgs(m models.Installment) []interface{} {
	return []interface{}{
		m.InstallmentID,
		m.ObligationID,
		m.SequenceIndex,
		m.Amount,
		m.DueDate,
		m.Status,
		m.Description,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

// SaveObligationWithInstallments inserts the obligation and its full installment
// series within one database transaction.
func (r *PgxObligationRepository) SaveObligationWithInstallments(ctx context.Context, obligation domain.Obligation, installments []domain.Installment) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		m := mapping.ToModelObligation(obligation)
		query := `
			INSERT INTO obligations (` + obligationColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
		`
		_, err := tx.Exec(ctx, query,
			m.ObligationID,
			m.Name,
			m.Type,
			m.TotalAmount,
			m.InstallmentCount,
			m.StartDate,
			m.Frequency,
			m.CustomDays,
			m.Status,
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
				return fmt.Errorf("%w: obligation with ID %s already exists", apperrors.ErrDuplicate, m.ObligationID)
			}
			return apperrors.NewAppError(500, "failed to insert obligation "+m.ObligationID, err)
		}

		batch := &pgx.Batch{}
		for _, ins := range installments {
			batch.Queue(insertInstallmentQuery, insertInstallmentArgs(mapping.ToModelInstallment(ins))...)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert installments for obligation "+m.ObligationID, err)
		}
		return nil
	})
}

// FindObligationByIDForUpdate retrieves an obligation on the given transaction
// and locks its row until the transaction ends.
func (r *PgxObligationRepository) FindObligationByIDForUpdate(ctx context.Context, tx pgx.Tx, obligationID string) (*domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE obligation_id = $1 AND is_deleted = FALSE
		FOR UPDATE;
	`
	m, err := scanObligation(tx.QueryRow(ctx, query, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock obligation %s: %w", obligationID, err)
	}

	d := mapping.ToDomainObligation(m)
	return &d, nil
}

// FindInstallmentsByObligationIDInTx retrieves an obligation's installments in
// sequence order on the given transaction.
func (r *PgxObligationRepository) FindInstallmentsByObligationIDInTx(ctx context.Context, tx pgx.Tx, obligationID string) ([]domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE obligation_id = $1
		ORDER BY sequence_index;
	`
	rows, err := tx.Query(ctx, query, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for obligation %s: %w", obligationID, err)
	}
	defer rows.Close()

	installments := []models.Installment{}
	for rows.Next() {
		m, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row for obligation %s: %w", obligationID, err)
		}
		installments = append(installments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows for obligation %s: %w", obligationID, err)
	}

	return mapping.ToDomainInstallmentSlice(installments), nil
}

// ReplacePendingInstallmentsInTx deletes the obligation's pending installments,
// inserts the replacement series, and applies the updated obligation terms on
// the given transaction.
func (r *PgxObligationRepository) ReplacePendingInstallmentsInTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation, replacements []domain.Installment) error {
	m := mapping.ToModelObligation(obligation)

	deleteQuery := `
		DELETE FROM installments
		WHERE obligation_id = $1 AND status = 'PENDING';
	`
	if _, err := tx.Exec(ctx, deleteQuery, m.ObligationID); err != nil {
		return apperrors.NewAppError(500, "failed to clear pending installments for obligation "+m.ObligationID, err)
	}

	batch := &pgx.Batch{}
	for _, ins := range replacements {
		batch.Queue(insertInstallmentQuery, insertInstallmentArgs(mapping.ToModelInstallment(ins))...)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert replacement installments for obligation "+m.ObligationID, err)
	}

	updateQuery := `
		UPDATE obligations
		SET name = $2, total_amount = $3, installment_count = $4, start_date = $5,
		    frequency = $6, custom_days = $7, status = $8, last_updated_at = $9, last_updated_by = $10
		WHERE obligation_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, updateQuery,
		m.ObligationID,
		m.Name,
		m.TotalAmount,
		m.InstallmentCount,
		m.StartDate,
		m.Frequency,
		m.CustomDays,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update obligation "+m.ObligationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdateObligationInTx updates an existing obligation on the given transaction.
func (r *PgxObligationRepository) UpdateObligationInTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation) error {
	m := mapping.ToModelObligation(obligation)

	query := `
		UPDATE obligations
		SET name = $2, total_amount = $3, installment_count = $4, start_date = $5,
		    frequency = $6, custom_days = $7, status = $8, is_deleted = $9, deleted_at = $10,
		    last_updated_at = $11, last_updated_by = $12
		WHERE obligation_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ObligationID,
		m.Name,
		m.TotalAmount,
		m.InstallmentCount,
		m.StartDate,
		m.Frequency,
		m.CustomDays,
		m.Status,
		m.IsDeleted,
		m.DeletedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update obligation %s: %w", m.ObligationID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateInstallmentInTx updates an existing installment on the given transaction.
func (r *PgxObligationRepository) UpdateInstallmentInTx(ctx context.Context, tx pgx.Tx, installment domain.Installment) error {
	m := mapping.ToModelInstallment(installment)

	query := `
		UPDATE installments
		SET amount = $2, due_date = $3, status = $4, description = $5, last_updated_at = $6, last_updated_by = $7
		WHERE installment_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.InstallmentID,
		m.Amount,
		m.DueDate,
		m.Status,
		m.Description,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update installment %s: %w", m.InstallmentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindObligationByID retrieves an obligation by its ID. Soft-deleted obligations are not returned.
func (r *PgxObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	query := `
		SELECT ` + obligationColumns + `
		FROM obligations
		WHERE obligation_id = $1 AND is_deleted = FALSE;
	`
	m, err := scanObligation(r.Pool.QueryRow(ctx, query, obligationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find obligation by ID %s: %w", obligationID, err)
	}

	d := mapping.ToDomainObligation(m)
	return &d, nil
}

// FindInstallmentByID retrieves an installment by its ID.
func (r *PgxObligationRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE installment_id = $1;
	`
	m, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find installment by ID %s: %w", installmentID, err)
	}

	d := mapping.ToDomainInstallment(m)
	return &d, nil
}

// FindInstallmentsByObligationID retrieves an obligation's installments in sequence order.
func (r *PgxObligationRepository) FindInstallmentsByObligationID(ctx context.Context, obligationID string) ([]domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE obligation_id = $1
		ORDER BY sequence_index;
	`
	rows, err := r.Pool.Query(ctx, query, obligationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments for obligation %s: %w", obligationID, err)
	}
	defer rows.Close()

	installments := []models.Installment{}
	for rows.Next() {
		m, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan installment row for obligation %s: %w", obligationID, err)
		}
		installments = append(installments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows for obligation %s: %w", obligationID, err)
	}

	return mapping.ToDomainInstallmentSlice(installments), nil
}

// ListObligations retrieves a paginated list of obligations, newest first,
// optionally filtered by status.
func (r *PgxObligationRepository) ListObligations(ctx context.Context, limit int, nextToken *string, statuses []domain.ObligationStatus) ([]domain.Obligation, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + obligationColumns + `
		FROM obligations
	`
	filterClause := `WHERE is_deleted = FALSE`
	orderByClause := `ORDER BY created_at DESC`
	args := []interface{}{}

	if len(statuses) > 0 {
		statusStrings := make([]string, len(statuses))
		for i, s := range statuses {
			statusStrings[i] = string(s)
		}
		args = append(args, statusStrings)
		filterClause += ` AND status = ANY($` + strconv.Itoa(len(args)) + `)`
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
		return nil, nil, fmt.Errorf("failed to query obligations: %w", err)
	}
	defer rows.Close()

	obligations := make([]models.Obligation, 0, fetchLimit)
	for rows.Next() {
		m, err := scanObligation(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan obligation row: %w", err)
		}
		obligations = append(obligations, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating obligation rows: %w", err)
	}

	var nextTokenVal *string
	if len(obligations) > limit {
		last := obligations[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		obligations = obligations[:limit]
	}

	return mapping.ToDomainObligationSlice(obligations), nextTokenVal, nil
}
