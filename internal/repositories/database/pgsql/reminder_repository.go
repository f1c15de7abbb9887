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

const reminderColumns = `reminder_id, title, description, reminder_date, reminder_type, priority,
	custom_repeat_days, weekdays, month_days, linked_task_id, linked_finance_id,
	is_snoozed, snoozed_until, last_notified, notification_count, is_dismissed, dismissed_at,
	is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxReminderRepository struct {
	BaseRepository
}

// newPgxReminderRepository creates a new repository for reminder data.
func newPgxReminderRepository(pool *pgxpool.Pool) portsrepo.ReminderRepositoryWithTx {
	return &PgxReminderRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReminderRepository implements portsrepo.ReminderRepositoryWithTx
var _ portsrepo.ReminderRepositoryWithTx = (*PgxReminderRepository)(nil)

func scanReminder(row pgx.Row) (models.Reminder, error) {
	var m models.Reminder
	err := row.Scan(
		&m.ReminderID,
		&m.Title,
		&m.Description,
		&m.ReminderDate,
		&m.ReminderType,
		&m.Priority,
		&m.CustomRepeatDays,
		&m.Weekdays,
		&m.MonthDays,
		&m.LinkedTaskID,
		&m.LinkedFinanceID,
		&m.IsSnoozed,
		&m.SnoozedUntil,
		&m.LastNotified,
		&m.NotificationCount,
		&m.IsDismissed,
		&m.DismissedAt,
		&m.IsDeleted,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveReminder inserts a new reminder.
func (r *PgxReminderRepository) SaveReminder(ctx context.Context, reminder domain.Reminder) error {
	m := mapping.ToModelReminder(reminder)

	query := `
		INSERT INTO reminders (` + reminderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReminderID,
		m.Title,
		m.Description,
		m.ReminderDate,
		m.ReminderType,
		m.Priority,
		m.CustomRepeatDays,
		m.Weekdays,
		m.MonthDays,
		m.LinkedTaskID,
		m.LinkedFinanceID,
		m.IsSnoozed,
		m.SnoozedUntil,
		m.LastNotified,
		m.NotificationCount,
		m.IsDismissed,
		m.DismissedAt,
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
			return fmt.Errorf("%w: reminder with ID %s already exists", apperrors.ErrDuplicate, m.ReminderID)
		}
		return fmt.Errorf("failed to save reminder %s: %w", m.ReminderID, err)
	}
	return nil
}

// UpdateReminder updates an existing reminder.
func (r *PgxReminderRepository) UpdateReminder(ctx context.Context, reminder domain.Reminder) error {
	m := mapping.ToModelReminder(reminder)

	query := `
		UPDATE reminders
		SET title = $2, description = $3, reminder_date = $4, priority = $5,
		    custom_repeat_days = $6, weekdays = $7, month_days = $8,
		    is_snoozed = $9, snoozed_until = $10, last_notified = $11, notification_count = $12,
		    is_dismissed = $13, dismissed_at = $14, is_deleted = $15, deleted_at = $16,
		    last_updated_at = $17, last_updated_by = $18
		WHERE reminder_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ReminderID,
		m.Title,
		m.Description,
		m.ReminderDate,
		m.Priority,
		m.CustomRepeatDays,
		m.Weekdays,
		m.MonthDays,
		m.IsSnoozed,
		m.SnoozedUntil,
		m.LastNotified,
		m.NotificationCount,
		m.IsDismissed,
		m.DismissedAt,
		m.IsDeleted,
		m.DeletedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder %s: %w", m.ReminderID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindReminderByID retrieves a reminder by its ID. Soft-deleted reminders are not returned.
func (r *PgxReminderRepository) FindReminderByID(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE reminder_id = $1 AND is_deleted = FALSE;
	`
	m, err := scanReminder(r.Pool.QueryRow(ctx, query, reminderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reminder by ID %s: %w", reminderID, err)
	}

	d := mapping.ToDomainReminder(m)
	return &d, nil
}

// ListReminders retrieves a paginated list of reminders, newest first.
func (r *PgxReminderRepository) ListReminders(ctx context.Context, limit int, nextToken *string) ([]domain.Reminder, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + reminderColumns + `
		FROM reminders
	`
	filterClause := `WHERE is_deleted = FALSE`
	orderByClause := `ORDER BY created_at DESC`
	args := []interface{}{}

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
		return nil, nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]models.Reminder, 0, fetchLimit)
	for rows.Next() {
		m, err := scanReminder(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		reminders = append(reminders, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}

	var nextTokenVal *string
	if len(reminders) > limit {
		last := reminders[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		reminders = reminders[:limit]
	}

	return mapping.ToDomainReminderSlice(reminders), nextTokenVal, nil
}

// ListActiveReminders retrieves every reminder that is neither dismissed nor deleted.
func (r *PgxReminderRepository) ListActiveReminders(ctx context.Context) ([]domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE is_deleted = FALSE AND is_dismissed = FALSE
		ORDER BY reminder_date;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		m, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active reminder row: %w", err)
		}
		reminders = append(reminders, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active reminder rows: %w", err)
	}

	return mapping.ToDomainReminderSlice(reminders), nil
}
