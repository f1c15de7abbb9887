package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

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

const taskColumns = `task_id, name, description, category, tags, priority, status, priority_score,
	complete_by_date, start_date, completed_on, estimated_hours,
	is_recurring, recurring_pattern_id, recurring_parent_id, next_occurrence_date, occurrence_count,
	is_deleted, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxTaskRepository struct {
	BaseRepository
}

// newPgxTaskRepository creates a new repository for task and recurrence pattern data.
func newPgxTaskRepository(pool *pgxpool.Pool) portsrepo.TaskRepositoryWithTx {
	return &PgxTaskRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTaskRepository implements portsrepo.TaskRepositoryWithTx
var _ portsrepo.TaskRepositoryWithTx = (*PgxTaskRepository)(nil)

func scanTask(row pgx.Row) (models.Task, error) {
	var m models.Task
	err := row.Scan(
		&m.TaskID,
		&m.Name,
		&m.Description,
		&m.Category,
		&m.Tags,
		&m.Priority,
		&m.Status,
		&m.PriorityScore,
		&m.CompleteByDate,
		&m.StartDate,
		&m.CompletedOn,
		&m.EstimatedHours,
		&m.IsRecurring,
		&m.RecurringPatternID,
		&m.RecurringParentID,
		&m.NextOccurrenceDate,
		&m.OccurrenceCount,
		&m.IsDeleted,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertTaskArgs(m models.Task) []interface{} {
	return []interface{}{
		m.TaskID,
		m.Name,
		m.Description,
		m.Category,
		m.Tags,
		m.Priority,
		m.Status,
		m.PriorityScore,
		m.CompleteByDate,
		m.StartDate,
		m.CompletedOn,
		m.EstimatedHours,
		m.IsRecurring,
		m.RecurringPatternID,
		m.RecurringParentID,
		m.NextOccurrenceDate,
		m.OccurrenceCount,
		m.IsDeleted,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

const insertTaskQuery = `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
`

const updateTaskQuery = `
	UPDATE tasks
	SET name = $2, description = $3, category = $4, tags = $5, priority = $6, status = $7,
	    priority_score = $8, complete_by_date = $9, start_date = $10, completed_on = $11,
	    estimated_hours = $12, next_occurrence_date = $13, occurrence_count = $14,
	    is_deleted = $15, deleted_at = $16, last_updated_at = $17, last_updated_by = $18
	WHERE task_id = $1;
`

// SaveTask inserts a new task.
func (r *PgxTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)

	_, err := r.Pool.Exec(ctx, insertTaskQuery, insertTaskArgs(m)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: task with ID %s already exists", apperrors.ErrDuplicate, m.TaskID)
		}
		return fmt.Errorf("failed to save task %s: %w", m.TaskID, err)
	}
	return nil
}

// UpdateTask updates an existing task's mutable fields.
func (r *PgxTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)

	cmdTag, err := r.Pool.Exec(ctx, updateTaskQuery,
		m.TaskID,
		m.Name,
		m.Description,
		m.Category,
		m.Tags,
		m.Priority,
		m.Status,
		m.PriorityScore,
		m.CompleteByDate,
		m.StartDate,
		m.CompletedOn,
		m.EstimatedHours,
		m.NextOccurrenceDate,
		m.OccurrenceCount,
		m.IsDeleted,
		m.DeletedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", m.TaskID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveCompletionWithSuccessor marks the completed task and inserts the next
// recurring instance within one database transaction, so a recurring chain
// never loses its link.
func (r *PgxTaskRepository) SaveCompletionWithSuccessor(ctx context.Context, completed domain.Task, successor *domain.Task) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		m := mapping.ToModelTask(completed)
		cmdTag, err := tx.Exec(ctx, updateTaskQuery,
			m.TaskID,
			m.Name,
			m.Description,
			m.Category,
			m.Tags,
			m.Priority,
			m.Status,
			m.PriorityScore,
			m.CompleteByDate,
			m.StartDate,
			m.CompletedOn,
			m.EstimatedHours,
			m.NextOccurrenceDate,
			m.OccurrenceCount,
			m.IsDeleted,
			m.DeletedAt,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark task "+m.TaskID+" completed", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}

		if successor != nil {
			sm := mapping.ToModelTask(*successor)
			if _, err := tx.Exec(ctx, insertTaskQuery, insertTaskArgs(sm)...); err != nil {
				return apperrors.NewAppError(500, "failed to insert successor task "+sm.TaskID, err)
			}
		}
		return nil
	})
}

// FindTaskByID retrieves a task by its ID. Soft-deleted tasks are not returned.
func (r *PgxTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE task_id = $1 AND is_deleted = FALSE;
	`
	m, err := scanTask(r.Pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task by ID %s: %w", taskID, err)
	}

	d := mapping.ToDomainTask(m)
	return &d, nil
}

// ListTasks retrieves a paginated list of tasks using token-based pagination,
// newest first, optionally filtered by status.
func (r *PgxTaskRepository) ListTasks(ctx context.Context, limit int, nextToken *string, statuses []domain.TaskStatus) ([]domain.Task, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + taskColumns + `
		FROM tasks
	`
	filterClause := `WHERE is_deleted = FALSE`
	args := []interface{}{}

	if len(statuses) > 0 {
		statusStrings := make([]string, len(statuses))
		for i, s := range statuses {
			statusStrings[i] = string(s)
		}
		args = append(args, statusStrings)
		filterClause += ` AND status = ANY($` + strconv.Itoa(len(args)) + `)`
	}

	orderByClause := `ORDER BY created_at DESC`

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
		return nil, nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	var nextTokenVal *string
	if len(tasks) > limit {
		last := tasks[limit-1]
		token := pagination.EncodeDateBasedToken(last.CreatedAt)
		nextTokenVal = &token
		tasks = tasks[:limit]
	}

	return mapping.ToDomainTaskSlice(tasks), nextTokenVal, nil
}

// ListDueTasks retrieves non-completed tasks whose due date is on or before the given date.
func (r *PgxTaskRepository) ListDueTasks(ctx context.Context, onOrBefore time.Time) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE is_deleted = FALSE
		  AND status IN ('PENDING', 'IN_PROGRESS')
		  AND complete_by_date IS NOT NULL
		  AND complete_by_date <= $1
		ORDER BY complete_by_date;
	`
	rows, err := r.Pool.Query(ctx, query, onOrBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due task row: %w", err)
		}
		tasks = append(tasks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due task rows: %w", err)
	}

	return mapping.ToDomainTaskSlice(tasks), nil
}

// ListTasksByRecurringParent retrieves every instance spawned from the given root task.
func (r *PgxTaskRepository) ListTasksByRecurringParent(ctx context.Context, parentTaskID string) ([]domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE is_deleted = FALSE
		  AND (task_id = $1 OR recurring_parent_id = $1)
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, parentTaskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recurring chain for task %s: %w", parentTaskID, err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		m, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring chain row for task %s: %w", parentTaskID, err)
		}
		tasks = append(tasks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring chain rows for task %s: %w", parentTaskID, err)
	}

	return mapping.ToDomainTaskSlice(tasks), nil
}

// SavePattern inserts a new recurrence pattern.
func (r *PgxTaskRepository) SavePattern(ctx context.Context, pattern domain.RecurrencePattern) error {
	m := mapping.ToModelRecurrencePattern(pattern)

	query := `
		INSERT INTO recurring_patterns (pattern_id, frequency, interval, weekdays, day_of_month, custom_days, end_date, max_occurrences, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PatternID,
		m.Frequency,
		m.Interval,
		m.Weekdays,
		m.DayOfMonth,
		m.CustomDays,
		m.EndDate,
		m.MaxOccurrences,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: pattern with ID %s already exists", apperrors.ErrDuplicate, m.PatternID)
		}
		return fmt.Errorf("failed to save recurrence pattern %s: %w", m.PatternID, err)
	}
	return nil
}

// UpdatePattern updates an existing recurrence pattern.
func (r *PgxTaskRepository) UpdatePattern(ctx context.Context, pattern domain.RecurrencePattern) error {
	m := mapping.ToModelRecurrencePattern(pattern)

	query := `
		UPDATE recurring_patterns
		SET frequency = $2, interval = $3, weekdays = $4, day_of_month = $5, custom_days = $6,
		    end_date = $7, max_occurrences = $8, last_updated_at = $9, last_updated_by = $10
		WHERE pattern_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.PatternID,
		m.Frequency,
		m.Interval,
		m.Weekdays,
		m.DayOfMonth,
		m.CustomDays,
		m.EndDate,
		m.MaxOccurrences,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update recurrence pattern %s: %w", m.PatternID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindPatternByID retrieves a recurrence pattern by its ID.
func (r *PgxTaskRepository) FindPatternByID(ctx context.Context, patternID string) (*domain.RecurrencePattern, error) {
	query := `
		SELECT pattern_id, frequency, interval, weekdays, day_of_month, custom_days, end_date, max_occurrences, created_at, created_by, last_updated_at, last_updated_by
		FROM recurring_patterns
		WHERE pattern_id = $1;
	`
	var m models.RecurrencePattern
	err := r.Pool.QueryRow(ctx, query, patternID).Scan(
		&m.PatternID,
		&m.Frequency,
		&m.Interval,
		&m.Weekdays,
		&m.DayOfMonth,
		&m.CustomDays,
		&m.EndDate,
		&m.MaxOccurrences,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find recurrence pattern by ID %s: %w", patternID, err)
	}

	d := mapping.ToDomainRecurrencePattern(m)
	return &d, nil
}
