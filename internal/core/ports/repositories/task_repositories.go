package repositories

import (
	"context"
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
)

// TaskReader defines read operations for task data
type TaskReader interface {
	// FindTaskByID retrieves a specific task by its unique identifier.
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListTasks retrieves a paginated list of tasks using token-based pagination.
	// It returns the tasks, a token for the next page, and an error.
	ListTasks(ctx context.Context, limit int, nextToken *string, statuses []domain.TaskStatus) ([]domain.Task, *string, error)

	// ListDueTasks retrieves non-completed tasks whose due date is on or before the given date.
	ListDueTasks(ctx context.Context, onOrBefore time.Time) ([]domain.Task, error)

	// ListTasksByRecurringParent retrieves every instance spawned from the given root task.
	ListTasksByRecurringParent(ctx context.Context, parentTaskID string) ([]domain.Task, error)
}

// TaskWriter defines write operations for task data
type TaskWriter interface {
	// SaveTask persists a new task.
	SaveTask(ctx context.Context, task domain.Task) error

	// UpdateTask updates an existing task.
	UpdateTask(ctx context.Context, task domain.Task) error

	// SaveCompletionWithSuccessor marks the completed task and, when successor is
	// non-nil, inserts the next recurring instance within one database transaction.
	SaveCompletionWithSuccessor(ctx context.Context, completed domain.Task, successor *domain.Task) error
}

// PatternReader defines read operations for recurrence pattern data
type PatternReader interface {
	// FindPatternByID retrieves a recurrence pattern by its unique identifier.
	FindPatternByID(ctx context.Context, patternID string) (*domain.RecurrencePattern, error)
}

// PatternWriter defines write operations for recurrence pattern data
type PatternWriter interface {
	// SavePattern persists a new recurrence pattern.
	SavePattern(ctx context.Context, pattern domain.RecurrencePattern) error

	// UpdatePattern updates an existing recurrence pattern.
	UpdatePattern(ctx context.Context, pattern domain.RecurrencePattern) error
}

// TaskRepositoryFacade combines all task-related repository interfaces
// This is a facade for clients that need access to all operations
type TaskRepositoryFacade interface {
	TaskReader
	TaskWriter
	PatternReader
	PatternWriter
}

// TaskRepositoryWithTx extends TaskRepositoryFacade with transaction capabilities
type TaskRepositoryWithTx interface {
	TaskRepositoryFacade
	TransactionManager
}
