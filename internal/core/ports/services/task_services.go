package services

import (
	"context"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/dto"
)

// TaskReaderSvc defines read operations for task data
type TaskReaderSvc interface {
	// GetTaskByID retrieves a specific task by its ID.
	GetTaskByID(ctx context.Context, taskID string, requestingUserID string) (*domain.Task, error)

	// ListTasks retrieves a paginated list of tasks.
	ListTasks(ctx context.Context, userID string, params dto.ListTasksParams) (*dto.ListTasksResponse, error)

	// ListDueTasks retrieves non-completed tasks due on or before today, ordered
	// by priority score descending.
	ListDueTasks(ctx context.Context, userID string) ([]domain.Task, error)
}

// TaskWriterSvc defines write operations for task data
type TaskWriterSvc interface {
	// CreateTask persists a new task, with its recurrence pattern when present.
	CreateTask(ctx context.Context, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error)

	// UpdateTask updates task details.
	UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, requestingUserID string) (*domain.Task, error)

	// CompleteTask marks a task completed and, for recurring tasks, spawns the
	// next occurrence in the same transaction. It returns the completed task and
	// the spawned successor, which is nil when the chain has ended.
	CompleteTask(ctx context.Context, taskID string, requestingUserID string) (*domain.Task, *domain.Task, error)

	// DeleteTask soft-deletes a task.
	DeleteTask(ctx context.Context, taskID string, requestingUserID string) error
}

// TaskSvcFacade combines all task-related service interfaces
// This is a facade for clients that need access to all operations
type TaskSvcFacade interface {
	TaskReaderSvc
	TaskWriterSvc
}
