package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/daybook/personal_manager_app/internal/apperrors"
	"github.com/daybook/personal_manager_app/internal/core/domain"
	portsrepo "github.com/daybook/personal_manager_app/internal/core/ports/repositories"
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
	"github.com/daybook/personal_manager_app/internal/dto"
	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
)

var (
	ErrTaskAlreadyCompleted   = errors.New("task is already completed")
	ErrTaskCancelled          = errors.New("task is cancelled")
	ErrRecurrenceNeedsDueDate = errors.New("recurring task requires a due date to anchor the schedule")
)

// taskService provides task CRUD and the recurring instance generation.
type taskService struct {
	BaseService
	taskRepo portsrepo.TaskRepositoryWithTx
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo portsrepo.TaskRepositoryWithTx) portssvc.TaskSvcFacade {
	return &taskService{
		taskRepo: taskRepo,
	}
}

// Ensure taskService implements the portssvc.TaskSvcFacade interface
var _ portssvc.TaskSvcFacade = (*taskService)(nil)

// CreateTask creates a new task, persisting its recurrence pattern when one is given.
func (s *taskService) CreateTask(ctx context.Context, req dto.CreateTaskRequest, creatorUserID string) (*domain.Task, error) {
	now := time.Now().UTC()

	task := domain.Task{
		TaskID:         uuid.NewString(),
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Tags:           req.Tags,
		Priority:       req.Priority,
		Status:         domain.TaskPending,
		CompleteByDate: req.CompleteByDate,
		StartDate:      req.StartDate,
		EstimatedHours: req.EstimatedHours,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}

	if req.Recurrence != nil {
		if req.CompleteByDate == nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRecurrenceNeedsDueDate)
		}

		pattern := domain.RecurrencePattern{
			PatternID:      uuid.NewString(),
			Frequency:      req.Recurrence.Frequency,
			Interval:       req.Recurrence.Interval,
			Weekdays:       req.Recurrence.Weekdays,
			DayOfMonth:     req.Recurrence.DayOfMonth,
			CustomDays:     req.Recurrence.CustomDays,
			EndDate:        req.Recurrence.EndDate,
			MaxOccurrences: req.Recurrence.MaxOccurrences,
			AuditFields:    task.AuditFields,
		}
		if pattern.Interval == 0 {
			pattern.Interval = 1
		}
		if err := pattern.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}

		if err := s.taskRepo.SavePattern(ctx, pattern); err != nil {
			s.LogError(ctx, err, "Failed to save recurrence pattern", slog.String("pattern_id", pattern.PatternID))
			return nil, fmt.Errorf("failed to save recurrence pattern: %w", err)
		}

		anchor := datecalc.DateOnly(*req.CompleteByDate)
		task.IsRecurring = true
		task.RecurringPatternID = &pattern.PatternID
		task.NextOccurrenceDate = &anchor
		task.OccurrenceCount = 1
	}

	task.RecalculatePriorityScore(now)

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.String("task_id", task.TaskID))
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.LogInfo(ctx, "Task created", slog.String("task_id", task.TaskID), slog.Bool("recurring", task.IsRecurring))
	return &task, nil
}

// GetTaskByID retrieves a single task.
func (s *taskService) GetTaskByID(ctx context.Context, taskID string, requestingUserID string) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("task %s: %w", taskID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find task", slog.String("task_id", taskID))
		return nil, fmt.Errorf("failed to find task %s: %w", taskID, err)
	}
	return task, nil
}

// ListTasks retrieves a paginated task list.
func (s *taskService) ListTasks(ctx context.Context, userID string, params dto.ListTasksParams) (*dto.ListTasksResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var statuses []domain.TaskStatus
	if params.Status != nil {
		statuses = append(statuses, domain.TaskStatus(*params.Status))
	}

	tasks, nextToken, err := s.taskRepo.ListTasks(ctx, limit, params.NextToken, statuses)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks")
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &dto.ListTasksResponse{
		Tasks:     dto.ToListTaskResponse(tasks, time.Now().UTC()),
		NextToken: nextToken,
	}, nil
}

// ListDueTasks retrieves non-completed tasks due on or before today, highest
// priority score first.
func (s *taskService) ListDueTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	today := datecalc.DateOnly(time.Now().UTC())

	tasks, err := s.taskRepo.ListDueTasks(ctx, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to list due tasks")
		return nil, fmt.Errorf("failed to list due tasks: %w", err)
	}

	// Scores drift as days pass, recompute before ordering.
	for i := range tasks {
		tasks[i].RecalculatePriorityScore(today)
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].PriorityScore > tasks[j].PriorityScore
	})
	return tasks, nil
}

// UpdateTask applies the provided field updates to a task.
func (s *taskService) UpdateTask(ctx context.Context, taskID string, req dto.UpdateTaskRequest, requestingUserID string) (*domain.Task, error) {
	task, err := s.GetTaskByID(ctx, taskID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Status != nil {
		if *req.Status == domain.TaskCompleted {
			return nil, fmt.Errorf("%w: use the complete endpoint to finish a task", apperrors.ErrValidation)
		}
		task.Status = *req.Status
	}
	if req.CompleteByDate != nil {
		task.CompleteByDate = req.CompleteByDate
	}
	if req.StartDate != nil {
		task.StartDate = req.StartDate
	}
	if req.EstimatedHours != nil {
		task.EstimatedHours = req.EstimatedHours
	}

	now := time.Now().UTC()
	task.RecalculatePriorityScore(now)
	task.LastUpdatedAt = now
	task.LastUpdatedBy = requestingUserID

	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		s.LogError(ctx, err, "Failed to update task", slog.String("task_id", taskID))
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}
	return task, nil
}

// CompleteTask marks a task done. For recurring tasks it also spawns the next
// instance in the same database transaction, unless the pattern has run out.
func (s *taskService) CompleteTask(ctx context.Context, taskID string, requestingUserID string) (*domain.Task, *domain.Task, error) {
	task, err := s.GetTaskByID(ctx, taskID, requestingUserID)
	if err != nil {
		return nil, nil, err
	}
	if task.Status == domain.TaskCompleted {
		return nil, nil, ErrTaskAlreadyCompleted
	}
	if task.Status == domain.TaskCancelled {
		return nil, nil, ErrTaskCancelled
	}

	now := time.Now().UTC()
	task.Status = domain.TaskCompleted
	task.CompletedOn = &now
	task.LastUpdatedAt = now
	task.LastUpdatedBy = requestingUserID

	var successor *domain.Task
	if task.IsRecurring && task.RecurringPatternID != nil {
		successor, err = s.buildSuccessor(ctx, task, now, requestingUserID)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := s.taskRepo.SaveCompletionWithSuccessor(ctx, *task, successor); err != nil {
		s.LogError(ctx, err, "Failed to complete task", slog.String("task_id", taskID))
		return nil, nil, fmt.Errorf("failed to complete task %s: %w", taskID, err)
	}

	if successor != nil {
		s.LogInfo(ctx, "Recurring task completed, next instance spawned",
			slog.String("task_id", taskID),
			slog.String("successor_id", successor.TaskID),
			slog.Int("occurrence", successor.OccurrenceCount))
	} else {
		s.LogInfo(ctx, "Task completed", slog.String("task_id", taskID))
	}
	return task, successor, nil
}

// buildSuccessor computes the next instance of a recurring task. It returns
// nil when the pattern has reached its end date or occurrence cap.
func (s *taskService) buildSuccessor(ctx context.Context, completed *domain.Task, now time.Time, userID string) (*domain.Task, error) {
	pattern, err := s.taskRepo.FindPatternByID(ctx, *completed.RecurringPatternID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load recurrence pattern", slog.String("pattern_id", *completed.RecurringPatternID))
		return nil, fmt.Errorf("failed to load recurrence pattern: %w", err)
	}

	anchor := now
	if completed.CompleteByDate != nil {
		anchor = *completed.CompleteByDate
	}

	next, ok := pattern.NextOccurrence(anchor)
	if !ok {
		return nil, nil
	}
	if pattern.EndDate != nil && next.After(datecalc.DateOnly(*pattern.EndDate)) {
		return nil, nil
	}
	if pattern.MaxOccurrences != nil && completed.OccurrenceCount+1 > *pattern.MaxOccurrences {
		return nil, nil
	}

	// Chains stay flat: every instance points at the root ancestor.
	parentID := completed.TaskID
	if completed.RecurringParentID != nil {
		parentID = *completed.RecurringParentID
	}

	successor := domain.Task{
		TaskID:             uuid.NewString(),
		Name:               completed.Name,
		Description:        completed.Description,
		Category:           completed.Category,
		Tags:               completed.Tags,
		Priority:           completed.Priority,
		Status:             domain.TaskPending,
		CompleteByDate:     &next,
		EstimatedHours:     completed.EstimatedHours,
		IsRecurring:        true,
		RecurringPatternID: completed.RecurringPatternID,
		RecurringParentID:  &parentID,
		NextOccurrenceDate: &next,
		OccurrenceCount:    completed.OccurrenceCount + 1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	successor.RecalculatePriorityScore(now)
	return &successor, nil
}

// DeleteTask soft-deletes a task.
func (s *taskService) DeleteTask(ctx context.Context, taskID string, requestingUserID string) error {
	task, err := s.GetTaskByID(ctx, taskID, requestingUserID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	task.IsDeleted = true
	task.DeletedAt = &now
	task.LastUpdatedAt = now
	task.LastUpdatedBy = requestingUserID

	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		s.LogError(ctx, err, "Failed to delete task", slog.String("task_id", taskID))
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	s.LogInfo(ctx, "Task deleted", slog.String("task_id", taskID))
	return nil
}
