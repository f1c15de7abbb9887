package dto

import (
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecurrencePatternRequest defines the recurrence rule submitted with a task.
type RecurrencePatternRequest struct {
	Frequency      domain.Frequency `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY CUSTOM"`
	Interval       int              `json:"interval" binding:"omitempty,min=1"`
	Weekdays       []int            `json:"weekdays" binding:"omitempty,weekdays"` // 0=Monday .. 6=Sunday
	DayOfMonth     *int             `json:"dayOfMonth" binding:"omitempty,min=1,max=31"`
	CustomDays     *int             `json:"customDays" binding:"omitempty,min=1"`
	EndDate        *time.Time       `json:"endDate"`
	MaxOccurrences *int             `json:"maxOccurrences" binding:"omitempty,min=1"`
}

// CreateTaskRequest defines the data needed to create a new task.
type CreateTaskRequest struct {
	Name           string                    `json:"name" binding:"required"`
	Description    string                    `json:"description"`
	Category       string                    `json:"category"`
	Tags           []string                  `json:"tags"`
	Priority       domain.TaskPriority       `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	CompleteByDate *time.Time                `json:"completeByDate"`
	StartDate      *time.Time                `json:"startDate"`
	EstimatedHours *decimal.Decimal          `json:"estimatedHours"`
	Recurrence     *RecurrencePatternRequest `json:"recurrence"` // Optional, makes the task recurring
}

// UpdateTaskRequest defines the data allowed for updating a task.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTaskRequest struct {
	Name           *string              `json:"name"`
	Description    *string              `json:"description"`
	Category       *string              `json:"category"`
	Tags           []string             `json:"tags"`
	Priority       *domain.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	Status         *domain.TaskStatus   `json:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	CompleteByDate *time.Time           `json:"completeByDate"`
	StartDate      *time.Time           `json:"startDate"`
	EstimatedHours *decimal.Decimal     `json:"estimatedHours"`
}

// TaskResponse defines the data returned for a task.
type TaskResponse struct {
	TaskID             string              `json:"taskID"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Category           string              `json:"category"`
	Tags               []string            `json:"tags,omitempty"`
	Priority           domain.TaskPriority `json:"priority"`
	Status             domain.TaskStatus   `json:"status"`
	PriorityScore      int                 `json:"priorityScore"`
	CompleteByDate     *time.Time          `json:"completeByDate,omitempty"`
	StartDate          *time.Time          `json:"startDate,omitempty"`
	CompletedOn        *time.Time          `json:"completedOn,omitempty"`
	EstimatedHours     *decimal.Decimal    `json:"estimatedHours,omitempty"`
	IsRecurring        bool                `json:"isRecurring"`
	RecurringPatternID *string             `json:"recurringPatternID,omitempty"`
	RecurringParentID  *string             `json:"recurringParentID,omitempty"`
	NextOccurrenceDate *time.Time          `json:"nextOccurrenceDate,omitempty"`
	OccurrenceCount    int                 `json:"occurrenceCount"`
	IsOverdue          bool                `json:"isOverdue"`
	CreatedAt          time.Time           `json:"createdAt"`
	LastUpdatedAt      time.Time           `json:"lastUpdatedAt"`
}

// ToTaskResponse converts a domain.Task to TaskResponse DTO
func ToTaskResponse(t *domain.Task, today time.Time) TaskResponse {
	return TaskResponse{
		TaskID:             t.TaskID,
		Name:               t.Name,
		Description:        t.Description,
		Category:           t.Category,
		Tags:               t.Tags,
		Priority:           t.Priority,
		Status:             t.Status,
		PriorityScore:      t.PriorityScore,
		CompleteByDate:     t.CompleteByDate,
		StartDate:          t.StartDate,
		CompletedOn:        t.CompletedOn,
		EstimatedHours:     t.EstimatedHours,
		IsRecurring:        t.IsRecurring,
		RecurringPatternID: t.RecurringPatternID,
		RecurringParentID:  t.RecurringParentID,
		NextOccurrenceDate: t.NextOccurrenceDate,
		OccurrenceCount:    t.OccurrenceCount,
		IsOverdue:          t.IsOverdue(today),
		CreatedAt:          t.CreatedAt,
		LastUpdatedAt:      t.LastUpdatedAt,
	}
}

// ToListTaskResponse converts a slice of domain.Task to a slice of TaskResponse DTOs
func ToListTaskResponse(tasks []domain.Task, today time.Time) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i := range tasks {
		res[i] = ToTaskResponse(&tasks[i], today)
	}
	return res
}

// ListTasksParams defines query parameters for listing tasks.
type ListTasksParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status" binding:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

// ListTasksResponse wraps the list of tasks with the pagination token.
type ListTasksResponse struct {
	Tasks     []TaskResponse `json:"tasks"`
	NextToken *string        `json:"nextToken,omitempty"`
}
