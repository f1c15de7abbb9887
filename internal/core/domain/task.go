package domain

import (
	"time"

	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
	"github.com/shopspring/decimal"
)

// TaskPriority is the user-assigned importance tier of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// TaskStatus tracks the lifecycle of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Task is a to-do item, optionally recurring through a RecurrencePattern.
// RecurringParentID always points at the root ancestor of a recurring chain,
// never the immediate predecessor, so chains stay flat.
type Task struct {
	TaskID             string           `json:"taskID"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Category           string           `json:"category"`
	Tags               []string         `json:"tags,omitempty"`
	Priority           TaskPriority     `json:"priority"`
	Status             TaskStatus       `json:"status"`
	PriorityScore      int              `json:"priorityScore"` // derived, recomputed on every save
	CompleteByDate     *time.Time       `json:"completeByDate,omitempty"`
	StartDate          *time.Time       `json:"startDate,omitempty"`
	CompletedOn        *time.Time       `json:"completedOn,omitempty"`
	EstimatedHours     *decimal.Decimal `json:"estimatedHours,omitempty"`
	IsRecurring        bool             `json:"isRecurring"`
	RecurringPatternID *string          `json:"recurringPatternID,omitempty"`
	RecurringParentID  *string          `json:"recurringParentID,omitempty"`
	NextOccurrenceDate *time.Time       `json:"nextOccurrenceDate,omitempty"`
	OccurrenceCount    int              `json:"occurrenceCount"`
	SoftDelete
	AuditFields
}

// RecalculatePriorityScore derives the sort score from the priority tier and
// due-date urgency. The urgency bonus strictly decreases as the due date moves
// out, capping at 40 for overdue items and reaching zero past two weeks.
func (t *Task) RecalculatePriorityScore(today time.Time) {
	score := 20
	switch t.Priority {
	case PriorityHigh:
		score = 30
	case PriorityMedium:
		score = 20
	case PriorityLow:
		score = 10
	}

	if t.CompleteByDate != nil {
		daysUntilDue := datecalc.DaysBetween(today, *t.CompleteByDate)
		switch {
		case daysUntilDue < 0:
			score += 40
		case daysUntilDue == 0:
			score += 35
		case daysUntilDue == 1:
			score += 30
		case daysUntilDue <= 3:
			score += 25
		case daysUntilDue <= 7:
			score += 15
		case daysUntilDue <= 14:
			score += 10
		}
	}

	t.PriorityScore = score
}

// IsOverdue reports whether the task's due date has passed without completion.
func (t Task) IsOverdue(today time.Time) bool {
	if t.CompleteByDate == nil || t.Status == TaskCompleted {
		return false
	}
	return t.CompleteByDate.Before(datecalc.DateOnly(today))
}
