package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskPriority mirrors domain.TaskPriority at the persistence boundary.
type TaskPriority string

const (
	LowPriority    TaskPriority = "LOW"
	MediumPriority TaskPriority = "MEDIUM"
	HighPriority   TaskPriority = "HIGH"
)

// TaskStatus mirrors domain.TaskStatus.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// Task is the row shape of the tasks table.
type Task struct {
	TaskID             string           `db:"task_id"`
	Name               string           `db:"name"`
	Description        string           `db:"description"`
	Category           string           `db:"category"`
	Tags               []string         `db:"tags"`
	Priority           TaskPriority     `db:"priority"`
	Status             TaskStatus       `db:"status"`
	PriorityScore      int              `db:"priority_score"`
	CompleteByDate     *time.Time       `db:"complete_by_date"`     // Nullable
	StartDate          *time.Time       `db:"start_date"`           // Nullable
	CompletedOn        *time.Time       `db:"completed_on"`         // Nullable
	EstimatedHours     *decimal.Decimal `db:"estimated_hours"`      // Nullable
	IsRecurring        bool             `db:"is_recurring"`
	RecurringPatternID *string          `db:"recurring_pattern_id"` // Nullable FK
	RecurringParentID  *string          `db:"recurring_parent_id"`  // Nullable, root ancestor
	NextOccurrenceDate *time.Time       `db:"next_occurrence_date"` // Nullable
	OccurrenceCount    int              `db:"occurrence_count"`
	SoftDelete
	AuditFields
}

// RecurrencePattern is the row shape of the recurring_patterns table.
type RecurrencePattern struct {
	PatternID      string     `db:"pattern_id"`
	Frequency      string     `db:"frequency"`
	Interval       int        `db:"interval"`
	Weekdays       []int      `db:"weekdays"`         // 0=Monday .. 6=Sunday
	DayOfMonth     *int       `db:"day_of_month"`     // Nullable
	CustomDays     *int       `db:"custom_days"`      // Nullable
	EndDate        *time.Time `db:"end_date"`         // Nullable
	MaxOccurrences *int       `db:"max_occurrences"`  // Nullable
	AuditFields
}
