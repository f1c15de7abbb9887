package models

import "time"

// ReminderType mirrors domain.ReminderType.
type ReminderType string

// ReminderPriority mirrors domain.ReminderPriority.
type ReminderPriority string

// Reminder is the row shape of the reminders table.
type Reminder struct {
	ReminderID        string           `db:"reminder_id"`
	Title             string           `db:"title"`
	Description       string           `db:"description"`
	ReminderDate      time.Time        `db:"reminder_date"`
	ReminderType      ReminderType     `db:"reminder_type"`
	Priority          ReminderPriority `db:"priority"`
	CustomRepeatDays  *int             `db:"custom_repeat_days"` // Nullable
	Weekdays          []int            `db:"weekdays"`
	MonthDays         []int            `db:"month_days"`
	LinkedTaskID      *string          `db:"linked_task_id"`    // Nullable FK
	LinkedFinanceID   *string          `db:"linked_finance_id"` // Nullable FK
	IsSnoozed         bool             `db:"is_snoozed"`
	SnoozedUntil      *time.Time       `db:"snoozed_until"` // Nullable
	LastNotified      *time.Time       `db:"last_notified"` // Nullable
	NotificationCount int              `db:"notification_count"`
	IsDismissed       bool             `db:"is_dismissed"`
	DismissedAt       *time.Time       `db:"dismissed_at"` // Nullable
	SoftDelete
	AuditFields
}
