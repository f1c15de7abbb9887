package dto

import (
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
)

// CreateReminderRequest defines the data needed to create a new reminder.
type CreateReminderRequest struct {
	Title            string                  `json:"title" binding:"required"`
	Description      string                  `json:"description"`
	ReminderDate     time.Time               `json:"reminderDate" binding:"required"`
	ReminderType     domain.ReminderType     `json:"reminderType" binding:"required,oneof=ONE_TIME DAILY WEEKLY MONTHLY YEARLY CUSTOM LINKED_TASK LINKED_FINANCE"`
	Priority         domain.ReminderPriority `json:"priority" binding:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW"`
	CustomRepeatDays *int                    `json:"customRepeatDays" binding:"omitempty,min=1"`
	Weekdays         []int                   `json:"weekdays" binding:"omitempty,weekdays"`
	MonthDays        []int                   `json:"monthDays" binding:"omitempty,dive,min=1,max=31"`
	LinkedTaskID     *string                 `json:"linkedTaskID"`
	LinkedFinanceID  *string                 `json:"linkedFinanceID"`
}

// UpdateReminderRequest defines the data allowed for updating a reminder.
type UpdateReminderRequest struct {
	Title            *string                  `json:"title"`
	Description      *string                  `json:"description"`
	ReminderDate     *time.Time               `json:"reminderDate"`
	Priority         *domain.ReminderPriority `json:"priority" binding:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW"`
	CustomRepeatDays *int                     `json:"customRepeatDays" binding:"omitempty,min=1"`
	Weekdays         []int                    `json:"weekdays" binding:"omitempty,weekdays"`
	MonthDays        []int                    `json:"monthDays" binding:"omitempty,dive,min=1,max=31"`
}

// SnoozeReminderRequest defines how long to suppress a reminder.
type SnoozeReminderRequest struct {
	SnoozeUntil time.Time `json:"snoozeUntil" binding:"required"`
}

// ReminderResponse defines the data returned for a reminder.
type ReminderResponse struct {
	ReminderID        string                  `json:"reminderID"`
	Title             string                  `json:"title"`
	Description       string                  `json:"description"`
	ReminderDate      time.Time               `json:"reminderDate"`
	ReminderType      domain.ReminderType     `json:"reminderType"`
	Priority          domain.ReminderPriority `json:"priority"`
	CustomRepeatDays  *int                    `json:"customRepeatDays,omitempty"`
	Weekdays          []int                   `json:"weekdays,omitempty"`
	MonthDays         []int                   `json:"monthDays,omitempty"`
	LinkedTaskID      *string                 `json:"linkedTaskID,omitempty"`
	LinkedFinanceID   *string                 `json:"linkedFinanceID,omitempty"`
	IsSnoozed         bool                    `json:"isSnoozed"`
	SnoozedUntil      *time.Time              `json:"snoozedUntil,omitempty"`
	NotificationCount int                     `json:"notificationCount"`
	IsDismissed       bool                    `json:"isDismissed"`
	NextOccurrence    *time.Time              `json:"nextOccurrence,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
}

// ToReminderResponse converts a domain.Reminder to ReminderResponse DTO
func ToReminderResponse(r *domain.Reminder, today time.Time) ReminderResponse {
	resp := ReminderResponse{
		ReminderID:        r.ReminderID,
		Title:             r.Title,
		Description:       r.Description,
		ReminderDate:      r.ReminderDate,
		ReminderType:      r.ReminderType,
		Priority:          r.Priority,
		CustomRepeatDays:  r.CustomRepeatDays,
		Weekdays:          r.Weekdays,
		MonthDays:         r.MonthDays,
		LinkedTaskID:      r.LinkedTaskID,
		LinkedFinanceID:   r.LinkedFinanceID,
		IsSnoozed:         r.IsSnoozed,
		SnoozedUntil:      r.SnoozedUntil,
		NotificationCount: r.NotificationCount,
		IsDismissed:       r.IsDismissed,
		CreatedAt:         r.CreatedAt,
	}
	if next, ok := r.NextOccurrence(today); ok {
		resp.NextOccurrence = &next
	}
	return resp
}

// ToListReminderResponse converts a slice of domain.Reminder to a slice of ReminderResponse DTOs
func ToListReminderResponse(reminders []domain.Reminder, today time.Time) []ReminderResponse {
	res := make([]ReminderResponse, len(reminders))
	for i := range reminders {
		res[i] = ToReminderResponse(&reminders[i], today)
	}
	return res
}

// ListRemindersParams defines query parameters for listing reminders.
type ListRemindersParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListRemindersResponse wraps the list of reminders with the pagination token.
type ListRemindersResponse struct {
	Reminders []ReminderResponse `json:"reminders"`
	NextToken *string            `json:"nextToken,omitempty"`
}
