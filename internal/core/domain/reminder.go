package domain

import (
	"time"

	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
)

// ReminderType selects the due-today rule applied to a reminder.
type ReminderType string

const (
	ReminderOneTime       ReminderType = "ONE_TIME"
	ReminderDaily         ReminderType = "DAILY"
	ReminderWeekly        ReminderType = "WEEKLY"
	ReminderMonthly       ReminderType = "MONTHLY"
	ReminderYearly        ReminderType = "YEARLY"
	ReminderCustom        ReminderType = "CUSTOM"
	ReminderLinkedTask    ReminderType = "LINKED_TASK"
	ReminderLinkedFinance ReminderType = "LINKED_FINANCE"
)

// ReminderPriority is the display urgency of a reminder.
type ReminderPriority string

const (
	ReminderCritical       ReminderPriority = "CRITICAL"
	ReminderHigh           ReminderPriority = "HIGH"
	ReminderMediumPriority ReminderPriority = "MEDIUM"
	ReminderLow            ReminderPriority = "LOW"
)

// Reminder is a standalone dated notification. It carries its recurrence
// fields inline rather than referencing a RecurrencePattern; the monthly
// variant accepts a set of month days, which patterns do not.
type Reminder struct {
	ReminderID        string           `json:"reminderID"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	ReminderDate      time.Time        `json:"reminderDate"` // anchor for all recurrence math
	ReminderType      ReminderType     `json:"reminderType"`
	Priority          ReminderPriority `json:"priority"`
	CustomRepeatDays  *int             `json:"customRepeatDays,omitempty"`
	Weekdays          []int            `json:"weekdays,omitempty"`  // 0=Monday .. 6=Sunday
	MonthDays         []int            `json:"monthDays,omitempty"` // 1-31
	LinkedTaskID      *string          `json:"linkedTaskID,omitempty"`
	LinkedFinanceID   *string          `json:"linkedFinanceID,omitempty"`
	IsSnoozed         bool             `json:"isSnoozed"`
	SnoozedUntil      *time.Time       `json:"snoozedUntil,omitempty"`
	LastNotified      *time.Time       `json:"lastNotified,omitempty"`
	NotificationCount int              `json:"notificationCount"`
	IsDismissed       bool             `json:"isDismissed"`
	DismissedAt       *time.Time       `json:"dismissedAt,omitempty"`
	SoftDelete
	AuditFields
}

// IsDueAt reports whether the reminder should fire at the given instant.
// A snoozed (until a future time) or dismissed reminder is never due.
// linkedTaskDue supplies the due state of the linked task, when one exists.
func (r Reminder) IsDueAt(now time.Time, linkedTaskDue bool) bool {
	if r.IsSnoozed && r.SnoozedUntil != nil && now.Before(*r.SnoozedUntil) {
		return false
	}
	if r.IsDismissed || r.IsDeleted {
		return false
	}

	anchor := datecalc.DateOnly(r.ReminderDate)
	today := datecalc.DateOnly(now)

	switch r.ReminderType {
	case ReminderOneTime:
		return anchor.Equal(today)
	case ReminderDaily:
		return dueDaily(anchor, today)
	case ReminderWeekly:
		if len(r.Weekdays) == 0 {
			return false
		}
		return dueWeekly(anchor, today, r.Weekdays)
	case ReminderMonthly:
		return dueMonthly(anchor, today, r.MonthDays)
	case ReminderYearly:
		return dueYearly(anchor, today)
	case ReminderCustom:
		if r.CustomRepeatDays == nil {
			return false
		}
		return dueEveryNDays(anchor, today, *r.CustomRepeatDays)
	case ReminderLinkedTask:
		return r.LinkedTaskID != nil && linkedTaskDue
	case ReminderLinkedFinance:
		// Due state follows the linked obligation's installments, surfaced by
		// the reminder service rather than evaluated here.
		return false
	default:
		return false
	}
}

// NextOccurrence returns the next date on or after today the reminder fires.
// ok is false when no further occurrence exists (past one-time reminders,
// weekly reminders with no weekdays).
func (r Reminder) NextOccurrence(today time.Time) (time.Time, bool) {
	today = datecalc.DateOnly(today)
	anchor := datecalc.DateOnly(r.ReminderDate)

	switch r.ReminderType {
	case ReminderOneTime:
		if anchor.Before(today) {
			return time.Time{}, false
		}
		return anchor, true
	case ReminderDaily:
		if anchor.After(today) {
			return anchor, true
		}
		return today, true
	case ReminderWeekly:
		return datecalc.NextWeekdayOnOrAfter(today, r.Weekdays)
	case ReminderMonthly:
		if len(r.MonthDays) == 0 {
			return time.Time{}, false
		}
		candidate := today
		for i := 0; i < 31; i++ {
			for _, d := range r.MonthDays {
				if candidate.Day() == d {
					return candidate, true
				}
			}
			candidate = candidate.AddDate(0, 0, 1)
		}
		return time.Time{}, false
	case ReminderCustom:
		if r.CustomRepeatDays == nil || *r.CustomRepeatDays < 1 {
			return time.Time{}, false
		}
		if anchor.After(today) {
			return anchor, true
		}
		elapsed := datecalc.DaysBetween(anchor, today)
		remainder := elapsed % *r.CustomRepeatDays
		if remainder == 0 {
			return today, true
		}
		return today.AddDate(0, 0, *r.CustomRepeatDays-remainder), true
	default:
		return time.Time{}, false
	}
}

// CanSnooze reports whether snoozing is still meaningful.
func (r Reminder) CanSnooze() bool {
	return !r.IsDismissed && !r.IsDeleted
}
