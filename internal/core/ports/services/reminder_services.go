package services

import (
	"context"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/dto"
)

// ReminderReaderSvc defines read operations for reminder data
type ReminderReaderSvc interface {
	// GetReminderByID retrieves a specific reminder by its ID.
	GetReminderByID(ctx context.Context, reminderID string, requestingUserID string) (*domain.Reminder, error)

	// ListReminders retrieves a paginated list of reminders.
	ListReminders(ctx context.Context, userID string, params dto.ListRemindersParams) (*dto.ListRemindersResponse, error)

	// ListDueReminders retrieves every reminder that should fire right now,
	// resolving linked task and finance due state.
	ListDueReminders(ctx context.Context, userID string) ([]domain.Reminder, error)
}

// ReminderWriterSvc defines write operations for reminder data
type ReminderWriterSvc interface {
	// CreateReminder persists a new reminder.
	CreateReminder(ctx context.Context, req dto.CreateReminderRequest, creatorUserID string) (*domain.Reminder, error)

	// UpdateReminder updates reminder details.
	UpdateReminder(ctx context.Context, reminderID string, req dto.UpdateReminderRequest, requestingUserID string) (*domain.Reminder, error)

	// SnoozeReminder suppresses a reminder until the given time.
	SnoozeReminder(ctx context.Context, reminderID string, req dto.SnoozeReminderRequest, requestingUserID string) (*domain.Reminder, error)

	// DismissReminder permanently silences a reminder.
	DismissReminder(ctx context.Context, reminderID string, requestingUserID string) (*domain.Reminder, error)

	// DeleteReminder soft-deletes a reminder.
	DeleteReminder(ctx context.Context, reminderID string, requestingUserID string) error
}

// ReminderSvcFacade combines all reminder-related service interfaces
type ReminderSvcFacade interface {
	ReminderReaderSvc
	ReminderWriterSvc
}
