package repositories

import (
	"context"

	"github.com/daybook/personal_manager_app/internal/core/domain"
)

// ReminderReader defines read operations for reminder data
type ReminderReader interface {
	// FindReminderByID retrieves a specific reminder by its unique identifier.
	FindReminderByID(ctx context.Context, reminderID string) (*domain.Reminder, error)

	// ListReminders retrieves a paginated list of reminders using token-based pagination.
	ListReminders(ctx context.Context, limit int, nextToken *string) ([]domain.Reminder, *string, error)

	// ListActiveReminders retrieves every reminder that is neither dismissed nor deleted.
	ListActiveReminders(ctx context.Context) ([]domain.Reminder, error)
}

// ReminderWriter defines write operations for reminder data
type ReminderWriter interface {
	// SaveReminder persists a new reminder.
	SaveReminder(ctx context.Context, reminder domain.Reminder) error

	// UpdateReminder updates an existing reminder.
	UpdateReminder(ctx context.Context, reminder domain.Reminder) error
}

// ReminderRepositoryFacade combines all reminder-related repository interfaces
type ReminderRepositoryFacade interface {
	ReminderReader
	ReminderWriter
}

// ReminderRepositoryWithTx extends ReminderRepositoryFacade with transaction capabilities
type ReminderRepositoryWithTx interface {
	ReminderRepositoryFacade
	TransactionManager
}
