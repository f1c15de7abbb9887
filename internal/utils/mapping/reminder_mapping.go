package mapping

import (
	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/models"
)

// ToModelReminder converts a domain Reminder to a model Reminder
func ToModelReminder(d domain.Reminder) models.Reminder {
	return models.Reminder{
		ReminderID:        d.ReminderID,
		Title:             d.Title,
		Description:       d.Description,
		ReminderDate:      d.ReminderDate,
		ReminderType:      models.ReminderType(d.ReminderType),
		Priority:          models.ReminderPriority(d.Priority),
		CustomRepeatDays:  d.CustomRepeatDays,
		Weekdays:          d.Weekdays,
		MonthDays:         d.MonthDays,
		LinkedTaskID:      d.LinkedTaskID,
		LinkedFinanceID:   d.LinkedFinanceID,
		IsSnoozed:         d.IsSnoozed,
		SnoozedUntil:      d.SnoozedUntil,
		LastNotified:      d.LastNotified,
		NotificationCount: d.NotificationCount,
		IsDismissed:       d.IsDismissed,
		DismissedAt:       d.DismissedAt,
		SoftDelete:        ToModelSoftDelete(d.SoftDelete),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReminder converts a model Reminder to a domain Reminder
func ToDomainReminder(m models.Reminder) domain.Reminder {
	return domain.Reminder{
		ReminderID:        m.ReminderID,
		Title:             m.Title,
		Description:       m.Description,
		ReminderDate:      m.ReminderDate,
		ReminderType:      domain.ReminderType(m.ReminderType),
		Priority:          domain.ReminderPriority(m.Priority),
		CustomRepeatDays:  m.CustomRepeatDays,
		Weekdays:          m.Weekdays,
		MonthDays:         m.MonthDays,
		LinkedTaskID:      m.LinkedTaskID,
		LinkedFinanceID:   m.LinkedFinanceID,
		IsSnoozed:         m.IsSnoozed,
		SnoozedUntil:      m.SnoozedUntil,
		LastNotified:      m.LastNotified,
		NotificationCount: m.NotificationCount,
		IsDismissed:       m.IsDismissed,
		DismissedAt:       m.DismissedAt,
		SoftDelete:        ToDomainSoftDelete(m.SoftDelete),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReminderSlice converts a slice of model Reminders to a slice of domain Reminders
func ToDomainReminderSlice(ms []models.Reminder) []domain.Reminder {
	ds := make([]domain.Reminder, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReminder(m)
	}
	return ds
}
