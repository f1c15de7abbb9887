package mapping

import (
	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/models"
)

// ToModelTask converts a domain Task to a model Task
func ToModelTask(d domain.Task) models.Task {
	return models.Task{
		TaskID:             d.TaskID,
		Name:               d.Name,
		Description:        d.Description,
		Category:           d.Category,
		Tags:               d.Tags,
		Priority:           models.TaskPriority(d.Priority),
		Status:             models.TaskStatus(d.Status),
		PriorityScore:      d.PriorityScore,
		CompleteByDate:     d.CompleteByDate,
		StartDate:          d.StartDate,
		CompletedOn:        d.CompletedOn,
		EstimatedHours:     d.EstimatedHours,
		IsRecurring:        d.IsRecurring,
		RecurringPatternID: d.RecurringPatternID,
		RecurringParentID:  d.RecurringParentID,
		NextOccurrenceDate: d.NextOccurrenceDate,
		OccurrenceCount:    d.OccurrenceCount,
		SoftDelete:         ToModelSoftDelete(d.SoftDelete),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTask converts a model Task to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	return domain.Task{
		TaskID:             m.TaskID,
		Name:               m.Name,
		Description:        m.Description,
		Category:           m.Category,
		Tags:               m.Tags,
		Priority:           domain.TaskPriority(m.Priority),
		Status:             domain.TaskStatus(m.Status),
		PriorityScore:      m.PriorityScore,
		CompleteByDate:     m.CompleteByDate,
		StartDate:          m.StartDate,
		CompletedOn:        m.CompletedOn,
		EstimatedHours:     m.EstimatedHours,
		IsRecurring:        m.IsRecurring,
		RecurringPatternID: m.RecurringPatternID,
		RecurringParentID:  m.RecurringParentID,
		NextOccurrenceDate: m.NextOccurrenceDate,
		OccurrenceCount:    m.OccurrenceCount,
		SoftDelete:         ToDomainSoftDelete(m.SoftDelete),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaskSlice converts a slice of model Tasks to a slice of domain Tasks
func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	ds := make([]domain.Task, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTask(m)
	}
	return ds
}

// ToModelRecurrencePattern converts a domain RecurrencePattern to a model RecurrencePattern
func ToModelRecurrencePattern(d domain.RecurrencePattern) models.RecurrencePattern {
	return models.RecurrencePattern{
		PatternID:      d.PatternID,
		Frequency:      string(d.Frequency),
		Interval:       d.Interval,
		Weekdays:       d.Weekdays,
		DayOfMonth:     d.DayOfMonth,
		CustomDays:     d.CustomDays,
		EndDate:        d.EndDate,
		MaxOccurrences: d.MaxOccurrences,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurrencePattern converts a model RecurrencePattern to a domain RecurrencePattern
func ToDomainRecurrencePattern(m models.RecurrencePattern) domain.RecurrencePattern {
	return domain.RecurrencePattern{
		PatternID:      m.PatternID,
		Frequency:      domain.Frequency(m.Frequency),
		Interval:       m.Interval,
		Weekdays:       m.Weekdays,
		DayOfMonth:     m.DayOfMonth,
		CustomDays:     m.CustomDays,
		EndDate:        m.EndDate,
		MaxOccurrences: m.MaxOccurrences,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
