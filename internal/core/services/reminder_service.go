package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/daybook/personal_manager_app/internal/apperrors"
	"github.com/daybook/personal_manager_app/internal/core/domain"
	portsrepo "github.com/daybook/personal_manager_app/internal/core/ports/repositories"
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
	"github.com/daybook/personal_manager_app/internal/dto"
	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
)

var (
	ErrReminderDismissed    = errors.New("reminder has been dismissed")
	ErrSnoozeInPast         = errors.New("snooze time must be in the future")
	ErrMissingRecurrenceCfg = errors.New("reminder type requires its recurrence configuration")
	ErrMissingLinkTarget    = errors.New("linked reminder requires a target ID")
)

// reminderService provides reminder CRUD and due evaluation, including the
// resolution of task-linked and finance-linked reminders.
type reminderService struct {
	BaseService
	reminderRepo   portsrepo.ReminderRepositoryFacade
	taskRepo       portsrepo.TaskReader
	obligationRepo portsrepo.InstallmentReader
}

// NewReminderService creates a new ReminderService.
func NewReminderService(reminderRepo portsrepo.ReminderRepositoryFacade, taskRepo portsrepo.TaskReader, obligationRepo portsrepo.InstallmentReader) portssvc.ReminderSvcFacade {
	return &reminderService{
		reminderRepo:   reminderRepo,
		taskRepo:       taskRepo,
		obligationRepo: obligationRepo,
	}
}

// Ensure reminderService implements the portssvc.ReminderSvcFacade interface
var _ portssvc.ReminderSvcFacade = (*reminderService)(nil)

// CreateReminder persists a new reminder after type-specific validation.
func (s *reminderService) CreateReminder(ctx context.Context, req dto.CreateReminderRequest, creatorUserID string) (*domain.Reminder, error) {
	switch req.ReminderType {
	case domain.ReminderWeekly:
		if len(req.Weekdays) == 0 {
			return nil, fmt.Errorf("%w: %s needs weekdays", ErrMissingRecurrenceCfg, req.ReminderType)
		}
	case domain.ReminderMonthly:
		if len(req.MonthDays) == 0 {
			return nil, fmt.Errorf("%w: %s needs month days", ErrMissingRecurrenceCfg, req.ReminderType)
		}
	case domain.ReminderCustom:
		if req.CustomRepeatDays == nil {
			return nil, fmt.Errorf("%w: %s needs a repeat interval", ErrMissingRecurrenceCfg, req.ReminderType)
		}
	case domain.ReminderLinkedTask:
		if req.LinkedTaskID == nil {
			return nil, fmt.Errorf("%w: %s needs a task", ErrMissingLinkTarget, req.ReminderType)
		}
	case domain.ReminderLinkedFinance:
		if req.LinkedFinanceID == nil {
			return nil, fmt.Errorf("%w: %s needs an obligation", ErrMissingLinkTarget, req.ReminderType)
		}
	}

	now := time.Now().UTC()
	reminder := domain.Reminder{
		ReminderID:       uuid.NewString(),
		Title:            req.Title,
		Description:      req.Description,
		ReminderDate:     req.ReminderDate,
		ReminderType:     req.ReminderType,
		Priority:         req.Priority,
		CustomRepeatDays: req.CustomRepeatDays,
		Weekdays:         req.Weekdays,
		MonthDays:        req.MonthDays,
		LinkedTaskID:     req.LinkedTaskID,
		LinkedFinanceID:  req.LinkedFinanceID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if reminder.Priority == "" {
		reminder.Priority = domain.ReminderMediumPriority
	}

	if err := s.reminderRepo.SaveReminder(ctx, reminder); err != nil {
		s.LogError(ctx, err, "Failed to save reminder", slog.String("reminder_id", reminder.ReminderID))
		return nil, fmt.Errorf("failed to save reminder: %w", err)
	}

	s.LogInfo(ctx, "Reminder created", slog.String("reminder_id", reminder.ReminderID), slog.String("type", string(reminder.ReminderType)))
	return &reminder, nil
}

// GetReminderByID retrieves a single reminder.
func (s *reminderService) GetReminderByID(ctx context.Context, reminderID string, requestingUserID string) (*domain.Reminder, error) {
	reminder, err := s.reminderRepo.FindReminderByID(ctx, reminderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("reminder %s: %w", reminderID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find reminder", slog.String("reminder_id", reminderID))
		return nil, fmt.Errorf("failed to find reminder %s: %w", reminderID, err)
	}
	return reminder, nil
}

// ListReminders retrieves a paginated reminder list.
func (s *reminderService) ListReminders(ctx context.Context, userID string, params dto.ListRemindersParams) (*dto.ListRemindersResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	reminders, nextToken, err := s.reminderRepo.ListReminders(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reminders")
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	return &dto.ListRemindersResponse{
		Reminders: dto.ToListReminderResponse(reminders, time.Now().UTC()),
		NextToken: nextToken,
	}, nil
}

// ListDueReminders evaluates every active reminder against the current moment.
// Surfaced reminders get their notification bookkeeping bumped.
func (s *reminderService) ListDueReminders(ctx context.Context, userID string) ([]domain.Reminder, error) {
	now := time.Now().UTC()

	reminders, err := s.reminderRepo.ListActiveReminders(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active reminders")
		return nil, fmt.Errorf("failed to list active reminders: %w", err)
	}

	due := make([]domain.Reminder, 0)
	for _, r := range reminders {
		isDue := false
		switch r.ReminderType {
		case domain.ReminderLinkedTask:
			isDue = r.IsDueAt(now, s.linkedTaskDue(ctx, r, now))
		case domain.ReminderLinkedFinance:
			isDue = s.linkedFinanceDue(ctx, r, now)
		default:
			isDue = r.IsDueAt(now, false)
		}
		if !isDue {
			continue
		}

		r.LastNotified = &now
		r.NotificationCount++
		r.LastUpdatedAt = now
		if err := s.reminderRepo.UpdateReminder(ctx, r); err != nil {
			// Surfacing the reminder matters more than the bookkeeping.
			s.LogError(ctx, err, "Failed to record reminder notification", slog.String("reminder_id", r.ReminderID))
		}
		due = append(due, r)
	}
	return due, nil
}

// linkedTaskDue resolves the due state of the reminder's linked task.
func (s *reminderService) linkedTaskDue(ctx context.Context, r domain.Reminder, now time.Time) bool {
	if r.LinkedTaskID == nil {
		return false
	}
	task, err := s.taskRepo.FindTaskByID(ctx, *r.LinkedTaskID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve linked task", slog.String("reminder_id", r.ReminderID), slog.String("task_id", *r.LinkedTaskID))
		return false
	}
	if task.Status == domain.TaskCompleted || task.Status == domain.TaskCancelled || task.CompleteByDate == nil {
		return false
	}
	return !task.CompleteByDate.After(datecalc.DateOnly(now))
}

// linkedFinanceDue reports whether the linked obligation has a pending
// installment due on or before today. The snooze and dismiss gates still apply.
func (s *reminderService) linkedFinanceDue(ctx context.Context, r domain.Reminder, now time.Time) bool {
	if r.IsSnoozed && r.SnoozedUntil != nil && now.Before(*r.SnoozedUntil) {
		return false
	}
	if r.IsDismissed || r.IsDeleted || r.LinkedFinanceID == nil {
		return false
	}

	installments, err := s.obligationRepo.FindInstallmentsByObligationID(ctx, *r.LinkedFinanceID)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve linked obligation", slog.String("reminder_id", r.ReminderID), slog.String("obligation_id", *r.LinkedFinanceID))
		return false
	}

	today := datecalc.DateOnly(now)
	for _, ins := range installments {
		if ins.Status == domain.InstallmentPending && !ins.DueDate.After(today) {
			return true
		}
	}
	return false
}

// UpdateReminder applies the provided field updates to a reminder.
func (s *reminderService) UpdateReminder(ctx context.Context, reminderID string, req dto.UpdateReminderRequest, requestingUserID string) (*domain.Reminder, error) {
	reminder, err := s.GetReminderByID(ctx, reminderID, requestingUserID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		reminder.Title = *req.Title
	}
	if req.Description != nil {
		reminder.Description = *req.Description
	}
	if req.ReminderDate != nil {
		reminder.ReminderDate = *req.ReminderDate
	}
	if req.Priority != nil {
		reminder.Priority = *req.Priority
	}
	if req.CustomRepeatDays != nil {
		reminder.CustomRepeatDays = req.CustomRepeatDays
	}
	if req.Weekdays != nil {
		reminder.Weekdays = req.Weekdays
	}
	if req.MonthDays != nil {
		reminder.MonthDays = req.MonthDays
	}

	now := time.Now().UTC()
	reminder.LastUpdatedAt = now
	reminder.LastUpdatedBy = requestingUserID

	if err := s.reminderRepo.UpdateReminder(ctx, *reminder); err != nil {
		s.LogError(ctx, err, "Failed to update reminder", slog.String("reminder_id", reminderID))
		return nil, fmt.Errorf("failed to update reminder %s: %w", reminderID, err)
	}
	return reminder, nil
}

// SnoozeReminder suppresses a reminder until the requested time.
func (s *reminderService) SnoozeReminder(ctx context.Context, reminderID string, req dto.SnoozeReminderRequest, requestingUserID string) (*domain.Reminder, error) {
	reminder, err := s.GetReminderByID(ctx, reminderID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if !reminder.CanSnooze() {
		return nil, ErrReminderDismissed
	}

	now := time.Now().UTC()
	if !req.SnoozeUntil.After(now) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrSnoozeInPast)
	}

	reminder.IsSnoozed = true
	reminder.SnoozedUntil = &req.SnoozeUntil
	reminder.LastUpdatedAt = now
	reminder.LastUpdatedBy = requestingUserID

	if err := s.reminderRepo.UpdateReminder(ctx, *reminder); err != nil {
		s.LogError(ctx, err, "Failed to snooze reminder", slog.String("reminder_id", reminderID))
		return nil, fmt.Errorf("failed to snooze reminder %s: %w", reminderID, err)
	}

	s.LogInfo(ctx, "Reminder snoozed", slog.String("reminder_id", reminderID), slog.Time("until", req.SnoozeUntil))
	return reminder, nil
}

// DismissReminder permanently silences a reminder.
func (s *reminderService) DismissReminder(ctx context.Context, reminderID string, requestingUserID string) (*domain.Reminder, error) {
	reminder, err := s.GetReminderByID(ctx, reminderID, requestingUserID)
	if err != nil {
		return nil, err
	}
	if reminder.IsDismissed {
		return reminder, nil
	}

	now := time.Now().UTC()
	reminder.IsDismissed = true
	reminder.DismissedAt = &now
	reminder.IsSnoozed = false
	reminder.SnoozedUntil = nil
	reminder.LastUpdatedAt = now
	reminder.LastUpdatedBy = requestingUserID

	if err := s.reminderRepo.UpdateReminder(ctx, *reminder); err != nil {
		s.LogError(ctx, err, "Failed to dismiss reminder", slog.String("reminder_id", reminderID))
		return nil, fmt.Errorf("failed to dismiss reminder %s: %w", reminderID, err)
	}

	s.LogInfo(ctx, "Reminder dismissed", slog.String("reminder_id", reminderID))
	return reminder, nil
}

// DeleteReminder soft-deletes a reminder.
func (s *reminderService) DeleteReminder(ctx context.Context, reminderID string, requestingUserID string) error {
	reminder, err := s.GetReminderByID(ctx, reminderID, requestingUserID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	reminder.IsDeleted = true
	reminder.DeletedAt = &now
	reminder.LastUpdatedAt = now
	reminder.LastUpdatedBy = requestingUserID

	if err := s.reminderRepo.UpdateReminder(ctx, *reminder); err != nil {
		s.LogError(ctx, err, "Failed to delete reminder", slog.String("reminder_id", reminderID))
		return fmt.Errorf("failed to delete reminder %s: %w", reminderID, err)
	}
	return nil
}
