package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	portsrepo "github.com/daybook/personal_manager_app/internal/core/ports/repositories"
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
	"github.com/daybook/personal_manager_app/internal/core/services"
	"github.com/daybook/personal_manager_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReminderRepository ---
type MockReminderRepository struct {
	mock.Mock
}

// Ensure MockReminderRepository implements portsrepo.ReminderRepositoryWithTx
var _ portsrepo.ReminderRepositoryWithTx = (*MockReminderRepository)(nil)

func (m *MockReminderRepository) FindReminderByID(ctx context.Context, reminderID string) (*domain.Reminder, error) {
	args := m.Called(ctx, reminderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) ListReminders(ctx context.Context, limit int, nextToken *string) ([]domain.Reminder, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Reminder), returnedNextToken, args.Error(2)
}

func (m *MockReminderRepository) ListActiveReminders(ctx context.Context) ([]domain.Reminder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderRepository) SaveReminder(ctx context.Context, reminder domain.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) UpdateReminder(ctx context.Context, reminder domain.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockReminderRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockReminderRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite Setup ---
type ReminderServiceTestSuite struct {
	suite.Suite
	mockReminderRepo   *MockReminderRepository
	mockTaskRepo       *MockTaskRepository
	mockObligationRepo *MockObligationRepository
	service            portssvc.ReminderSvcFacade
	userID             string
}

func (suite *ReminderServiceTestSuite) SetupTest() {
	suite.mockReminderRepo = new(MockReminderRepository)
	suite.mockTaskRepo = new(MockTaskRepository)
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.service = services.NewReminderService(suite.mockReminderRepo, suite.mockTaskRepo, suite.mockObligationRepo)
	suite.userID = uuid.NewString()
}

func TestReminderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReminderServiceTestSuite))
}

func (suite *ReminderServiceTestSuite) TestCreateReminder_DefaultsPriority() {
	req := dto.CreateReminderRequest{
		Title:        "Water the plants",
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderDaily,
	}

	suite.mockReminderRepo.On("SaveReminder", mock.Anything, mock.MatchedBy(func(r domain.Reminder) bool {
		return r.Priority == domain.ReminderMediumPriority && r.Title == "Water the plants"
	})).Return(nil).Once()

	reminder, err := suite.service.CreateReminder(context.Background(), req, suite.userID)

	suite.NoError(err)
	suite.Equal(domain.ReminderMediumPriority, reminder.Priority)
	suite.mockReminderRepo.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestCreateReminder_WeeklyNeedsWeekdays() {
	req := dto.CreateReminderRequest{
		Title:        "Gym",
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderWeekly,
	}

	_, err := suite.service.CreateReminder(context.Background(), req, suite.userID)

	suite.ErrorIs(err, services.ErrMissingRecurrenceCfg)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "SaveReminder", mock.Anything, mock.Anything)
}

func (suite *ReminderServiceTestSuite) TestCreateReminder_LinkedTaskNeedsTarget() {
	req := dto.CreateReminderRequest{
		Title:        "Finish the report",
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderLinkedTask,
	}

	_, err := suite.service.CreateReminder(context.Background(), req, suite.userID)

	suite.ErrorIs(err, services.ErrMissingLinkTarget)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "SaveReminder", mock.Anything, mock.Anything)
}

func (suite *ReminderServiceTestSuite) TestListDueReminders_SurfacesAndBumpsBookkeeping() {
	dueDaily := domain.Reminder{
		ReminderID:   uuid.NewString(),
		Title:        "Medication",
		ReminderDate: time.Now().UTC().AddDate(0, 0, -10),
		ReminderType: domain.ReminderDaily,
	}
	notYet := domain.Reminder{
		ReminderID:   uuid.NewString(),
		Title:        "Renew passport",
		ReminderDate: time.Now().UTC().AddDate(0, 0, 30),
		ReminderType: domain.ReminderOneTime,
	}

	suite.mockReminderRepo.On("ListActiveReminders", mock.Anything).
		Return([]domain.Reminder{dueDaily, notYet}, nil).Once()
	suite.mockReminderRepo.On("UpdateReminder", mock.Anything, mock.MatchedBy(func(r domain.Reminder) bool {
		return r.ReminderID == dueDaily.ReminderID && r.NotificationCount == 1 && r.LastNotified != nil
	})).Return(nil).Once()

	due, err := suite.service.ListDueReminders(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Require().Len(due, 1)
	suite.Equal(dueDaily.ReminderID, due[0].ReminderID)
	suite.Equal(1, due[0].NotificationCount)
	suite.mockReminderRepo.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestListDueReminders_FailedBookkeepingStillSurfaces() {
	dueDaily := domain.Reminder{
		ReminderID:   uuid.NewString(),
		Title:        "Medication",
		ReminderDate: time.Now().UTC().AddDate(0, 0, -1),
		ReminderType: domain.ReminderDaily,
	}

	suite.mockReminderRepo.On("ListActiveReminders", mock.Anything).
		Return([]domain.Reminder{dueDaily}, nil).Once()
	suite.mockReminderRepo.On("UpdateReminder", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	due, err := suite.service.ListDueReminders(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Len(due, 1)
}

func (suite *ReminderServiceTestSuite) TestListDueReminders_LinkedTask() {
	taskID := uuid.NewString()
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	reminder := domain.Reminder{
		ReminderID:   uuid.NewString(),
		Title:        "Chase the overdue task",
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderLinkedTask,
		LinkedTaskID: &taskID,
	}
	task := &domain.Task{
		TaskID:         taskID,
		Status:         domain.TaskPending,
		CompleteByDate: &yesterday,
	}

	suite.mockReminderRepo.On("ListActiveReminders", mock.Anything).
		Return([]domain.Reminder{reminder}, nil).Once()
	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()
	suite.mockReminderRepo.On("UpdateReminder", mock.Anything, mock.Anything).Return(nil).Once()

	due, err := suite.service.ListDueReminders(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Len(due, 1)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestListDueReminders_LinkedTaskCompleted() {
	taskID := uuid.NewString()
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	reminder := domain.Reminder{
		ReminderID:   uuid.NewString(),
		Title:        "Chase the task",
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderLinkedTask,
		LinkedTaskID: &taskID,
	}
	task := &domain.Task{
		TaskID:         taskID,
		Status:         domain.TaskCompleted,
		CompleteByDate: &yesterday,
	}

	suite.mockReminderRepo.On("ListActiveReminders", mock.Anything).
		Return([]domain.Reminder{reminder}, nil).Once()
	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()

	due, err := suite.service.ListDueReminders(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Empty(due)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "UpdateReminder", mock.Anything, mock.Anything)
}

func (suite *ReminderServiceTestSuite) TestListDueReminders_LinkedFinance() {
	obligationID := uuid.NewString()
	reminder := domain.Reminder{
		ReminderID:      uuid.NewString(),
		Title:           "EMI due",
		ReminderDate:    time.Now().UTC(),
		ReminderType:    domain.ReminderLinkedFinance,
		LinkedFinanceID: &obligationID,
	}
	installments := []domain.Installment{
		{
			InstallmentID: uuid.NewString(),
			ObligationID:  obligationID,
			SequenceIndex: 1,
			DueDate:       time.Now().UTC().AddDate(0, 0, -2),
			Status:        domain.InstallmentPending,
		},
		{
			InstallmentID: uuid.NewString(),
			ObligationID:  obligationID,
			SequenceIndex: 2,
			DueDate:       time.Now().UTC().AddDate(0, 0, 28),
			Status:        domain.InstallmentPending,
		},
	}

	suite.mockReminderRepo.On("ListActiveReminders", mock.Anything).
		Return([]domain.Reminder{reminder}, nil).Once()
	suite.mockObligationRepo.On("FindInstallmentsByObligationID", mock.Anything, obligationID).
		Return(installments, nil).Once()
	suite.mockReminderRepo.On("UpdateReminder", mock.Anything, mock.Anything).Return(nil).Once()

	due, err := suite.service.ListDueReminders(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Len(due, 1)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestListDueReminders_LinkedFinanceNothingDue() {
	obligationID := uuid.NewString()
	reminder := domain.Reminder{
		ReminderID:      uuid.NewString(),
		Title:           "EMI due",
		ReminderDate:    time.Now().UTC(),
		ReminderType:    domain.ReminderLinkedFinance,
		LinkedFinanceID: &obligationID,
	}
	installments := []domain.Installment{
		{
			InstallmentID: uuid.NewString(),
			ObligationID:  obligationID,
			SequenceIndex: 1,
			DueDate:       time.Now().UTC().AddDate(0, 0, -2),
			Status:        domain.InstallmentCompleted,
		},
	}

	suite.mockReminderRepo.On("ListActiveReminders", mock.Anything).
		Return([]domain.Reminder{reminder}, nil).Once()
	suite.mockObligationRepo.On("FindInstallmentsByObligationID", mock.Anything, obligationID).
		Return(installments, nil).Once()

	due, err := suite.service.ListDueReminders(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Empty(due)
}

func (suite *ReminderServiceTestSuite) TestSnoozeReminder() {
	reminder := &domain.Reminder{
		ReminderID:   uuid.NewString(),
		Title:        "Medication",
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderDaily,
	}
	until := time.Now().UTC().Add(4 * time.Hour)

	suite.mockReminderRepo.On("FindReminderByID", mock.Anything, reminder.ReminderID).Return(reminder, nil).Once()
	suite.mockReminderRepo.On("UpdateReminder", mock.Anything, mock.MatchedBy(func(r domain.Reminder) bool {
		return r.IsSnoozed && r.SnoozedUntil != nil && r.SnoozedUntil.Equal(until)
	})).Return(nil).Once()

	snoozed, err := suite.service.SnoozeReminder(context.Background(), reminder.ReminderID, dto.SnoozeReminderRequest{SnoozeUntil: until}, suite.userID)

	suite.NoError(err)
	suite.True(snoozed.IsSnoozed)
	suite.mockReminderRepo.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestSnoozeReminder_PastTime() {
	reminder := &domain.Reminder{
		ReminderID:   uuid.NewString(),
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderDaily,
	}

	suite.mockReminderRepo.On("FindReminderByID", mock.Anything, reminder.ReminderID).Return(reminder, nil).Once()

	_, err := suite.service.SnoozeReminder(context.Background(), reminder.ReminderID, dto.SnoozeReminderRequest{
		SnoozeUntil: time.Now().UTC().Add(-time.Hour),
	}, suite.userID)

	suite.ErrorIs(err, services.ErrSnoozeInPast)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "UpdateReminder", mock.Anything, mock.Anything)
}

func (suite *ReminderServiceTestSuite) TestSnoozeReminder_Dismissed() {
	reminder := &domain.Reminder{
		ReminderID:   uuid.NewString(),
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderDaily,
		IsDismissed:  true,
	}

	suite.mockReminderRepo.On("FindReminderByID", mock.Anything, reminder.ReminderID).Return(reminder, nil).Once()

	_, err := suite.service.SnoozeReminder(context.Background(), reminder.ReminderID, dto.SnoozeReminderRequest{
		SnoozeUntil: time.Now().UTC().Add(time.Hour),
	}, suite.userID)

	suite.ErrorIs(err, services.ErrReminderDismissed)
}

func (suite *ReminderServiceTestSuite) TestDismissReminder_ClearsSnooze() {
	until := time.Now().UTC().Add(2 * time.Hour)
	reminder := &domain.Reminder{
		ReminderID:   uuid.NewString(),
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderDaily,
		IsSnoozed:    true,
		SnoozedUntil: &until,
	}

	suite.mockReminderRepo.On("FindReminderByID", mock.Anything, reminder.ReminderID).Return(reminder, nil).Once()
	suite.mockReminderRepo.On("UpdateReminder", mock.Anything, mock.MatchedBy(func(r domain.Reminder) bool {
		return r.IsDismissed && !r.IsSnoozed && r.SnoozedUntil == nil && r.DismissedAt != nil
	})).Return(nil).Once()

	dismissed, err := suite.service.DismissReminder(context.Background(), reminder.ReminderID, suite.userID)

	suite.NoError(err)
	suite.True(dismissed.IsDismissed)
	suite.mockReminderRepo.AssertExpectations(suite.T())
}

func (suite *ReminderServiceTestSuite) TestDismissReminder_Idempotent() {
	reminder := &domain.Reminder{
		ReminderID:   uuid.NewString(),
		ReminderDate: time.Now().UTC(),
		ReminderType: domain.ReminderDaily,
		IsDismissed:  true,
	}

	suite.mockReminderRepo.On("FindReminderByID", mock.Anything, reminder.ReminderID).Return(reminder, nil).Once()

	dismissed, err := suite.service.DismissReminder(context.Background(), reminder.ReminderID, suite.userID)

	suite.NoError(err)
	suite.True(dismissed.IsDismissed)
	suite.mockReminderRepo.AssertNotCalled(suite.T(), "UpdateReminder", mock.Anything, mock.Anything)
}
