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

// --- Mock TaskRepository ---
type MockTaskRepository struct {
	mock.Mock
}

// Ensure MockTaskRepository implements portsrepo.TaskRepositoryWithTx
var _ portsrepo.TaskRepositoryWithTx = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasks(ctx context.Context, limit int, nextToken *string, statuses []domain.TaskStatus) ([]domain.Task, *string, error) {
	args := m.Called(ctx, limit, nextToken, statuses)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Task), returnedNextToken, args.Error(2)
}

func (m *MockTaskRepository) ListDueTasks(ctx context.Context, onOrBefore time.Time) ([]domain.Task, error) {
	args := m.Called(ctx, onOrBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasksByRecurringParent(ctx context.Context, parentTaskID string) ([]domain.Task, error) {
	args := m.Called(ctx, parentTaskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) SaveCompletionWithSuccessor(ctx context.Context, completed domain.Task, successor *domain.Task) error {
	args := m.Called(ctx, completed, successor)
	return args.Error(0)
}

func (m *MockTaskRepository) FindPatternByID(ctx context.Context, patternID string) (*domain.RecurrencePattern, error) {
	args := m.Called(ctx, patternID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurrencePattern), args.Error(1)
}

func (m *MockTaskRepository) SavePattern(ctx context.Context, pattern domain.RecurrencePattern) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m *MockTaskRepository) UpdatePattern(ctx context.Context, pattern domain.RecurrencePattern) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m *MockTaskRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockTaskRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTaskRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite Setup ---
type TaskServiceTestSuite struct {
	suite.Suite
	mockTaskRepo *MockTaskRepository
	service      portssvc.TaskSvcFacade
	userID       string
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.mockTaskRepo = new(MockTaskRepository)
	suite.service = services.NewTaskService(suite.mockTaskRepo)
	suite.userID = uuid.NewString()
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}

func (suite *TaskServiceTestSuite) TestCreateTask_Simple() {
	req := dto.CreateTaskRequest{Name: "Pay electricity bill", Priority: domain.PriorityHigh}

	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.MatchedBy(func(t domain.Task) bool {
		return t.Name == req.Name && t.Status == domain.TaskPending && !t.IsRecurring
	})).Return(nil).Once()

	task, err := suite.service.CreateTask(context.Background(), req, suite.userID)

	suite.NoError(err)
	suite.NotNil(task)
	suite.Equal(domain.PriorityHigh, task.Priority)
	suite.Equal(30, task.PriorityScore, "high priority with no due date scores 30")
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCreateTask_RecurringRequiresDueDate() {
	req := dto.CreateTaskRequest{
		Name:       "Water plants",
		Recurrence: &dto.RecurrencePatternRequest{Frequency: domain.FrequencyDaily},
	}

	task, err := suite.service.CreateTask(context.Background(), req, suite.userID)

	suite.Error(err)
	suite.ErrorIs(err, services.ErrRecurrenceNeedsDueDate)
	suite.Nil(task)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveTask", mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Recurring() {
	due := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreateTaskRequest{
		Name:           "Weekly review",
		CompleteByDate: &due,
		Recurrence: &dto.RecurrencePatternRequest{
			Frequency: domain.FrequencyWeekly,
			Weekdays:  []int{0, 4},
		},
	}

	suite.mockTaskRepo.On("SavePattern", mock.Anything, mock.MatchedBy(func(p domain.RecurrencePattern) bool {
		return p.Frequency == domain.FrequencyWeekly && p.Interval == 1
	})).Return(nil).Once()
	suite.mockTaskRepo.On("SaveTask", mock.Anything, mock.MatchedBy(func(t domain.Task) bool {
		return t.IsRecurring && t.RecurringPatternID != nil && t.OccurrenceCount == 1
	})).Return(nil).Once()

	task, err := suite.service.CreateTask(context.Background(), req, suite.userID)

	suite.NoError(err)
	suite.NotNil(task)
	suite.True(task.IsRecurring)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCompleteTask_NonRecurring() {
	taskID := uuid.NewString()
	task := &domain.Task{TaskID: taskID, Name: "One-off", Status: domain.TaskPending}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()
	suite.mockTaskRepo.On("SaveCompletionWithSuccessor", mock.Anything, mock.MatchedBy(func(t domain.Task) bool {
		return t.Status == domain.TaskCompleted && t.CompletedOn != nil
	}), (*domain.Task)(nil)).Return(nil).Once()

	completed, successor, err := suite.service.CompleteTask(context.Background(), taskID, suite.userID)

	suite.NoError(err)
	suite.Equal(domain.TaskCompleted, completed.Status)
	suite.Nil(successor, "non-recurring completion spawns nothing")
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCompleteTask_AlreadyCompleted() {
	taskID := uuid.NewString()
	task := &domain.Task{TaskID: taskID, Status: domain.TaskCompleted}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()

	_, _, err := suite.service.CompleteTask(context.Background(), taskID, suite.userID)

	suite.ErrorIs(err, services.ErrTaskAlreadyCompleted)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "SaveCompletionWithSuccessor", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestCompleteTask_RecurringSpawnsSuccessor() {
	taskID := uuid.NewString()
	patternID := uuid.NewString()
	due := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{
		TaskID:             taskID,
		Name:               "Monthly rent",
		Status:             domain.TaskPending,
		CompleteByDate:     &due,
		IsRecurring:        true,
		RecurringPatternID: &patternID,
		OccurrenceCount:    1,
	}
	pattern := &domain.RecurrencePattern{PatternID: patternID, Frequency: domain.FrequencyMonthly, Interval: 1}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()
	suite.mockTaskRepo.On("FindPatternByID", mock.Anything, patternID).Return(pattern, nil).Once()
	suite.mockTaskRepo.On("SaveCompletionWithSuccessor", mock.Anything, mock.Anything, mock.MatchedBy(func(successor *domain.Task) bool {
		return successor != nil &&
			successor.OccurrenceCount == 2 &&
			successor.Status == domain.TaskPending &&
			successor.CompleteByDate.Equal(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil).Once()

	completed, successor, err := suite.service.CompleteTask(context.Background(), taskID, suite.userID)

	suite.NoError(err)
	suite.Equal(domain.TaskCompleted, completed.Status)
	suite.Require().NotNil(successor)
	suite.Equal("Monthly rent", successor.Name)
	suite.Require().NotNil(successor.RecurringParentID)
	suite.Equal(taskID, *successor.RecurringParentID, "first spawn points at the root task")
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCompleteTask_ParentStaysFlat() {
	rootID := uuid.NewString()
	taskID := uuid.NewString()
	patternID := uuid.NewString()
	due := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{
		TaskID:             taskID,
		Status:             domain.TaskPending,
		CompleteByDate:     &due,
		IsRecurring:        true,
		RecurringPatternID: &patternID,
		RecurringParentID:  &rootID,
		OccurrenceCount:    3,
	}
	pattern := &domain.RecurrencePattern{PatternID: patternID, Frequency: domain.FrequencyDaily, Interval: 1}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()
	suite.mockTaskRepo.On("FindPatternByID", mock.Anything, patternID).Return(pattern, nil).Once()
	suite.mockTaskRepo.On("SaveCompletionWithSuccessor", mock.Anything, mock.Anything, mock.MatchedBy(func(successor *domain.Task) bool {
		return successor != nil && *successor.RecurringParentID == rootID
	})).Return(nil).Once()

	_, successor, err := suite.service.CompleteTask(context.Background(), taskID, suite.userID)

	suite.NoError(err)
	suite.Require().NotNil(successor)
	suite.Equal(rootID, *successor.RecurringParentID, "chain stays flat, never the immediate predecessor")
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCompleteTask_StopsAtEndDate() {
	taskID := uuid.NewString()
	patternID := uuid.NewString()
	due := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{
		TaskID:             taskID,
		Status:             domain.TaskPending,
		CompleteByDate:     &due,
		IsRecurring:        true,
		RecurringPatternID: &patternID,
		OccurrenceCount:    1,
	}
	pattern := &domain.RecurrencePattern{
		PatternID: patternID,
		Frequency: domain.FrequencyMonthly,
		Interval:  1,
		EndDate:   &endDate, // next occurrence 2024-07-01 is past this
	}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()
	suite.mockTaskRepo.On("FindPatternByID", mock.Anything, patternID).Return(pattern, nil).Once()
	suite.mockTaskRepo.On("SaveCompletionWithSuccessor", mock.Anything, mock.Anything, (*domain.Task)(nil)).Return(nil).Once()

	_, successor, err := suite.service.CompleteTask(context.Background(), taskID, suite.userID)

	suite.NoError(err)
	suite.Nil(successor, "end date reached, chain stops")
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCompleteTask_StopsAtMaxOccurrences() {
	taskID := uuid.NewString()
	patternID := uuid.NewString()
	due := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	maxOccurrences := 3
	task := &domain.Task{
		TaskID:             taskID,
		Status:             domain.TaskPending,
		CompleteByDate:     &due,
		IsRecurring:        true,
		RecurringPatternID: &patternID,
		OccurrenceCount:    3,
	}
	pattern := &domain.RecurrencePattern{
		PatternID:      patternID,
		Frequency:      domain.FrequencyDaily,
		Interval:       1,
		MaxOccurrences: &maxOccurrences,
	}

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()
	suite.mockTaskRepo.On("FindPatternByID", mock.Anything, patternID).Return(pattern, nil).Once()
	suite.mockTaskRepo.On("SaveCompletionWithSuccessor", mock.Anything, mock.Anything, (*domain.Task)(nil)).Return(nil).Once()

	_, successor, err := suite.service.CompleteTask(context.Background(), taskID, suite.userID)

	suite.NoError(err)
	suite.Nil(successor, "occurrence cap reached, chain stops")
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestListDueTasks_OrdersByPriorityScore() {
	today := time.Now().UTC()
	yesterday := today.AddDate(0, 0, -1)
	nextWeek := today.AddDate(0, 0, 6)
	tasks := []domain.Task{
		{TaskID: "low", Priority: domain.PriorityLow, CompleteByDate: &nextWeek, Status: domain.TaskPending},
		{TaskID: "urgent", Priority: domain.PriorityHigh, CompleteByDate: &yesterday, Status: domain.TaskPending},
	}

	suite.mockTaskRepo.On("ListDueTasks", mock.Anything, mock.Anything).Return(tasks, nil).Once()

	due, err := suite.service.ListDueTasks(context.Background(), suite.userID)

	suite.NoError(err)
	suite.Require().Len(due, 2)
	suite.Equal("urgent", due[0].TaskID, "overdue high priority sorts first")
	suite.Greater(due[0].PriorityScore, due[1].PriorityScore)
	suite.mockTaskRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestUpdateTask_RejectsCompletionViaUpdate() {
	taskID := uuid.NewString()
	task := &domain.Task{TaskID: taskID, Status: domain.TaskPending}
	completedStatus := domain.TaskCompleted

	suite.mockTaskRepo.On("FindTaskByID", mock.Anything, taskID).Return(task, nil).Once()

	_, err := suite.service.UpdateTask(context.Background(), taskID, dto.UpdateTaskRequest{Status: &completedStatus}, suite.userID)

	suite.Error(err)
	suite.mockTaskRepo.AssertNotCalled(suite.T(), "UpdateTask", mock.Anything, mock.Anything)
}

func TestTaskServiceStandalone(t *testing.T) {
	// Completion error from the repository propagates unchanged semantics.
	repo := new(MockTaskRepository)
	svc := services.NewTaskService(repo)
	taskID := uuid.NewString()
	repo.On("FindTaskByID", mock.Anything, taskID).Return((*domain.Task)(nil), assert.AnError).Once()

	_, _, err := svc.CompleteTask(context.Background(), taskID, "tester")
	assert.Error(t, err)
}
