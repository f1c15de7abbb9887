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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ObligationRepository ---
type MockObligationRepository struct {
	mock.Mock
}

// Ensure MockObligationRepository implements portsrepo.ObligationRepositoryWithTx
var _ portsrepo.ObligationRepositoryWithTx = (*MockObligationRepository)(nil)

func (m *MockObligationRepository) FindObligationByID(ctx context.Context, obligationID string) (*domain.Obligation, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) ListObligations(ctx context.Context, limit int, nextToken *string, statuses []domain.ObligationStatus) ([]domain.Obligation, *string, error) {
	args := m.Called(ctx, limit, nextToken, statuses)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Obligation), returnedNextToken, args.Error(2)
}

func (m *MockObligationRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockObligationRepository) FindInstallmentsByObligationID(ctx context.Context, obligationID string) ([]domain.Installment, error) {
	args := m.Called(ctx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockObligationRepository) SaveObligationWithInstallments(ctx context.Context, obligation domain.Obligation, installments []domain.Installment) error {
	args := m.Called(ctx, obligation, installments)
	return args.Error(0)
}

func (m *MockObligationRepository) FindObligationByIDForUpdate(ctx context.Context, tx pgx.Tx, obligationID string) (*domain.Obligation, error) {
	args := m.Called(ctx, tx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Obligation), args.Error(1)
}

func (m *MockObligationRepository) FindInstallmentsByObligationIDInTx(ctx context.Context, tx pgx.Tx, obligationID string) ([]domain.Installment, error) {
	args := m.Called(ctx, tx, obligationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Installment), args.Error(1)
}

func (m *MockObligationRepository) ReplacePendingInstallmentsInTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation, replacements []domain.Installment) error {
	args := m.Called(ctx, tx, obligation, replacements)
	return args.Error(0)
}

func (m *MockObligationRepository) UpdateObligationInTx(ctx context.Context, tx pgx.Tx, obligation domain.Obligation) error {
	args := m.Called(ctx, tx, obligation)
	return args.Error(0)
}

func (m *MockObligationRepository) UpdateInstallmentInTx(ctx context.Context, tx pgx.Tx, installment domain.Installment) error {
	args := m.Called(ctx, tx, installment)
	return args.Error(0)
}

func (m *MockObligationRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *MockObligationRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockObligationRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite Setup ---
type InstallmentServiceTestSuite struct {
	suite.Suite
	mockObligationRepo *MockObligationRepository
	service            portssvc.ObligationSvcFacade
	userID             string
}

func (suite *InstallmentServiceTestSuite) SetupTest() {
	suite.mockObligationRepo = new(MockObligationRepository)
	suite.service = services.NewInstallmentService(suite.mockObligationRepo)
	suite.userID = uuid.NewString()
}

func TestInstallmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InstallmentServiceTestSuite))
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// expectTx wires the transaction lifecycle on the mock. Rollback always runs
// via defer; Commit only on the success paths.
func (suite *InstallmentServiceTestSuite) expectTx() {
	suite.mockObligationRepo.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockObligationRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Maybe()
	suite.mockObligationRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

// carLoanObligation builds a 12000 / 12 monthly loan starting 2024-01-01
// with the first settledCount installments already completed.
func carLoanObligation(settledCount int) (*domain.Obligation, []domain.Installment) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	obligation := &domain.Obligation{
		ObligationID:     uuid.NewString(),
		Name:             "Car Loan",
		Type:             domain.ObligationLoan,
		TotalAmount:      money("12000"),
		InstallmentCount: 12,
		StartDate:        start,
		Frequency:        domain.InstallmentMonthly,
		Status:           domain.ObligationOpen,
	}
	installments := make([]domain.Installment, 12)
	for i := 0; i < 12; i++ {
		status := domain.InstallmentPending
		if i < settledCount {
			status = domain.InstallmentCompleted
		}
		installments[i] = domain.Installment{
			InstallmentID: uuid.NewString(),
			ObligationID:  obligation.ObligationID,
			SequenceIndex: i + 1,
			Amount:        money("1000"),
			DueDate:       start.AddDate(0, i, 0),
			Status:        status,
		}
	}
	return obligation, installments
}

func (suite *InstallmentServiceTestSuite) expectLockedLoad(obligation *domain.Obligation, installments []domain.Installment) {
	suite.mockObligationRepo.On("FindObligationByIDForUpdate", mock.Anything, mock.Anything, obligation.ObligationID).Return(obligation, nil).Once()
	suite.mockObligationRepo.On("FindInstallmentsByObligationIDInTx", mock.Anything, mock.Anything, obligation.ObligationID).Return(installments, nil).Once()
}

func (suite *InstallmentServiceTestSuite) TestCreateObligation_MonthlyEvenSplit() {
	req := dto.CreateObligationRequest{
		Name:             "Car Loan",
		Type:             domain.ObligationLoan,
		TotalAmount:      money("12000"),
		InstallmentCount: 12,
		StartDate:        time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Frequency:        domain.InstallmentMonthly,
	}

	suite.mockObligationRepo.On("SaveObligationWithInstallments", mock.Anything, mock.Anything, mock.MatchedBy(func(installments []domain.Installment) bool {
		if len(installments) != 12 {
			return false
		}
		for i, ins := range installments {
			if !ins.Amount.Equal(money("1000")) || ins.Status != domain.InstallmentPending {
				return false
			}
			expected := time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
			if !ins.DueDate.Equal(expected) {
				return false
			}
		}
		return true
	})).Return(nil).Once()

	resp, err := suite.service.CreateObligation(context.Background(), req, suite.userID)

	suite.NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Installments, 12)
	suite.Equal("Car Loan EMI 1", resp.Installments[0].Description)
	suite.Equal("Car Loan EMI 12", resp.Installments[11].Description)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestCreateObligation_InvalidCount() {
	req := dto.CreateObligationRequest{
		Name:             "Bad",
		Type:             domain.ObligationLoan,
		TotalAmount:      money("100"),
		InstallmentCount: 0,
		StartDate:        time.Now(),
		Frequency:        domain.InstallmentMonthly,
	}

	_, err := suite.service.CreateObligation(context.Background(), req, suite.userID)

	suite.ErrorIs(err, services.ErrInvalidInstallmentCount)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "SaveObligationWithInstallments", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestCreateObligation_CustomNeedsDays() {
	req := dto.CreateObligationRequest{
		Name:             "Chit fund",
		Type:             domain.ObligationSplit,
		TotalAmount:      money("5000"),
		InstallmentCount: 5,
		StartDate:        time.Now(),
		Frequency:        domain.InstallmentCustom,
	}

	_, err := suite.service.CreateObligation(context.Background(), req, suite.userID)

	suite.ErrorIs(err, services.ErrCustomDaysRequired)
}

func (suite *InstallmentServiceTestSuite) TestRecalculateSchedule_GrownTotalSplitsAcrossPending() {
	// Three settled at 1000 each, then the total grows to 15000. The nine
	// pending installments split the remaining 12000: 8 x 1333.33 + 1333.36.
	obligation, installments := carLoanObligation(3)
	newTotal := money("15000")

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)
	suite.mockObligationRepo.On("ReplacePendingInstallmentsInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(o domain.Obligation) bool {
		return o.TotalAmount.Equal(newTotal)
	}), mock.MatchedBy(func(replacements []domain.Installment) bool {
		if len(replacements) != 9 {
			return false
		}
		sum := decimal.Zero
		for i, ins := range replacements {
			sum = sum.Add(ins.Amount)
			if i < 8 && !ins.Amount.Equal(money("1333.33")) {
				return false
			}
		}
		last := replacements[8]
		return last.Amount.Equal(money("1333.36")) && sum.Equal(money("12000"))
	})).Return(nil).Once()

	resp, err := suite.service.RecalculateSchedule(context.Background(), obligation.ObligationID, dto.RecalculateObligationRequest{TotalAmount: &newTotal}, suite.userID)

	suite.NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Installments, 12, "3 completed + 9 rebuilt pending")

	// Pending amounts plus paid must reconstruct the new total exactly.
	sum := decimal.Zero
	for _, ins := range resp.Installments {
		sum = sum.Add(ins.Amount)
	}
	suite.True(sum.Equal(newTotal), "got %s", sum)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestRecalculateSchedule_CountBelowCompleted() {
	obligation, installments := carLoanObligation(3)
	newCount := 2

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)

	_, err := suite.service.RecalculateSchedule(context.Background(), obligation.ObligationID, dto.RecalculateObligationRequest{InstallmentCount: &newCount}, suite.userID)

	suite.ErrorIs(err, services.ErrCountBelowCompleted)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "ReplacePendingInstallmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestRecalculateSchedule_AmountBelowPaid() {
	obligation, installments := carLoanObligation(3) // paid = 3000
	newTotal := money("2500")

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)

	_, err := suite.service.RecalculateSchedule(context.Background(), obligation.ObligationID, dto.RecalculateObligationRequest{TotalAmount: &newTotal}, suite.userID)

	suite.ErrorIs(err, services.ErrAmountBelowPaid)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "ReplacePendingInstallmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestRecalculateSchedule_StartDateConflict() {
	obligation, installments := carLoanObligation(3) // settled through 2024-03-01
	newStart := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)

	_, err := suite.service.RecalculateSchedule(context.Background(), obligation.ObligationID, dto.RecalculateObligationRequest{StartDate: &newStart}, suite.userID)

	suite.ErrorIs(err, services.ErrStartDateConflict)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "ReplacePendingInstallmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestRecalculateSchedule_CountGrowsAppendsCadence() {
	obligation, installments := carLoanObligation(0)
	newCount := 14

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)
	suite.mockObligationRepo.On("ReplacePendingInstallmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(replacements []domain.Installment) bool {
		if len(replacements) != 14 {
			return false
		}
		// Existing pending rows keep their dates, appended ones continue monthly.
		jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
		feb := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
		return replacements[12].DueDate.Equal(jan) && replacements[13].DueDate.Equal(feb)
	})).Return(nil).Once()

	resp, err := suite.service.RecalculateSchedule(context.Background(), obligation.ObligationID, dto.RecalculateObligationRequest{InstallmentCount: &newCount}, suite.userID)

	suite.NoError(err)
	suite.Len(resp.Installments, 14)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestRecalculateSchedule_SeriesStaysMonotonic() {
	// After a partial settlement and a grown total, the full series must still
	// number 1..N without gaps or duplicates and its due dates must not move
	// backwards.
	obligation, installments := carLoanObligation(3)
	newTotal := money("15000")

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)
	suite.mockObligationRepo.On("ReplacePendingInstallmentsInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	resp, err := suite.service.RecalculateSchedule(context.Background(), obligation.ObligationID, dto.RecalculateObligationRequest{TotalAmount: &newTotal}, suite.userID)

	suite.NoError(err)
	suite.Require().NotNil(resp)
	suite.Require().Len(resp.Installments, 12)
	for i, ins := range resp.Installments {
		suite.Equal(i+1, ins.SequenceIndex, "sequence at position %d", i)
		if i > 0 {
			suite.False(ins.DueDate.Before(resp.Installments[i-1].DueDate),
				"due date of %d before its predecessor", ins.SequenceIndex)
		}
	}
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestSettleInstallment_ClosesWhenLast() {
	obligation, installments := carLoanObligation(11) // only the last remains pending
	last := installments[11]

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)
	suite.mockObligationRepo.On("UpdateInstallmentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(ins domain.Installment) bool {
		return ins.InstallmentID == last.InstallmentID && ins.Status == domain.InstallmentCompleted
	})).Return(nil).Once()
	suite.mockObligationRepo.On("UpdateObligationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(o domain.Obligation) bool {
		return o.Status == domain.ObligationClosed
	})).Return(nil).Once()

	settled, err := suite.service.SettleInstallment(context.Background(), obligation.ObligationID, last.InstallmentID, suite.userID)

	suite.NoError(err)
	suite.Equal(domain.InstallmentCompleted, settled.Status)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestSettleInstallment_AlreadySettled() {
	obligation, installments := carLoanObligation(3)

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)

	_, err := suite.service.SettleInstallment(context.Background(), obligation.ObligationID, installments[0].InstallmentID, suite.userID)

	suite.ErrorIs(err, services.ErrInstallmentAlreadySettled)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "UpdateInstallmentInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestSettleInstallment_OutOfOrderRejected() {
	// Settling the fifth installment while one through four are still pending
	// would punch a hole in the completed prefix, so it must be refused with
	// nothing written.
	obligation, installments := carLoanObligation(0)
	fifth := installments[4]

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)

	_, err := suite.service.SettleInstallment(context.Background(), obligation.ObligationID, fifth.InstallmentID, suite.userID)

	suite.ErrorIs(err, services.ErrSettleOutOfOrder)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "UpdateInstallmentInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestSettleInstallment_NextPendingAccepted() {
	obligation, installments := carLoanObligation(3)
	fourth := installments[3]

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)
	suite.mockObligationRepo.On("UpdateInstallmentInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(ins domain.Installment) bool {
		return ins.InstallmentID == fourth.InstallmentID && ins.Status == domain.InstallmentCompleted
	})).Return(nil).Once()

	settled, err := suite.service.SettleInstallment(context.Background(), obligation.ObligationID, fourth.InstallmentID, suite.userID)

	suite.NoError(err)
	suite.Equal(4, settled.SequenceIndex)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}

func (suite *InstallmentServiceTestSuite) TestCloseObligation_FailsWithPending() {
	obligation, installments := carLoanObligation(3)

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)

	err := suite.service.CloseObligation(context.Background(), obligation.ObligationID, suite.userID)

	suite.ErrorIs(err, services.ErrObligationHasPending)
	suite.mockObligationRepo.AssertNotCalled(suite.T(), "UpdateObligationInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *InstallmentServiceTestSuite) TestCloseObligation_AllSettled() {
	obligation, installments := carLoanObligation(12)

	suite.expectTx()
	suite.expectLockedLoad(obligation, installments)
	suite.mockObligationRepo.On("UpdateObligationInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(o domain.Obligation) bool {
		return o.Status == domain.ObligationClosed
	})).Return(nil).Once()

	err := suite.service.CloseObligation(context.Background(), obligation.ObligationID, suite.userID)

	suite.NoError(err)
	suite.mockObligationRepo.AssertExpectations(suite.T())
}
