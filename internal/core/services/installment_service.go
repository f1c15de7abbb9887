package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/daybook/personal_manager_app/internal/apperrors"
	"github.com/daybook/personal_manager_app/internal/core/domain"
	portsrepo "github.com/daybook/personal_manager_app/internal/core/ports/repositories"
	portssvc "github.com/daybook/personal_manager_app/internal/core/ports/services"
	"github.com/daybook/personal_manager_app/internal/dto"
	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
)

var (
	ErrInvalidInstallmentCount   = errors.New("installment count must be at least 1")
	ErrAmountBelowPaid           = errors.New("new total amount is below the amount already paid")
	ErrCountBelowCompleted       = errors.New("new installment count is below the number of completed installments")
	ErrStartDateConflict         = errors.New("new start date conflicts with a settled installment")
	ErrCustomDaysRequired        = errors.New("custom frequency requires a day interval")
	ErrObligationClosed          = errors.New("obligation is closed")
	ErrObligationHasPending      = errors.New("obligation still has pending installments")
	ErrInstallmentAlreadySettled = errors.New("installment is already settled")
	ErrSettleOutOfOrder          = errors.New("earlier installments are still pending")
)

// installmentService generates and maintains the installment schedules behind
// financial obligations.
type installmentService struct {
	BaseService
	obligationRepo portsrepo.ObligationRepositoryWithTx
}

// NewInstallmentService creates a new InstallmentService.
func NewInstallmentService(obligationRepo portsrepo.ObligationRepositoryWithTx) portssvc.ObligationSvcFacade {
	return &installmentService{
		obligationRepo: obligationRepo,
	}
}

// Ensure installmentService implements the portssvc.ObligationSvcFacade interface
var _ portssvc.ObligationSvcFacade = (*installmentService)(nil)

// cadenceStep advances a date by the given number of cadence steps.
func cadenceStep(from time.Time, steps int, frequency domain.InstallmentFrequency, customDays *int) time.Time {
	switch frequency {
	case domain.InstallmentMonthly:
		return datecalc.AddMonths(from, steps)
	case domain.InstallmentWeekly:
		return from.AddDate(0, 0, 7*steps)
	case domain.InstallmentCustom:
		days := 0
		if customDays != nil {
			days = *customDays
		}
		return from.AddDate(0, 0, days*steps)
	default:
		return from
	}
}

// CreateObligation persists an obligation and its generated installment series
// in one transaction.
func (s *installmentService) CreateObligation(ctx context.Context, req dto.CreateObligationRequest, creatorUserID string) (*dto.GetObligationResponse, error) {
	if req.InstallmentCount < 1 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrInvalidInstallmentCount)
	}
	if req.Frequency == domain.InstallmentCustom && req.CustomDays == nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrCustomDaysRequired)
	}
	if req.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: total amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	obligation := domain.Obligation{
		ObligationID:     uuid.NewString(),
		Name:             req.Name,
		Type:             req.Type,
		TotalAmount:      req.TotalAmount,
		InstallmentCount: req.InstallmentCount,
		StartDate:        datecalc.DateOnly(req.StartDate),
		Frequency:        req.Frequency,
		CustomDays:       req.CustomDays,
		Status:           domain.ObligationOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	amounts := domain.SplitEvenly(obligation.TotalAmount, obligation.InstallmentCount)
	installments := make([]domain.Installment, obligation.InstallmentCount)
	for i := 0; i < obligation.InstallmentCount; i++ {
		seq := i + 1
		installments[i] = domain.Installment{
			InstallmentID: uuid.NewString(),
			ObligationID:  obligation.ObligationID,
			SequenceIndex: seq,
			Amount:        amounts[i],
			DueDate:       cadenceStep(obligation.StartDate, i, obligation.Frequency, obligation.CustomDays),
			Status:        domain.InstallmentPending,
			Description:   obligation.InstallmentLabel(seq),
			AuditFields:   obligation.AuditFields,
		}
	}

	if err := s.obligationRepo.SaveObligationWithInstallments(ctx, obligation, installments); err != nil {
		s.LogError(ctx, err, "Failed to save obligation", slog.String("obligation_id", obligation.ObligationID))
		return nil, fmt.Errorf("failed to save obligation: %w", err)
	}

	s.LogInfo(ctx, "Obligation created",
		slog.String("obligation_id", obligation.ObligationID),
		slog.Int("installments", obligation.InstallmentCount))

	return &dto.GetObligationResponse{
		Obligation:   dto.ToObligationResponse(&obligation),
		Installments: dto.ToInstallmentResponses(installments),
	}, nil
}

// GetObligationByID retrieves an obligation with its installment series.
func (s *installmentService) GetObligationByID(ctx context.Context, obligationID string, requestingUserID string) (*dto.GetObligationResponse, error) {
	obligation, installments, err := s.loadObligation(ctx, obligationID)
	if err != nil {
		return nil, err
	}
	return &dto.GetObligationResponse{
		Obligation:   dto.ToObligationResponse(obligation),
		Installments: dto.ToInstallmentResponses(installments),
	}, nil
}

func (s *installmentService) loadObligation(ctx context.Context, obligationID string) (*domain.Obligation, []domain.Installment, error) {
	obligation, err := s.obligationRepo.FindObligationByID(ctx, obligationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("obligation %s: %w", obligationID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find obligation", slog.String("obligation_id", obligationID))
		return nil, nil, fmt.Errorf("failed to find obligation %s: %w", obligationID, err)
	}

	installments, err := s.obligationRepo.FindInstallmentsByObligationID(ctx, obligationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load installments", slog.String("obligation_id", obligationID))
		return nil, nil, fmt.Errorf("failed to load installments for %s: %w", obligationID, err)
	}
	return obligation, installments, nil
}

// loadObligationForUpdate locks the obligation row and reads its installments
// on the given transaction, so validation and the following writes see one
// consistent state.
func (s *installmentService) loadObligationForUpdate(ctx context.Context, tx pgx.Tx, obligationID string) (*domain.Obligation, []domain.Installment, error) {
	obligation, err := s.obligationRepo.FindObligationByIDForUpdate(ctx, tx, obligationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("obligation %s: %w", obligationID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to lock obligation", slog.String("obligation_id", obligationID))
		return nil, nil, fmt.Errorf("failed to lock obligation %s: %w", obligationID, err)
	}

	installments, err := s.obligationRepo.FindInstallmentsByObligationIDInTx(ctx, tx, obligationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load installments", slog.String("obligation_id", obligationID))
		return nil, nil, fmt.Errorf("failed to load installments for %s: %w", obligationID, err)
	}
	return obligation, installments, nil
}

// ListObligations retrieves a paginated obligation list.
func (s *installmentService) ListObligations(ctx context.Context, userID string, params dto.ListObligationsParams) (*dto.ListObligationsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var statuses []domain.ObligationStatus
	if params.Status != nil {
		statuses = append(statuses, domain.ObligationStatus(*params.Status))
	}

	obligations, nextToken, err := s.obligationRepo.ListObligations(ctx, limit, params.NextToken, statuses)
	if err != nil {
		s.LogError(ctx, err, "Failed to list obligations")
		return nil, fmt.Errorf("failed to list obligations: %w", err)
	}

	responses := make([]dto.ObligationResponse, len(obligations))
	for i := range obligations {
		responses[i] = dto.ToObligationResponse(&obligations[i])
	}
	return &dto.ListObligationsResponse{
		Obligations: responses,
		NextToken:   nextToken,
	}, nil
}

// RecalculateSchedule rebuilds the pending part of the schedule after the
// obligation's terms change. The read, the validation and the rewrite all run
// on one transaction with the obligation row locked, so a failed or concurrent
// recalculation mutates nothing.
func (s *installmentService) RecalculateSchedule(ctx context.Context, obligationID string, req dto.RecalculateObligationRequest, requestingUserID string) (*dto.GetObligationResponse, error) {
	tx, err := s.obligationRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.obligationRepo.Rollback(ctx, tx)

	obligation, installments, err := s.loadObligationForUpdate(ctx, tx, obligationID)
	if err != nil {
		return nil, err
	}
	if obligation.Status == domain.ObligationClosed {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrObligationClosed)
	}

	paid := decimal.Zero
	completedCount := 0
	var completed []domain.Installment
	for _, ins := range installments {
		if ins.Status == domain.InstallmentCompleted {
			paid = paid.Add(ins.Amount)
			completedCount++
			completed = append(completed, ins)
		}
	}

	newAmount := obligation.TotalAmount
	if req.TotalAmount != nil {
		newAmount = *req.TotalAmount
		if newAmount.LessThan(paid) {
			return nil, fmt.Errorf("%w: paid %s, requested total %s", ErrAmountBelowPaid, paid, newAmount)
		}
	}

	newCount := obligation.InstallmentCount
	if req.InstallmentCount != nil {
		newCount = *req.InstallmentCount
		if newCount < 1 {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrInvalidInstallmentCount)
		}
		if newCount < completedCount {
			return nil, fmt.Errorf("%w: %d completed, requested count %d", ErrCountBelowCompleted, completedCount, newCount)
		}
	}

	newStart := obligation.StartDate
	if req.StartDate != nil {
		newStart = datecalc.DateOnly(*req.StartDate)
		for _, ins := range completed {
			if !ins.DueDate.Before(newStart) {
				return nil, fmt.Errorf("%w: installment %d due %s", ErrStartDateConflict, ins.SequenceIndex, ins.DueDate.Format("2006-01-02"))
			}
		}
	}

	frequency := obligation.Frequency
	if req.Frequency != nil {
		frequency = *req.Frequency
	}
	customDays := obligation.CustomDays
	if req.CustomDays != nil {
		customDays = req.CustomDays
	}
	if frequency == domain.InstallmentCustom && customDays == nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrCustomDaysRequired)
	}

	remaining := newAmount.Sub(paid)
	remainingCount := newCount - completedCount

	updated := *obligation
	updated.TotalAmount = newAmount
	updated.InstallmentCount = newCount
	updated.StartDate = newStart
	updated.Frequency = frequency
	updated.CustomDays = customDays

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = requestingUserID

	replacements := s.rebuildPendingSeries(updated, installments, remaining, remainingCount, req.StartDate != nil, now, requestingUserID)

	if err := s.obligationRepo.ReplacePendingInstallmentsInTx(ctx, tx, updated, replacements); err != nil {
		s.LogError(ctx, err, "Failed to recalculate schedule", slog.String("obligation_id", obligationID))
		return nil, fmt.Errorf("failed to recalculate schedule for %s: %w", obligationID, err)
	}
	if err := s.obligationRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Schedule recalculated",
		slog.String("obligation_id", obligationID),
		slog.Int("pending_installments", len(replacements)))

	final := append(append([]domain.Installment{}, completed...), replacements...)
	return &dto.GetObligationResponse{
		Obligation:   dto.ToObligationResponse(&updated),
		Installments: dto.ToInstallmentResponses(final),
	}, nil
}

// rebuildPendingSeries produces the full replacement pending series for an
// obligation whose terms changed. Completed installments are never touched.
func (s *installmentService) rebuildPendingSeries(obligation domain.Obligation, existing []domain.Installment, remaining decimal.Decimal, remainingCount int, startMoved bool, now time.Time, userID string) []domain.Installment {
	if remainingCount <= 0 {
		return nil
	}

	amounts := domain.SplitEvenly(remaining, remainingCount)

	// Index existing pending rows by sequence so kept ones retain their
	// identity and, when the start date did not move, their due dates.
	pendingBySeq := make(map[int]domain.Installment)
	lastDue := obligation.StartDate
	lastSeq := 0
	completedCount := 0
	for _, ins := range existing {
		if ins.Status == domain.InstallmentPending {
			pendingBySeq[ins.SequenceIndex] = ins
		} else {
			completedCount++
		}
		if ins.SequenceIndex > lastSeq {
			lastSeq = ins.SequenceIndex
			lastDue = ins.DueDate
		}
	}

	replacements := make([]domain.Installment, 0, remainingCount)
	for i := 0; i < remainingCount; i++ {
		seq := completedCount + i + 1

		var dueDate time.Time
		prior, kept := pendingBySeq[seq]
		switch {
		case startMoved:
			dueDate = cadenceStep(obligation.StartDate, seq-1, obligation.Frequency, obligation.CustomDays)
		case kept:
			dueDate = prior.DueDate
		default:
			// Appended beyond the old series, continue the cadence.
			dueDate = cadenceStep(lastDue, seq-lastSeq, obligation.Frequency, obligation.CustomDays)
		}

		installmentID := uuid.NewString()
		audit := domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		if kept {
			installmentID = prior.InstallmentID
			audit = prior.AuditFields
			audit.LastUpdatedAt = now
			audit.LastUpdatedBy = userID
		}

		replacements = append(replacements, domain.Installment{
			InstallmentID: installmentID,
			ObligationID:  obligation.ObligationID,
			SequenceIndex: seq,
			Amount:        amounts[i],
			DueDate:       dueDate,
			Status:        domain.InstallmentPending,
			Description:   obligation.InstallmentLabel(seq),
			AuditFields:   audit,
		})
	}
	return replacements
}

// SettleInstallment marks an installment completed and closes the obligation
// when nothing is left pending. Installments settle in sequence order, which
// keeps the completed set a prefix of the series and lets recalculation
// renumber the pending tail safely.
func (s *installmentService) SettleInstallment(ctx context.Context, obligationID string, installmentID string, requestingUserID string) (*domain.Installment, error) {
	tx, err := s.obligationRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.obligationRepo.Rollback(ctx, tx)

	obligation, installments, err := s.loadObligationForUpdate(ctx, tx, obligationID)
	if err != nil {
		return nil, err
	}

	var target *domain.Installment
	pendingLeft := 0
	for i := range installments {
		if installments[i].InstallmentID == installmentID {
			target = &installments[i]
		}
		if installments[i].Status == domain.InstallmentPending {
			pendingLeft++
		}
	}
	if target == nil {
		return nil, fmt.Errorf("installment %s: %w", installmentID, apperrors.ErrNotFound)
	}
	if target.Status == domain.InstallmentCompleted {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrInstallmentAlreadySettled)
	}
	for _, ins := range installments {
		if ins.Status == domain.InstallmentPending && ins.SequenceIndex < target.SequenceIndex {
			return nil, fmt.Errorf("%w: installment %d precedes %d", ErrSettleOutOfOrder, ins.SequenceIndex, target.SequenceIndex)
		}
	}

	now := time.Now().UTC()
	target.Status = domain.InstallmentCompleted
	target.LastUpdatedAt = now
	target.LastUpdatedBy = requestingUserID

	if err := s.obligationRepo.UpdateInstallmentInTx(ctx, tx, *target); err != nil {
		s.LogError(ctx, err, "Failed to settle installment", slog.String("installment_id", installmentID))
		return nil, fmt.Errorf("failed to settle installment %s: %w", installmentID, err)
	}

	fullySettled := pendingLeft == 1
	if fullySettled {
		obligation.Status = domain.ObligationClosed
		obligation.LastUpdatedAt = now
		obligation.LastUpdatedBy = requestingUserID
		if err := s.obligationRepo.UpdateObligationInTx(ctx, tx, *obligation); err != nil {
			s.LogError(ctx, err, "Failed to close obligation after final settlement", slog.String("obligation_id", obligationID))
			return nil, fmt.Errorf("failed to close obligation %s: %w", obligationID, err)
		}
	}
	if err := s.obligationRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}
	if fullySettled {
		s.LogInfo(ctx, "Obligation fully settled", slog.String("obligation_id", obligationID))
	}

	return target, nil
}

// CloseObligation closes an obligation. It fails while pending installments remain.
func (s *installmentService) CloseObligation(ctx context.Context, obligationID string, requestingUserID string) error {
	tx, err := s.obligationRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.obligationRepo.Rollback(ctx, tx)

	obligation, installments, err := s.loadObligationForUpdate(ctx, tx, obligationID)
	if err != nil {
		return err
	}
	if obligation.Status == domain.ObligationClosed {
		return nil
	}

	for _, ins := range installments {
		if ins.Status == domain.InstallmentPending {
			return fmt.Errorf("%w: installment %d", ErrObligationHasPending, ins.SequenceIndex)
		}
	}

	now := time.Now().UTC()
	obligation.Status = domain.ObligationClosed
	obligation.LastUpdatedAt = now
	obligation.LastUpdatedBy = requestingUserID

	if err := s.obligationRepo.UpdateObligationInTx(ctx, tx, *obligation); err != nil {
		s.LogError(ctx, err, "Failed to close obligation", slog.String("obligation_id", obligationID))
		return fmt.Errorf("failed to close obligation %s: %w", obligationID, err)
	}
	if err := s.obligationRepo.Commit(ctx, tx); err != nil {
		return err
	}
	s.LogInfo(ctx, "Obligation closed", slog.String("obligation_id", obligationID))
	return nil
}
