package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
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
	"github.com/daybook/personal_manager_app/internal/utils/ledgercalc"
)

var (
	ErrPaymentExceedsRemaining = errors.New("payment exceeds the remaining balance")
	ErrPaymentNotPositive      = errors.New("payment amount must be positive")
	ErrEntryNotOpen            = errors.New("ledger entry is not open")
)

// ledgerService tracks money owed to and by counterparties and computes the
// reports over the open positions.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryWithTx
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryWithTx) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateLedgerEntry persists a new ledger entry. RECEIVABLE and PAYABLE
// entries start PENDING; RECEIVED and PAID record settled history and are
// created COMPLETED with nothing remaining.
func (s *ledgerService) CreateLedgerEntry(ctx context.Context, req dto.CreateLedgerEntryRequest, creatorUserID string) (*domain.LedgerEntry, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	entry := domain.LedgerEntry{
		LedgerID:        uuid.NewString(),
		EntryType:       req.EntryType,
		Amount:          req.Amount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: req.Amount,
		Status:          domain.LedgerPending,
		Counterparty:    req.Counterparty,
		Description:     req.Description,
		EntryDate:       datecalc.DateOnly(req.EntryDate),
		DueDate:         req.DueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if entry.EntryType == domain.LedgerReceived || entry.EntryType == domain.LedgerPaid {
		entry.PaidAmount = req.Amount
		entry.RemainingAmount = decimal.Zero
		entry.Status = domain.LedgerCompleted
		completion := entry.EntryDate
		entry.CompletionDate = &completion
	}

	if err := s.ledgerRepo.SaveLedgerEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save ledger entry", slog.String("ledger_id", entry.LedgerID))
		return nil, fmt.Errorf("failed to save ledger entry: %w", err)
	}

	s.LogInfo(ctx, "Ledger entry created",
		slog.String("ledger_id", entry.LedgerID),
		slog.String("type", string(entry.EntryType)),
		slog.String("counterparty", entry.Counterparty))
	return &entry, nil
}

// GetLedgerEntryByID retrieves a single ledger entry.
func (s *ledgerService) GetLedgerEntryByID(ctx context.Context, ledgerID string, requestingUserID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindLedgerEntryByID(ctx, ledgerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("ledger entry %s: %w", ledgerID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find ledger entry", slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to find ledger entry %s: %w", ledgerID, err)
	}
	return entry, nil
}

// ListLedgerEntries retrieves a paginated list of entries.
func (s *ledgerService) ListLedgerEntries(ctx context.Context, userID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListLedgerEntries(ctx, limit, params.NextToken, params.Counterparty)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries")
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToListLedgerEntryResponse(entries, time.Now().UTC()),
		NextToken: nextToken,
	}, nil
}

// ListOverdueEntries retrieves open entries past their due date, earliest first.
func (s *ledgerService) ListOverdueEntries(ctx context.Context, userID string) ([]domain.LedgerEntry, error) {
	entries, err := s.ledgerRepo.ListOpenLedgerEntries(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list open ledger entries")
		return nil, fmt.Errorf("failed to list open ledger entries: %w", err)
	}

	today := time.Now().UTC()
	overdue := make([]domain.LedgerEntry, 0)
	for _, e := range entries {
		if e.IsOverdue(today) {
			overdue = append(overdue, e)
		}
	}
	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(*overdue[j].DueDate)
	})
	return overdue, nil
}

// ListPayments retrieves the payment history of a ledger entry.
func (s *ledgerService) ListPayments(ctx context.Context, ledgerID string, requestingUserID string) ([]domain.PaymentRecord, error) {
	if _, err := s.GetLedgerEntryByID(ctx, ledgerID, requestingUserID); err != nil {
		return nil, err
	}
	payments, err := s.ledgerRepo.FindPaymentsByLedgerID(ctx, ledgerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to list payments for %s: %w", ledgerID, err)
	}
	return payments, nil
}

// RecordPayment applies a payment against an open entry. The entry is read
// with its row locked and the payment record plus the updated totals are
// written on the same transaction, so concurrent payments against one entry
// serialize and an oversized payment fails before anything is written.
func (s *ledgerService) RecordPayment(ctx context.Context, ledgerID string, req dto.RecordPaymentRequest, requestingUserID string) (*domain.LedgerEntry, error) {
	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	entry, err := s.lockLedgerEntry(ctx, tx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !entry.IsOpen() {
		return nil, fmt.Errorf("%w: status %s", ErrEntryNotOpen, entry.Status)
	}
	if req.AmountPaid.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrPaymentNotPositive)
	}
	if req.AmountPaid.GreaterThan(entry.RemainingAmount) {
		return nil, fmt.Errorf("%w: remaining %s, payment %s", ErrPaymentExceedsRemaining, entry.RemainingAmount, req.AmountPaid)
	}

	now := time.Now().UTC()
	payment := domain.PaymentRecord{
		PaymentID:       uuid.NewString(),
		LedgerID:        ledgerID,
		AmountPaid:      req.AmountPaid,
		PaymentDate:     datecalc.DateOnly(req.PaymentDate),
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	entry.PaidAmount = entry.PaidAmount.Add(req.AmountPaid)
	entry.RemainingAmount = entry.Amount.Sub(entry.PaidAmount)
	if entry.RemainingAmount.IsZero() {
		entry.Status = domain.LedgerCompleted
		completion := payment.PaymentDate
		entry.CompletionDate = &completion
	} else {
		entry.Status = domain.LedgerPartial
	}
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.ledgerRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
		s.LogError(ctx, err, "Failed to record payment", slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to record payment on %s: %w", ledgerID, err)
	}
	if err := s.ledgerRepo.UpdateLedgerEntryInTx(ctx, tx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to apply payment totals", slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to apply payment to %s: %w", ledgerID, err)
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("ledger_id", ledgerID),
		slog.String("amount", req.AmountPaid.String()),
		slog.String("status", string(entry.Status)))
	return entry, nil
}

// CancelLedgerEntry voids an open entry. The open check and the status write
// run on one transaction with the row locked, so a cancel racing a payment
// cannot void an entry that just completed.
func (s *ledgerService) CancelLedgerEntry(ctx context.Context, ledgerID string, requestingUserID string) (*domain.LedgerEntry, error) {
	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer s.ledgerRepo.Rollback(ctx, tx)

	entry, err := s.lockLedgerEntry(ctx, tx, ledgerID)
	if err != nil {
		return nil, err
	}
	if !entry.IsOpen() {
		return nil, fmt.Errorf("%w: status %s", ErrEntryNotOpen, entry.Status)
	}

	now := time.Now().UTC()
	entry.Status = domain.LedgerCancelled
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	if err := s.ledgerRepo.UpdateLedgerEntryInTx(ctx, tx, *entry); err != nil {
		s.LogError(ctx, err, "Failed to cancel ledger entry", slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to cancel ledger entry %s: %w", ledgerID, err)
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry cancelled", slog.String("ledger_id", ledgerID))
	return entry, nil
}

// lockLedgerEntry reads an entry with its row locked on the given transaction.
func (s *ledgerService) lockLedgerEntry(ctx context.Context, tx pgx.Tx, ledgerID string) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindLedgerEntryByIDForUpdate(ctx, tx, ledgerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("ledger entry %s: %w", ledgerID, apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to lock ledger entry", slog.String("ledger_id", ledgerID))
		return nil, fmt.Errorf("failed to lock ledger entry %s: %w", ledgerID, err)
	}
	return entry, nil
}

// GetAgingReport buckets every open entry by days overdue.
func (s *ledgerService) GetAgingReport(ctx context.Context, userID string) (*domain.AgingReport, error) {
	entries, err := s.ledgerRepo.ListOpenLedgerEntries(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for aging report")
		return nil, fmt.Errorf("failed to load entries for aging report: %w", err)
	}
	report := ledgercalc.Aging(entries, time.Now().UTC())
	return &report, nil
}

// GetCashFlowProjection projects dated open entries over the horizon.
func (s *ledgerService) GetCashFlowProjection(ctx context.Context, userID string, horizonDays int) ([]domain.CashFlowEntry, error) {
	if horizonDays <= 0 {
		horizonDays = 30
	}
	entries, err := s.ledgerRepo.ListOpenLedgerEntries(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for cash flow projection")
		return nil, fmt.Errorf("failed to load entries for cash flow projection: %w", err)
	}
	return ledgercalc.CashFlow(entries, time.Now().UTC(), horizonDays), nil
}

// GetCounterpartyBalance nets open positions against one counterparty.
func (s *ledgerService) GetCounterpartyBalance(ctx context.Context, userID string, counterparty string, asOf time.Time) (*domain.CounterpartyBalance, error) {
	entries, err := s.ledgerRepo.ListOpenLedgerEntries(ctx, &counterparty)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for counterparty balance", slog.String("counterparty", counterparty))
		return nil, fmt.Errorf("failed to load entries for counterparty %s: %w", counterparty, err)
	}
	balance := ledgercalc.CounterpartyBalance(counterparty, entries, asOf)
	return &balance, nil
}

// ListCounterpartySummaries returns one balance per counterparty with open
// entries, largest absolute net first.
func (s *ledgerService) ListCounterpartySummaries(ctx context.Context, userID string) ([]domain.CounterpartyBalance, error) {
	entries, err := s.ledgerRepo.ListOpenLedgerEntries(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for counterparty summaries")
		return nil, fmt.Errorf("failed to load entries for counterparty summaries: %w", err)
	}

	now := time.Now().UTC()
	byCounterparty := make(map[string][]domain.LedgerEntry)
	for _, e := range entries {
		byCounterparty[e.Counterparty] = append(byCounterparty[e.Counterparty], e)
	}

	summaries := make([]domain.CounterpartyBalance, 0, len(byCounterparty))
	for name, group := range byCounterparty {
		summaries = append(summaries, ledgercalc.CounterpartyBalance(name, group, now))
	}
	sort.Slice(summaries, func(i, j int) bool {
		ni, nj := summaries[i].Net.Abs(), summaries[j].Net.Abs()
		if !ni.Equal(nj) {
			return ni.GreaterThan(nj)
		}
		return summaries[i].Counterparty < summaries[j].Counterparty
	})
	return summaries, nil
}
