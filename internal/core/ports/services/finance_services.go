package services

import (
	"context"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/dto"
)

// ObligationReaderSvc defines read operations for obligations and installments
type ObligationReaderSvc interface {
	// GetObligationByID retrieves an obligation with its installment series.
	GetObligationByID(ctx context.Context, obligationID string, requestingUserID string) (*dto.GetObligationResponse, error)

	// ListObligations retrieves a paginated list of obligations.
	ListObligations(ctx context.Context, userID string, params dto.ListObligationsParams) (*dto.ListObligationsResponse, error)
}

// ObligationWriterSvc defines write operations for obligations and installments
type ObligationWriterSvc interface {
	// CreateObligation persists an obligation and generates its installment
	// schedule in one transaction.
	CreateObligation(ctx context.Context, req dto.CreateObligationRequest, creatorUserID string) (*dto.GetObligationResponse, error)

	// RecalculateSchedule regenerates the pending part of an obligation's
	// schedule after its terms change, preserving completed installments.
	RecalculateSchedule(ctx context.Context, obligationID string, req dto.RecalculateObligationRequest, requestingUserID string) (*dto.GetObligationResponse, error)

	// SettleInstallment marks an installment completed, closing the obligation
	// when it was the last pending one.
	SettleInstallment(ctx context.Context, obligationID string, installmentID string, requestingUserID string) (*domain.Installment, error)

	// CloseObligation closes an obligation; it fails while pending installments remain.
	CloseObligation(ctx context.Context, obligationID string, requestingUserID string) error
}

// ObligationSvcFacade combines all obligation-related service interfaces
type ObligationSvcFacade interface {
	ObligationReaderSvc
	ObligationWriterSvc
}
