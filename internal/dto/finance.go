package dto

import (
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateObligationRequest defines the data needed to create an obligation with
// its installment schedule.
type CreateObligationRequest struct {
	Name             string                      `json:"name" binding:"required"`
	Type             domain.ObligationType       `json:"type" binding:"required,oneof=LOAN SIP SPLIT"`
	TotalAmount      decimal.Decimal             `json:"totalAmount" binding:"required"`
	InstallmentCount int                         `json:"installmentCount" binding:"required,min=1"`
	StartDate        time.Time                   `json:"startDate" binding:"required"`
	Frequency        domain.InstallmentFrequency `json:"frequency" binding:"required,oneof=MONTHLY WEEKLY CUSTOM"`
	CustomDays       *int                        `json:"customDays" binding:"omitempty,min=1"`
}

// RecalculateObligationRequest defines the fields a schedule recalculation may
// change. Use pointers so untouched fields keep their current values.
type RecalculateObligationRequest struct {
	TotalAmount      *decimal.Decimal             `json:"totalAmount"`
	InstallmentCount *int                         `json:"installmentCount" binding:"omitempty,min=1"`
	StartDate        *time.Time                   `json:"startDate"`
	Frequency        *domain.InstallmentFrequency `json:"frequency" binding:"omitempty,oneof=MONTHLY WEEKLY CUSTOM"`
	CustomDays       *int                         `json:"customDays" binding:"omitempty,min=1"`
}

// InstallmentResponse defines the data returned for one installment.
type InstallmentResponse struct {
	InstallmentID string                   `json:"installmentID"`
	ObligationID  string                   `json:"obligationID"`
	SequenceIndex int                      `json:"sequenceIndex"`
	Amount        decimal.Decimal          `json:"amount"`
	DueDate       time.Time                `json:"dueDate"`
	Status        domain.InstallmentStatus `json:"status"`
	Description   string                   `json:"description"`
}

// ObligationResponse defines the data returned for an obligation.
type ObligationResponse struct {
	ObligationID     string                      `json:"obligationID"`
	Name             string                      `json:"name"`
	Type             domain.ObligationType       `json:"type"`
	TotalAmount      decimal.Decimal             `json:"totalAmount"`
	InstallmentCount int                         `json:"installmentCount"`
	StartDate        time.Time                   `json:"startDate"`
	Frequency        domain.InstallmentFrequency `json:"frequency"`
	CustomDays       *int                        `json:"customDays,omitempty"`
	Status           domain.ObligationStatus     `json:"status"`
	CreatedAt        time.Time                   `json:"createdAt"`
}

// GetObligationResponse combines an obligation with its installment series.
type GetObligationResponse struct {
	Obligation   ObligationResponse    `json:"obligation"`
	Installments []InstallmentResponse `json:"installments"`
}

// ToInstallmentResponse converts a domain.Installment to InstallmentResponse DTO
func ToInstallmentResponse(ins *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		InstallmentID: ins.InstallmentID,
		ObligationID:  ins.ObligationID,
		SequenceIndex: ins.SequenceIndex,
		Amount:        ins.Amount,
		DueDate:       ins.DueDate,
		Status:        ins.Status,
		Description:   ins.Description,
	}
}

// ToInstallmentResponses converts a slice of domain.Installment to []InstallmentResponse.
func ToInstallmentResponses(installments []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i := range installments {
		responses[i] = ToInstallmentResponse(&installments[i])
	}
	return responses
}

// ToObligationResponse converts a domain.Obligation to ObligationResponse DTO
func ToObligationResponse(o *domain.Obligation) ObligationResponse {
	return ObligationResponse{
		ObligationID:     o.ObligationID,
		Name:             o.Name,
		Type:             o.Type,
		TotalAmount:      o.TotalAmount,
		InstallmentCount: o.InstallmentCount,
		StartDate:        o.StartDate,
		Frequency:        o.Frequency,
		CustomDays:       o.CustomDays,
		Status:           o.Status,
		CreatedAt:        o.CreatedAt,
	}
}

// ListObligationsParams defines query parameters for listing obligations.
type ListObligationsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
	Status    *string `form:"status" binding:"omitempty,oneof=OPEN CLOSED"`
}

// ListObligationsResponse wraps the list of obligations with the pagination token.
type ListObligationsResponse struct {
	Obligations []ObligationResponse `json:"obligations"`
	NextToken   *string              `json:"nextToken,omitempty"`
}
