package mapping

import (
	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/models"
)

// ToModelObligation converts a domain Obligation to a model Obligation
func ToModelObligation(d domain.Obligation) models.Obligation {
	return models.Obligation{
		ObligationID:     d.ObligationID,
		Name:             d.Name,
		Type:             models.ObligationType(d.Type),
		TotalAmount:      d.TotalAmount,
		InstallmentCount: d.InstallmentCount,
		StartDate:        d.StartDate,
		Frequency:        string(d.Frequency),
		CustomDays:       d.CustomDays,
		Status:           models.ObligationStatus(d.Status),
		SoftDelete:       ToModelSoftDelete(d.SoftDelete),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainObligation converts a model Obligation to a domain Obligation
func ToDomainObligation(m models.Obligation) domain.Obligation {
	return domain.Obligation{
		ObligationID:     m.ObligationID,
		Name:             m.Name,
		Type:             domain.ObligationType(m.Type),
		TotalAmount:      m.TotalAmount,
		InstallmentCount: m.InstallmentCount,
		StartDate:        m.StartDate,
		Frequency:        domain.InstallmentFrequency(m.Frequency),
		CustomDays:       m.CustomDays,
		Status:           domain.ObligationStatus(m.Status),
		SoftDelete:       ToDomainSoftDelete(m.SoftDelete),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainObligationSlice converts a slice of model Obligations to a slice of domain Obligations
func ToDomainObligationSlice(ms []models.Obligation) []domain.Obligation {
	ds := make([]domain.Obligation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainObligation(m)
	}
	return ds
}

// ToModelInstallment converts a domain Installment to a model Installment
func ToModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID: d.InstallmentID,
		ObligationID:  d.ObligationID,
		SequenceIndex: d.SequenceIndex,
		Amount:        d.Amount,
		DueDate:       d.DueDate,
		Status:        models.InstallmentStatus(d.Status),
		Description:   d.Description,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstallment converts a model Installment to a domain Installment
func ToDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID: m.InstallmentID,
		ObligationID:  m.ObligationID,
		SequenceIndex: m.SequenceIndex,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		Status:        domain.InstallmentStatus(m.Status),
		Description:   m.Description,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstallmentSlice converts a slice of model Installments to a slice of domain Installments
func ToDomainInstallmentSlice(ms []models.Installment) []domain.Installment {
	ds := make([]domain.Installment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstallment(m)
	}
	return ds
}
