package mapping

import (
	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		LedgerID:        d.LedgerID,
		EntryType:       models.LedgerEntryType(d.EntryType),
		Amount:          d.Amount,
		PaidAmount:      d.PaidAmount,
		RemainingAmount: d.RemainingAmount,
		Status:          models.LedgerStatus(d.Status),
		Counterparty:    d.Counterparty,
		Description:     d.Description,
		EntryDate:       d.EntryDate,
		DueDate:         d.DueDate,
		CompletionDate:  d.CompletionDate,
		SoftDelete:      ToModelSoftDelete(d.SoftDelete),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerID:        m.LedgerID,
		EntryType:       domain.LedgerEntryType(m.EntryType),
		Amount:          m.Amount,
		PaidAmount:      m.PaidAmount,
		RemainingAmount: m.RemainingAmount,
		Status:          domain.LedgerStatus(m.Status),
		Counterparty:    m.Counterparty,
		Description:     m.Description,
		EntryDate:       m.EntryDate,
		DueDate:         m.DueDate,
		CompletionDate:  m.CompletionDate,
		SoftDelete:      ToDomainSoftDelete(m.SoftDelete),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}

// ToModelPaymentRecord converts a domain PaymentRecord to a model PaymentRecord
func ToModelPaymentRecord(d domain.PaymentRecord) models.PaymentRecord {
	return models.PaymentRecord{
		PaymentID:       d.PaymentID,
		LedgerID:        d.LedgerID,
		AmountPaid:      d.AmountPaid,
		PaymentDate:     d.PaymentDate,
		PaymentMethod:   d.PaymentMethod,
		ReferenceNumber: d.ReferenceNumber,
		Notes:           d.Notes,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentRecord converts a model PaymentRecord to a domain PaymentRecord
func ToDomainPaymentRecord(m models.PaymentRecord) domain.PaymentRecord {
	return domain.PaymentRecord{
		PaymentID:       m.PaymentID,
		LedgerID:        m.LedgerID,
		AmountPaid:      m.AmountPaid,
		PaymentDate:     m.PaymentDate,
		PaymentMethod:   m.PaymentMethod,
		ReferenceNumber: m.ReferenceNumber,
		Notes:           m.Notes,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentRecordSlice converts a slice of model PaymentRecords to a slice of domain PaymentRecords
func ToDomainPaymentRecordSlice(ms []models.PaymentRecord) []domain.PaymentRecord {
	ds := make([]domain.PaymentRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPaymentRecord(m)
	}
	return ds
}
