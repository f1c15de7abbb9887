package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ObligationType mirrors domain.ObligationType.
type ObligationType string

// ObligationStatus mirrors domain.ObligationStatus.
type ObligationStatus string

// InstallmentStatus mirrors domain.InstallmentStatus.
type InstallmentStatus string

// Obligation is the row shape of the obligations table.
type Obligation struct {
	ObligationID     string           `db:"obligation_id"`
	Name             string           `db:"name"`
	Type             ObligationType   `db:"type"`
	TotalAmount      decimal.Decimal  `db:"total_amount"`
	InstallmentCount int              `db:"installment_count"`
	StartDate        time.Time        `db:"start_date"`
	Frequency        string           `db:"frequency"`
	CustomDays       *int             `db:"custom_days"` // Nullable
	Status           ObligationStatus `db:"status"`
	SoftDelete
	AuditFields
}

// Installment is the row shape of the installments table.
type Installment struct {
	InstallmentID string            `db:"installment_id"`
	ObligationID  string            `db:"obligation_id"`
	SequenceIndex int               `db:"sequence_index"`
	Amount        decimal.Decimal   `db:"amount"`
	DueDate       time.Time         `db:"due_date"`
	Status        InstallmentStatus `db:"status"`
	Description   string            `db:"description"`
	AuditFields
}
