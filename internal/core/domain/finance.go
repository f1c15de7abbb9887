package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ObligationType distinguishes the kinds of financial commitments that carry
// installment schedules.
type ObligationType string

const (
	ObligationLoan  ObligationType = "LOAN"
	ObligationSIP   ObligationType = "SIP"
	ObligationSplit ObligationType = "SPLIT"
)

// ObligationStatus is OPEN while any installment remains unsettled.
type ObligationStatus string

const (
	ObligationOpen   ObligationStatus = "OPEN"
	ObligationClosed ObligationStatus = "CLOSED"
)

// InstallmentFrequency is the cadence between installment due dates.
type InstallmentFrequency string

const (
	InstallmentMonthly InstallmentFrequency = "MONTHLY"
	InstallmentWeekly  InstallmentFrequency = "WEEKLY"
	InstallmentCustom  InstallmentFrequency = "CUSTOM"
)

// InstallmentStatus tracks settlement of a single installment.
type InstallmentStatus string

const (
	InstallmentPending   InstallmentStatus = "PENDING"
	InstallmentCompleted InstallmentStatus = "COMPLETED"
)

// Obligation is a financial commitment settled through a dated installment
// series. It owns its installments; installments refer back only by ID.
type Obligation struct {
	ObligationID     string               `json:"obligationID"`
	Name             string               `json:"name"`
	Type             ObligationType       `json:"type"`
	TotalAmount      decimal.Decimal      `json:"totalAmount"`
	InstallmentCount int                  `json:"installmentCount"`
	StartDate        time.Time            `json:"startDate"`
	Frequency        InstallmentFrequency `json:"frequency"`
	CustomDays       *int                 `json:"customDays,omitempty"` // CUSTOM cadence only
	Status           ObligationStatus     `json:"status"`
	SoftDelete
	AuditFields
}

// Installment is one dated, amount-bearing slice of an obligation's total.
type Installment struct {
	InstallmentID string            `json:"installmentID"`
	ObligationID  string            `json:"obligationID"`
	SequenceIndex int               `json:"sequenceIndex"` // 1-based position in the series
	Amount        decimal.Decimal   `json:"amount"`
	DueDate       time.Time         `json:"dueDate"`
	Status        InstallmentStatus `json:"status"`
	Description   string            `json:"description"`
	AuditFields
}

// InstallmentLabel builds the description for the installment at the given
// 1-based sequence index. Loans label their installments EMI; other types use
// the type name.
func (o Obligation) InstallmentLabel(seq int) string {
	label := string(o.Type)
	if o.Type == ObligationLoan {
		label = "EMI"
	}
	return fmt.Sprintf("%s %s %d", o.Name, label, seq)
}

// SplitEvenly divides total into count parts rounded to cents, assigning any
// leftover cents to the final part so the parts always sum to total exactly.
func SplitEvenly(total decimal.Decimal, count int) []decimal.Decimal {
	if count < 1 {
		return nil
	}
	per := total.Div(decimal.NewFromInt(int64(count))).Round(2)
	parts := make([]decimal.Decimal, count)
	for i := 0; i < count-1; i++ {
		parts[i] = per
	}
	parts[count-1] = total.Sub(per.Mul(decimal.NewFromInt(int64(count - 1))))
	return parts
}
