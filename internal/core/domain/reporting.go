package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgingBuckets bins outstanding remaining amounts by how many days overdue
// they are. Current holds entries not yet due or without a due date.
type AgingBuckets struct {
	Current    decimal.Decimal `json:"current"`
	Days0To30  decimal.Decimal `json:"0_30"`
	Days31To60 decimal.Decimal `json:"31_60"`
	Days61To90 decimal.Decimal `json:"61_90"`
	Days90Plus decimal.Decimal `json:"90_plus"`
}

// Total sums every bucket.
func (b AgingBuckets) Total() decimal.Decimal {
	return b.Current.Add(b.Days0To30).Add(b.Days31To60).Add(b.Days61To90).Add(b.Days90Plus)
}

// AgingReport splits aging buckets by direction of the obligation.
type AgingReport struct {
	Receivables AgingBuckets `json:"receivables"`
	Payables    AgingBuckets `json:"payables"`
}

// CashFlowEntry is one day of projected inflow and outflow.
type CashFlowEntry struct {
	Date       time.Time       `json:"date"`
	Receivable decimal.Decimal `json:"receivable"`
	Payable    decimal.Decimal `json:"payable"`
	Net        decimal.Decimal `json:"net"`
}

// BalanceStatus tags the direction of a counterparty's net balance.
type BalanceStatus string

const (
	BalanceOweYou  BalanceStatus = "OWE_YOU"
	BalanceYouOwe  BalanceStatus = "YOU_OWE"
	BalanceSettled BalanceStatus = "SETTLED"
)

// CounterpartyBalance summarizes open positions against one counterparty.
type CounterpartyBalance struct {
	Counterparty      string          `json:"counterparty"`
	Receivable        decimal.Decimal `json:"receivable"`
	Payable           decimal.Decimal `json:"payable"`
	Net               decimal.Decimal `json:"net"`
	Status            BalanceStatus   `json:"status"`
	OverdueReceivable decimal.Decimal `json:"overdueReceivable"`
	OverduePayable    decimal.Decimal `json:"overduePayable"`
}
