// Package ledgercalc contains the pure aggregation logic behind the ledger
// reports. Every function takes an explicit today so results are reproducible.
package ledgercalc

import (
	"sort"
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
	"github.com/shopspring/decimal"
)

// Aging buckets the remaining amounts of open entries by days overdue,
// split by receivable versus payable direction.
func Aging(entries []domain.LedgerEntry, today time.Time) domain.AgingReport {
	today = datecalc.DateOnly(today)
	report := domain.AgingReport{}
	for _, e := range entries {
		if !e.IsOpen() {
			continue
		}
		var buckets *domain.AgingBuckets
		switch e.EntryType {
		case domain.LedgerReceivable:
			buckets = &report.Receivables
		case domain.LedgerPayable:
			buckets = &report.Payables
		default:
			continue
		}
		addToBucket(buckets, e, today)
	}
	return report
}

func addToBucket(b *domain.AgingBuckets, e domain.LedgerEntry, today time.Time) {
	if e.DueDate == nil || !e.DueDate.Before(today) {
		b.Current = b.Current.Add(e.RemainingAmount)
		return
	}
	switch overdue := datecalc.DaysBetween(*e.DueDate, today); {
	case overdue <= 30:
		b.Days0To30 = b.Days0To30.Add(e.RemainingAmount)
	case overdue <= 60:
		b.Days31To60 = b.Days31To60.Add(e.RemainingAmount)
	case overdue <= 90:
		b.Days61To90 = b.Days61To90.Add(e.RemainingAmount)
	default:
		b.Days90Plus = b.Days90Plus.Add(e.RemainingAmount)
	}
}

// CashFlow projects open entries due within horizonDays of today into a
// per-date series of receivable, payable and net amounts, sorted ascending.
func CashFlow(entries []domain.LedgerEntry, today time.Time, horizonDays int) []domain.CashFlowEntry {
	today = datecalc.DateOnly(today)
	end := today.AddDate(0, 0, horizonDays)

	byDate := make(map[time.Time]*domain.CashFlowEntry)
	for _, e := range entries {
		if !e.IsOpen() || e.DueDate == nil {
			continue
		}
		due := datecalc.DateOnly(*e.DueDate)
		if due.Before(today) || due.After(end) {
			continue
		}
		day, ok := byDate[due]
		if !ok {
			day = &domain.CashFlowEntry{Date: due}
			byDate[due] = day
		}
		switch e.EntryType {
		case domain.LedgerReceivable:
			day.Receivable = day.Receivable.Add(e.RemainingAmount)
		case domain.LedgerPayable:
			day.Payable = day.Payable.Add(e.RemainingAmount)
		}
		day.Net = day.Receivable.Sub(day.Payable)
	}

	projection := make([]domain.CashFlowEntry, 0, len(byDate))
	for _, day := range byDate {
		projection = append(projection, *day)
	}
	sort.Slice(projection, func(i, j int) bool {
		return projection[i].Date.Before(projection[j].Date)
	})
	return projection
}

// CounterpartyBalance nets a counterparty's open receivables against open
// payables, with overdue subtotals relative to today.
func CounterpartyBalance(counterparty string, entries []domain.LedgerEntry, today time.Time) domain.CounterpartyBalance {
	balance := domain.CounterpartyBalance{
		Counterparty: counterparty,
		Receivable:   decimal.Zero,
		Payable:      decimal.Zero,
	}
	for _, e := range entries {
		if !e.IsOpen() {
			continue
		}
		switch e.EntryType {
		case domain.LedgerReceivable:
			balance.Receivable = balance.Receivable.Add(e.RemainingAmount)
			if e.IsOverdue(today) {
				balance.OverdueReceivable = balance.OverdueReceivable.Add(e.RemainingAmount)
			}
		case domain.LedgerPayable:
			balance.Payable = balance.Payable.Add(e.RemainingAmount)
			if e.IsOverdue(today) {
				balance.OverduePayable = balance.OverduePayable.Add(e.RemainingAmount)
			}
		}
	}

	balance.Net = balance.Receivable.Sub(balance.Payable)
	switch {
	case balance.Net.IsPositive():
		balance.Status = domain.BalanceOweYou
	case balance.Net.IsNegative():
		balance.Status = domain.BalanceYouOwe
	default:
		balance.Status = domain.BalanceSettled
	}
	return balance
}
