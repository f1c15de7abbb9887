package ledgercalc

import (
	"testing"
	"time"

	"github.com/daybook/personal_manager_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func openEntry(entryType domain.LedgerEntryType, remaining string, due *time.Time, counterparty string) domain.LedgerEntry {
	amount := decimal.RequireFromString(remaining)
	return domain.LedgerEntry{
		EntryType:       entryType,
		Amount:          amount,
		RemainingAmount: amount,
		Status:          domain.LedgerPending,
		Counterparty:    counterparty,
		DueDate:         due,
	}
}

func TestAging(t *testing.T) {
	today := day(2024, time.June, 15)
	ptr := func(t time.Time) *time.Time { return &t }

	entries := []domain.LedgerEntry{
		openEntry(domain.LedgerReceivable, "100", ptr(today.AddDate(0, 0, 5)), "a"),    // not yet due
		openEntry(domain.LedgerReceivable, "200", nil, "a"),                           // no due date
		openEntry(domain.LedgerReceivable, "300", ptr(today.AddDate(0, 0, -10)), "a"), // 10 days overdue
		openEntry(domain.LedgerReceivable, "400", ptr(today.AddDate(0, 0, -45)), "a"), // 45 days overdue
		openEntry(domain.LedgerPayable, "500", ptr(today.AddDate(0, 0, -75)), "b"),    // 75 days overdue
		openEntry(domain.LedgerPayable, "600", ptr(today.AddDate(0, 0, -120)), "b"),   // 120 days overdue
	}
	// completed entries never age
	settled := openEntry(domain.LedgerReceivable, "999", ptr(today.AddDate(0, 0, -200)), "a")
	settled.Status = domain.LedgerCompleted
	entries = append(entries, settled)

	report := Aging(entries, today)

	assert.True(t, report.Receivables.Current.Equal(decimal.RequireFromString("300")))
	assert.True(t, report.Receivables.Days0To30.Equal(decimal.RequireFromString("300")))
	assert.True(t, report.Receivables.Days31To60.Equal(decimal.RequireFromString("400")))
	assert.True(t, report.Receivables.Days61To90.IsZero())
	assert.True(t, report.Receivables.Days90Plus.IsZero())
	assert.True(t, report.Payables.Days61To90.Equal(decimal.RequireFromString("500")))
	assert.True(t, report.Payables.Days90Plus.Equal(decimal.RequireFromString("600")))
	assert.True(t, report.Receivables.Total().Equal(decimal.RequireFromString("1000")))
}

func TestAgingBucketBoundaries(t *testing.T) {
	today := day(2024, time.June, 15)
	ptr := func(t time.Time) *time.Time { return &t }

	boundaries := []struct {
		daysOverdue int
		check       func(b domain.AgingBuckets) decimal.Decimal
	}{
		{0, func(b domain.AgingBuckets) decimal.Decimal { return b.Current }},
		{1, func(b domain.AgingBuckets) decimal.Decimal { return b.Days0To30 }},
		{30, func(b domain.AgingBuckets) decimal.Decimal { return b.Days0To30 }},
		{31, func(b domain.AgingBuckets) decimal.Decimal { return b.Days31To60 }},
		{60, func(b domain.AgingBuckets) decimal.Decimal { return b.Days31To60 }},
		{61, func(b domain.AgingBuckets) decimal.Decimal { return b.Days61To90 }},
		{90, func(b domain.AgingBuckets) decimal.Decimal { return b.Days61To90 }},
		{91, func(b domain.AgingBuckets) decimal.Decimal { return b.Days90Plus }},
	}
	for _, bc := range boundaries {
		entry := openEntry(domain.LedgerReceivable, "50", ptr(today.AddDate(0, 0, -bc.daysOverdue)), "a")
		report := Aging([]domain.LedgerEntry{entry}, today)
		assert.True(t, bc.check(report.Receivables).Equal(decimal.RequireFromString("50")),
			"entry %d days overdue landed in the wrong bucket", bc.daysOverdue)
	}
}

func TestCashFlow(t *testing.T) {
	today := day(2024, time.June, 1)
	ptr := func(t time.Time) *time.Time { return &t }

	entries := []domain.LedgerEntry{
		openEntry(domain.LedgerReceivable, "1000", ptr(day(2024, time.June, 10)), "a"),
		openEntry(domain.LedgerPayable, "400", ptr(day(2024, time.June, 10)), "b"),
		openEntry(domain.LedgerReceivable, "250", ptr(day(2024, time.June, 5)), "a"),
		openEntry(domain.LedgerPayable, "100", ptr(day(2024, time.May, 20)), "b"),      // already overdue
		openEntry(domain.LedgerReceivable, "900", ptr(day(2024, time.August, 1)), "a"), // beyond horizon
		openEntry(domain.LedgerReceivable, "777", nil, "a"),                            // undated
	}

	projection := CashFlow(entries, today, 30)

	assert.Len(t, projection, 2)
	assert.Equal(t, day(2024, time.June, 5), projection[0].Date)
	assert.True(t, projection[0].Receivable.Equal(decimal.RequireFromString("250")))
	assert.Equal(t, day(2024, time.June, 10), projection[1].Date)
	assert.True(t, projection[1].Receivable.Equal(decimal.RequireFromString("1000")))
	assert.True(t, projection[1].Payable.Equal(decimal.RequireFromString("400")))
	assert.True(t, projection[1].Net.Equal(decimal.RequireFromString("600")))
}

func TestCounterpartyBalance(t *testing.T) {
	today := day(2024, time.June, 15)
	ptr := func(t time.Time) *time.Time { return &t }

	entries := []domain.LedgerEntry{
		openEntry(domain.LedgerReceivable, "500", ptr(today.AddDate(0, 0, -3)), "ravi"),
		openEntry(domain.LedgerReceivable, "200", ptr(today.AddDate(0, 0, 10)), "ravi"),
		openEntry(domain.LedgerPayable, "300", nil, "ravi"),
	}

	balance := CounterpartyBalance("ravi", entries, today)

	assert.True(t, balance.Receivable.Equal(decimal.RequireFromString("700")))
	assert.True(t, balance.Payable.Equal(decimal.RequireFromString("300")))
	assert.True(t, balance.Net.Equal(decimal.RequireFromString("400")))
	assert.Equal(t, domain.BalanceOweYou, balance.Status)
	assert.True(t, balance.OverdueReceivable.Equal(decimal.RequireFromString("500")))
	assert.True(t, balance.OverduePayable.IsZero())
}

func TestCounterpartyBalanceStatus(t *testing.T) {
	today := day(2024, time.June, 15)

	youOwe := CounterpartyBalance("x", []domain.LedgerEntry{
		openEntry(domain.LedgerPayable, "100", nil, "x"),
	}, today)
	assert.Equal(t, domain.BalanceYouOwe, youOwe.Status)

	settled := CounterpartyBalance("x", []domain.LedgerEntry{
		openEntry(domain.LedgerReceivable, "100", nil, "x"),
		openEntry(domain.LedgerPayable, "100", nil, "x"),
	}, today)
	assert.Equal(t, domain.BalanceSettled, settled.Status)
	assert.True(t, settled.Net.IsZero())

	empty := CounterpartyBalance("x", nil, today)
	assert.Equal(t, domain.BalanceSettled, empty.Status)
}
