// Package datecalc provides the pure date arithmetic used by the recurrence
// and installment engines. All functions operate on whole days; times are
// normalized to UTC midnight before comparison.
package datecalc

import "time"

// DateOnly truncates t to midnight UTC. Engine code compares dates, never
// instants, so every date entering the engine passes through here.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex returns the Monday-first weekday index of t (0=Monday .. 6=Sunday).
// Go's time.Weekday is Sunday-first; the stored weekday sets are Monday-first.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// AddMonths adds n calendar months to d, rolling the year over as needed.
// When the source day of month does not exist in the target month the day is
// clamped to 28, matching the installment schedules already in production.
func AddMonths(d time.Time, n int) time.Time {
	month := int(d.Month()) + n
	year := d.Year() + (month-1)/12
	month = (month-1)%12 + 1

	day := d.Day()
	if day > DaysInMonth(year, time.Month(month)) {
		day = 28
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextWeekdayOnOrAfter returns the first date on or after d whose weekday is
// in weekdays (Monday-first indices). It scans at most 7 days; ok is false
// when weekdays contains no valid index.
func NextWeekdayOnOrAfter(d time.Time, weekdays []int) (time.Time, bool) {
	if len(weekdays) == 0 {
		return time.Time{}, false
	}
	members := make(map[int]struct{}, len(weekdays))
	for _, wd := range weekdays {
		if wd >= 0 && wd <= 6 {
			members[wd] = struct{}{}
		}
	}
	if len(members) == 0 {
		return time.Time{}, false
	}

	day := DateOnly(d)
	for i := 0; i < 7; i++ {
		if _, ok := members[WeekdayIndex(day)]; ok {
			return day, true
		}
		day = day.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

// DaysBetween returns the whole-day difference b - a, negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}

// SameMonthDay reports whether a and b share the same calendar month and day.
func SameMonthDay(a, b time.Time) bool {
	return a.Month() == b.Month() && a.Day() == b.Day()
}
