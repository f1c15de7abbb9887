package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/daybook/personal_manager_app/internal/utils/datecalc"
)

// Frequency describes how often a recurring item repeats.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
	FrequencyCustom  Frequency = "CUSTOM"
)

// ErrInvalidPatternConfig indicates a pattern whose frequency-specific fields
// are missing or out of range.
var ErrInvalidPatternConfig = errors.New("invalid recurrence pattern configuration")

// RecurrencePattern is the declarative rule describing how a task repeats.
// Tasks reference a pattern by ID; reminders carry equivalent fields inline
// but are evaluated through the same per-frequency functions below.
type RecurrencePattern struct {
	PatternID      string     `json:"patternID"`
	Frequency      Frequency  `json:"frequency"`
	Interval       int        `json:"interval"`                 // repeat every N units, minimum 1
	Weekdays       []int      `json:"weekdays,omitempty"`       // 0=Monday .. 6=Sunday, WEEKLY only
	DayOfMonth     *int       `json:"dayOfMonth,omitempty"`     // 1-31, MONTHLY only
	CustomDays     *int       `json:"customDays,omitempty"`     // CUSTOM only
	EndDate        *time.Time `json:"endDate,omitempty"`        // stop generating after this date
	MaxOccurrences *int       `json:"maxOccurrences,omitempty"` // stop after N instances
	AuditFields
}

// Validate checks that exactly the fields relevant to the frequency are set.
func (p RecurrencePattern) Validate() error {
	if p.Interval < 1 {
		return fmt.Errorf("%w: interval must be at least 1", ErrInvalidPatternConfig)
	}
	switch p.Frequency {
	case FrequencyDaily, FrequencyYearly:
		return nil
	case FrequencyWeekly:
		if len(p.Weekdays) == 0 {
			return fmt.Errorf("%w: weekly recurrence requires at least one weekday", ErrInvalidPatternConfig)
		}
		for _, wd := range p.Weekdays {
			if wd < 0 || wd > 6 {
				return fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidPatternConfig, wd)
			}
		}
		return nil
	case FrequencyMonthly:
		if p.DayOfMonth != nil && (*p.DayOfMonth < 1 || *p.DayOfMonth > 31) {
			return fmt.Errorf("%w: day of month %d out of range 1-31", ErrInvalidPatternConfig, *p.DayOfMonth)
		}
		return nil
	case FrequencyCustom:
		if p.CustomDays == nil || *p.CustomDays < 1 {
			return fmt.Errorf("%w: custom recurrence requires a positive day interval", ErrInvalidPatternConfig)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidPatternConfig, p.Frequency)
	}
}

// IsDueOn reports whether an item anchored at anchor is due on today under
// this pattern. Both dates are compared at day granularity.
func (p RecurrencePattern) IsDueOn(anchor, today time.Time) bool {
	eval, ok := dueEvaluators[p.Frequency]
	if !ok {
		return false
	}
	return eval(p, datecalc.DateOnly(anchor), datecalc.DateOnly(today))
}

// NextOccurrence computes the first occurrence strictly after from.
// ok is false when the pattern can never produce another date (for example a
// weekly pattern with an empty weekday set).
func (p RecurrencePattern) NextOccurrence(from time.Time) (time.Time, bool) {
	eval, ok := nextEvaluators[p.Frequency]
	if !ok {
		return time.Time{}, false
	}
	return eval(p, datecalc.DateOnly(from))
}

// Per-frequency evaluators. Tasks dispatch through the tables; reminders call
// the due* helpers directly since their monthly variant carries a day set
// instead of a single day of month.

type dueEvaluator func(p RecurrencePattern, anchor, today time.Time) bool

type nextEvaluator func(p RecurrencePattern, from time.Time) (time.Time, bool)

var dueEvaluators = map[Frequency]dueEvaluator{
	FrequencyDaily: func(_ RecurrencePattern, anchor, today time.Time) bool {
		return dueDaily(anchor, today)
	},
	FrequencyWeekly: func(p RecurrencePattern, anchor, today time.Time) bool {
		return dueWeekly(anchor, today, p.Weekdays)
	},
	FrequencyMonthly: func(p RecurrencePattern, anchor, today time.Time) bool {
		day := anchor.Day()
		if p.DayOfMonth != nil {
			day = *p.DayOfMonth
		}
		return dueMonthly(anchor, today, []int{day})
	},
	FrequencyYearly: func(_ RecurrencePattern, anchor, today time.Time) bool {
		return dueYearly(anchor, today)
	},
	FrequencyCustom: func(p RecurrencePattern, anchor, today time.Time) bool {
		if p.CustomDays == nil {
			return false
		}
		return dueEveryNDays(anchor, today, *p.CustomDays)
	},
}

var nextEvaluators = map[Frequency]nextEvaluator{
	FrequencyDaily: func(p RecurrencePattern, from time.Time) (time.Time, bool) {
		return from.AddDate(0, 0, p.Interval), true
	},
	FrequencyWeekly: func(p RecurrencePattern, from time.Time) (time.Time, bool) {
		candidate := from.AddDate(0, 0, 1)
		for scanned := 0; scanned < 7*p.Interval; scanned++ {
			if weekdayMember(candidate, p.Weekdays) {
				return candidate, true
			}
			candidate = candidate.AddDate(0, 0, 1)
		}
		return time.Time{}, false
	},
	FrequencyMonthly: func(p RecurrencePattern, from time.Time) (time.Time, bool) {
		target := datecalc.AddMonths(from, p.Interval)
		if p.DayOfMonth == nil {
			return target, true
		}
		day := *p.DayOfMonth
		if day > datecalc.DaysInMonth(target.Year(), target.Month()) {
			day = 28
		}
		return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, time.UTC), true
	},
	FrequencyYearly: func(p RecurrencePattern, from time.Time) (time.Time, bool) {
		return datecalc.AddMonths(from, 12*p.Interval), true
	},
	FrequencyCustom: func(p RecurrencePattern, from time.Time) (time.Time, bool) {
		if p.CustomDays == nil {
			return time.Time{}, false
		}
		return from.AddDate(0, 0, *p.CustomDays), true
	},
}

func dueDaily(anchor, today time.Time) bool {
	return !anchor.After(today)
}

func dueWeekly(anchor, today time.Time, weekdays []int) bool {
	return !anchor.After(today) && weekdayMember(today, weekdays)
}

func dueMonthly(anchor, today time.Time, monthDays []int) bool {
	if anchor.After(today) {
		return false
	}
	if len(monthDays) == 0 {
		return today.Day() == anchor.Day()
	}
	for _, d := range monthDays {
		if today.Day() == d {
			return true
		}
	}
	return false
}

func dueYearly(anchor, today time.Time) bool {
	return !anchor.After(today) && datecalc.SameMonthDay(anchor, today)
}

func dueEveryNDays(anchor, today time.Time, n int) bool {
	if n < 1 || anchor.After(today) {
		return false
	}
	return datecalc.DaysBetween(anchor, today)%n == 0
}

func weekdayMember(t time.Time, weekdays []int) bool {
	idx := datecalc.WeekdayIndex(t)
	for _, wd := range weekdays {
		if wd == idx {
			return true
		}
	}
	return false
}
