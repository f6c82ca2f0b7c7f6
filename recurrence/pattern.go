// Package recurrence expands repeat rules (daily, weekly, monthly, yearly)
// into concrete occurrence dates, stepping through a calendar.Calculus so
// that every rule respects the active calendar's own week and month
// geometry rather than a hardcoded 7-day week or 12-month year.
package recurrence

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cyp0633/libworldcal/calendar"
)

// Frequency is the base unit a pattern repeats on.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Monthly
	Yearly
)

// String provides a human-readable representation of the Frequency.
func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return fmt.Sprintf("frequency(%d)", int(f))
	}
}

var (
	// ErrUnsupportedFrequency is returned for a frequency value the
	// generator does not know. It indicates a programming or config error,
	// not a runtime condition, and is never retried.
	ErrUnsupportedFrequency = errors.New("unsupported recurrence frequency")
	// ErrInvalidPattern is returned by the pattern builders for arguments
	// that cannot form a valid rule.
	ErrInvalidPattern = errors.New("invalid recurrence pattern")
)

// Pattern describes a repeat rule. Build one with the New* helpers; the
// generator consumes it read-only, so one Pattern can serve any number of
// generation calls.
type Pattern struct {
	Frequency Frequency
	// Interval stretches the frequency: every N days, weeks, months or
	// years. At least 1.
	Interval int

	// EndDate, when set, stops generation once an occurrence would land
	// past it.
	EndDate *calendar.Date
	// MaxOccurrences caps emitted occurrences; 0 means unlimited.
	MaxOccurrences int

	// Weekdays lists target weekdays for weekly patterns, as 0-based
	// indices into the calendar's weekday list. Empty means "advance by
	// whole weeks".
	Weekdays []int

	// DayOfMonth targets a fixed day for monthly patterns; 0 when unused.
	DayOfMonth int
	// Weekday and Week target the Week-th occurrence of Weekday within a
	// month ("2nd Tuesday"); Week is 0 when this form is unused.
	Weekday int
	Week    int

	// YearMonth and YearDay target a fixed month and day for yearly
	// patterns.
	YearMonth int
	YearDay   int

	// Exceptions lists dates whose occurrences are emitted flagged as
	// exceptions, so callers can skip materializing them.
	Exceptions []calendar.Date
}

// NewDaily builds a pattern repeating every interval days.
func NewDaily(interval int) (Pattern, error) {
	if interval < 1 {
		return Pattern{}, fmt.Errorf("%w: interval %d, want at least 1", ErrInvalidPattern, interval)
	}
	return Pattern{Frequency: Daily, Interval: interval}, nil
}

// NewWeekly builds a pattern repeating every interval weeks. With no
// weekdays the step is a whole week of the active calendar; with weekdays
// it visits each listed weekday per cycle.
func NewWeekly(interval int, weekdays ...int) (Pattern, error) {
	if interval < 1 {
		return Pattern{}, fmt.Errorf("%w: interval %d, want at least 1", ErrInvalidPattern, interval)
	}
	days := append([]int(nil), weekdays...)
	sort.Ints(days)
	for i, d := range days {
		if d < 0 {
			return Pattern{}, fmt.Errorf("%w: negative weekday %d", ErrInvalidPattern, d)
		}
		if i > 0 && days[i-1] == d {
			return Pattern{}, fmt.Errorf("%w: duplicate weekday %d", ErrInvalidPattern, d)
		}
	}
	return Pattern{Frequency: Weekly, Interval: interval, Weekdays: days}, nil
}

// NewMonthlyByDay builds a pattern hitting a fixed day of the month. Days
// past a short month's end clamp to its last day.
func NewMonthlyByDay(interval, day int) (Pattern, error) {
	if interval < 1 {
		return Pattern{}, fmt.Errorf("%w: interval %d, want at least 1", ErrInvalidPattern, interval)
	}
	if day < 1 {
		return Pattern{}, fmt.Errorf("%w: day of month %d, want at least 1", ErrInvalidPattern, day)
	}
	return Pattern{Frequency: Monthly, Interval: interval, DayOfMonth: day}, nil
}

// NewMonthlyByWeekday builds an "nth weekday of the month" pattern, e.g.
// weekday 1, week 2 for the second occurrence of weekday 1. Months lacking
// an nth occurrence are skipped.
func NewMonthlyByWeekday(interval, weekday, week int) (Pattern, error) {
	if interval < 1 {
		return Pattern{}, fmt.Errorf("%w: interval %d, want at least 1", ErrInvalidPattern, interval)
	}
	if weekday < 0 {
		return Pattern{}, fmt.Errorf("%w: negative weekday %d", ErrInvalidPattern, weekday)
	}
	if week < 1 {
		return Pattern{}, fmt.Errorf("%w: week %d, want at least 1", ErrInvalidPattern, week)
	}
	return Pattern{Frequency: Monthly, Interval: interval, Weekday: weekday, Week: week}, nil
}

// NewYearly builds a pattern hitting a fixed month and day every interval
// years, clamping the day for short (non-leap) target months.
func NewYearly(interval, month, day int) (Pattern, error) {
	if interval < 1 {
		return Pattern{}, fmt.Errorf("%w: interval %d, want at least 1", ErrInvalidPattern, interval)
	}
	if month < 1 {
		return Pattern{}, fmt.Errorf("%w: month %d, want at least 1", ErrInvalidPattern, month)
	}
	if day < 1 {
		return Pattern{}, fmt.Errorf("%w: day %d, want at least 1", ErrInvalidPattern, day)
	}
	return Pattern{Frequency: Yearly, Interval: interval, YearMonth: month, YearDay: day}, nil
}

// WithEndDate returns a copy of the pattern stopping past the given date.
func (p Pattern) WithEndDate(d calendar.Date) Pattern {
	p.EndDate = &d
	return p
}

// WithMaxOccurrences returns a copy of the pattern capped at n emitted
// occurrences.
func (p Pattern) WithMaxOccurrences(n int) Pattern {
	p.MaxOccurrences = n
	return p
}

// WithExceptions returns a copy of the pattern with the given exception
// dates appended.
func (p Pattern) WithExceptions(dates ...calendar.Date) Pattern {
	p.Exceptions = append(append([]calendar.Date(nil), p.Exceptions...), dates...)
	return p
}

// sameDay reports whether two dates name the same calendar day, ignoring
// time of day.
func sameDay(a, b calendar.Date) bool {
	return a.Year == b.Year && a.Month == b.Month && a.Day == b.Day &&
		a.Intercalary == b.Intercalary
}

func (p Pattern) isException(d calendar.Date) bool {
	for _, e := range p.Exceptions {
		if sameDay(e, d) {
			return true
		}
	}
	return false
}
