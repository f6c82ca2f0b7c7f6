package recurrence

import (
	"errors"
	"fmt"

	"github.com/cyp0633/libworldcal/calendar"
	"github.com/samber/mo"
)

// maxIterations bounds one generation call. A malformed pattern (for
// example interval 0) would otherwise never terminate; hitting the cap
// truncates the output, it is not an error.
const maxIterations = 10000

// Occurrence is one concrete date produced by expanding a pattern.
type Occurrence struct {
	Date calendar.Date
	// IsException marks dates listed in the pattern's exceptions. They
	// are still emitted so callers can decide what to do with them.
	IsException bool
	// Index is the 0-based count of advances from the start date, not of
	// emitted occurrences.
	Index int
}

// errNoNext reports a pattern that can never match again on the active
// calendar, e.g. an nth-weekday rule no month is long enough to satisfy.
// The generator treats it as graceful exhaustion, not a failure.
var errNoNext = errors.New("no further occurrence")

// GenerateOccurrences expands a pattern from the start date, emitting every
// occurrence whose day falls within [rangeStart, rangeEnd] inclusive.
// Generation stops when the pattern's end date is exceeded, its occurrence
// cap is reached, the current date moves past rangeEnd, or the safety
// iteration cap is hit. An unknown frequency fails immediately with
// ErrUnsupportedFrequency.
func GenerateOccurrences(start calendar.Date, p Pattern, rangeStart, rangeEnd calendar.Date, calc *calendar.Calculus) ([]Occurrence, error) {
	switch p.Frequency {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFrequency, p.Frequency)
	}

	fromDay := calc.DateToDays(rangeStart)
	toDay := calc.DateToDays(rangeEnd)
	var endDay int64
	if p.EndDate != nil {
		endDay = calc.DateToDays(*p.EndDate)
	}

	var out []Occurrence
	current := start
	for i := 0; i < maxIterations; i++ {
		day := calc.DateToDays(current)
		if p.EndDate != nil && day > endDay {
			break
		}
		if day > toDay {
			break
		}
		if day >= fromDay {
			out = append(out, Occurrence{
				Date:        current,
				IsException: p.isException(current),
				Index:       i,
			})
			if p.MaxOccurrences > 0 && len(out) >= p.MaxOccurrences {
				break
			}
		}
		next, err := nextOccurrence(current, p, calc)
		if err != nil {
			if errors.Is(err, errNoNext) {
				break
			}
			return out, err
		}
		current = next
	}
	return out, nil
}

// nextOccurrence computes the occurrence after the current one according
// to the pattern's frequency rules.
func nextOccurrence(current calendar.Date, p Pattern, calc *calendar.Calculus) (calendar.Date, error) {
	switch p.Frequency {
	case Daily:
		return calc.AddDays(current, p.Interval), nil
	case Weekly:
		return nextWeekly(current, p, calc)
	case Monthly:
		return nextMonthly(current, p, calc)
	case Yearly:
		return nextYearly(current, p, calc), nil
	default:
		return calendar.Date{}, fmt.Errorf("%w: %s", ErrUnsupportedFrequency, p.Frequency)
	}
}

// nextWeekly advances by whole weeks of the active calendar, or to the
// next listed weekday. When no listed weekday remains in the current week
// it jumps to the first listed weekday of the week Interval weeks later.
// Listed weekdays the active calendar does not have can never match.
func nextWeekly(current calendar.Date, p Pattern, calc *calendar.Calculus) (calendar.Date, error) {
	weekLen := calc.WeekdayCount()
	if len(p.Weekdays) == 0 {
		return calc.AddDays(current, p.Interval*weekLen), nil
	}
	days := make([]int, 0, len(p.Weekdays))
	for _, d := range p.Weekdays {
		if d < weekLen {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return calendar.Date{}, errNoNext
	}
	wd := current.Weekday
	target := -1
	for _, d := range days {
		if d > wd {
			target = d
			break
		}
	}
	advance := target - wd
	if target < 0 {
		target = days[0]
		advance = (weekLen - wd) + (p.Interval-1)*weekLen + target
	}
	next := calc.AddDays(current, advance)
	// Intercalary days that do not count for weekdays occupy date space
	// without moving the weekday cycle, so a flat jump across them can
	// land short of the target. Walk the remaining days one at a time;
	// regular days cycle through every weekday, so the walk terminates.
	for next.IsIntercalary() || next.Weekday != target {
		next = calc.AddDays(next, 1)
	}
	return next, nil
}

// nextMonthly dispatches between the fixed-day and nth-weekday forms.
func nextMonthly(current calendar.Date, p Pattern, calc *calendar.Calculus) (calendar.Date, error) {
	if p.Week > 0 {
		return nextMonthlyByWeekday(current, p, calc)
	}
	target := p.DayOfMonth
	if target > current.Day && target <= calc.MonthLength(current.Month, current.Year) {
		return makeDate(calc, current.Year, current.Month, target, current.Time), nil
	}
	d := current
	d.Day = target
	d.Intercalary = mo.None[string]()
	return calc.AddMonths(d, p.Interval), nil
}

// nextMonthlyByWeekday finds the Week-th occurrence of the target weekday,
// trying the current month first, then stepping Interval months at a time
// past months that lack the occurrence.
func nextMonthlyByWeekday(current calendar.Date, p Pattern, calc *calendar.Calculus) (calendar.Date, error) {
	weekLen := calc.WeekdayCount()
	if p.Weekday >= weekLen {
		return calendar.Date{}, errNoNext
	}
	if day, ok := nthWeekdayInMonth(calc, current.Year, current.Month, p.Weekday, p.Week, weekLen); ok && day > current.Day {
		return makeDate(calc, current.Year, current.Month, day, current.Time), nil
	}
	probe := current
	probe.Day = 1
	probe.Intercalary = mo.None[string]()
	for i := 0; i < maxIterations; i++ {
		probe = calc.AddMonths(probe, p.Interval)
		if day, ok := nthWeekdayInMonth(calc, probe.Year, probe.Month, p.Weekday, p.Week, weekLen); ok {
			return makeDate(calc, probe.Year, probe.Month, day, current.Time), nil
		}
	}
	return calendar.Date{}, errNoNext
}

// nthWeekdayInMonth locates the day of the week-th occurrence of a weekday
// by scanning from day 1; ok is false when the month has no such day.
func nthWeekdayInMonth(calc *calendar.Calculus, year, month, weekday, week, weekLen int) (int, bool) {
	monthLen := calc.MonthLength(month, year)
	first := 0
	for d := 1; d <= monthLen && d <= weekLen; d++ {
		if calc.CalculateWeekday(year, month, d) == weekday {
			first = d
			break
		}
	}
	if first == 0 {
		return 0, false
	}
	day := first + (week-1)*weekLen
	if day > monthLen {
		return 0, false
	}
	return day, true
}

// nextYearly targets the pattern's month and day in the current year when
// that still lies ahead, otherwise Interval years later, clamping the day
// to the target month's length for the target year.
func nextYearly(current calendar.Date, p Pattern, calc *calendar.Calculus) calendar.Date {
	if p.YearMonth > current.Month || (p.YearMonth == current.Month && p.YearDay > current.Day) {
		day := clampToMonth(calc, p.YearDay, p.YearMonth, current.Year)
		if p.YearMonth > current.Month || day > current.Day {
			return makeDate(calc, current.Year, p.YearMonth, day, current.Time)
		}
	}
	year := current.Year + p.Interval
	day := clampToMonth(calc, p.YearDay, p.YearMonth, year)
	return makeDate(calc, year, p.YearMonth, day, current.Time)
}

func clampToMonth(calc *calendar.Calculus, day, month, year int) int {
	if ml := calc.MonthLength(month, year); day > ml {
		return ml
	}
	return day
}

func makeDate(calc *calendar.Calculus, year, month, day int, tod mo.Option[calendar.TimeOfDay]) calendar.Date {
	return calendar.Date{
		Year:    year,
		Month:   month,
		Day:     day,
		Weekday: calc.CalculateWeekday(year, month, day),
		Time:    tod,
	}
}
