package calendar

import (
	"math"
	"strconv"
	"sync/atomic"

	"github.com/samber/mo"
)

// snapshot pairs a validated definition with the year cache computed from
// it. Readers work against one snapshot for the whole operation, so a
// concurrent UpdateCalendar can never mix two definitions in one result.
type snapshot struct {
	def   *Definition
	cache *yearCache
}

// Calculus converts between linear world time and structured dates for one
// calendar definition. All methods are pure given the active definition;
// the only state is the definition snapshot and its year cache.
//
// Calculus is safe for concurrent use. UpdateCalendar swaps the snapshot
// atomically; in-flight conversions finish against the snapshot they
// started with.
type Calculus struct {
	snap atomic.Pointer[snapshot]
}

// NewCalculus validates the definition and builds an engine for it. The
// definition is copied; later changes to the argument have no effect.
func NewCalculus(def *Definition) (*Calculus, error) {
	c := &Calculus{}
	if err := c.UpdateCalendar(def); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCalendar validates the new definition and atomically replaces the
// active one. The year cache is dropped with the old snapshot; no partial
// state is observable to concurrent readers.
func (c *Calculus) UpdateCalendar(def *Definition) error {
	cp := def.Clone()
	cp.normalize()
	if err := cp.Validate(); err != nil {
		return err
	}
	c.snap.Store(&snapshot{def: cp, cache: newYearCache(defaultYearCacheSize)})
	return nil
}

// Calendar returns a defensive copy of the active definition.
func (c *Calculus) Calendar() *Definition {
	return c.snap.Load().def.Clone()
}

// WeekdayCount returns the length of the calendar's week.
func (c *Calculus) WeekdayCount() int {
	return len(c.snap.Load().def.Weekdays)
}

// MonthCount returns the number of months in the calendar's year.
func (c *Calculus) MonthCount() int {
	return len(c.snap.Load().def.Months)
}

// WeekdayName returns the name of the 0-based weekday index, or "" when
// the index is out of range.
func (c *Calculus) WeekdayName(weekday int) string {
	def := c.snap.Load().def
	if weekday < 0 || weekday >= len(def.Weekdays) {
		return ""
	}
	return def.Weekdays[weekday].Name
}

// MonthName returns the name of the 1-based month index, or "" when the
// index is out of range.
func (c *Calculus) MonthName(month int) string {
	def := c.snap.Load().def
	if month < 1 || month > len(def.Months) {
		return ""
	}
	return def.Months[month-1].Name
}

// FormatYear renders a year number with the calendar's prefix and suffix.
func (c *Calculus) FormatYear(year int) string {
	y := c.snap.Load().def.Year
	return y.Prefix + strconv.Itoa(year) + y.Suffix
}

// WorldTimeToDate converts a linear world time in seconds to a date with
// time of day. Fractional seconds are floored. The conversion is
// deterministic and total: any finite input yields a date.
func (c *Calculus) WorldTimeToDate(t float64) Date {
	s := c.snap.Load()
	secs := int64(math.Floor(t)) + s.epochOffsetSeconds()
	spd := s.def.Time.SecondsPerDay()
	days := floorDiv(secs, spd)
	rem := secs - days*spd

	sph := s.def.Time.SecondsPerHour()
	spm := int64(s.def.Time.SecondsInMinute)
	tod := TimeOfDay{
		Hour:   int(rem / sph),
		Minute: int(rem % sph / spm),
		Second: int(rem % spm),
	}

	d := s.daysToDate(days)
	d.Time = mo.Some(tod)
	return d
}

// DateToWorldTime converts a date back to linear world time in seconds.
// It is the exact inverse of WorldTimeToDate for integral seconds; a date
// without a time component maps to the start of its day.
func (c *Calculus) DateToWorldTime(d Date) float64 {
	s := c.snap.Load()
	secs := s.dateToDays(d) * s.def.Time.SecondsPerDay()
	if tod, ok := d.Time.Get(); ok {
		secs += int64(tod.Hour)*s.def.Time.SecondsPerHour() +
			int64(tod.Minute)*int64(s.def.Time.SecondsInMinute) +
			int64(tod.Second)
	}
	return float64(secs - s.epochOffsetSeconds())
}

// DaysToDate converts a signed day index to a date. Day 0 is day 1 of
// month 1 of the epoch year; negative indices run backwards through the
// years before it.
func (c *Calculus) DaysToDate(days int64) Date {
	return c.snap.Load().daysToDate(days)
}

// DateToDays converts a date to its signed day index.
func (c *Calculus) DateToDays(d Date) int64 {
	return c.snap.Load().dateToDays(d)
}

// CalculateWeekday returns the 0-based weekday of a day within a normal
// month. Only weekday-contributing days advance the result, so the cadence
// is strictly periodic across intercalary blocks excluded from the count.
func (c *Calculus) CalculateWeekday(year, month, day int) int {
	s := c.snap.Load()
	return s.weekdayOf(year, s.clampMonth(month), day)
}

// YearLength returns the number of days in a year, including leap days and
// every intercalary block applicable to that year.
func (c *Calculus) YearLength(year int) int {
	return int(c.snap.Load().yearInfo(year).length)
}

// MonthLength returns the number of days in a 1-based month for a given
// year, including the leap extension when the month is the leap target.
func (c *Calculus) MonthLength(month, year int) int {
	s := c.snap.Load()
	return s.monthLength(s.clampMonth(month), year)
}

// IntercalaryDaysAfterMonth returns the total intercalary days that follow
// the 1-based month in the given year.
func (c *Calculus) IntercalaryDaysAfterMonth(year, month int) int {
	s := c.snap.Load()
	total := 0
	for _, r := range s.intercalaryAfter(year, s.clampMonth(month)) {
		total += r.Days
	}
	return total
}

// AddDays moves a date by n days (n may be negative), preserving the time
// of day.
func (c *Calculus) AddDays(d Date, n int) Date {
	return c.snap.Load().addDays(d, n)
}

func (s *snapshot) addDays(d Date, n int) Date {
	nd := s.daysToDate(s.dateToDays(d) + int64(n))
	nd.Time = d.Time
	return nd
}

// AddMonths moves a date by n months, carrying overflow into years and
// clamping the day to the target month's length. The clamp is a deliberate
// lossy policy: adding a month to the 31st in a 30-day target yields the
// 30th. An intercalary date is treated as its anchor month context and
// loses the marker.
func (c *Calculus) AddMonths(d Date, n int) Date {
	s := c.snap.Load()
	mc := int64(len(s.def.Months))
	total := int64(s.clampMonth(d.Month)-1) + int64(n)
	carry := floorDiv(total, mc)
	month := int(total-carry*mc) + 1
	year := d.Year + int(carry)
	day := clampDay(d.Day, s.monthLength(month, year))
	return Date{
		Year:    year,
		Month:   month,
		Day:     day,
		Weekday: s.weekdayOf(year, month, day),
		Time:    d.Time,
	}
}

// AddYears moves a date by n years, clamping the day to the target month's
// length for the (possibly leap) target year. Same lossy clamp policy as
// AddMonths.
func (c *Calculus) AddYears(d Date, n int) Date {
	s := c.snap.Load()
	year := d.Year + n
	month := s.clampMonth(d.Month)
	day := clampDay(d.Day, s.monthLength(month, year))
	return Date{
		Year:    year,
		Month:   month,
		Day:     day,
		Weekday: s.weekdayOf(year, month, day),
		Time:    d.Time,
	}
}

// AddHours moves a date by n hours in the calendar's own units; overflow
// cascades into days. A date without a time component is treated as the
// start of its day and the result carries a time. The whole cascade runs
// against one snapshot so a concurrent UpdateCalendar cannot split it
// across two definitions.
func (c *Calculus) AddHours(d Date, n int) Date {
	return c.snap.Load().addHours(d, n)
}

func (s *snapshot) addHours(d Date, n int) Date {
	tod := d.Time.OrElse(TimeOfDay{})
	total := int64(tod.Hour) + int64(n)
	perDay := int64(s.def.Time.HoursInDay)
	carry := floorDiv(total, perDay)
	tod.Hour = int(total - carry*perDay)
	d.Time = mo.Some(tod)
	if carry != 0 {
		return s.addDays(d, int(carry))
	}
	return d
}

// AddMinutes moves a date by n minutes in the calendar's own units;
// overflow cascades into hours and then days, all against one snapshot.
func (c *Calculus) AddMinutes(d Date, n int) Date {
	return c.snap.Load().addMinutes(d, n)
}

func (s *snapshot) addMinutes(d Date, n int) Date {
	tod := d.Time.OrElse(TimeOfDay{})
	total := int64(tod.Minute) + int64(n)
	perHour := int64(s.def.Time.MinutesInHour)
	carry := floorDiv(total, perHour)
	tod.Minute = int(total - carry*perHour)
	d.Time = mo.Some(tod)
	if carry != 0 {
		return s.addHours(d, int(carry))
	}
	return d
}

// isLeapYear applies the definition's leap rule, floored-modulo so that
// years before the epoch behave symmetrically.
func (s *snapshot) isLeapYear(year int) bool {
	switch s.def.Leap.Rule {
	case LeapGregorian:
		return (imod(year, 4) == 0 && imod(year, 100) != 0) || imod(year, 400) == 0
	case LeapCustom:
		return s.def.Leap.Interval >= 1 && imod(year, s.def.Leap.Interval) == 0
	default:
		return false
	}
}

func (s *snapshot) monthLength(month, year int) int {
	m := s.def.Months[month-1]
	days := m.Days
	if s.def.Leap.Rule != LeapNone && s.def.Leap.Month == m.Name && s.isLeapYear(year) {
		days += s.def.Leap.ExtraDays
	}
	return days
}

// intercalaryAfter lists the blocks following the 1-based month that apply
// to the given year, in definition order.
func (s *snapshot) intercalaryAfter(year, month int) []IntercalaryRule {
	name := s.def.Months[month-1].Name
	var rules []IntercalaryRule
	leap := s.isLeapYear(year)
	for _, r := range s.def.Intercalary {
		if r.After != name {
			continue
		}
		if r.LeapYearOnly && !leap {
			continue
		}
		rules = append(rules, r)
	}
	return rules
}

// yearInfo returns the cached per-year sums, computing them on first use.
// Both conversion directions and the weekday count go through this one
// function; that shared accounting is what keeps round-trips exact.
func (s *snapshot) yearInfo(year int) yearInfo {
	if info, ok := s.cache.get(year); ok {
		return info
	}
	var info yearInfo
	for i := range s.def.Months {
		ml := int64(s.monthLength(i+1, year))
		info.length += ml
		info.weekdayLength += ml
	}
	leap := s.isLeapYear(year)
	for _, r := range s.def.Intercalary {
		if r.LeapYearOnly && !leap {
			continue
		}
		info.length += int64(r.Days)
		if r.CountsForWeekdays {
			info.weekdayLength += int64(r.Days)
		}
	}
	s.cache.put(year, info)
	return info
}

// epochOffsetSeconds is the adjustment that makes world time 0 land in the
// configured current year under real-time interpretation. It sums actual
// year lengths from the epoch year up to the current year, sign-aware.
func (s *snapshot) epochOffsetSeconds() int64 {
	wt := s.def.WorldTime
	if wt == nil || wt.Interpretation != InterpretRealTime {
		return 0
	}
	var days int64
	if wt.CurrentYear >= wt.EpochYear {
		for y := wt.EpochYear; y < wt.CurrentYear; y++ {
			days += s.yearInfo(y).length
		}
	} else {
		for y := wt.CurrentYear; y < wt.EpochYear; y++ {
			days -= s.yearInfo(y).length
		}
	}
	return days * s.def.Time.SecondsPerDay()
}

// daysToDate walks year by year, then month by month and block by block,
// until the day index falls inside a month or an intercalary run.
func (s *snapshot) daysToDate(days int64) Date {
	year := s.def.Year.Epoch
	remaining := days
	if remaining >= 0 {
		for {
			yl := s.yearInfo(year).length
			if remaining < yl {
				break
			}
			remaining -= yl
			year++
		}
	} else {
		for remaining < 0 {
			year--
			remaining += s.yearInfo(year).length
		}
	}

	for i := range s.def.Months {
		month := i + 1
		ml := int64(s.monthLength(month, year))
		if remaining < ml {
			day := int(remaining) + 1
			return Date{
				Year:    year,
				Month:   month,
				Day:     day,
				Weekday: s.weekdayOf(year, month, day),
			}
		}
		remaining -= ml
		for _, r := range s.intercalaryAfter(year, month) {
			if remaining < int64(r.Days) {
				return Date{
					Year:        year,
					Month:       month,
					Day:         int(remaining) + 1,
					Intercalary: mo.Some(r.Name),
				}
			}
			remaining -= int64(r.Days)
		}
	}

	// Unreachable when yearInfo and the per-month walk agree; kept total
	// so malformed state degrades to the year's last day.
	last := len(s.def.Months)
	day := s.monthLength(last, year)
	return Date{Year: year, Month: last, Day: day, Weekday: s.weekdayOf(year, last, day)}
}

// dateToDays is the exact inverse accumulation of daysToDate, built on the
// same length functions.
func (s *snapshot) dateToDays(d Date) int64 {
	var days int64
	epoch := s.def.Year.Epoch
	if d.Year >= epoch {
		for y := epoch; y < d.Year; y++ {
			days += s.yearInfo(y).length
		}
	} else {
		for y := d.Year; y < epoch; y++ {
			days -= s.yearInfo(y).length
		}
	}

	month := s.clampMonth(d.Month)
	for m := 1; m < month; m++ {
		days += int64(s.monthLength(m, d.Year))
		for _, r := range s.intercalaryAfter(d.Year, m) {
			days += int64(r.Days)
		}
	}

	if name, ok := d.Intercalary.Get(); ok {
		days += int64(s.monthLength(month, d.Year))
		for _, r := range s.intercalaryAfter(d.Year, month) {
			if r.Name == name {
				return days + int64(d.Day-1)
			}
			days += int64(r.Days)
		}
		return days
	}
	return days + int64(d.Day-1)
}

// weekdayDaysBefore counts weekday-contributing days from day 0 to the
// given day, exclusive. Blocks with CountsForWeekdays false occupy date
// space but are skipped here.
func (s *snapshot) weekdayDaysBefore(year, month, day int) int64 {
	var days int64
	epoch := s.def.Year.Epoch
	if year >= epoch {
		for y := epoch; y < year; y++ {
			days += s.yearInfo(y).weekdayLength
		}
	} else {
		for y := year; y < epoch; y++ {
			days -= s.yearInfo(y).weekdayLength
		}
	}
	for m := 1; m < month; m++ {
		days += int64(s.monthLength(m, year))
		for _, r := range s.intercalaryAfter(year, m) {
			if r.CountsForWeekdays {
				days += int64(r.Days)
			}
		}
	}
	return days + int64(day-1)
}

func (s *snapshot) weekdayOf(year, month, day int) int {
	wc := int64(len(s.def.Weekdays))
	n := s.weekdayDaysBefore(year, month, day) + int64(s.def.Year.StartDay)
	return int(((n % wc) + wc) % wc)
}

// clampMonth keeps a 1-based month index inside the definition. Out of
// range input is a caller bug; clamping keeps the engine total instead of
// panicking.
func (s *snapshot) clampMonth(month int) int {
	if month < 1 {
		return 1
	}
	if month > len(s.def.Months) {
		return len(s.def.Months)
	}
	return month
}

func clampDay(day, monthLen int) int {
	if day > monthLen {
		return monthLen
	}
	if day < 1 {
		return 1
	}
	return day
}

// floorDiv divides rounding toward negative infinity, so negative world
// times split into day index and in-day remainder without a discontinuity
// at zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// imod is the non-negative modulo used for leap tests on years before the
// epoch.
func imod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
