package calendar

import (
	"github.com/samber/mo"
)

// LeapRule selects how leap years are determined.
type LeapRule int

const (
	// LeapNone means the calendar never has leap years.
	LeapNone LeapRule = iota
	// LeapGregorian reproduces the standard Gregorian test:
	// divisible by 4 and not by 100, or divisible by 400.
	LeapGregorian
	// LeapCustom makes every Interval-th year a leap year.
	LeapCustom
)

// String provides a human-readable representation of the LeapRule.
func (r LeapRule) String() string {
	switch r {
	case LeapGregorian:
		return "gregorian"
	case LeapCustom:
		return "custom"
	default:
		return "none"
	}
}

// Interpretation selects what world time 0 means for a calendar.
type Interpretation int

const (
	// InterpretEpoch maps world time 0 to day 1 of month 1 of the epoch
	// year. This is the default.
	InterpretEpoch Interpretation = iota
	// InterpretRealTime maps world time 0 to the configured current year
	// instead of the epoch year. The offset between the two is computed
	// from actual year lengths, never from an averaged year.
	InterpretRealTime
)

// String provides a human-readable representation of the Interpretation.
func (i Interpretation) String() string {
	if i == InterpretRealTime {
		return "real-time-based"
	}
	return "epoch-based"
}

// TimeConfig sets the calendar's clock granularity. All fields must be at
// least 1.
type TimeConfig struct {
	HoursInDay      int `json:"hoursInDay"`
	MinutesInHour   int `json:"minutesInHour"`
	SecondsInMinute int `json:"secondsInMinute"`
}

// SecondsPerDay returns the length of one calendar day in seconds.
func (t TimeConfig) SecondsPerDay() int64 {
	return int64(t.HoursInDay) * int64(t.MinutesInHour) * int64(t.SecondsInMinute)
}

// SecondsPerHour returns the length of one calendar hour in seconds.
func (t TimeConfig) SecondsPerHour() int64 {
	return int64(t.MinutesInHour) * int64(t.SecondsInMinute)
}

// Month is one entry in a calendar's ordered month list.
type Month struct {
	Name string `json:"name"`
	// Days is the month's length in a non-leap year, 1 to 366.
	Days int `json:"days"`
}

// Weekday is one entry in a calendar's ordered weekday list.
type Weekday struct {
	Name string `json:"name"`
}

// LeapConfig describes a calendar's leap-year rule. Any rule other than
// LeapNone must name the month that receives the extra days; without a
// target month the year length and the month lengths would disagree.
type LeapConfig struct {
	Rule LeapRule `json:"rule"`
	// Interval is the leap cycle length for LeapCustom, at least 1.
	Interval int `json:"interval,omitempty"`
	// Month names the month the extra days are appended to.
	Month string `json:"month,omitempty"`
	// ExtraDays is how many days a leap year adds. Defaults to 1 when
	// decoded from JSON; values below 1 are treated as 1.
	ExtraDays int `json:"extraDays,omitempty"`
}

// IntercalaryRule inserts a block of days outside the normal month grid,
// for example festival days between two months.
//
// Construct definitions from JSON to get the documented field defaults
// (Days 1, CountsForWeekdays true); Go literals must set them explicitly.
type IntercalaryRule struct {
	Name string `json:"name"`
	// After names the month the block follows.
	After string `json:"after"`
	// Days is the block length, at least 1.
	Days int `json:"days"`
	// LeapYearOnly restricts the block to leap years.
	LeapYearOnly bool `json:"leapYearOnly"`
	// CountsForWeekdays controls whether the block's days advance the
	// weekday cycle. When false the days still occupy date space but the
	// weekday sequence continues across them unchanged.
	CountsForWeekdays bool `json:"countsForWeekdays"`
}

// YearConfig anchors a calendar's year numbering.
type YearConfig struct {
	// Epoch is the year containing day 0 of the day index.
	Epoch int `json:"epoch"`
	// CurrentYear is the year a fresh world presents to users.
	CurrentYear int `json:"currentYear"`
	// StartDay is the weekday index of day 1 of month 1 of the epoch year.
	StartDay int `json:"startDay"`
	// Prefix and Suffix decorate formatted year numbers, e.g. "AD ".
	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// WorldTimeConfig selects the interpretation of world time 0. A nil config
// on a Definition means InterpretEpoch.
type WorldTimeConfig struct {
	Interpretation Interpretation `json:"interpretation"`
	EpochYear      int            `json:"epochYear"`
	CurrentYear    int            `json:"currentYear"`
}

// Definition is the immutable description of a calendar system. It is
// loaded once and replaced wholesale on calendar switch; the engine never
// mutates it.
type Definition struct {
	Time        TimeConfig        `json:"time"`
	Months      []Month           `json:"months"`
	Weekdays    []Weekday         `json:"weekdays"`
	Leap        LeapConfig        `json:"leapYear"`
	Intercalary []IntercalaryRule `json:"intercalary,omitempty"`
	Year        YearConfig        `json:"year"`
	WorldTime   *WorldTimeConfig  `json:"worldTime,omitempty"`
}

// Clone returns a deep copy of the definition.
func (d *Definition) Clone() *Definition {
	cp := *d
	cp.Months = append([]Month(nil), d.Months...)
	cp.Weekdays = append([]Weekday(nil), d.Weekdays...)
	cp.Intercalary = append([]IntercalaryRule(nil), d.Intercalary...)
	if d.WorldTime != nil {
		wt := *d.WorldTime
		cp.WorldTime = &wt
	}
	return &cp
}

// normalize applies the documented field defaults that plain struct
// construction cannot express.
func (d *Definition) normalize() {
	if d.Leap.Rule != LeapNone && d.Leap.ExtraDays < 1 {
		d.Leap.ExtraDays = 1
	}
	for i := range d.Intercalary {
		if d.Intercalary[i].Days < 1 {
			d.Intercalary[i].Days = 1
		}
	}
}

// TimeOfDay is a time within one calendar day, in the calendar's own units.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// Date is a structured calendar date. It is a plain value constructed
// fresh on every conversion; two dates compare equal with ==.
type Date struct {
	Year int `json:"year"`
	// Month is 1-based. For an intercalary date it names the preceding
	// month context rather than a containing month.
	Month int `json:"month"`
	// Day is the 1-based day within the month, or the 1-based slot within
	// an intercalary block.
	Day int `json:"day"`
	// Weekday is the 0-based index into the calendar's weekday list. It
	// is 0 and carries no meaning for intercalary dates.
	Weekday int `json:"weekday"`
	// Intercalary holds the block name when the date falls in an
	// intercalary slot.
	Intercalary mo.Option[string] `json:"intercalary,omitempty"`
	// Time is the optional time of day; absent means "date only".
	Time mo.Option[TimeOfDay] `json:"time,omitempty"`
}

// IsIntercalary reports whether the date falls in an intercalary block.
func (d Date) IsIntercalary() bool {
	return d.Intercalary.IsPresent()
}

// WithTime returns a copy of the date carrying the given time of day.
func (d Date) WithTime(t TimeOfDay) Date {
	d.Time = mo.Some(t)
	return d
}

// DateOnly returns a copy of the date with the time of day stripped.
func (d Date) DateOnly() Date {
	d.Time = mo.None[TimeOfDay]()
	return d
}
