package recurrence

import (
	"testing"

	"github.com/cyp0633/libworldcal/calendar"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCalculus(t *testing.T, def *calendar.Definition) *calendar.Calculus {
	t.Helper()
	calc, err := calendar.NewCalculus(def)
	require.NoError(t, err)
	return calc
}

// fiveDayWeekDefinition: two 30-day months, five weekdays, epoch year 1.
func fiveDayWeekDefinition() *calendar.Definition {
	return &calendar.Definition{
		Time: calendar.TimeConfig{HoursInDay: 24, MinutesInHour: 60, SecondsInMinute: 60},
		Months: []calendar.Month{
			{Name: "First", Days: 30},
			{Name: "Second", Days: 30},
		},
		Weekdays: []calendar.Weekday{
			{Name: "Airday"}, {Name: "Burnday"}, {Name: "Coalday"},
			{Name: "Dustday"}, {Name: "Emberday"},
		},
		Year: calendar.YearConfig{Epoch: 1, CurrentYear: 1, StartDay: 0},
	}
}

func gregorianTestDefinition() *calendar.Definition {
	return &calendar.Definition{
		Time: calendar.TimeConfig{HoursInDay: 24, MinutesInHour: 60, SecondsInMinute: 60},
		Months: []calendar.Month{
			{Name: "January", Days: 31}, {Name: "February", Days: 28},
			{Name: "March", Days: 31}, {Name: "April", Days: 30},
			{Name: "May", Days: 31}, {Name: "June", Days: 30},
			{Name: "July", Days: 31}, {Name: "August", Days: 31},
			{Name: "September", Days: 30}, {Name: "October", Days: 31},
			{Name: "November", Days: 30}, {Name: "December", Days: 31},
		},
		Weekdays: []calendar.Weekday{
			{Name: "Sunday"}, {Name: "Monday"}, {Name: "Tuesday"},
			{Name: "Wednesday"}, {Name: "Thursday"}, {Name: "Friday"},
			{Name: "Saturday"},
		},
		Leap: calendar.LeapConfig{Rule: calendar.LeapGregorian, Month: "February", ExtraDays: 1},
		Year: calendar.YearConfig{Epoch: 2024, CurrentYear: 2024, StartDay: 1},
	}
}

func date(calc *calendar.Calculus, year, month, day int) calendar.Date {
	return calendar.Date{
		Year:    year,
		Month:   month,
		Day:     day,
		Weekday: calc.CalculateWeekday(year, month, day),
	}
}

func monthDays(occ []Occurrence) [][2]int {
	out := make([][2]int, len(occ))
	for i, o := range occ {
		out[i] = [2]int{o.Date.Month, o.Date.Day}
	}
	return out
}

func TestGenerateDaily(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewDaily(2)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 1, 10), calc)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 1}, {1, 3}, {1, 5}, {1, 7}, {1, 9}}, monthDays(occ))
	for i, o := range occ {
		assert.Equal(t, i, o.Index)
		assert.False(t, o.IsException)
	}
}

func TestGenerateDailySkipsBeforeRange(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewDaily(3)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 8), date(calc, 1, 1, 14), calc)
	require.NoError(t, err)

	// days 1, 4, 7 fall before the range; index still counts their advances
	assert.Equal(t, [][2]int{{1, 10}, {1, 13}}, monthDays(occ))
	assert.Equal(t, 3, occ[0].Index)
	assert.Equal(t, 4, occ[1].Index)
}

func TestGenerateWeeklyWholeWeeks(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewWeekly(1)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 1, 20), calc)
	require.NoError(t, err)

	// a week is five days in this calendar, never seven
	assert.Equal(t, [][2]int{{1, 1}, {1, 6}, {1, 11}, {1, 16}}, monthDays(occ))
}

func TestGenerateWeeklyWithWeekdays(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewWeekly(1, 1, 3)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 1, 12), calc)
	require.NoError(t, err)

	// start (weekday 0), then weekdays 1 and 3 of each 5-day week
	assert.Equal(t, [][2]int{{1, 1}, {1, 2}, {1, 4}, {1, 7}, {1, 9}, {1, 12}}, monthDays(occ))
	for _, o := range occ[1:] {
		assert.Contains(t, []int{1, 3}, o.Date.Weekday)
	}
}

func TestGenerateWeeklyInterval(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewWeekly(2, 0)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 1, 30), calc)
	require.NoError(t, err)

	// weekday 0 every second week
	assert.Equal(t, [][2]int{{1, 1}, {1, 11}, {1, 21}}, monthDays(occ))
}

func TestGenerateWeeklyAcrossIntercalary(t *testing.T) {
	def := fiveDayWeekDefinition()
	def.Intercalary = []calendar.IntercalaryRule{
		{Name: "Midsummer", After: "First", Days: 1, CountsForWeekdays: false},
	}
	calc := newTestCalculus(t, def)
	p, err := NewWeekly(1, 1)
	require.NoError(t, err)

	start := date(calc, 1, 1, 2)
	require.Equal(t, 1, start.Weekday)

	occ, err := GenerateOccurrences(
		start, p,
		date(calc, 1, 1, 1), date(calc, 2, 1, 5), calc)
	require.NoError(t, err)

	// Midsummer sits between the months without advancing the weekday
	// cycle, so the cadence lands one date later in the second month
	assert.Equal(t, [][2]int{
		{1, 2}, {1, 7}, {1, 12}, {1, 17}, {1, 22}, {1, 27},
		{2, 2}, {2, 7}, {2, 12}, {2, 17}, {2, 22}, {2, 27},
		{1, 2},
	}, monthDays(occ))
	for _, o := range occ {
		assert.False(t, o.Date.IsIntercalary())
		assert.Equal(t, 1, o.Date.Weekday)
	}
	assert.Equal(t, 2, occ[len(occ)-1].Date.Year)
}

func TestGenerateWeeklyWeekdayBeyondWeek(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())

	p, err := NewWeekly(1, 7)
	require.NoError(t, err)
	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.NoError(t, err)
	// weekday 7 does not exist in a five-day week; only the start matches
	assert.Equal(t, [][2]int{{1, 1}}, monthDays(occ))

	p, err = NewWeekly(1, 2, 7)
	require.NoError(t, err)
	occ, err = GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 1, 14), calc)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 1}, {1, 3}, {1, 8}, {1, 13}}, monthDays(occ))
	for _, o := range occ[1:] {
		assert.Equal(t, 2, o.Date.Weekday)
	}
}

func TestGenerateMonthlyByDay(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewMonthlyByDay(1, 15)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 10), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.NoError(t, err)

	// the start date is its own occurrence; the target day is picked up
	// in the same month because it hasn't passed yet
	assert.Equal(t, [][2]int{{1, 10}, {1, 15}, {2, 15}}, monthDays(occ))
}

func TestGenerateMonthlyByDayClamps(t *testing.T) {
	calc := newTestCalculus(t, gregorianTestDefinition())
	p, err := NewMonthlyByDay(1, 31)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 2024, 1, 31), p,
		date(calc, 2024, 1, 1), date(calc, 2024, 4, 30), calc)
	require.NoError(t, err)

	// February clamps to its leap-year length
	assert.Equal(t, [][2]int{{1, 31}, {2, 29}, {3, 31}, {4, 30}}, monthDays(occ))
}

func TestGenerateMonthlyByWeekday(t *testing.T) {
	calc := newTestCalculus(t, gregorianTestDefinition())
	p, err := NewMonthlyByWeekday(1, 1, 2) // 2nd Monday
	require.NoError(t, err)

	start := date(calc, 2024, 1, 8)
	require.Equal(t, 1, start.Weekday)

	occ, err := GenerateOccurrences(
		start, p,
		date(calc, 2024, 1, 1), date(calc, 2024, 3, 31), calc)
	require.NoError(t, err)

	// exactly one occurrence per month of the three-month range
	assert.Equal(t, [][2]int{{1, 8}, {2, 12}, {3, 11}}, monthDays(occ))
	for _, o := range occ {
		assert.Equal(t, 1, o.Date.Weekday)
	}
}

func TestGenerateMonthlyByWeekdaySkipsShortMonths(t *testing.T) {
	calc := newTestCalculus(t, gregorianTestDefinition())
	p, err := NewMonthlyByWeekday(1, 3, 5) // 5th Wednesday
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 2024, 1, 31), p, // 2024-01-31 is the 5th Wednesday
		date(calc, 2024, 1, 1), date(calc, 2024, 7, 31), calc)
	require.NoError(t, err)

	// only months with five Wednesdays yield an occurrence
	require.NotEmpty(t, occ)
	assert.Equal(t, [2]int{1, 31}, monthDays(occ)[0])
	for _, o := range occ {
		assert.Equal(t, 3, o.Date.Weekday)
		// the 5th occurrence always lands in the last possible week
		assert.GreaterOrEqual(t, o.Date.Day, 29)
	}
}

func TestGenerateMonthlyByWeekdayNeverMatches(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewMonthlyByWeekday(1, 7, 1) // weekday 7 of a 5-day week
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.NoError(t, err)

	// the start date is emitted, then the pattern exhausts gracefully
	assert.Equal(t, [][2]int{{1, 1}}, monthDays(occ))
}

func TestGenerateYearly(t *testing.T) {
	calc := newTestCalculus(t, gregorianTestDefinition())
	p, err := NewYearly(1, 2, 29)
	require.NoError(t, err)

	occ, err := GenerateOccurrences(
		date(calc, 2024, 2, 29), p,
		date(calc, 2024, 1, 1), date(calc, 2028, 12, 31), calc)
	require.NoError(t, err)

	var got [][2]int
	for _, o := range occ {
		got = append(got, [2]int{o.Date.Year, o.Date.Day})
	}
	// common years clamp to February 28th
	assert.Equal(t, [][2]int{
		{2024, 29}, {2025, 28}, {2026, 28}, {2027, 28}, {2028, 29},
	}, got)
}

func TestGenerateExceptions(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewDaily(1)
	require.NoError(t, err)
	p = p.WithExceptions(date(calc, 1, 1, 3).DateOnly())

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 1, 5), calc)
	require.NoError(t, err)

	// exceptions are still emitted, only flagged
	require.Len(t, occ, 5)
	for _, o := range occ {
		assert.Equal(t, o.Date.Day == 3, o.IsException)
	}
}

func TestGenerateEndDate(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewDaily(5)
	require.NoError(t, err)
	p = p.WithEndDate(date(calc, 1, 1, 12))

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 1}, {1, 6}, {1, 11}}, monthDays(occ))
}

func TestGenerateMaxOccurrences(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewDaily(1)
	require.NoError(t, err)
	p = p.WithMaxOccurrences(4)

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.NoError(t, err)
	assert.Len(t, occ, 4)
}

func TestGenerateUnsupportedFrequency(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p := Pattern{Frequency: Frequency(42), Interval: 1}

	_, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.ErrorIs(t, err, ErrUnsupportedFrequency)
}

func TestGenerateSafetyCap(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	// interval 0 never advances; the cap truncates instead of hanging
	p := Pattern{Frequency: Daily, Interval: 0}

	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.NoError(t, err)
	assert.Len(t, occ, maxIterations)
}

func TestGeneratePreservesTimeOfDay(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := NewDaily(10)
	require.NoError(t, err)

	start := date(calc, 1, 1, 1).WithTime(calendar.TimeOfDay{Hour: 9, Minute: 30})
	occ, err := GenerateOccurrences(
		start, p,
		date(calc, 1, 1, 1), date(calc, 1, 1, 30), calc)
	require.NoError(t, err)

	require.Len(t, occ, 3)
	for _, o := range occ {
		assert.Equal(t, mo.Some(calendar.TimeOfDay{Hour: 9, Minute: 30}), o.Date.Time)
	}
}

func TestBuilderValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Pattern, error)
	}{
		{name: "daily zero interval", build: func() (Pattern, error) { return NewDaily(0) }},
		{name: "weekly negative weekday", build: func() (Pattern, error) { return NewWeekly(1, -1) }},
		{name: "weekly duplicate weekday", build: func() (Pattern, error) { return NewWeekly(1, 2, 2) }},
		{name: "monthly day zero", build: func() (Pattern, error) { return NewMonthlyByDay(1, 0) }},
		{name: "monthly week zero", build: func() (Pattern, error) { return NewMonthlyByWeekday(1, 1, 0) }},
		{name: "yearly month zero", build: func() (Pattern, error) { return NewYearly(1, 0, 5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			require.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}
