package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRRule(t *testing.T) {
	tests := []struct {
		name  string
		rrule string
		want  Pattern
	}{
		{
			name:  "daily with interval and count",
			rrule: "FREQ=DAILY;INTERVAL=2;COUNT=5",
			want:  Pattern{Frequency: Daily, Interval: 2, MaxOccurrences: 5},
		},
		{
			name:  "daily default interval",
			rrule: "FREQ=DAILY",
			want:  Pattern{Frequency: Daily, Interval: 1},
		},
		{
			name:  "weekly with weekdays",
			rrule: "FREQ=WEEKLY;BYDAY=MO,WE",
			want:  Pattern{Frequency: Weekly, Interval: 1, Weekdays: []int{0, 2}},
		},
		{
			name:  "monthly by day",
			rrule: "FREQ=MONTHLY;BYMONTHDAY=15",
			want:  Pattern{Frequency: Monthly, Interval: 1, DayOfMonth: 15},
		},
		{
			name:  "monthly second tuesday",
			rrule: "FREQ=MONTHLY;BYDAY=2TU",
			want:  Pattern{Frequency: Monthly, Interval: 1, Weekday: 1, Week: 2},
		},
		{
			name:  "yearly",
			rrule: "FREQ=YEARLY;INTERVAL=4;BYMONTH=2;BYMONTHDAY=29",
			want:  Pattern{Frequency: Yearly, Interval: 4, YearMonth: 2, YearDay: 29},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromRRule(tt.rrule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromRRuleErrors(t *testing.T) {
	tests := []struct {
		name    string
		rrule   string
		wantErr error
	}{
		{name: "until", rrule: "FREQ=DAILY;UNTIL=20301231T000000Z", wantErr: ErrInvalidPattern},
		{name: "hourly", rrule: "FREQ=HOURLY", wantErr: ErrUnsupportedFrequency},
		{name: "monthly without target", rrule: "FREQ=MONTHLY", wantErr: ErrInvalidPattern},
		{name: "monthly last weekday", rrule: "FREQ=MONTHLY;BYDAY=-1FR", wantErr: ErrInvalidPattern},
		{name: "yearly without month", rrule: "FREQ=YEARLY;BYMONTHDAY=1", wantErr: ErrInvalidPattern},
		{name: "weekly ordinal weekday", rrule: "FREQ=WEEKLY;BYDAY=2TU", wantErr: ErrInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRRule(tt.rrule)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFromRRuleGeneratesOnCustomCalendar(t *testing.T) {
	calc := newTestCalculus(t, fiveDayWeekDefinition())
	p, err := FromRRule("FREQ=WEEKLY;BYDAY=MO;COUNT=3")
	require.NoError(t, err)

	// MO maps to weekday 0 of whatever calendar is active, here a
	// five-day week
	occ, err := GenerateOccurrences(
		date(calc, 1, 1, 1), p,
		date(calc, 1, 1, 1), date(calc, 1, 2, 30), calc)
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{1, 1}, {1, 6}, {1, 11}}, monthDays(occ))
}
