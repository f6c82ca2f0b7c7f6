package calendar

import (
	"errors"
	"fmt"
)

// ErrInvalidDefinition is returned when a calendar definition fails schema
// validation.
var ErrInvalidDefinition = errors.New("invalid calendar definition")

// Validate checks the definition's structural invariants: positive time
// units, non-empty unique month and weekday lists, resolvable leap and
// intercalary references. It runs once per definition swap; the conversion
// path assumes a validated definition and never re-checks.
func (d *Definition) Validate() error {
	if d.Time.HoursInDay < 1 || d.Time.MinutesInHour < 1 || d.Time.SecondsInMinute < 1 {
		return fmt.Errorf("%w: time units must all be at least 1", ErrInvalidDefinition)
	}
	if len(d.Months) == 0 {
		return fmt.Errorf("%w: at least one month is required", ErrInvalidDefinition)
	}
	monthNames := make(map[string]bool, len(d.Months))
	for i, m := range d.Months {
		if m.Name == "" {
			return fmt.Errorf("%w: month %d has no name", ErrInvalidDefinition, i+1)
		}
		if monthNames[m.Name] {
			return fmt.Errorf("%w: duplicate month name %q", ErrInvalidDefinition, m.Name)
		}
		monthNames[m.Name] = true
		if m.Days < 1 || m.Days > 366 {
			return fmt.Errorf("%w: month %q has %d days, want 1..366", ErrInvalidDefinition, m.Name, m.Days)
		}
	}
	if len(d.Weekdays) == 0 {
		return fmt.Errorf("%w: at least one weekday is required", ErrInvalidDefinition)
	}
	weekdayNames := make(map[string]bool, len(d.Weekdays))
	for i, w := range d.Weekdays {
		if w.Name == "" {
			return fmt.Errorf("%w: weekday %d has no name", ErrInvalidDefinition, i)
		}
		if weekdayNames[w.Name] {
			return fmt.Errorf("%w: duplicate weekday name %q", ErrInvalidDefinition, w.Name)
		}
		weekdayNames[w.Name] = true
	}
	if d.Year.StartDay < 0 || d.Year.StartDay >= len(d.Weekdays) {
		return fmt.Errorf("%w: startDay %d out of range for %d weekdays", ErrInvalidDefinition, d.Year.StartDay, len(d.Weekdays))
	}
	if d.Leap.Rule != LeapNone {
		if d.Leap.Month == "" || !monthNames[d.Leap.Month] {
			return fmt.Errorf("%w: leap rule names unknown month %q", ErrInvalidDefinition, d.Leap.Month)
		}
		if d.Leap.ExtraDays < 0 {
			return fmt.Errorf("%w: leap extraDays must not be negative", ErrInvalidDefinition)
		}
	}
	if d.Leap.Rule == LeapCustom && d.Leap.Interval < 1 {
		return fmt.Errorf("%w: custom leap rule needs interval of at least 1", ErrInvalidDefinition)
	}
	for _, r := range d.Intercalary {
		if r.Name == "" {
			return fmt.Errorf("%w: intercalary rule has no name", ErrInvalidDefinition)
		}
		if !monthNames[r.After] {
			return fmt.Errorf("%w: intercalary %q follows unknown month %q", ErrInvalidDefinition, r.Name, r.After)
		}
		if r.Days < 0 {
			return fmt.Errorf("%w: intercalary %q days must not be negative", ErrInvalidDefinition, r.Name)
		}
	}
	return nil
}
