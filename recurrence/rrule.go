package recurrence

import (
	"fmt"

	"github.com/teambition/rrule-go"
)

// FromRRule converts an RFC 5545 RRULE content line (without the "RRULE:"
// prefix) into a Pattern. BYDAY weekday numbers map positionally onto the
// active calendar's weekday list, so MO is weekday 0, TU weekday 1, and so
// on; COUNT becomes MaxOccurrences.
//
// UNTIL is rejected: a civil timestamp has no defined mapping onto an
// arbitrary calendar. BY* parts the pattern model cannot express are also
// rejected rather than silently dropped.
func FromRRule(s string) (Pattern, error) {
	opt, err := rrule.StrToROption(s)
	if err != nil {
		return Pattern{}, fmt.Errorf("parse rrule %q: %w", s, err)
	}
	if !opt.Until.IsZero() {
		return Pattern{}, fmt.Errorf("%w: UNTIL is not supported", ErrInvalidPattern)
	}
	interval := opt.Interval
	if interval < 1 {
		interval = 1
	}

	var p Pattern
	switch opt.Freq {
	case rrule.DAILY:
		p, err = NewDaily(interval)
	case rrule.WEEKLY:
		days := make([]int, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			if wd.N() != 0 {
				return Pattern{}, fmt.Errorf("%w: ordinal BYDAY needs FREQ=MONTHLY", ErrInvalidPattern)
			}
			days = append(days, wd.Day())
		}
		p, err = NewWeekly(interval, days...)
	case rrule.MONTHLY:
		switch {
		case len(opt.Bymonthday) == 1 && len(opt.Byweekday) == 0:
			p, err = NewMonthlyByDay(interval, opt.Bymonthday[0])
		case len(opt.Byweekday) == 1 && len(opt.Bymonthday) == 0 && opt.Byweekday[0].N() > 0:
			p, err = NewMonthlyByWeekday(interval, opt.Byweekday[0].Day(), opt.Byweekday[0].N())
		default:
			return Pattern{}, fmt.Errorf("%w: FREQ=MONTHLY needs exactly one BYMONTHDAY or one positive-ordinal BYDAY", ErrInvalidPattern)
		}
	case rrule.YEARLY:
		if len(opt.Bymonth) != 1 || len(opt.Bymonthday) != 1 {
			return Pattern{}, fmt.Errorf("%w: FREQ=YEARLY needs exactly one BYMONTH and one BYMONTHDAY", ErrInvalidPattern)
		}
		p, err = NewYearly(interval, opt.Bymonth[0], opt.Bymonthday[0])
	default:
		return Pattern{}, fmt.Errorf("%w: FREQ value %d", ErrUnsupportedFrequency, int(opt.Freq))
	}
	if err != nil {
		return Pattern{}, err
	}
	if opt.Count > 0 {
		p = p.WithMaxOccurrences(opt.Count)
	}
	return p, nil
}
