package storage

import (
	"github.com/cyp0633/libworldcal/calendar"
	"github.com/cyp0633/libworldcal/recurrence"
)

// NoteOccurrences expands one note across [from, to] inclusive. A plain
// note yields at most its own anchor day; a recurring note is expanded
// through the generator against the given engine.
func NoteOccurrences(note *Note, from, to DayIndex, calc *calendar.Calculus) ([]recurrence.Occurrence, error) {
	start := calc.DaysToDate(int64(note.Day))
	switch detail := note.Detail.(type) {
	case RecurringDetail:
		rangeStart := calc.DaysToDate(int64(from))
		rangeEnd := calc.DaysToDate(int64(to))
		return recurrence.GenerateOccurrences(start, detail.Pattern, rangeStart, rangeEnd, calc)
	default:
		if note.Day < from || note.Day > to {
			return nil, nil
		}
		return []recurrence.Occurrence{{Date: start}}, nil
	}
}
