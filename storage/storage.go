// Package storage defines the date-indexed note store the calendar core
// collaborates with. The core itself never persists anything; it hands a
// backend the day index it computed and reads notes back through this
// contract.
package storage

import (
	"context"
	"errors"

	"github.com/cyp0633/libworldcal/recurrence"
)

// DayIndex keys notes by the engine's signed day index: days since day 1
// of month 1 of the calendar's epoch year.
type DayIndex int64

// Store connects a backend (database, file, memory) with the calendar
// core. Please use the error values provided.
type Store interface {
	// PutNote inserts or replaces a note. Implementations assign the ID
	// when it is empty.
	PutNote(ctx context.Context, note *Note) error
	// GetNote retrieves a note by ID.
	GetNote(ctx context.Context, id string) (*Note, error)
	// DeleteNote removes a note by ID.
	DeleteNote(ctx context.Context, id string) error
	// NotesOn retrieves all notes anchored to one day.
	NotesOn(ctx context.Context, day DayIndex) ([]*Note, error)
	// NotesBetween retrieves all notes anchored in [from, to], inclusive,
	// ordered by day then ID.
	NotesBetween(ctx context.Context, from, to DayIndex) ([]*Note, error)
}

var (
	// ErrNotFound is returned when a requested note doesn't exist
	ErrNotFound = errors.New("note not found")
	// ErrInvalidInput is returned when the input parameters are invalid
	ErrInvalidInput = errors.New("invalid input parameters")
)

// Note is a dated entry anchored to one calendar day. Recurring notes
// anchor to their first occurrence and carry the pattern in their detail.
type Note struct {
	// ID is a UUID assigned by the store.
	ID string
	// Day anchors the note in the calendar.
	Day     DayIndex
	Title   string
	Content string
	// Detail carries the kind-specific part of the note. Exactly one
	// concrete type applies per note; switch on it to handle every kind.
	Detail Detail
}

// Detail is the kind-specific payload of a note.
type Detail interface {
	noteDetail()
}

// PlainDetail marks a one-off note with no repeat behavior.
type PlainDetail struct{}

// RecurringDetail repeats the note according to the embedded pattern,
// starting from the note's anchor day.
type RecurringDetail struct {
	Pattern recurrence.Pattern
}

func (PlainDetail) noteDetail()     {}
func (RecurringDetail) noteDetail() {}
