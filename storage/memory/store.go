// Package memory implements storage.Store with in-memory maps, for tests
// and small deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cyp0633/libworldcal/storage"
	"github.com/google/uuid"
)

// Store implements storage.Store using in-memory maps.
type Store struct {
	mu    sync.RWMutex
	notes map[string]*storage.Note
	byDay map[storage.DayIndex][]string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		notes: make(map[string]*storage.Note),
		byDay: make(map[storage.DayIndex][]string),
	}
}

// PutNote inserts or replaces a note, assigning a UUID when the ID is
// empty. The note is copied; the caller keeps ownership of its argument.
func (s *Store) PutNote(_ context.Context, note *storage.Note) error {
	if note == nil {
		return fmt.Errorf("%w: nil note", storage.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.Detail == nil {
		note.Detail = storage.PlainDetail{}
	}
	if old, ok := s.notes[note.ID]; ok {
		s.unindex(old.Day, old.ID)
	}
	cp := *note
	s.notes[cp.ID] = &cp
	s.byDay[cp.Day] = append(s.byDay[cp.Day], cp.ID)
	return nil
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(_ context.Context, id string) (*storage.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	cp := *note
	return &cp, nil
}

// DeleteNote removes a note by ID.
func (s *Store) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	s.unindex(note.Day, id)
	delete(s.notes, id)
	return nil
}

// NotesOn retrieves all notes anchored to one day, in insertion order.
func (s *Store) NotesOn(_ context.Context, day storage.DayIndex) ([]*storage.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byDay[day]
	notes := make([]*storage.Note, 0, len(ids))
	for _, id := range ids {
		cp := *s.notes[id]
		notes = append(notes, &cp)
	}
	return notes, nil
}

// NotesBetween retrieves all notes anchored in [from, to] inclusive,
// ordered by day then ID.
func (s *Store) NotesBetween(_ context.Context, from, to storage.DayIndex) ([]*storage.Note, error) {
	if from > to {
		return nil, fmt.Errorf("%w: from %d after to %d", storage.ErrInvalidInput, from, to)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var notes []*storage.Note
	for _, note := range s.notes {
		if note.Day < from || note.Day > to {
			continue
		}
		cp := *note
		notes = append(notes, &cp)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Day != notes[j].Day {
			return notes[i].Day < notes[j].Day
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

func (s *Store) unindex(day storage.DayIndex, id string) {
	ids := s.byDay[day]
	for i, candidate := range ids {
		if candidate == id {
			s.byDay[day] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byDay[day]) == 0 {
		delete(s.byDay, day)
	}
}
