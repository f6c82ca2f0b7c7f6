// Package clock hosts the world-time provider collaborator. The calendar
// core never tracks "now" itself; something like a SimpleProvider owns the
// linear time value and pushes converted dates out to interested parties.
package clock

import (
	"io"
	"log/slog"
	"sync"

	"github.com/cyp0633/libworldcal/calendar"
)

// Provider supplies the current linear world time and accepts updates.
type Provider interface {
	// WorldTime returns the current linear time in seconds.
	WorldTime() float64
	// SetWorldTime replaces the current linear time.
	SetWorldTime(t float64)
	// Advance shifts the current linear time by dt seconds; dt may be
	// negative.
	Advance(dt float64)
}

// Listener receives the new linear time and its converted date after every
// change. Listeners are called synchronously on the caller's goroutine.
type Listener func(t float64, date calendar.Date)

// Options configures a SimpleProvider.
type Options struct {
	// Logger receives time-change logs. Defaults to a discard logger.
	Logger *slog.Logger
	// InitialTime is the starting world time in seconds.
	InitialTime float64
}

// SimpleProvider is a mutex-guarded in-process Provider that converts
// every new time through a calendar engine before notifying listeners.
type SimpleProvider struct {
	mu        sync.Mutex
	t         float64
	listeners []Listener

	calc   *calendar.Calculus
	logger *slog.Logger
}

// NewSimpleProvider creates a provider converting through the given
// engine.
func NewSimpleProvider(calc *calendar.Calculus, opts Options) *SimpleProvider {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SimpleProvider{t: opts.InitialTime, calc: calc, logger: logger}
}

// Subscribe registers a listener for future time changes.
func (p *SimpleProvider) Subscribe(l Listener) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, l)
}

// WorldTime returns the current linear time in seconds.
func (p *SimpleProvider) WorldTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t
}

// SetWorldTime replaces the current linear time and notifies listeners.
func (p *SimpleProvider) SetWorldTime(t float64) {
	p.mu.Lock()
	p.t = t
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()
	p.notify(t, listeners)
}

// Advance shifts the current linear time by dt seconds and notifies
// listeners.
func (p *SimpleProvider) Advance(dt float64) {
	p.mu.Lock()
	p.t += dt
	t := p.t
	listeners := append([]Listener(nil), p.listeners...)
	p.mu.Unlock()
	p.notify(t, listeners)
}

func (p *SimpleProvider) notify(t float64, listeners []Listener) {
	date := p.calc.WorldTimeToDate(t)
	p.logger.Debug("world time changed",
		"worldTime", t,
		"year", date.Year,
		"month", date.Month,
		"day", date.Day)
	for _, l := range listeners {
		l(t, date)
	}
}
