// Package location resolves the user's position, either through the
// platform location service or through a debounced free-text address
// search, and owns the single current-position value the rest of the
// client reads.
package location

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Position is the user's resolved location.
type Position struct {
	Lat       float64
	Lng       float64
	AccuracyM float64 // 0 when unknown
	Label     string  // "Your location" or the chosen address
}

// DeviceLocator is the platform location service. It is an external
// collaborator; the TUI ships whatever the host offers and tests ship
// fakes.
type DeviceLocator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// LocatorFunc adapts a function to the DeviceLocator interface.
type LocatorFunc func(ctx context.Context) (Position, error)

// CurrentPosition implements DeviceLocator.
func (f LocatorFunc) CurrentPosition(ctx context.Context) (Position, error) {
	return f(ctx)
}

// Provider coordinates the two ways a position can be acquired and
// retains the most recent successful one. Failures leave the prior
// position untouched.
type Provider struct {
	mu       sync.Mutex
	locator  DeviceLocator
	geocoder *Geocoder

	debouncer   *Debouncer
	minQueryLen int

	current    Position
	hasCurrent bool
}

// NewProvider wires a device locator and a geocoder behind one
// current-position value. The window is the debounce applied to
// query-driven searches.
func NewProvider(locator DeviceLocator, geocoder *Geocoder, window time.Duration, minQueryLen int) *Provider {
	return &Provider{
		locator:     locator,
		geocoder:    geocoder,
		debouncer:   NewDebouncer(window),
		minQueryLen: minQueryLen,
	}
}

// Current returns the last successfully resolved position, if any.
func (p *Provider) Current() (Position, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.hasCurrent
}

// SetCurrent records a resolved position (a query pick or an external
// fix).
func (p *Provider) SetCurrent(pos Position) {
	p.mu.Lock()
	p.current = pos
	p.hasCurrent = true
	p.mu.Unlock()
}

// AcquireByDevice asks the platform for a fix. On success the current
// position is updated and returned; on failure the prior position is
// left untouched and the error is returned for the caller to surface
// as a blocking notice.
func (p *Provider) AcquireByDevice(ctx context.Context) (Position, error) {
	pos, err := p.locator.CurrentPosition(ctx)
	if err != nil {
		return Position{}, err
	}
	if pos.Label == "" {
		pos.Label = "Your location"
	}
	p.SetCurrent(pos)
	return pos, nil
}

// QueryInput feeds one keystroke-triggered query into the debounce
// window. Queries shorter than the minimum are ignored, and each call
// discards any pending earlier query. When the window elapses, fire is
// invoked with the surviving text (on the timer goroutine; callers
// route the result back into their event loop).
func (p *Provider) QueryInput(text string, fire func(query string)) {
	text = strings.TrimSpace(text)
	p.debouncer.Cancel()
	if len([]rune(text)) < p.minQueryLen {
		return
	}
	p.debouncer.Debounce(func() { fire(text) })
}

// CancelPending drops any query waiting out its debounce window.
func (p *Provider) CancelPending() {
	p.debouncer.Cancel()
}

// Geocode resolves a query immediately, bypassing the debounce. Used
// once a debounced query actually fires, and by the one-shot CLI.
func (p *Provider) Geocode(ctx context.Context, query string) ([]Candidate, error) {
	return p.geocoder.Search(ctx, query)
}
