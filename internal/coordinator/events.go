package coordinator

import (
	"storescout/internal/conversation"
	"storescout/internal/gateway"
	"storescout/internal/location"
)

// Event is an async completion delivered back into the event loop.
// Every state mutation happens inside Apply, so the rest of the client
// never needs a lock.
type Event interface {
	isEvent()
}

// Effect is deferred work that ends in an Event. The TUI wraps effects
// in tea.Cmd; the one-shot CLI just calls them inline.
type Effect func() Event

// DeviceLocated reports a successful platform location fix.
type DeviceLocated struct {
	Pos location.Position
}

// DeviceLocateFailed reports that the platform could not produce a
// fix. The prior position, if any, is untouched.
type DeviceLocateFailed struct {
	Err error
}

// GeocodeCompleted carries the address candidates for a debounced
// query. Seq orders geocode operations; stale completions are dropped.
type GeocodeCompleted struct {
	Seq        uint64
	Query      string
	Candidates []location.Candidate
	Err        error
}

// SearchCompleted carries one nearby-store search result.
type SearchCompleted struct {
	Seq  uint64
	Resp *gateway.SearchResponse
	Err  error
}

// ChatCompleted carries one assistant reply, plus the handle of the
// thinking notice that was shown while it was in flight.
type ChatCompleted struct {
	Seq    uint64
	Notice conversation.Handle
	Resp   *gateway.ChatResponse
	Err    error
}

func (DeviceLocated) isEvent()      {}
func (DeviceLocateFailed) isEvent() {}
func (GeocodeCompleted) isEvent()   {}
func (SearchCompleted) isEvent()    {}
func (ChatCompleted) isEvent()      {}
