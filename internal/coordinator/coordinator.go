// Package coordinator is the single owner of client state. User
// actions and async completions both funnel through it, and every
// completion carries a sequence number so a response that was
// superseded while in flight is discarded instead of applied.
package coordinator

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"storescout/internal/conversation"
	"storescout/internal/gateway"
	"storescout/internal/location"
	"storescout/internal/logging"
	"storescout/internal/overlay"
	"storescout/internal/store"
	"storescout/internal/view"
)

// PanelRenderer turns records into the text the results panel shows.
// The list rendering is captured as a snapshot at response time so
// back-navigation can restore it without re-rendering.
type PanelRenderer interface {
	RenderList(records []store.Record) string
	RenderEmptyList() string
	RenderDetail(rec store.Record) string
}

// Coordinator mediates between the position provider, the backend
// gateway, the map overlays, the transcript and the results panel.
// Apply is the only place state changes; it must be called from one
// goroutine (the TUI event loop, or a one-shot command running
// effects inline).
type Coordinator struct {
	ctx      context.Context
	cache    *store.Cache
	provider *location.Provider
	backend  *gateway.Client
	overlays *overlay.Manager
	convo    *conversation.Controller
	views    *view.Stack
	panel    PanelRenderer

	// dispatch routes events produced off the event loop (the debounce
	// timer goroutine) back into it.
	dispatch func(Event)

	searchSeq  atomic.Uint64
	geocodeSeq atomic.Uint64
	chatSeq    atomic.Uint64

	alert      string
	notice     string
	candidates []location.Candidate
	searching  bool
	locating   bool
	results    []store.Record
}

// New wires the coordinator. The context bounds every network call it
// issues.
func New(ctx context.Context, cache *store.Cache, provider *location.Provider, backend *gateway.Client, overlays *overlay.Manager, convo *conversation.Controller, views *view.Stack, panel PanelRenderer) *Coordinator {
	return &Coordinator{
		ctx:      ctx,
		cache:    cache,
		provider: provider,
		backend:  backend,
		overlays: overlays,
		convo:    convo,
		views:    views,
		panel:    panel,
		dispatch: func(Event) {},
	}
}

// SetDispatch installs the callback that feeds timer-goroutine events
// back into the event loop. Must be set before any typing reaches
// QueryChanged.
func (c *Coordinator) SetDispatch(fn func(Event)) {
	c.dispatch = fn
}

// Transcript returns the conversation transcript.
func (c *Coordinator) Transcript() *conversation.Controller { return c.convo }

// Views returns the results-panel state machine.
func (c *Coordinator) Views() *view.Stack { return c.views }

// Cache returns the store cache.
func (c *Coordinator) Cache() *store.Cache { return c.cache }

// Alert returns the blocking notice to show, if any.
func (c *Coordinator) Alert() (string, bool) { return c.alert, c.alert != "" }

// DismissAlert clears the blocking notice.
func (c *Coordinator) DismissAlert() { c.alert = "" }

// Notice returns the inline results-panel notice, if any. It is set
// when a search fails and cleared when the next cycle is issued.
func (c *Coordinator) Notice() (string, bool) { return c.notice, c.notice != "" }

// Locating reports whether a device position fix is in flight.
func (c *Coordinator) Locating() bool { return c.locating }

// Candidates returns the address suggestions for the current query.
func (c *Coordinator) Candidates() []location.Candidate { return c.candidates }

// Searching reports whether a nearby-store search is in flight.
func (c *Coordinator) Searching() bool { return c.searching }

// Results returns the current result set in response order.
func (c *Coordinator) Results() []store.Record { return c.results }

// LocateByDevice asks the platform for a position fix.
func (c *Coordinator) LocateByDevice() Effect {
	c.locating = true
	return func() Event {
		pos, err := c.provider.AcquireByDevice(c.ctx)
		if err != nil {
			return DeviceLocateFailed{Err: err}
		}
		return DeviceLocated{Pos: pos}
	}
}

// QueryChanged feeds one keystroke of the address box into the
// debounce window. When the window elapses the geocode runs on the
// timer goroutine and its completion is dispatched back into the
// event loop. Clearing the box dismisses the suggestion dropdown.
func (c *Coordinator) QueryChanged(text string) {
	if strings.TrimSpace(text) == "" {
		c.candidates = nil
	}
	c.provider.QueryInput(text, func(query string) {
		seq := c.geocodeSeq.Add(1)
		cands, err := c.provider.Geocode(c.ctx, query)
		c.dispatch(GeocodeCompleted{Seq: seq, Query: query, Candidates: cands, Err: err})
	})
}

// PickCandidate adopts one address suggestion as the current position:
// the dropdown closes, the map recenters there, and a fresh search is
// issued.
func (c *Coordinator) PickCandidate(i int) []Effect {
	if i < 0 || i >= len(c.candidates) {
		return nil
	}
	cand := c.candidates[i]
	c.candidates = nil
	c.provider.CancelPending()

	pos := location.Position{Lat: cand.Lat, Lng: cand.Lng, Label: cand.Label}
	c.provider.SetCurrent(pos)
	at := overlay.LatLng{Lat: pos.Lat, Lng: pos.Lng}
	c.overlays.CenterOn(at, overlay.ZoomUser)
	return []Effect{c.beginSearchCycle(pos)}
}

// SendChat submits one user message. The message and a thinking notice
// join the transcript immediately; the reply arrives as ChatCompleted.
func (c *Coordinator) SendChat(text string) []Effect {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	c.convo.AppendUserMessage(text)
	notice := c.convo.AppendTransientNotice("Thinking...")
	seq := c.chatSeq.Add(1)
	return []Effect{func() Event {
		resp, err := c.backend.SendChatMessage(c.ctx, text)
		return ChatCompleted{Seq: seq, Notice: notice, Resp: resp, Err: err}
	}}
}

// SelectStore opens the detail view for a store in the cache. An
// identifier the cache no longer knows is ignored; stale cards go
// quiet rather than crash.
func (c *Coordinator) SelectStore(id string) {
	rec, ok := c.cache.Lookup(id)
	if !ok {
		logging.CoordinatorDebug("select ignored, id %q not cached", id)
		return
	}
	c.views.ShowDetail(id)
	if pos, has := c.provider.Current(); has {
		origin := overlay.LatLng{Lat: pos.Lat, Lng: pos.Lng}
		c.overlays.DrawRoute(origin, rec)
	} else {
		c.overlays.CenterOn(overlay.LatLng{Lat: rec.Lat, Lng: rec.Lng}, overlay.ZoomStore)
	}
}

// Back leaves the detail view: the list snapshot reappears untouched,
// the route comes down, and the map returns to the user.
func (c *Coordinator) Back() {
	if !c.views.Back() {
		return
	}
	c.overlays.ClearRoute()
	if pos, has := c.provider.Current(); has {
		c.overlays.CenterOn(overlay.LatLng{Lat: pos.Lat, Lng: pos.Lng}, overlay.ZoomUser)
	}
}

// Apply folds one async completion into the state and returns any
// follow-up effects. Completions whose sequence number is no longer
// the latest for their kind are dropped.
func (c *Coordinator) Apply(ev Event) []Effect {
	switch ev := ev.(type) {
	case DeviceLocated:
		c.locating = false
		c.alert = ""
		at := overlay.LatLng{Lat: ev.Pos.Lat, Lng: ev.Pos.Lng}
		c.overlays.CenterOn(at, overlay.ZoomUser)
		logging.Coordinator("located lat=%v lng=%v", ev.Pos.Lat, ev.Pos.Lng)
		return []Effect{c.beginSearchCycle(ev.Pos)}

	case DeviceLocateFailed:
		c.locating = false
		logging.Coordinator("device locate failed: %v", ev.Err)
		c.alert = "Unable to determine your location. Check permissions, or search for an address instead."

	case GeocodeCompleted:
		if ev.Seq != c.geocodeSeq.Load() {
			logging.CoordinatorDebug("stale geocode %d dropped", ev.Seq)
			return nil
		}
		if ev.Err != nil {
			logging.Coordinator("geocode %q failed: %v", ev.Query, ev.Err)
			c.candidates = nil
			return nil
		}
		c.candidates = ev.Candidates

	case SearchCompleted:
		if ev.Seq != c.searchSeq.Load() {
			logging.CoordinatorDebug("stale search %d dropped", ev.Seq)
			return nil
		}
		c.searching = false
		c.applySearchResults(ev)

	case ChatCompleted:
		c.convo.RemoveTransientNotice(ev.Notice)
		if ev.Seq != c.chatSeq.Load() {
			logging.CoordinatorDebug("stale chat %d dropped", ev.Seq)
			return nil
		}
		c.applyChatReply(ev)
	}
	return nil
}

// beginSearchCycle clears every overlay at issue time, shows the user
// dot at the position being searched from, and returns the effect that
// performs the request.
func (c *Coordinator) beginSearchCycle(pos location.Position) Effect {
	c.notice = ""
	c.overlays.Reset()
	c.overlays.SetUserPosition(overlay.LatLng{Lat: pos.Lat, Lng: pos.Lng}, pos.AccuracyM)
	c.searching = true
	seq := c.searchSeq.Add(1)
	return func() Event {
		resp, err := c.backend.SearchNearby(c.ctx, pos.Lat, pos.Lng)
		return SearchCompleted{Seq: seq, Resp: resp, Err: err}
	}
}

func (c *Coordinator) applySearchResults(ev SearchCompleted) {
	if ev.Err != nil {
		var te *gateway.TransportError
		if errors.As(ev.Err, &te) {
			logging.Coordinator("search transport failure in %s: %v", te.Op, te.Err)
		} else {
			logging.Coordinator("search failed: %v", ev.Err)
		}
		c.notice = "Could not reach the server. Please try again."
		return
	}
	if ev.Resp.IsError() {
		logging.Coordinator("search rejected: %s", ev.Resp.Message)
		c.notice = ev.Resp.Message
		return
	}
	c.showResultSet(ev.Resp.Stores)
	logging.Coordinator("search returned %d stores", len(ev.Resp.Stores))
}

func (c *Coordinator) applyChatReply(ev ChatCompleted) {
	if ev.Err != nil {
		logging.Coordinator("chat failed: %v", ev.Err)
		c.convo.AppendAssistantMessage("Lost connection to the assistant. Please try again.")
		return
	}
	if ev.Resp.IsError() {
		c.convo.AppendAssistantMessage(ev.Resp.Message)
		return
	}
	if ev.Resp.Reply != "" {
		c.convo.AppendAssistantMessage(ev.Resp.Reply)
	}
	if ev.Resp.Action == gateway.ActionUpdateMap && len(ev.Resp.NewData) > 0 {
		c.showResultSet(ev.Resp.NewData)
		first := ev.Resp.NewData[0]
		c.overlays.CenterOn(overlay.LatLng{Lat: first.Lat, Lng: first.Lng}, overlay.ZoomStore)
	}
	if s := ev.Resp.SuggestedStore; s != nil {
		c.cache.Add(*s)
		c.overlays.AddStore(*s)
		c.convo.AppendSuggestionCard(*s)
	}
}

// showResultSet is the one path that installs a new result
// generation: cache, markers and list snapshot move together.
func (c *Coordinator) showResultSet(records []store.Record) {
	c.results = records
	c.cache.ReplaceAll(records)
	c.overlays.DrawStoreList(records)
	if len(records) == 0 {
		c.views.ShowList(c.panel.RenderEmptyList(), 0)
		return
	}
	c.views.ShowList(c.panel.RenderList(records), len(records))
}
