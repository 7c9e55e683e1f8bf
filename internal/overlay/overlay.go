// Package overlay decides what the map surface shows and when it is
// cleared. It owns the store markers, the single destination pin, the
// single route line, and the user-position dot; the actual drawing is
// behind the Surface interface so a render layer (or a test fake) can
// be swapped in.
package overlay

import (
	"storescout/internal/logging"
	"storescout/internal/store"
)

// LatLng is a point in geographic degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Zoom levels used by the client, matching the map behavior users
// expect: overview after a search, close-up on the user position.
const (
	ZoomOverview = 14
	ZoomStore    = 15
	ZoomUser     = 16
)

// FramePaddingCells is the margin kept around both route endpoints
// when the viewport is adjusted to frame them.
const FramePaddingCells = 4

// maxAccuracyRadiusM caps the rendered accuracy circle so a poor fix
// does not swallow the viewport.
const maxAccuracyRadiusM = 200

// Surface performs the actual drawing. Implementations must tolerate
// removal of something already removed as a no-op; teardown can be
// requested redundantly during rapid interaction.
type Surface interface {
	AddMarker(id string, at LatLng, label string)
	RemoveMarker(id string)
	DrawRoute(from, to LatLng)
	ClearRoute()
	SetDestinationPin(at LatLng)
	ClearDestinationPin()
	SetUserDot(at LatLng, accuracyRadiusM float64)
	CenterOn(at LatLng, zoom int)
	FitBounds(a, b LatLng, paddingCells int)
}

// Manager tracks which overlays are live so every redraw is an atomic
// clear-then-draw and no superseded marker or route survives.
type Manager struct {
	surface Surface

	markerIDs   []string
	routeActive bool
	routeDest   string
}

// NewManager creates a manager drawing onto the given surface.
func NewManager(surface Surface) *Manager {
	return &Manager{surface: surface}
}

// DrawStoreList removes every marker from the previous generation and
// creates one marker per record. Marker order carries no meaning.
func (m *Manager) DrawStoreList(records []store.Record) {
	for _, id := range m.markerIDs {
		m.surface.RemoveMarker(id)
	}
	m.markerIDs = m.markerIDs[:0]

	for _, r := range records {
		m.surface.AddMarker(r.ID, LatLng{Lat: r.Lat, Lng: r.Lng}, r.Name)
		m.markerIDs = append(m.markerIDs, r.ID)
	}
	logging.Overlay("drew %d markers", len(records))
}

// AddStore places one extra marker without disturbing the current
// generation. Re-adding an id replaces its marker in place.
func (m *Manager) AddStore(r store.Record) {
	for _, id := range m.markerIDs {
		if id == r.ID {
			m.surface.RemoveMarker(id)
			m.surface.AddMarker(r.ID, LatLng{Lat: r.Lat, Lng: r.Lng}, r.Name)
			return
		}
	}
	m.surface.AddMarker(r.ID, LatLng{Lat: r.Lat, Lng: r.Lng}, r.Name)
	m.markerIDs = append(m.markerIDs, r.ID)
}

// DrawRoute tears down any active route in full (line and destination
// pin) before drawing the new one, then frames both endpoints.
func (m *Manager) DrawRoute(origin LatLng, dest store.Record) {
	m.ClearRoute()

	to := LatLng{Lat: dest.Lat, Lng: dest.Lng}
	m.surface.SetDestinationPin(to)
	m.surface.DrawRoute(origin, to)
	m.surface.FitBounds(origin, to, FramePaddingCells)

	m.routeActive = true
	m.routeDest = dest.ID
	logging.Overlay("route to %s", dest.ID)
}

// ClearRoute removes the active route overlay and destination pin if
// present; no-op otherwise.
func (m *Manager) ClearRoute() {
	if !m.routeActive {
		return
	}
	m.surface.ClearRoute()
	m.surface.ClearDestinationPin()
	m.routeActive = false
	m.routeDest = ""
}

// RouteDestination reports the store the active route points at.
func (m *Manager) RouteDestination() (string, bool) {
	return m.routeDest, m.routeActive
}

// CenterOn recenters the viewport without touching overlays.
func (m *Manager) CenterOn(at LatLng, zoom int) {
	m.surface.CenterOn(at, zoom)
}

// SetUserPosition moves the user dot, capping the accuracy circle.
func (m *Manager) SetUserPosition(at LatLng, accuracyM float64) {
	if accuracyM > maxAccuracyRadiusM {
		accuracyM = maxAccuracyRadiusM
	}
	if accuracyM < 0 {
		accuracyM = 0
	}
	m.surface.SetUserDot(at, accuracyM)
}

// Reset clears every overlay this manager owns: called when a new
// search cycle is issued so nothing stale survives until the response
// lands.
func (m *Manager) Reset() {
	for _, id := range m.markerIDs {
		m.surface.RemoveMarker(id)
	}
	m.markerIDs = m.markerIDs[:0]
	m.ClearRoute()
}
