package overlay

import (
	"testing"

	"storescout/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSurface tracks live overlays the way a real render surface
// would, tolerating redundant teardown.
type recordingSurface struct {
	markers map[string]LatLng
	routes  int
	pins    int
	userAt  *LatLng
	userAcc float64

	centeredAt LatLng
	centeredZoom int
	fitCalls   int
	calls      []string
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{markers: map[string]LatLng{}}
}

func (s *recordingSurface) AddMarker(id string, at LatLng, label string) {
	s.markers[id] = at
	s.calls = append(s.calls, "add:"+id)
}

func (s *recordingSurface) RemoveMarker(id string) {
	delete(s.markers, id)
	s.calls = append(s.calls, "remove:"+id)
}

func (s *recordingSurface) DrawRoute(from, to LatLng) { s.routes++; s.calls = append(s.calls, "route") }

func (s *recordingSurface) ClearRoute() {
	if s.routes > 0 {
		s.routes--
	}
	s.calls = append(s.calls, "clearRoute")
}

func (s *recordingSurface) SetDestinationPin(at LatLng) { s.pins++; s.calls = append(s.calls, "pin") }

func (s *recordingSurface) ClearDestinationPin() {
	if s.pins > 0 {
		s.pins--
	}
	s.calls = append(s.calls, "clearPin")
}

func (s *recordingSurface) SetUserDot(at LatLng, accuracyRadiusM float64) {
	s.userAt = &at
	s.userAcc = accuracyRadiusM
}

func (s *recordingSurface) CenterOn(at LatLng, zoom int) {
	s.centeredAt = at
	s.centeredZoom = zoom
}

func (s *recordingSurface) FitBounds(a, b LatLng, paddingCells int) { s.fitCalls++ }

func rec(id string, lat, lng float64) store.Record {
	return store.Record{ID: id, Lat: lat, Lng: lng, Name: "Store " + id}
}

func TestDrawStoreListReplacesGeneration(t *testing.T) {
	s := newRecordingSurface()
	m := NewManager(s)

	m.DrawStoreList([]store.Record{rec("a", 21, 105), rec("b", 21.1, 105.1)})
	m.DrawStoreList([]store.Record{rec("c", 21.2, 105.2)})

	assert.Len(t, s.markers, 1)
	_, ok := s.markers["c"]
	assert.True(t, ok)
	_, ok = s.markers["a"]
	assert.False(t, ok, "previous generation markers must be removed")
}

func TestDrawRouteTwiceLeavesOneOfEach(t *testing.T) {
	s := newRecordingSurface()
	m := NewManager(s)

	origin := LatLng{Lat: 21.03, Lng: 105.85}
	m.DrawRoute(origin, rec("a", 21.04, 105.86))
	m.DrawRoute(origin, rec("b", 21.05, 105.87))

	assert.Equal(t, 1, s.routes, "exactly one route line")
	assert.Equal(t, 1, s.pins, "exactly one destination pin")
	assert.Equal(t, 2, s.fitCalls)

	dest, active := m.RouteDestination()
	require.True(t, active)
	assert.Equal(t, "b", dest)
}

func TestClearRouteIdempotent(t *testing.T) {
	s := newRecordingSurface()
	m := NewManager(s)

	m.ClearRoute() // nothing active: no surface calls
	assert.Empty(t, s.calls)

	m.DrawRoute(LatLng{}, rec("a", 1, 2))
	m.ClearRoute()
	m.ClearRoute()

	assert.Equal(t, 0, s.routes)
	assert.Equal(t, 0, s.pins)
	_, active := m.RouteDestination()
	assert.False(t, active)
}

func TestResetClearsEverything(t *testing.T) {
	s := newRecordingSurface()
	m := NewManager(s)

	m.DrawStoreList([]store.Record{rec("a", 21, 105)})
	m.DrawRoute(LatLng{Lat: 21.03, Lng: 105.85}, rec("a", 21, 105))

	m.Reset()

	assert.Empty(t, s.markers)
	assert.Equal(t, 0, s.routes)
	assert.Equal(t, 0, s.pins)
}

func TestSetUserPositionCapsAccuracy(t *testing.T) {
	s := newRecordingSurface()
	m := NewManager(s)

	m.SetUserPosition(LatLng{Lat: 21, Lng: 105}, 850)
	assert.Equal(t, float64(200), s.userAcc)

	m.SetUserPosition(LatLng{Lat: 21, Lng: 105}, 35)
	assert.Equal(t, float64(35), s.userAcc)
}
