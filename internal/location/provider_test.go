package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireByDevice(t *testing.T) {
	t.Run("success updates current", func(t *testing.T) {
		locator := LocatorFunc(func(ctx context.Context) (Position, error) {
			return Position{Lat: 21.02, Lng: 105.85, AccuracyM: 35}, nil
		})
		p := NewProvider(locator, nil, 500*time.Millisecond, 2)

		pos, err := p.AcquireByDevice(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Your location", pos.Label)

		cur, ok := p.Current()
		require.True(t, ok)
		assert.InDelta(t, 21.02, cur.Lat, 1e-9)
	})

	t.Run("failure leaves prior position untouched", func(t *testing.T) {
		fail := errors.New("permission denied")
		locator := LocatorFunc(func(ctx context.Context) (Position, error) {
			return Position{}, fail
		})
		p := NewProvider(locator, nil, 500*time.Millisecond, 2)
		p.SetCurrent(Position{Lat: 1, Lng: 2, Label: "Chosen address"})

		_, err := p.AcquireByDevice(context.Background())
		assert.ErrorIs(t, err, fail)

		cur, ok := p.Current()
		require.True(t, ok)
		assert.Equal(t, "Chosen address", cur.Label)
	})

	t.Run("no position until first fix", func(t *testing.T) {
		p := NewProvider(nil, nil, 500*time.Millisecond, 2)
		_, ok := p.Current()
		assert.False(t, ok)
	})
}

func TestQueryInputDebounce(t *testing.T) {
	t.Run("only the last keystroke fires", func(t *testing.T) {
		p := NewProvider(nil, nil, 60*time.Millisecond, 2)

		var fired int32
		var lastQuery atomic.Value

		// Four keystrokes, each inside the previous window: exactly one
		// request fires, carrying the final text.
		for _, q := range []string{"ha", "han", "hano", "hanoi old quarter"} {
			p.QueryInput(q, func(query string) {
				atomic.AddInt32(&fired, 1)
				lastQuery.Store(query)
			})
			time.Sleep(15 * time.Millisecond)
		}
		time.Sleep(120 * time.Millisecond)

		assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
		assert.Equal(t, "hanoi old quarter", lastQuery.Load())
	})

	t.Run("short input is ignored and cancels pending", func(t *testing.T) {
		p := NewProvider(nil, nil, 30*time.Millisecond, 2)

		var fired int32
		p.QueryInput("ha", func(string) { atomic.AddInt32(&fired, 1) })
		p.QueryInput("h", func(string) { atomic.AddInt32(&fired, 1) })

		time.Sleep(80 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&fired), "backspacing below the minimum discards the pending query")
	})

	t.Run("CancelPending drops the scheduled query", func(t *testing.T) {
		p := NewProvider(nil, nil, 30*time.Millisecond, 2)

		var fired int32
		p.QueryInput("hanoi", func(string) { atomic.AddInt32(&fired, 1) })
		p.CancelPending()

		time.Sleep(80 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	})
}

func TestGeocoderSearch(t *testing.T) {
	t.Run("parses string coordinates", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			assert.Equal(t, "vn", r.URL.Query().Get("countrycodes"))
			assert.Equal(t, "5", r.URL.Query().Get("limit"))
			assert.Equal(t, "hoan kiem", r.URL.Query().Get("q"))
			w.Write([]byte(`[{"lat":"21.0287","lon":"105.8524","display_name":"Hoan Kiem, Hanoi"},{"lat":"bogus","lon":"105.1","display_name":"broken"}]`))
		}))
		defer srv.Close()

		g := NewGeocoder(srv.URL, "vn", 5, "storescout-test")
		candidates, err := g.Search(context.Background(), "hoan kiem")
		require.NoError(t, err)
		require.Len(t, candidates, 1, "unparseable entries are skipped")
		assert.Equal(t, "Hoan Kiem, Hanoi", candidates[0].Label)
		assert.InDelta(t, 21.0287, candidates[0].Lat, 1e-9)
		assert.InDelta(t, 105.8524, candidates[0].Lng, 1e-9)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		g := NewGeocoder(srv.URL, "vn", 5, "storescout-test")
		candidates, err := g.Search(context.Background(), "nowhere")
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("http failure is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		g := NewGeocoder(srv.URL, "vn", 5, "storescout-test")
		_, err := g.Search(context.Background(), "hanoi")
		assert.Error(t, err)
	})
}
