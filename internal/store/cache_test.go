package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReplaceAll(t *testing.T) {
	c := NewCache()

	t.Run("replaces the whole mapping", func(t *testing.T) {
		c.ReplaceAll([]Record{{ID: "a", Name: "Cafe A"}, {ID: "b", Name: "Cafe B"}})
		c.ReplaceAll([]Record{{ID: "c", Name: "Cafe C"}})

		_, ok := c.Lookup("a")
		assert.False(t, ok, "old generation must be dropped")
		rec, ok := c.Lookup("c")
		require.True(t, ok)
		assert.Equal(t, "Cafe C", rec.Name)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("bumps the generation", func(t *testing.T) {
		before := c.Generation()
		c.ReplaceAll(nil)
		assert.Equal(t, before+1, c.Generation())
	})
}

func TestCacheAdd(t *testing.T) {
	c := NewCache()
	c.ReplaceAll([]Record{{ID: "a"}, {ID: "b"}})

	c.Add(Record{ID: "s", Name: "Suggested"})

	t.Run("keeps the existing generation", func(t *testing.T) {
		_, ok := c.Lookup("a")
		assert.True(t, ok)
		assert.Equal(t, 3, c.Len())
	})

	t.Run("suggested store resolves", func(t *testing.T) {
		rec, ok := c.Lookup("s")
		require.True(t, ok)
		assert.Equal(t, "Suggested", rec.Name)
	})

	t.Run("overwrites an existing id", func(t *testing.T) {
		c.Add(Record{ID: "a", Name: "Renamed"})
		rec, _ := c.Lookup("a")
		assert.Equal(t, "Renamed", rec.Name)
		assert.Equal(t, 3, c.Len())
	})
}

func TestCacheLookupMiss(t *testing.T) {
	c := NewCache()
	c.ReplaceAll([]Record{{ID: "a"}})

	rec, ok := c.Lookup("gone")
	assert.False(t, ok)
	assert.Zero(t, rec)
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0.45, "450m"},
		{2.3, "2.30km"},
		{0, "0m"},
		{0.9996, "1000m"},
		{1, "1.00km"},
		{12.345, "12.35km"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDistance(tc.km), "km=%v", tc.km)
	}
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★★☆", Stars(4.2))
	assert.Equal(t, "★★★★★", Stars(4.6))
	assert.Equal(t, "☆☆☆☆☆", Stars(0))
	assert.Equal(t, "★★★★★", Stars(7))
}

func TestReviewCountLabel(t *testing.T) {
	assert.Equal(t, "", ReviewCountLabel(0))
	assert.Equal(t, "(12 reviews)", ReviewCountLabel(12))
}
