package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackStartsIdle(t *testing.T) {
	s := NewStack()
	assert.Equal(t, StateIdle, s.State())
	_, ok := s.DetailID()
	assert.False(t, ok)
}

func TestStackShowList(t *testing.T) {
	t.Run("results present", func(t *testing.T) {
		s := NewStack()
		s.ShowList("3 stores rendered", 3)
		assert.Equal(t, StateList, s.State())
	})

	t.Run("zero results show the empty notice", func(t *testing.T) {
		s := NewStack()
		s.ShowList("No stores found nearby.", 0)
		assert.Equal(t, StateEmpty, s.State())
	})

	t.Run("new results replace an open detail view", func(t *testing.T) {
		s := NewStack()
		s.ShowList("old", 2)
		s.ShowDetail("s-1")
		s.ShowList("new", 1)
		assert.Equal(t, StateList, s.State())
		snap, count := s.Snapshot()
		assert.Equal(t, "new", snap)
		assert.Equal(t, 1, count)
	})
}

func TestStackBackRestoresSnapshotVerbatim(t *testing.T) {
	s := NewStack()
	rendered := "☕ Cafe A  ★★★★☆  450m\n🍜 Pho B  ★★★☆☆  1.20km\n"
	s.ShowList(rendered, 2)
	s.ShowDetail("s-2")
	require.Equal(t, StateDetail, s.State())

	require.True(t, s.Back())
	assert.Equal(t, StateList, s.State())
	snap, count := s.Snapshot()
	assert.Equal(t, rendered, snap, "snapshot must round-trip unchanged")
	assert.Equal(t, 2, count)
}

func TestStackBackFromDetailWithoutSearch(t *testing.T) {
	s := NewStack()
	s.ShowDetail("s-9")
	require.True(t, s.Back())
	assert.Equal(t, StateIdle, s.State())
}

func TestStackBackToEmptyNotice(t *testing.T) {
	s := NewStack()
	s.ShowList("", 0)
	s.ShowDetail("s-3")
	require.True(t, s.Back())
	assert.Equal(t, StateEmpty, s.State())
}

func TestStackBackOutsideDetailIsNoOp(t *testing.T) {
	s := NewStack()
	assert.False(t, s.Back())
	s.ShowList("rows", 4)
	assert.False(t, s.Back())
	assert.Equal(t, StateList, s.State())
}

func TestStackDetailFromAnyState(t *testing.T) {
	s := NewStack()
	s.ShowDetail("card-store")
	assert.Equal(t, StateDetail, s.State())
	id, ok := s.DetailID()
	require.True(t, ok)
	assert.Equal(t, "card-store", id)
}
