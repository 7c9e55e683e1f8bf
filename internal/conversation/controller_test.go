package conversation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storescout/internal/store"
)

func TestControllerAppendOrder(t *testing.T) {
	c := NewController()

	c.AppendUserMessage("find coffee near me")
	c.AppendAssistantMessage("Here are some options.")
	c.AppendUserMessage("anything cheaper?")

	want := []Entry{
		{Role: RoleUser, Text: "find coffee near me"},
		{Role: RoleAssistant, Text: "Here are some options."},
		{Role: RoleUser, Text: "anything cheaper?"},
	}
	if diff := cmp.Diff(want, c.Entries(), cmpopts.IgnoreFields(Entry{}, "ID")); diff != "" {
		t.Errorf("transcript mismatch (-want +got):\n%s", diff)
	}
}

func TestControllerTransientNotice(t *testing.T) {
	t.Run("removed notice leaves surrounding entries", func(t *testing.T) {
		c := NewController()
		c.AppendUserMessage("hello")
		h := c.AppendTransientNotice("Thinking...")
		require.Equal(t, 2, c.Len())

		assert.True(t, c.RemoveTransientNotice(h))
		entries := c.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "hello", entries[0].Text)
	})

	t.Run("removal is idempotent", func(t *testing.T) {
		c := NewController()
		h := c.AppendTransientNotice("Thinking...")
		require.True(t, c.RemoveTransientNotice(h))
		assert.False(t, c.RemoveTransientNotice(h))
		assert.Equal(t, 0, c.Len())
	})

	t.Run("at most one pending notice", func(t *testing.T) {
		c := NewController()
		c.AppendTransientNotice("Thinking...")
		h2 := c.AppendTransientNotice("Still thinking...")

		entries := c.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, "Still thinking...", entries[0].Text)
		assert.True(t, c.RemoveTransientNotice(h2))
	})

	t.Run("regular removal does not touch permanent entries", func(t *testing.T) {
		c := NewController()
		e := c.AppendAssistantMessage("done")
		assert.False(t, c.RemoveTransientNotice(Handle(e.ID)))
		assert.Equal(t, 1, c.Len())
	})
}

func TestControllerSuggestionCard(t *testing.T) {
	c := NewController()
	rec := store.Record{
		ID:          "s-42",
		Name:        "Cong Caphe",
		Category:    "cafe",
		Address:     "27 Nha Tho, Hoan Kiem",
		Rating:      4.4,
		ReviewCount: 128,
		DistanceKm:  0.45,
	}
	e := c.AppendSuggestionCard(rec)

	assert.True(t, e.IsCard())
	assert.Equal(t, "s-42", e.CardID)
	assert.Equal(t, RoleAssistant, e.Role)
	assert.Contains(t, e.Text, "Cong Caphe")
	assert.Contains(t, e.Text, "★★★★☆")
	assert.Contains(t, e.Text, "(128 reviews)")
	assert.Contains(t, e.Text, "450m")
}

func TestControllerCardSummaryIsFrozen(t *testing.T) {
	c := NewController()
	rec := store.Record{ID: "s-1", Name: "Original Name", DistanceKm: 1.2}
	e := c.AppendSuggestionCard(rec)

	rec.Name = "Renamed"
	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, e.Text, entries[0].Text)
	assert.Contains(t, entries[0].Text, "Original Name")
}

func TestControllerScrollIntent(t *testing.T) {
	c := NewController()
	assert.False(t, c.ConsumeScroll())

	c.AppendUserMessage("hi")
	assert.True(t, c.ConsumeScroll())
	assert.False(t, c.ConsumeScroll(), "consume clears the flag")
}

func TestControllerEntriesIsACopy(t *testing.T) {
	c := NewController()
	c.AppendUserMessage("one")

	got := c.Entries()
	got[0].Text = "mutated"
	assert.Equal(t, "one", c.Entries()[0].Text)
}
