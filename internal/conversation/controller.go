// Package conversation owns the assistant transcript: an append-only
// sequence of user and assistant messages, at most one removable
// "thinking" placeholder, and inline store-suggestion cards.
package conversation

import (
	"fmt"

	"github.com/google/uuid"

	"storescout/internal/store"
)

// Role identifies who a transcript entry belongs to.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Handle identifies a transient notice for later removal.
type Handle string

// Entry is one transcript item. Card entries keep the store identifier
// for activation and a summary frozen at append time, so the
// transcript stays append-only even if the cache later drops the
// record.
type Entry struct {
	ID        string
	Role      Role
	Text      string
	Transient bool
	CardID    string // non-empty for suggestion cards
}

// IsCard reports whether the entry is a clickable suggestion card.
func (e Entry) IsCard() bool { return e.CardID != "" }

// Controller appends transcript entries. It is driven entirely from
// the event loop and keeps no locking of its own.
type Controller struct {
	entries       []Entry
	pendingNotice Handle
	scrollWanted  bool
}

// NewController returns an empty transcript.
func NewController() *Controller {
	return &Controller{}
}

// AppendUserMessage adds a message from the user.
func (c *Controller) AppendUserMessage(text string) Entry {
	return c.append(Entry{ID: uuid.NewString(), Role: RoleUser, Text: text})
}

// AppendAssistantMessage adds a message from the assistant.
func (c *Controller) AppendAssistantMessage(text string) Entry {
	return c.append(Entry{ID: uuid.NewString(), Role: RoleAssistant, Text: text})
}

// AppendTransientNotice adds a removable placeholder ("thinking...").
// Only one may be pending at a time; appending a new one removes the
// previous placeholder first.
func (c *Controller) AppendTransientNotice(text string) Handle {
	if c.pendingNotice != "" {
		c.RemoveTransientNotice(c.pendingNotice)
	}
	e := c.append(Entry{ID: uuid.NewString(), Role: RoleAssistant, Text: text, Transient: true})
	c.pendingNotice = Handle(e.ID)
	return c.pendingNotice
}

// RemoveTransientNotice removes the placeholder identified by the
// handle. Removing an already-removed notice is a no-op.
func (c *Controller) RemoveTransientNotice(h Handle) bool {
	for i, e := range c.entries {
		if e.ID == string(h) && e.Transient {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			if c.pendingNotice == h {
				c.pendingNotice = ""
			}
			return true
		}
	}
	return false
}

// AppendSuggestionCard adds a compact clickable summary of a store.
// Activation resolves the store by identifier, not from this entry.
func (c *Controller) AppendSuggestionCard(r store.Record) Entry {
	summary := fmt.Sprintf("%s %s\n%s · %s\n%s · %s away",
		r.Name, store.Stars(r.Rating),
		r.Category, r.Address,
		store.ReviewCountLabel(r.ReviewCount), store.FormatDistance(r.DistanceKm))
	return c.append(Entry{ID: uuid.NewString(), Role: RoleAssistant, Text: summary, CardID: r.ID})
}

// Entries returns a copy of the transcript in order.
func (c *Controller) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len reports the transcript length.
func (c *Controller) Len() int { return len(c.entries) }

// ConsumeScroll reports whether an append happened since the last
// call; the renderer uses it to jump to the newest entry.
func (c *Controller) ConsumeScroll() bool {
	wanted := c.scrollWanted
	c.scrollWanted = false
	return wanted
}

func (c *Controller) append(e Entry) Entry {
	c.entries = append(c.entries, e)
	c.scrollWanted = true
	return e
}
