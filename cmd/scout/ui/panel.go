package ui

import (
	"fmt"
	"strings"

	"storescout/internal/store"
)

// Panel renders the nearby-store results pane. It satisfies the
// coordinator's renderer so list snapshots are captured in their final
// styled form.
type Panel struct {
	styles Styles
	width  int
}

// NewPanel creates a renderer with the given styles.
func NewPanel(styles Styles) *Panel {
	return &Panel{styles: styles, width: 48}
}

// SetWidth adjusts the wrap width for subsequent renders. Snapshots
// already captured keep the width they were rendered at.
func (p *Panel) SetWidth(w int) {
	if w > 0 {
		p.width = w
	}
}

// RenderList renders one row block per store, numbered in response
// order.
func (p *Panel) RenderList(records []store.Record) string {
	var b strings.Builder
	b.WriteString(p.styles.Title.Render(fmt.Sprintf("Nearby stores (%d)", len(records))))
	b.WriteString("\n")
	for i, r := range records {
		b.WriteString(p.styles.Bold.Render(fmt.Sprintf("%d. %s", i+1, r.Name)))
		b.WriteString("\n   ")
		b.WriteString(p.styles.Stars.Render(store.Stars(r.Rating)))
		if label := store.ReviewCountLabel(r.ReviewCount); label != "" {
			b.WriteString(" ")
			b.WriteString(p.styles.Muted.Render(label))
		}
		b.WriteString("  ")
		b.WriteString(p.styles.Info.Render(store.FormatDistance(r.DistanceKm)))
		b.WriteString("\n   ")
		b.WriteString(p.styles.Muted.Render(p.subtitleLine(r)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderEmptyList renders the no-results notice.
func (p *Panel) RenderEmptyList() string {
	return p.styles.Muted.Render("No stores found near this location. Try a different address.")
}

// RenderDetail renders the full record for one store. Section order
// follows the detail card: back control, name, rating, category,
// hours, description, products, reviews, address. Optional sections
// show a placeholder rather than collapsing, so the card keeps its
// shape across stores.
func (p *Panel) RenderDetail(r store.Record) string {
	var b strings.Builder
	b.WriteString(p.styles.Muted.Render("← esc: back to results"))
	b.WriteString("\n\n")

	b.WriteString(p.styles.Title.Render(r.Name))
	b.WriteString("\n")
	b.WriteString(p.styles.Stars.Render(store.Stars(r.Rating)))
	if label := store.ReviewCountLabel(r.ReviewCount); label != "" {
		b.WriteString(" ")
		b.WriteString(p.styles.Muted.Render(label))
	}
	b.WriteString("\n")
	if r.Category != "" {
		b.WriteString(p.styles.Badge.Render(r.Category))
		b.WriteString("  ")
	}
	b.WriteString(p.styles.Info.Render(store.FormatDistance(r.DistanceKm) + " away"))
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(p.styles.Subtitle.Render("Open hours"))
	b.WriteString("\n")
	if r.OpenHours != "" {
		b.WriteString(p.styles.Body.Render(r.OpenHours))
	} else {
		b.WriteString(p.styles.Muted.Render("Hours not listed"))
	}
	b.WriteString("\n")

	b.WriteString("\n")
	if r.Description != "" {
		b.WriteString(p.styles.Body.Render(wrap(r.Description, p.width)))
	} else {
		b.WriteString(p.styles.Muted.Render("No description available"))
	}
	b.WriteString("\n")

	b.WriteString("\n")
	b.WriteString(p.styles.Subtitle.Render("Products"))
	b.WriteString("\n")
	if len(r.Products) > 0 {
		for _, prod := range r.Products {
			b.WriteString(p.styles.Body.Render("• " + prod))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(p.styles.Muted.Render("No product information"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Subtitle.Render("Reviews"))
	b.WriteString("\n")
	if len(r.Reviews) > 0 {
		for _, rev := range r.Reviews {
			b.WriteString(p.styles.Body.Render(wrap("“"+rev+"”", p.width)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(p.styles.Muted.Render("No reviews yet"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.styles.Muted.Render(r.Address))
	return b.String()
}

func (p *Panel) subtitleLine(r store.Record) string {
	switch {
	case r.Category != "" && r.Address != "":
		return r.Category + " · " + r.Address
	case r.Category != "":
		return r.Category
	default:
		return r.Address
	}
}

// wrap breaks text on word boundaries at the given width. Words longer
// than the width stay on their own line.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	line := 0
	for i, w := range words {
		n := len([]rune(w))
		if i > 0 {
			if line+1+n > width {
				b.WriteString("\n")
				line = 0
			} else {
				b.WriteString(" ")
				line++
			}
		}
		b.WriteString(w)
		line += n
	}
	return b.String()
}
