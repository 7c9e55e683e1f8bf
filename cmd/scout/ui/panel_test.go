package ui

import (
	"strings"
	"testing"

	"storescout/internal/store"
)

func testRecords() []store.Record {
	return []store.Record{
		{ID: "s-1", Name: "Cong Caphe", Category: "cafe", Address: "27 Nha Tho", Rating: 4.4, ReviewCount: 128, DistanceKm: 0.45},
		{ID: "s-2", Name: "Pho Thin", Category: "restaurant", Address: "13 Lo Duc", Rating: 4.8, ReviewCount: 2041, DistanceKm: 2.3},
	}
}

func TestPanelRenderList(t *testing.T) {
	p := NewPanel(NewStyles(LightTheme()))
	out := p.RenderList(testRecords())

	for _, want := range []string{"Nearby stores (2)", "1. Cong Caphe", "2. Pho Thin", "★★★★☆", "(128 reviews)", "450m", "2.30km", "cafe · 27 Nha Tho"} {
		if !strings.Contains(out, want) {
			t.Errorf("list rendering missing %q:\n%s", want, out)
		}
	}
}

func TestPanelRenderEmptyList(t *testing.T) {
	p := NewPanel(NewStyles(LightTheme()))
	out := p.RenderEmptyList()
	if !strings.Contains(out, "No stores found") {
		t.Errorf("unexpected empty notice: %q", out)
	}
}

func TestPanelRenderDetail(t *testing.T) {
	p := NewPanel(NewStyles(LightTheme()))
	rec := testRecords()[0]
	rec.Description = "A chain cafe with a nostalgic theme."
	rec.OpenHours = "07:00 - 23:00"
	rec.Products = []string{"Coconut coffee", "Egg coffee"}
	rec.Reviews = []string{"Great coconut coffee."}

	out := p.RenderDetail(rec)
	for _, want := range []string{"Cong Caphe", "★★★★☆", "(128 reviews)", "450m away", "nostalgic theme", "Open hours", "07:00 - 23:00", "Coconut coffee", "Great coconut coffee"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail rendering missing %q:\n%s", want, out)
		}
	}
}

func TestPanelDetailPlaceholders(t *testing.T) {
	p := NewPanel(NewStyles(LightTheme()))
	out := p.RenderDetail(testRecords()[0])
	for _, want := range []string{"Hours not listed", "No description available", "No product information", "No reviews yet", "27 Nha Tho"} {
		if !strings.Contains(out, want) {
			t.Errorf("empty sections keep their placeholder, missing %q:\n%s", want, out)
		}
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrap() = %q, want %q", got, want)
	}

	if got := wrap("", 10); got != "" {
		t.Errorf("wrap of empty text = %q", got)
	}
}
