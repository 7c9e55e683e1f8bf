// Package store holds the nearby-store records returned by the backend
// and the per-generation cache that click handlers resolve against.
package store

import (
	"fmt"
	"math"
	"strings"
)

// Record is one point of interest as delivered by the backend search
// and chat endpoints. Optional fields arrive absent from the wire and
// keep their zero values.
type Record struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"type"`
	Address     string   `json:"address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"reviews_count"`
	DistanceKm  float64  `json:"distance"`
	Description string   `json:"description,omitempty"`
	Products    []string `json:"products,omitempty"`
	Reviews     []string `json:"review_list,omitempty"`
	OpenHours   string   `json:"open_hour,omitempty"`
}

// FormatDistance renders a distance for display: metres below one
// kilometre, otherwise kilometres with two decimals.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.2fkm", km)
}

// Stars renders a five-slot star bar. An absent rating is treated as
// zero; the filled count is the rating rounded to the nearest slot.
func Stars(rating float64) string {
	filled := int(math.Round(rating))
	if filled < 0 {
		filled = 0
	}
	if filled > 5 {
		filled = 5
	}
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

// ReviewCountLabel renders the "(N reviews)" suffix shown next to the
// star bar, or an empty string when there are no reviews to count.
func ReviewCountLabel(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("(%d reviews)", n)
}
