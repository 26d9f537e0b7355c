// Package catalogue holds the sample tours used to seed an empty database.
package catalogue

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"
)

//go:embed tours.json
var raw []byte

type Entry struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Duration        int      `json:"duration"`
	MaxParticipants int      `json:"max_participants"`
	Category        string   `json:"category"`
	Location        string   `json:"location"`
	Itinerary       []string `json:"itinerary"`
	Inclusions      []string `json:"inclusions"`
	Exclusions      []string `json:"exclusions"`
	Images          []string `json:"images"`
	Rating          float64  `json:"rating"`
	ReviewsCount    int      `json:"reviews_count"`
}

// Load decodes the embedded catalogue.
func Load() ([]Entry, error) {
	var entries []Entry

	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode tour catalogue: %w", err)
	}

	return entries, nil
}
