// Package scorer ranks tours against a traveler's questionnaire answers.
//
// Score and Rank are pure: the cached ranking and the in-process fallback both
// call them, so the two paths agree on every input.
package scorer

import (
	"fmt"
	"math"
	"slices"
	"sort"

	prefModel "tourbook/internal/domains/preference/model"
	tourModel "tourbook/internal/domains/tour/model"
)

// Weights in hundredths, so the sum stays exact.
const (
	weightBudget   = 30
	weightDuration = 20
	weightGroup    = 20
	weightActivity = 30

	budgetCeiling   = 15000
	midRangeCeiling = 50000

	highRating = 4.5

	// Threshold is the score a tour must exceed to be recommended.
	Threshold = 0.3
)

type Match struct {
	Score   float64
	Reasons []string
}

type Ranked struct {
	Tour tourModel.Tour
	Match
}

// budgetReason returns the reason for a matching price bracket, or "" when the price is outside it.
func budgetReason(price float64, budget string) string {
	switch {
	case budget == prefModel.BudgetLow && price <= budgetCeiling:
		return "Fits your budget range"
	case budget == prefModel.BudgetMedium && price > budgetCeiling && price <= midRangeCeiling:
		return "Within your preferred price range"
	case budget == prefModel.BudgetLuxury && price > midRangeCeiling:
		return "Premium experience matching your luxury preferences"
	default:
		return ""
	}
}

func Score(tour tourModel.Tour, prefs prefModel.Preference) Match {
	points := 0
	reasons := make([]string, 0, 5)

	if reason := budgetReason(tour.Price, prefs.BudgetRange); reason != "" {
		points += weightBudget
		reasons = append(reasons, reason)
	}

	if tour.Duration <= prefs.TravelDuration {
		points += weightDuration
		reasons = append(reasons, fmt.Sprintf("Perfect %d-day duration for your %d-day trip", tour.Duration, prefs.TravelDuration))
	}

	if tour.MaxParticipants >= prefs.GroupSize {
		points += weightGroup
		reasons = append(reasons, fmt.Sprintf("Accommodates your group of %d", prefs.GroupSize))
	}

	if slices.Contains(prefs.PreferredActivities, tour.Category) {
		points += weightActivity
		reasons = append(reasons, fmt.Sprintf("Matches your interest in %s activities", tour.Category))
	}

	if tour.Rating >= highRating {
		reasons = append(reasons, "Highly rated by other travelers")
	}

	score := float64(points) / 100

	return Match{Score: math.Max(0, math.Min(1, score)), Reasons: reasons}
}

// Rank scores every tour, drops those at or below Threshold and returns at most limit tours,
// best first. Ties go to the higher rated tour, then to the lower id.
func Rank(tours []tourModel.Tour, prefs prefModel.Preference, limit int) []Ranked {
	ranked := make([]Ranked, 0, len(tours))

	for _, tour := range tours {
		match := Score(tour, prefs)
		if match.Score <= Threshold {
			continue
		}

		ranked = append(ranked, Ranked{Tour: tour, Match: match})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]

		if a.Score != b.Score {
			return a.Score > b.Score
		}

		if a.Tour.Rating != b.Tour.Rating {
			return a.Tour.Rating > b.Tour.Rating
		}

		return a.Tour.ID < b.Tour.ID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}
