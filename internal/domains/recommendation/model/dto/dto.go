package dto

import (
	prefDto "tourbook/internal/domains/preference/model/dto"
	"tourbook/internal/domains/recommendation/scorer"
	tourDto "tourbook/internal/domains/tour/model/dto"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

type Recommendation struct {
	Tour       tourDto.TourResponse `json:"tour"`
	MatchScore float64              `json:"match_score"`
	Reasons    []string             `json:"reasons"`
}

type RecommendationsResponse struct {
	Recommendations []Recommendation           `json:"recommendations"`
	Preferences     prefDto.PreferenceResponse `json:"preferences"`
	Total           int                        `json:"total"`
}

func FromRanked(ranked []scorer.Ranked) []Recommendation {
	res := make([]Recommendation, 0, len(ranked))

	for _, r := range ranked {
		rec := Recommendation{MatchScore: r.Score, Reasons: r.Reasons}
		rec.Tour.FromModel(r.Tour)

		res = append(res, rec)
	}

	return res
}

// ClampLimit applies the default and the ceiling to a requested limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}

	return min(limit, MaxLimit)
}
