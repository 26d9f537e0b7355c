package scorer_test

import (
	"testing"

	prefModel "tourbook/internal/domains/preference/model"
	"tourbook/internal/domains/recommendation/scorer"
	tourModel "tourbook/internal/domains/tour/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefs(budget string, duration, group int, activities ...string) prefModel.Preference {
	return prefModel.Preference{
		BudgetRange:         budget,
		TravelDuration:      duration,
		GroupSize:           group,
		PreferredActivities: activities,
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		tour        tourModel.Tour
		prefs       prefModel.Preference
		wantScore   float64
		wantReasons []string
	}{
		{
			name:      "every condition fires",
			tour:      tourModel.Tour{Price: 20000, Duration: 3, MaxParticipants: 4, Category: "cultural"},
			prefs:     prefs(prefModel.BudgetMedium, 5, 2, "cultural"),
			wantScore: 1,
			wantReasons: []string{
				"Within your preferred price range",
				"Perfect 3-day duration for your 5-day trip",
				"Accommodates your group of 2",
				"Matches your interest in cultural activities",
			},
		},
		{
			name:        "budget bracket includes its ceiling",
			tour:        tourModel.Tour{Price: 15000, Duration: 9, MaxParticipants: 1, Category: "beach"},
			prefs:       prefs(prefModel.BudgetLow, 2, 4),
			wantScore:   0.3,
			wantReasons: []string{"Fits your budget range"},
		},
		{
			name:        "mid range excludes the budget ceiling",
			tour:        tourModel.Tour{Price: 15000, Duration: 9, MaxParticipants: 1, Category: "beach"},
			prefs:       prefs(prefModel.BudgetMedium, 2, 4),
			wantScore:   0,
			wantReasons: []string{},
		},
		{
			name:      "luxury with a high rating",
			tour:      tourModel.Tour{Price: 50001, Duration: 9, MaxParticipants: 10, Category: "wildlife", Rating: 4.5},
			prefs:     prefs(prefModel.BudgetLuxury, 2, 4, "wildlife"),
			wantScore: 0.8,
			wantReasons: []string{
				"Premium experience matching your luxury preferences",
				"Accommodates your group of 4",
				"Matches your interest in wildlife activities",
				"Highly rated by other travelers",
			},
		},
		{
			name:        "duration and group only",
			tour:        tourModel.Tour{Price: 100000, Duration: 2, MaxParticipants: 6, Category: "adventure"},
			prefs:       prefs(prefModel.BudgetLow, 2, 6, "cultural"),
			wantScore:   0.4,
			wantReasons: []string{"Perfect 2-day duration for your 2-day trip", "Accommodates your group of 6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.tour, tt.prefs)

			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantReasons, got.Reasons)

			again := scorer.Score(tt.tour, tt.prefs)
			assert.Equal(t, got, again)
		})
	}
}

func TestRank(t *testing.T) {
	p := prefs(prefModel.BudgetMedium, 5, 2, "cultural")

	tours := []tourModel.Tour{
		{ID: "c", Price: 20000, Duration: 3, MaxParticipants: 4, Category: "cultural", Rating: 4.0},
		{ID: "low", Price: 100000, Duration: 9, MaxParticipants: 1, Category: "beach"},
		{ID: "threshold", Price: 20000, Duration: 9, MaxParticipants: 1, Category: "beach"},
		{ID: "b", Price: 20000, Duration: 3, MaxParticipants: 4, Category: "cultural", Rating: 4.8},
		{ID: "a", Price: 20000, Duration: 3, MaxParticipants: 4, Category: "cultural", Rating: 4.0},
		{ID: "mid", Price: 20000, Duration: 3, MaxParticipants: 4, Category: "beach", Rating: 5},
	}

	t.Run("filters, sorts and breaks ties", func(t *testing.T) {
		got := scorer.Rank(tours, p, 0)

		ids := make([]string, 0, len(got))
		for _, r := range got {
			ids = append(ids, r.Tour.ID)
		}

		assert.Equal(t, []string{"b", "a", "c", "mid"}, ids)
		assert.InDelta(t, 0.7, got[3].Score, 1e-9)
	})

	t.Run("cuts to limit", func(t *testing.T) {
		got := scorer.Rank(tours, p, 2)

		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].Tour.ID)
	})

	t.Run("no tours", func(t *testing.T) {
		assert.Empty(t, scorer.Rank(nil, p, 10))
	})
}
