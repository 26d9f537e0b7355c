package dto_test

import (
	"net/http"
	"net/url"
	"testing"

	"tourbook/internal/domains/tour/catalogue"
	"tourbook/internal/domains/tour/model"
	"tourbook/internal/domains/tour/model/dto"
	gDto "tourbook/shared/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourQuery_FilterGroup(t *testing.T) {
	r := &http.Request{URL: &url.URL{RawQuery: url.Values{
		"category":  {"Cultural"},
		"price_min": {"1000"},
		"price_max": {"9000"},
		"search":    {"galle"},
	}.Encode()}}

	q := dto.TourQuery{}
	q.FromRequest(r)

	where, args := q.FilterGroup().GetWhereClause()

	assert.Contains(t, where, "tours.is_active = :is_active")
	assert.Contains(t, where, "tours.price >= :price_min")
	assert.Contains(t, where, "tours.price <= :price_max")
	assert.Contains(t, where, " OR ")
	assert.Equal(t, true, args["is_active"])
	assert.Equal(t, "Cultural", args["category"])
	assert.InDelta(t, 1000.0, args["price_min"], 0.001)
	assert.Equal(t, "%galle%", args["search_title"])
	assert.Equal(t, "%galle%", args["search_location"])
}

func TestTourQuery_ApplySort(t *testing.T) {
	tests := []struct {
		sort    string
		wantBy  string
		wantDir string
	}{
		{"", "tours.rating", gDto.SortDirDesc},
		{model.SortPriceAsc, "tours.price", gDto.SortDirAsc},
		{model.SortDurationDesc, "tours.duration", gDto.SortDirDesc},
		{model.SortNewest, "tours.created_at", gDto.SortDirDesc},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			params := gDto.QueryParams{}
			q := dto.TourQuery{Sort: tt.sort}
			q.ApplySort(&params)

			assert.Equal(t, tt.wantBy, params.SortBy)
			assert.Equal(t, tt.wantDir, params.SortDir)
		})
	}
}

func TestFromCatalogue(t *testing.T) {
	entries, err := catalogue.Load()
	require.NoError(t, err)

	tours := dto.FromCatalogue(entries, "provider-1", "admin-1")

	require.Len(t, tours, len(entries))

	for _, tour := range tours {
		assert.NotEmpty(t, tour.ID)
		assert.Equal(t, "provider-1", tour.ProviderID)
		assert.Equal(t, "admin-1", tour.CreatedBy)
		assert.True(t, tour.IsActive)
	}
}
