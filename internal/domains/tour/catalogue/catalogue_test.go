package catalogue_test

import (
	"testing"

	"tourbook/internal/domains/tour/catalogue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	entries, err := catalogue.Load()
	require.NoError(t, err)
	require.Len(t, entries, 12)

	titles := map[string]bool{}

	for _, entry := range entries {
		assert.NotEmpty(t, entry.Title)
		assert.Greater(t, entry.Price, 0.0, entry.Title)
		assert.Positive(t, entry.Duration, entry.Title)
		assert.Positive(t, entry.MaxParticipants, entry.Title)
		assert.NotEmpty(t, entry.Category, entry.Title)
		assert.NotEmpty(t, entry.Images, entry.Title)
		assert.False(t, titles[entry.Title], "duplicate title %s", entry.Title)

		titles[entry.Title] = true
	}

	assert.Equal(t, "Ancient Wonders of Kandy & Sigiriya", entries[0].Title)
}
