package retailers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaxe/furniture-app/internal/config"
)

func TestWayfairAvailability(t *testing.T) {
	cfg := &config.Config{}
	w := NewWayfair(cfg)
	assert.False(t, w.IsAvailable())

	cfg.Search.WayfairAPIKey = "key"
	w = NewWayfair(cfg)
	assert.True(t, w.IsAvailable())
	assert.True(t, w.IsPartner())
	assert.Equal(t, 1, w.Priority())
}

func TestWayfairStubReturnsNoResults(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.WayfairAPIKey = "key"
	w := NewWayfair(cfg)

	// Pending integration: empty results are a valid outcome, not an error.
	matches, err := w.Search(t.Context(), "sofa", "Sofa", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = w.SearchExact(t.Context(), "Herman Miller Aeron Chair", 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestWayfairAffiliateTagging(t *testing.T) {
	cfg := &config.Config{}
	w := NewWayfair(cfg)
	assert.Equal(t, "https://example.com/p", w.TagAffiliateLink("https://example.com/p"))

	cfg.Search.WayfairAffiliateID = "aff-1"
	w = NewWayfair(cfg)
	tagged := w.TagAffiliateLink("https://example.com/p")
	assert.Contains(t, tagged, "shareasale.com")
	assert.Contains(t, tagged, "u=aff-1")
	assert.Contains(t, tagged, "https%3A%2F%2Fexample.com%2Fp")
}

func TestAvailablePartnersFiltersAndSorts(t *testing.T) {
	available := &Wayfair{cfg: config.SearchConfig{WayfairAPIKey: "k"}}
	unavailable := &Wayfair{cfg: config.SearchConfig{}}
	fallback := &GoogleShopping{cfg: config.SearchConfig{SerperAPIKey: "k"}}

	partners := AvailablePartners([]Retailer{fallback, unavailable, available})
	require.Len(t, partners, 1)
	assert.Equal(t, "Wayfair", partners[0].Name())
}
