package cloudvision

import (
	"testing"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaxe/furniture-app/internal/config"
)

func TestIsFurniture(t *testing.T) {
	assert.True(t, IsFurniture("Couch"))
	assert.True(t, IsFurniture("office chair"))
	assert.True(t, IsFurniture("Furniture"))
	assert.False(t, IsFurniture("Plant"))
	assert.False(t, IsFurniture("Television"))
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"Couch":        "Sofa",
		"loveseat":     "Sofa",
		"Office chair": "Office Chair",
		"Bookcase":     "Bookshelf",
		"end table":    "Nightstand",
		"Dining table": "Dining Table",
		// Unmapped labels are title-cased as-is.
		"bar stool": "Bar Stool",
		"WARDROBE":  "Wardrobe",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLabel(in), "label %q", in)
	}
}

func TestBoxFromVertices(t *testing.T) {
	box, ok := boxFromVertices([]*visionpb.NormalizedVertex{
		{X: 0.1, Y: 0.2},
		{X: 0.5, Y: 0.2},
		{X: 0.5, Y: 0.6},
		{X: 0.1, Y: 0.6},
	})
	require.True(t, ok)
	assert.InDelta(t, 0.1, box.X, 1e-6)
	assert.InDelta(t, 0.2, box.Y, 1e-6)
	assert.InDelta(t, 0.4, box.Width, 1e-6)
	assert.InDelta(t, 0.4, box.Height, 1e-6)

	_, ok = boxFromVertices([]*visionpb.NormalizedVertex{{X: 0.1, Y: 0.2}})
	assert.False(t, ok)
}

func TestBoxFromVerticesClamped(t *testing.T) {
	box, ok := boxFromVertices([]*visionpb.NormalizedVertex{
		{X: -0.2, Y: 0.9},
		{X: 1.4, Y: 0.9},
		{X: 1.4, Y: 1.8},
		{X: -0.2, Y: 1.8},
	})
	require.True(t, ok)
	assert.LessOrEqual(t, box.X+box.Width, 1.0)
	assert.LessOrEqual(t, box.Y+box.Height, 1.0)
	assert.GreaterOrEqual(t, box.X, 0.0)
	assert.GreaterOrEqual(t, box.Y, 0.0)
}

func TestAvailabilityGatedOnCredentials(t *testing.T) {
	cfg := &config.Config{}
	assert.False(t, NewDetector(cfg).IsAvailable())

	cfg.Detection.GoogleCredentialsFile = "/etc/creds.json"
	assert.True(t, NewDetector(cfg).IsAvailable())

	cfg = &config.Config{}
	cfg.Detection.GoogleCredentialsBase64 = "e30="
	assert.True(t, NewDetector(cfg).IsAvailable())
}

func TestClientOptionsBadBase64(t *testing.T) {
	cfg := &config.Config{}
	cfg.Detection.GoogleCredentialsBase64 = "!!!not-base64!!!"
	_, err := NewDetector(cfg).clientOptions()
	assert.Error(t, err)
}
