package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/models"
	"github.com/edaxe/furniture-app/internal/repo/gemini"
)

type stubDetector struct {
	available  bool
	detections []models.Detection
	err        error
	calls      atomic.Int32
}

func (s *stubDetector) IsAvailable() bool { return s.available }

func (s *stubDetector) Detect(context.Context, []byte) ([]models.Detection, error) {
	s.calls.Add(1)
	return s.detections, s.err
}

type stubRefiner struct {
	available bool
	attrs     *gemini.RefinedAttributes
	err       error
	calls     atomic.Int32
}

func (s *stubRefiner) IsAvailable() bool { return s.available }

func (s *stubRefiner) Refine(context.Context, []byte, string) (*gemini.RefinedAttributes, error) {
	s.calls.Add(1)
	return s.attrs, s.err
}

func detectionConfig(useMock bool) *config.Config {
	return &config.Config{Detection: config.DetectionConfig{UseMock: useMock}}
}

func sampleDetections() []models.Detection {
	return []models.Detection{
		{
			ID:          "det-1",
			Label:       "Sofa",
			Confidence:  0.91,
			BoundingBox: models.BoundingBox{X: 0.1, Y: 0.1, Width: 0.3, Height: 0.3},
		},
	}
}

func TestDetectFurniture_MockMode(t *testing.T) {
	primary := &stubDetector{available: true, detections: sampleDetections()}
	u := &detectionUsecase{cfg: detectionConfig(true), primary: primary, secondary: &stubDetector{}}

	detections, source, err := u.DetectFurniture(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, SourceMock, source)
	assert.Zero(t, primary.calls.Load(), "mock mode must not touch real backends")
	require.NotEmpty(t, detections)
	assert.LessOrEqual(t, len(detections), 4)
}

func TestDetectFurniture_MockBoxesAreNormalizedAndDisjoint(t *testing.T) {
	u := &detectionUsecase{cfg: detectionConfig(true)}

	for run := 0; run < 50; run++ {
		detections, _, err := u.DetectFurniture(context.Background(), nil)
		require.NoError(t, err)

		for i, det := range detections {
			box := det.BoundingBox
			assert.GreaterOrEqual(t, box.X, 0.0)
			assert.GreaterOrEqual(t, box.Y, 0.0)
			assert.LessOrEqual(t, box.X+box.Width, 1.0)
			assert.LessOrEqual(t, box.Y+box.Height, 1.0)
			assert.GreaterOrEqual(t, det.Confidence, 0.75)
			assert.LessOrEqual(t, det.Confidence, 0.98)
			assert.Contains(t, models.FurnitureCategories, det.Label)
			assert.Len(t, det.ID, 8)

			for j := i + 1; j < len(detections); j++ {
				assert.False(t, box.Overlaps(detections[j].BoundingBox), "mock boxes must not overlap")
			}
		}
	}
}

func TestDetectFurniture_PrimarySucceeds(t *testing.T) {
	primary := &stubDetector{available: true, detections: sampleDetections()}
	secondary := &stubDetector{available: true}
	u := &detectionUsecase{cfg: detectionConfig(false), primary: primary, secondary: secondary}

	detections, source, err := u.DetectFurniture(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, SourceGemini, source)
	assert.Len(t, detections, 1)
	assert.Zero(t, secondary.calls.Load())
}

func TestDetectFurniture_PrimaryErrorFallsBackToSecondary(t *testing.T) {
	primary := &stubDetector{available: true, err: errors.New("quota exceeded")}
	secondary := &stubDetector{available: true, detections: sampleDetections()}
	u := &detectionUsecase{cfg: detectionConfig(false), primary: primary, secondary: secondary}

	detections, source, err := u.DetectFurniture(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, SourceCloudVision, source)
	assert.Len(t, detections, 1)
}

func TestDetectFurniture_PrimaryEmptyFallsBackToSecondary(t *testing.T) {
	primary := &stubDetector{available: true}
	secondary := &stubDetector{available: true, detections: sampleDetections()}
	u := &detectionUsecase{cfg: detectionConfig(false), primary: primary, secondary: secondary}

	_, source, err := u.DetectFurniture(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, SourceCloudVision, source)
}

func TestDetectFurniture_AllBackendsDownYieldsMock(t *testing.T) {
	primary := &stubDetector{available: true, err: errors.New("down")}
	secondary := &stubDetector{available: true, err: errors.New("also down")}
	u := &detectionUsecase{cfg: detectionConfig(false), primary: primary, secondary: secondary}

	detections, source, err := u.DetectFurniture(context.Background(), []byte("img"))
	require.NoError(t, err, "detection degrades, it never fails outright")
	assert.Equal(t, SourceMock, source)
	assert.NotEmpty(t, detections)
}

func TestDetectFurniture_NothingAvailableYieldsMock(t *testing.T) {
	u := &detectionUsecase{
		cfg:       detectionConfig(false),
		primary:   &stubDetector{},
		secondary: &stubDetector{},
	}

	_, source, err := u.DetectFurniture(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, SourceMock, source)
}

func TestRefineAll_UnavailableRefinerReturnsInput(t *testing.T) {
	u := &detectionUsecase{cfg: detectionConfig(false), refiner: &stubRefiner{available: false}}
	in := sampleDetections()

	out := u.refineAll(context.Background(), nil, in)
	assert.Equal(t, in, out)
}

func TestRefineAll_CropFailureKeepsFirstPass(t *testing.T) {
	refiner := &stubRefiner{available: true, attrs: &gemini.RefinedAttributes{Color: "red"}}
	u := &detectionUsecase{cfg: detectionConfig(false), refiner: refiner}
	in := sampleDetections()

	// Invalid image bytes make every crop fail.
	out := u.refineAll(context.Background(), []byte("not an image"), in)
	assert.Equal(t, in, out)
	assert.Zero(t, refiner.calls.Load())
}

func TestMergeRefinement_NonEmptyWins(t *testing.T) {
	det := models.Detection{
		Label:       "Sofa",
		Description: "first-pass description",
		Color:       "gray",
	}
	attrs := &gemini.RefinedAttributes{
		Color:    "charcoal",
		Material: "fabric",
	}

	merged := mergeRefinement(det, attrs)
	assert.Equal(t, "charcoal", merged.Color, "refined value replaces first pass")
	assert.Equal(t, "fabric", merged.Material, "refined value fills an unset field")
	assert.Equal(t, "first-pass description", merged.Description, "empty refinement keeps first pass")
}

func TestMergeRefinement_IdentifiedProductComputedWhenUnset(t *testing.T) {
	det := models.Detection{Label: "Chair"}
	attrs := &gemini.RefinedAttributes{Brand: "Herman Miller", ModelName: "Aeron Chair"}

	merged := mergeRefinement(det, attrs)
	assert.Equal(t, "Herman Miller Aeron Chair", merged.IdentifiedProduct)
}

func TestMergeRefinement_IdentifiedProductPreserved(t *testing.T) {
	det := models.Detection{
		Label:             "Chair",
		Brand:             "IKEA",
		ModelName:         "Markus",
		IdentifiedProduct: "IKEA Markus",
	}
	attrs := &gemini.RefinedAttributes{Brand: "Herman Miller", ModelName: "Aeron Chair"}

	merged := mergeRefinement(det, attrs)
	assert.Equal(t, "Herman Miller", merged.Brand)
	assert.Equal(t, "IKEA Markus", merged.IdentifiedProduct, "first-pass identification is kept")
}

func TestMockDetect_IdentifiedPairsAreConsistent(t *testing.T) {
	u := &detectionUsecase{cfg: detectionConfig(true)}

	for run := 0; run < 50; run++ {
		for _, det := range u.mockDetect() {
			if det.Brand == "" {
				assert.Empty(t, det.IdentifiedProduct)
				continue
			}
			assert.Equal(t, models.IdentifyProduct(det.Brand, det.ModelName), det.IdentifiedProduct)
		}
	}
}
