package usecase

import (
	"context"
	"math/rand/v2"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"golang.org/x/sync/errgroup"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/imaging"
	"github.com/edaxe/furniture-app/internal/models"
	"github.com/edaxe/furniture-app/internal/repo/cloudvision"
	"github.com/edaxe/furniture-app/internal/repo/gemini"
	"github.com/google/uuid"
)

// Detection sources reported alongside results.
const (
	SourceMock        = "mock"
	SourceGemini      = "gemini"
	SourceCloudVision = "cloudvision"
)

// DetectionUsecase orchestrates furniture detection: the primary multimodal
// detector, a cloud-vision fallback, a mock terminal state, and an optional
// per-region refinement pass.
type DetectionUsecase interface {
	DetectFurniture(ctx context.Context, imageBytes []byte) ([]models.Detection, string, error)
}

type detectionUsecase struct {
	cfg       *config.Config
	primary   FurnitureDetector
	secondary FurnitureDetector
	refiner   DetectionRefiner
}

func NewDetectionUsecase(
	cfg *config.Config,
	primary *gemini.Detector,
	secondary *cloudvision.Detector,
) DetectionUsecase {
	return &detectionUsecase{
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		refiner:   primary,
	}
}

// DetectFurniture returns the detections plus the source that produced
// them. The flow never fails outright: every backend failure degrades to
// the next state, ending at mock detections.
func (u *detectionUsecase) DetectFurniture(ctx context.Context, imageBytes []byte) ([]models.Detection, string, error) {
	if u.cfg.Detection.UseMock {
		return u.mockDetect(), SourceMock, nil
	}

	if u.primary.IsAvailable() {
		detections, err := u.primary.Detect(ctx, imageBytes)
		if err == nil && len(detections) > 0 {
			return u.refineAll(ctx, imageBytes, detections), SourceGemini, nil
		}
		if err != nil {
			log.Warnw(ctx, "primary detection failed, falling back", "error", err)
		}
	}

	if u.secondary.IsAvailable() {
		detections, err := u.secondary.Detect(ctx, imageBytes)
		if err == nil {
			return detections, SourceCloudVision, nil
		}
		log.Warnw(ctx, "cloud vision fallback failed, using mock detections", "error", err)
	}

	return u.mockDetect(), SourceMock, nil
}

// refineAll crops each detected region and runs a focused second pass. A
// failed refinement leaves that region's first-pass detection untouched and
// never affects its siblings.
func (u *detectionUsecase) refineAll(ctx context.Context, imageBytes []byte, detections []models.Detection) []models.Detection {
	if u.refiner == nil || !u.refiner.IsAvailable() {
		return detections
	}

	refined := make([]models.Detection, len(detections))
	copy(refined, detections)

	group, gctx := errgroup.WithContext(ctx)
	for i, det := range detections {
		group.Go(func() error {
			cropped, err := imaging.CropRegion(imageBytes, det.BoundingBox)
			if err != nil {
				log.Warnw(gctx, "crop failed, keeping first-pass detection", "label", det.Label, "error", err)
				return nil
			}
			attrs, err := u.refiner.Refine(gctx, cropped, det.Label)
			if err != nil {
				log.Warnw(gctx, "refinement failed, keeping first-pass detection", "label", det.Label, "error", err)
				return nil
			}
			refined[i] = mergeRefinement(det, attrs)
			return nil
		})
	}
	_ = group.Wait()
	return refined
}

// mergeRefinement folds second-pass attributes into a first-pass detection.
// A refined field wins only when non-empty; the identified product is
// recomputed from the merged brand/model pair only when the first pass had
// not already set one.
func mergeRefinement(det models.Detection, attrs *gemini.RefinedAttributes) models.Detection {
	merged := det
	merged.Brand = orElse(attrs.Brand, det.Brand)
	merged.ModelName = orElse(attrs.ModelName, det.ModelName)
	merged.Description = orElse(attrs.Description, det.Description)
	merged.Color = orElse(attrs.Color, det.Color)
	merged.Material = orElse(attrs.Material, det.Material)
	merged.Style = orElse(attrs.Style, det.Style)
	merged.EstimatedPriceRange = orElse(attrs.EstimatedPriceRange, det.EstimatedPriceRange)

	if det.IdentifiedProduct == "" {
		merged.IdentifiedProduct = models.IdentifyProduct(merged.Brand, merged.ModelName)
	}
	return merged
}

func orElse(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

// mockIdentifiedProducts are brand/model pairs sprinkled into mock
// detections so downstream exact-match flows can be exercised offline.
var mockIdentifiedProducts = [][2]string{
	{"Herman Miller", "Aeron Chair"},
	{"IKEA", "Kallax Shelf"},
	{"West Elm", "Mid-Century Sofa"},
	{"Pottery Barn", "York Dining Table"},
	{"CB2", "Peekaboo Acrylic Coffee Table"},
	{"Restoration Hardware", "Cloud Sofa"},
}

const maxBoxAttempts = 10

// mockDetect generates 1-4 synthetic detections with non-overlapping boxes.
// Each box gets up to 10 placement attempts; one that keeps colliding is
// silently dropped.
func (u *detectionUsecase) mockDetect() []models.Detection {
	numDetections := 1 + rand.IntN(4)
	detections := make([]models.Detection, 0, numDetections)
	boxes := make([]models.BoundingBox, 0, numDetections)

	for i := 0; i < numDetections; i++ {
		box, ok := placeBox(boxes)
		if !ok {
			continue
		}
		boxes = append(boxes, box)

		det := models.Detection{
			ID:          uuid.NewString()[:8],
			Label:       models.FurnitureCategories[rand.IntN(len(models.FurnitureCategories))],
			Confidence:  0.75 + rand.Float64()*0.23,
			BoundingBox: box,
		}
		if rand.Float64() < 0.4 {
			pair := mockIdentifiedProducts[rand.IntN(len(mockIdentifiedProducts))]
			det.Brand = pair[0]
			det.ModelName = pair[1]
			det.IdentifiedProduct = models.IdentifyProduct(pair[0], pair[1])
		}
		detections = append(detections, det)
	}
	return detections
}

func placeBox(existing []models.BoundingBox) (models.BoundingBox, bool) {
	for attempt := 0; attempt < maxBoxAttempts; attempt++ {
		box := models.BoundingBox{
			X:      0.05 + rand.Float64()*0.55,
			Y:      0.10 + rand.Float64()*0.40,
			Width:  0.20 + rand.Float64()*0.15,
			Height: 0.20 + rand.Float64()*0.20,
		}.Clamp()

		overlaps := false
		for _, other := range existing {
			if box.Overlaps(other) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			return box, true
		}
	}
	return models.BoundingBox{}, false
}
