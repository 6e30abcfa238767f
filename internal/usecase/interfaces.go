package usecase

import (
	"context"

	"github.com/edaxe/furniture-app/internal/models"
	"github.com/edaxe/furniture-app/internal/repo/gemini"
)

// FurnitureDetector produces detections from raw image bytes. Implemented
// by the Gemini and Cloud Vision backends.
type FurnitureDetector interface {
	IsAvailable() bool
	Detect(ctx context.Context, imageBytes []byte) ([]models.Detection, error)
}

// DetectionRefiner runs a focused second pass over a cropped region.
type DetectionRefiner interface {
	IsAvailable() bool
	Refine(ctx context.Context, croppedImage []byte, label string) (*gemini.RefinedAttributes, error)
}

// VisualScorer rates candidate product images against a reference crop.
type VisualScorer interface {
	IsAvailable() bool
	ScoreProducts(ctx context.Context, referenceImage []byte, productImages [][]byte, productNames []string) (map[int]float64, error)
}

// ImageFetcher downloads product images; failed downloads come back nil.
type ImageFetcher interface {
	FetchAll(ctx context.Context, urls []string) [][]byte
}

// ImageGetter reads a previously stashed request image by session id.
type ImageGetter interface {
	Get(sessionID string) ([]byte, error)
}
