// Package cloudvision is the secondary detection backend: Google Cloud
// Vision object localization, used when Gemini detection fails. It only
// yields labels and boxes; descriptive attributes stay empty.
package cloudvision

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/models"
)

const callTimeout = 10 * time.Second

var furnitureKeywords = []string{
	"chair", "sofa", "couch", "table", "desk", "bed", "cabinet",
	"shelf", "bookshelf", "dresser", "nightstand", "ottoman",
	"bench", "stool", "wardrobe", "furniture",
}

// labelMappings folds the generic Vision vocabulary onto the canonical
// furniture categories. Unmapped labels are title-cased as-is.
var labelMappings = []struct {
	keyword  string
	category string
}{
	{"couch", "Sofa"},
	{"loveseat", "Sofa"},
	{"settee", "Sofa"},
	{"office chair", "Office Chair"},
	{"armchair", "Armchair"},
	{"dining table", "Dining Table"},
	{"coffee table", "Coffee Table"},
	{"end table", "Nightstand"},
	{"side table", "Nightstand"},
	{"bookcase", "Bookshelf"},
}

var titleCaser = cases.Title(language.English)

// Detector wraps the Cloud Vision ImageAnnotator client.
type Detector struct {
	cfg config.DetectionConfig
}

func NewDetector(cfg *config.Config) *Detector {
	return &Detector{cfg: cfg.Detection}
}

// IsAvailable reports whether Cloud Vision credentials are configured.
func (d *Detector) IsAvailable() bool {
	return d.cfg.GoogleCredentialsFile != "" || d.cfg.GoogleCredentialsBase64 != ""
}

func (d *Detector) clientOptions() ([]option.ClientOption, error) {
	if d.cfg.GoogleCredentialsBase64 != "" {
		creds, err := base64.StdEncoding.DecodeString(d.cfg.GoogleCredentialsBase64)
		if err != nil {
			return nil, fmt.Errorf("decode base64 credentials: %w", err)
		}
		return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
	}
	if d.cfg.GoogleCredentialsFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(d.cfg.GoogleCredentialsFile)}, nil
	}
	return nil, nil
}

// Detect localizes objects in the image and keeps the furniture-shaped ones.
func (d *Detector) Detect(ctx context.Context, imageBytes []byte) ([]models.Detection, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	opts, err := d.clientOptions()
	if err != nil {
		return nil, err
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cloud vision client: %w", err)
	}
	defer client.Close()

	annotations, err := client.LocalizeObjects(ctx, &visionpb.Image{Content: imageBytes}, nil)
	if err != nil {
		return nil, fmt.Errorf("cloud vision localize objects: %w", err)
	}

	detections := make([]models.Detection, 0, len(annotations))
	for _, obj := range annotations {
		if !IsFurniture(obj.GetName()) {
			continue
		}
		box, ok := boxFromVertices(obj.GetBoundingPoly().GetNormalizedVertices())
		if !ok {
			continue
		}
		detections = append(detections, models.Detection{
			ID:          uuid.NewString()[:8],
			Label:       NormalizeLabel(obj.GetName()),
			Confidence:  float64(obj.GetScore()),
			BoundingBox: box,
		})
	}
	return detections, nil
}

func boxFromVertices(vertices []*visionpb.NormalizedVertex) (models.BoundingBox, bool) {
	if len(vertices) < 4 {
		return models.BoundingBox{}, false
	}
	minX, minY := float64(vertices[0].GetX()), float64(vertices[0].GetY())
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		x, y := float64(v.GetX()), float64(v.GetY())
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return models.BoundingBox{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}.Clamp(), true
}

// IsFurniture reports whether a Vision label looks furniture-related.
func IsFurniture(label string) bool {
	lower := strings.ToLower(label)
	for _, keyword := range furnitureKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// NormalizeLabel maps a Vision label onto the canonical category vocabulary.
func NormalizeLabel(label string) string {
	lower := strings.ToLower(label)
	for _, m := range labelMappings {
		if strings.Contains(lower, m.keyword) {
			return m.category
		}
	}
	return titleCaser.String(lower)
}
