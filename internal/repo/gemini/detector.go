// Package gemini implements furniture detection, per-region refinement and
// visual similarity scoring on top of Gemini multimodal models via Genkit.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/google/uuid"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/models"
)

const inferenceTimeout = 30 * time.Second

// Detector runs Gemini-based furniture detection with structured output.
type Detector struct {
	genkit *genkit.Genkit
	cfg    config.DetectionConfig
}

func NewDetector(g *genkit.Genkit, cfg *config.Config) *Detector {
	return &Detector{genkit: g, cfg: cfg.Detection}
}

// IsAvailable reports whether a Gemini API key is configured.
func (d *Detector) IsAvailable() bool {
	return d.cfg.GeminiAPIKey != ""
}

type boundingBoxOut struct {
	X      float64 `json:"x" jsonschema_description:"Normalized x of the top-left corner (0-1)"`
	Y      float64 `json:"y" jsonschema_description:"Normalized y of the top-left corner (0-1)"`
	Width  float64 `json:"width" jsonschema_description:"Normalized width (0-1)"`
	Height float64 `json:"height" jsonschema_description:"Normalized height (0-1)"`
}

type furnitureItemOut struct {
	Label               string         `json:"label" jsonschema_description:"Specific furniture subcategory, e.g. 'Sectional Sofa' not 'Sofa'"`
	Description         string         `json:"description" jsonschema_description:"Search-friendly description without brand or model names"`
	Color               string         `json:"color" jsonschema_description:"Specific color, e.g. 'navy blue' not 'blue'"`
	Material            string         `json:"material" jsonschema_description:"Specific primary material, e.g. 'walnut wood' not 'wood'"`
	Style               string         `json:"style" jsonschema_description:"Design style, e.g. mid-century modern, scandinavian, industrial"`
	Brand               string         `json:"brand" jsonschema_description:"Brand if recognizable from design signatures, empty string if unknown"`
	ModelName           string         `json:"model_name" jsonschema_description:"Model name if recognizable, empty string if unknown"`
	EstimatedPriceRange string         `json:"estimated_price_range" jsonschema_description:"Estimated retail price range, e.g. '$500-$800'"`
	Confidence          float64        `json:"confidence" jsonschema_description:"Confidence score from 0 to 1"`
	BoundingBox         boundingBoxOut `json:"bounding_box"`
}

type detectionOut struct {
	FurnitureItems []furnitureItemOut `json:"furniture_items"`
}

const detectPrompt = `You are an expert furniture identifier. Analyze this image and identify ALL furniture items visible.

For each piece of furniture provide:
1. label: use SPECIFIC subcategories ('Sectional Sofa', 'Dining Chair', 'Coffee Table'), never generic ones ('Sofa', 'Chair', 'Table').
2. brand: identify the brand from design signatures if possible (Herman Miller: ergonomic mesh and Eames shapes; IKEA: flat-pack minimal Scandinavian; West Elm: mid-century lines; Restoration Hardware: oversized weathered finishes; CB2: clean modern; Pottery Barn: traditional American). Empty string if unknown.
3. model_name: the specific model if identifiable ('Aeron Chair', 'Kallax'). Empty string if unknown.
4. description: detailed search-friendly description WITHOUT brand or model names. Include silhouette, color, material, upholstery type, leg style, hardware and approximate dimensions.
5. color: specific color names ('navy blue' not 'blue', 'charcoal gray' not 'gray').
6. material: specific materials ('walnut wood' not 'wood', 'top-grain leather' not 'leather').
7. style: one of modern, mid-century modern, scandinavian, industrial, farmhouse, traditional, transitional, art deco, bohemian, coastal, minimalist, contemporary, rustic, glam.
8. estimated_price_range: estimated retail price range, e.g. '$500-$800'.
9. confidence: how confident you are (0-1).
10. bounding_box: normalized coordinates (0-1), x and y for the top-left corner.

Only include actual furniture items. Exclude walls, floors, decorations, plants and electronics.`

// Detect runs the first-pass detection over the whole image.
func (d *Detector) Detect(ctx context.Context, imageBytes []byte) ([]models.Detection, error) {
	if !d.IsAvailable() {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, inferenceTimeout)
	defer cancel()

	result, _, err := genkit.GenerateData[detectionOut](ctx, d.genkit,
		ai.WithModelName(d.cfg.Model()),
		ai.WithMessages(ai.NewUserMessage(
			ai.NewMediaPart("image/jpeg", jpegDataURL(imageBytes)),
			ai.NewTextPart(detectPrompt),
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini detect: %w", err)
	}

	detections := make([]models.Detection, 0, len(result.FurnitureItems))
	for _, item := range result.FurnitureItems {
		label := item.Label
		if label == "" {
			label = "Furniture"
		}
		det := models.Detection{
			ID:         newDetectionID(),
			Label:      label,
			Confidence: clamp01(item.Confidence),
			BoundingBox: models.BoundingBox{
				X:      item.BoundingBox.X,
				Y:      item.BoundingBox.Y,
				Width:  item.BoundingBox.Width,
				Height: item.BoundingBox.Height,
			}.Clamp(),
			Description:         item.Description,
			Color:               item.Color,
			Material:            item.Material,
			Style:               item.Style,
			Brand:               item.Brand,
			ModelName:           item.ModelName,
			EstimatedPriceRange: item.EstimatedPriceRange,
		}
		det.IdentifiedProduct = models.IdentifyProduct(det.Brand, det.ModelName)
		detections = append(detections, det)
	}
	return detections, nil
}

// RefinedAttributes is the result of the focused second pass over a cropped
// detection region.
type RefinedAttributes struct {
	Brand               string `json:"brand" jsonschema_description:"Brand name if identifiable, empty string if unknown"`
	ModelName           string `json:"model_name" jsonschema_description:"Model name if identifiable, empty string if unknown"`
	Description         string `json:"description" jsonschema_description:"Detailed description without brand or model names"`
	Color               string `json:"color" jsonschema_description:"Specific color name"`
	Material            string `json:"material" jsonschema_description:"Specific material"`
	Style               string `json:"style" jsonschema_description:"Design style"`
	EstimatedPriceRange string `json:"estimated_price_range" jsonschema_description:"Estimated retail price"`
}

// Refine re-analyzes a close-up crop of a single detected item to extract
// finer attributes than the first pass could.
func (d *Detector) Refine(ctx context.Context, croppedImage []byte, label string) (*RefinedAttributes, error) {
	if !d.IsAvailable() {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, inferenceTimeout)
	defer cancel()

	prompt := fmt.Sprintf(`This is a close-up photo of a %s. Analyze it carefully and provide:
- brand: identify the brand if possible from design signatures, labels or distinctive features
- model_name: identify the specific model if possible
- description: detailed search-friendly description (NO brand/model names), including silhouette, color, material, upholstery, leg style, hardware and approximate size
- color: specific color ('navy blue' not 'blue')
- material: specific material ('walnut wood' not 'wood')
- style: design style (modern, mid-century modern, scandinavian, industrial, ...)
- estimated_price_range: estimated retail price

Be as specific as possible. If you cannot identify brand or model, use an empty string.`, label)

	result, _, err := genkit.GenerateData[RefinedAttributes](ctx, d.genkit,
		ai.WithModelName(d.cfg.Model()),
		ai.WithMessages(ai.NewUserMessage(
			ai.NewMediaPart("image/jpeg", jpegDataURL(croppedImage)),
			ai.NewTextPart(prompt),
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini refine %q: %w", label, err)
	}
	return result, nil
}

func jpegDataURL(data []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

func newDetectionID() string {
	return uuid.NewString()[:8]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
