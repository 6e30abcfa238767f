package gemini

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/edaxe/furniture-app/internal/config"
)

// VisualScorer rates how visually similar candidate product images are to a
// reference crop from the user's photo. All images go out in one request so
// the whole re-rank costs a single model round trip.
type VisualScorer struct {
	genkit *genkit.Genkit
	cfg    config.DetectionConfig
}

func NewVisualScorer(g *genkit.Genkit, cfg *config.Config) *VisualScorer {
	return &VisualScorer{genkit: g, cfg: cfg.Detection}
}

func (v *VisualScorer) IsAvailable() bool {
	return v.cfg.GeminiAPIKey != ""
}

type visualScoreEntry struct {
	ProductNumber int     `json:"product_number" jsonschema_description:"Product number (1-indexed)"`
	Score         float64 `json:"score" jsonschema_description:"Visual similarity score 0.0-1.0"`
}

type visualScoreOut struct {
	Scores []visualScoreEntry `json:"scores"`
}

// ScoreProducts compares the reference image against each non-nil product
// image and returns a score per original index. Products whose image failed
// to download (nil entries) are skipped and absent from the result.
func (v *VisualScorer) ScoreProducts(
	ctx context.Context,
	referenceImage []byte,
	productImages [][]byte,
	productNames []string,
) (map[int]float64, error) {
	if !v.IsAvailable() {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	validIndices := make([]int, 0, len(productImages))
	for i, img := range productImages {
		if img != nil {
			validIndices = append(validIndices, i)
		}
	}
	if len(validIndices) == 0 {
		return map[int]float64{}, nil
	}

	parts := []*ai.Part{
		ai.NewMediaPart("image/jpeg", jpegDataURL(referenceImage)),
		ai.NewTextPart("The FIRST image above is the REFERENCE furniture item from a user's photo. " +
			"The following images are product listings. " +
			"Rate how visually similar each product is to the reference on a scale of 0.0 to 1.0.\n" +
			"Consider shape/silhouette, color, material, style, proportions and overall appearance.\n" +
			"0.0 = completely different, 0.5 = somewhat similar, 0.8+ = very similar, 1.0 = near identical.\n\n" +
			"Products to score:\n"),
	}
	for n, i := range validIndices {
		parts = append(parts,
			ai.NewMediaPart("image/jpeg", jpegDataURL(productImages[i])),
			ai.NewTextPart(fmt.Sprintf("Product %d: %s", n+1, productNames[i])),
		)
	}
	parts = append(parts, ai.NewTextPart(
		"\nReturn a 'scores' array where each entry has 'product_number' (1-indexed) and 'score' (0.0-1.0)."))

	ctx, cancel := context.WithTimeout(ctx, inferenceTimeout)
	defer cancel()

	// Always the flash model here: latency matters more than depth for a
	// batch of thumbnails.
	result, _, err := genkit.GenerateData[visualScoreOut](ctx, v.genkit,
		ai.WithModelName(v.cfg.GeminiModel),
		ai.WithMessages(ai.NewUserMessage(parts...)),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini visual scoring: %w", err)
	}

	scores := make(map[int]float64, len(result.Scores))
	for _, entry := range result.Scores {
		if entry.ProductNumber < 1 || entry.ProductNumber > len(validIndices) {
			continue
		}
		scores[validIndices[entry.ProductNumber-1]] = clamp01(entry.Score)
	}
	return scores, nil
}
