package retailers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/models"
)

// Wayfair is the partner retailer integration. The product API itself is
// pending affiliate-program approval, so searches currently return no
// results; that empty outcome is valid and must flow through the fallback
// policy, never as an error.
type Wayfair struct {
	cfg config.SearchConfig
}

func NewWayfair(cfg *config.Config) *Wayfair {
	return &Wayfair{cfg: cfg.Search}
}

func (w *Wayfair) Name() string    { return "Wayfair" }
func (w *Wayfair) IsPartner() bool { return true }
func (w *Wayfair) Priority() int   { return 1 }

func (w *Wayfair) IsAvailable() bool {
	return w.cfg.WayfairAPIKey != ""
}

func (w *Wayfair) Search(ctx context.Context, query, category string, limit int) ([]models.ProductMatch, error) {
	if !w.IsAvailable() {
		return nil, nil
	}
	// TODO: call the Wayfair product API once affiliate credentials land.
	return nil, nil
}

func (w *Wayfair) SearchExact(ctx context.Context, productName string, limit int) ([]models.ProductMatch, error) {
	if !w.IsAvailable() {
		return nil, nil
	}
	return nil, nil
}

// TagAffiliateLink wraps a product URL in a ShareASale redirect carrying the
// affiliate id. URLs pass through untouched when no id is configured.
func (w *Wayfair) TagAffiliateLink(productURL string) string {
	if w.cfg.WayfairAffiliateID == "" {
		return productURL
	}
	return fmt.Sprintf("https://www.shareasale.com/r.cfm?u=%s&urllink=%s",
		w.cfg.WayfairAffiliateID, url.QueryEscape(productURL))
}
