package retailers

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/models"
	"github.com/edaxe/furniture-app/internal/similarity"
)

const serperShoppingURL = "https://google.serper.dev/shopping"

// GoogleShopping searches Google Shopping through the Serper.dev API. It is
// the fallback source: lowest priority, queried only when partner results
// fall below the configured minimum.
type GoogleShopping struct {
	cfg     config.SearchConfig
	client  *resty.Client
	baseURL string
}

func NewGoogleShopping(cfg *config.Config, client *resty.Client) *GoogleShopping {
	return &GoogleShopping{
		cfg:     cfg.Search,
		client:  client,
		baseURL: serperShoppingURL,
	}
}

func (g *GoogleShopping) Name() string    { return "Google Shopping" }
func (g *GoogleShopping) IsPartner() bool { return false }
func (g *GoogleShopping) Priority() int   { return 100 }

func (g *GoogleShopping) IsAvailable() bool {
	return g.cfg.SerperAPIKey != ""
}

func (g *GoogleShopping) TagAffiliateLink(url string) string { return url }

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperItem struct {
	Title    string `json:"title"`
	Source   string `json:"source"`
	Link     string `json:"link"`
	Price    string `json:"price"`
	ImageURL string `json:"imageUrl"`
}

type serperResponse struct {
	Shopping []serperItem `json:"shopping"`
}

func (g *GoogleShopping) Search(ctx context.Context, query, category string, limit int) ([]models.ProductMatch, error) {
	if !g.IsAvailable() {
		return nil, nil
	}

	searchQuery := query + " buy"
	if category != "" {
		searchQuery = category + " " + query + " buy"
	}

	items, err := g.doSearch(ctx, searchQuery, limit)
	if err != nil {
		return nil, err
	}
	return g.toMatches(items, searchQuery, limit, false), nil
}

func (g *GoogleShopping) SearchExact(ctx context.Context, productName string, limit int) ([]models.ProductMatch, error) {
	if !g.IsAvailable() {
		return nil, nil
	}

	items, err := g.doSearch(ctx, productName+" buy", limit)
	if err != nil {
		return nil, err
	}
	return g.toMatches(items, productName, limit, true), nil
}

func (g *GoogleShopping) doSearch(ctx context.Context, query string, limit int) ([]serperItem, error) {
	var result serperResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", g.cfg.SerperAPIKey).
		SetBody(serperRequest{Query: query, Num: limit}).
		SetResult(&result).
		Post(g.baseURL)
	if err != nil {
		return nil, fmt.Errorf("serper shopping search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("serper shopping search: status %d", resp.StatusCode())
	}
	return result.Shopping, nil
}

func (g *GoogleShopping) toMatches(items []serperItem, query string, limit int, exact bool) []models.ProductMatch {
	if len(items) > limit {
		items = items[:limit]
	}

	matches := make([]models.ProductMatch, 0, len(items))
	for _, item := range items {
		name := item.Title
		if name == "" {
			name = "Unknown Product"
		}
		retailer := item.Source
		if retailer == "" {
			retailer = "Unknown"
		}
		matches = append(matches, models.ProductMatch{
			ID:         ProductID(item.Link),
			Name:       name,
			Price:      ParsePrice(item.Price),
			Currency:   "USD",
			ImageURL:   item.ImageURL,
			ProductURL: item.Link,
			Retailer:   retailer,
			Similarity: similarity.Score(query, name, exact),
		})
	}
	return matches
}
