package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"golang.org/x/sync/errgroup"

	"github.com/edaxe/furniture-app/internal/config"
	"github.com/edaxe/furniture-app/internal/imaging"
	"github.com/edaxe/furniture-app/internal/models"
	"github.com/edaxe/furniture-app/internal/repo/retailers"
	"github.com/edaxe/furniture-app/internal/similarity"
	"github.com/edaxe/furniture-app/pkg/util"
)

// ProductQuery carries the search inputs for one product-match request.
type ProductQuery struct {
	Category          string
	Description       string
	Color             string
	Material          string
	Style             string
	IdentifiedProduct string
	Limit             int
}

// MatchResult is the outcome of one aggregation call.
type MatchResult struct {
	Exact   []models.ProductMatch
	Similar []models.ProductMatch
	// VisuallyReranked is set when visual scores replaced the text ranking.
	VisuallyReranked bool
}

// ProductUsecase aggregates product search across retailer providers with
// the partner-first/fallback-backfill policy.
type ProductUsecase interface {
	// GetMatches runs the similar-items search only.
	GetMatches(ctx context.Context, q ProductQuery) ([]models.ProductMatch, error)
	// GetMatchesWithExact additionally runs an exact brand/model search
	// when the query identifies a product; both searches run concurrently.
	GetMatchesWithExact(ctx context.Context, q ProductQuery) (MatchResult, error)
	// GetMatchesWithVisual is GetMatchesWithExact plus a visual re-rank
	// against the cached request image. Any visual failure degrades to the
	// text-only ranking.
	GetMatchesWithVisual(ctx context.Context, sessionID string, box models.BoundingBox, q ProductQuery) (MatchResult, error)
}

type productUsecase struct {
	cfg       *config.Config
	providers []retailers.Retailer
	cache     ImageGetter
	fetcher   ImageFetcher
	scorer    VisualScorer
}

func NewProductUsecase(
	cfg *config.Config,
	providers []retailers.Retailer,
	cache ImageGetter,
	fetcher ImageFetcher,
	scorer VisualScorer,
) ProductUsecase {
	return &productUsecase{
		cfg:       cfg,
		providers: providers,
		cache:     cache,
		fetcher:   fetcher,
		scorer:    scorer,
	}
}

func (u *productUsecase) GetMatches(ctx context.Context, q ProductQuery) ([]models.ProductMatch, error) {
	q.IdentifiedProduct = ""
	result, err := u.GetMatchesWithExact(ctx, q)
	if err != nil {
		return nil, err
	}
	return result.Similar, nil
}

func (u *productUsecase) GetMatchesWithExact(ctx context.Context, q ProductQuery) (MatchResult, error) {
	limit := u.normalizeLimit(q.Limit)
	query := u.buildQuery(q)

	if u.cfg.Search.UseMock || !u.anyProviderAvailable() {
		result := MatchResult{Similar: u.mockMatches(q.Category, limit, query)}
		if q.IdentifiedProduct != "" {
			result.Exact = u.mockExact(q.IdentifiedProduct, limit)
		}
		return result, nil
	}

	var result MatchResult
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result.Similar = u.searchAllSources(gctx, query, q.Category, limit, false)
		return nil
	})
	if q.IdentifiedProduct != "" {
		group.Go(func() error {
			result.Exact = u.searchAllSources(gctx, q.IdentifiedProduct, "", limit, true)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return MatchResult{}, err
	}

	// A completely dry real search still serves the mock catalog so the
	// client always has something to render.
	if len(result.Similar) == 0 && len(result.Exact) == 0 {
		result.Similar = u.mockMatches(q.Category, limit, query)
	}
	return result, nil
}

func (u *productUsecase) GetMatchesWithVisual(ctx context.Context, sessionID string, box models.BoundingBox, q ProductQuery) (MatchResult, error) {
	result, err := u.GetMatchesWithExact(ctx, q)
	if err != nil {
		return MatchResult{}, err
	}

	if u.scorer == nil || !u.scorer.IsAvailable() || u.fetcher == nil || u.cache == nil {
		return result, nil
	}

	imageBytes, err := u.cache.Get(sessionID)
	if err != nil {
		log.Infow(ctx, "cached image unavailable, keeping text ranking", "session_id", sessionID)
		return result, nil
	}

	reference, err := imaging.CropRegion(imageBytes, box.Clamp())
	if err != nil {
		log.Warnw(ctx, "reference crop failed, keeping text ranking", "error", err)
		return result, nil
	}

	// One batch over both lists so the whole re-rank is a single model
	// round trip.
	combined := append(append([]models.ProductMatch{}, result.Exact...), result.Similar...)
	urls := util.ConvertList(combined, func(p models.ProductMatch) string { return p.ImageURL })
	names := util.ConvertList(combined, func(p models.ProductMatch) string { return p.Name })

	productImages := u.fetcher.FetchAll(ctx, urls)
	scores, err := u.scorer.ScoreProducts(ctx, reference, productImages, names)
	if err != nil || len(scores) == 0 {
		if err != nil {
			log.Warnw(ctx, "visual scoring failed, keeping text ranking", "error", err)
		}
		return result, nil
	}

	for i := range combined {
		if score, ok := scores[i]; ok {
			combined[i].Similarity = score
		}
	}
	exactCount := len(result.Exact)
	result.Exact = sortBySimilarity(combined[:exactCount])
	result.Similar = sortBySimilarity(combined[exactCount:])
	result.VisuallyReranked = true
	return result, nil
}

// searchAllSources implements the partner-first policy: query every
// available partner concurrently, backfill from the fallback source when
// partner results are thin, then deduplicate and truncate.
func (u *productUsecase) searchAllSources(ctx context.Context, query, category string, limit int, exact bool) []models.ProductMatch {
	var (
		mu  sync.Mutex
		all []models.ProductMatch
	)

	group, gctx := errgroup.WithContext(ctx)
	for _, partner := range retailers.AvailablePartners(u.providers) {
		group.Go(func() error {
			results, err := u.searchProvider(gctx, partner, query, category, limit, exact)
			if err != nil {
				// Provider failures are isolated: log and contribute
				// nothing.
				log.Warnw(gctx, "partner search failed", "retailer", partner.Name(), "error", err)
				return nil
			}
			mu.Lock()
			all = append(all, results...)
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	if len(all) < u.cfg.Search.MinPartnerResults {
		if fallback := u.fallbackProvider(); fallback != nil {
			needed := limit - len(all)
			if needed > 0 {
				results, err := u.searchProvider(ctx, fallback, query, category, needed, exact)
				if err != nil {
					log.Warnw(ctx, "fallback search failed", "retailer", fallback.Name(), "error", err)
				} else {
					all = append(all, results...)
				}
			}
		}
	}

	deduped := Deduplicate(all)
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}

func (u *productUsecase) searchProvider(ctx context.Context, r retailers.Retailer, query, category string, limit int, exact bool) ([]models.ProductMatch, error) {
	if exact {
		return r.SearchExact(ctx, query, limit)
	}
	return r.Search(ctx, query, category, limit)
}

func (u *productUsecase) fallbackProvider() retailers.Retailer {
	var best retailers.Retailer
	for _, r := range u.providers {
		if r.IsPartner() || !r.IsAvailable() {
			continue
		}
		if best == nil || r.Priority() < best.Priority() {
			best = r
		}
	}
	return best
}

func (u *productUsecase) anyProviderAvailable() bool {
	for _, r := range u.providers {
		if r.IsAvailable() {
			return true
		}
	}
	return false
}

// Deduplicate keeps the highest-similarity occurrence per case-insensitive
// trimmed product name. Only similarity rank decides which duplicate
// survives; partner origin gives no inherent precedence. Idempotent.
func Deduplicate(products []models.ProductMatch) []models.ProductMatch {
	sorted := sortBySimilarity(products)

	seen := make(map[string]struct{}, len(sorted))
	out := make([]models.ProductMatch, 0, len(sorted))
	for _, p := range sorted {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

func sortBySimilarity(products []models.ProductMatch) []models.ProductMatch {
	sorted := make([]models.ProductMatch, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Similarity > sorted[j].Similarity
	})
	return sorted
}

// buildQuery prefers the detailed description; otherwise it composes one
// from the attribute filters around the category.
func (u *productUsecase) buildQuery(q ProductQuery) string {
	if q.Description != "" {
		return q.Description
	}
	parts := make([]string, 0, 4)
	for _, part := range []string{q.Color, q.Material, q.Style, q.Category} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ") + " furniture"
}

func (u *productUsecase) normalizeLimit(limit int) int {
	if limit <= 0 {
		return u.cfg.Search.DefaultProductLimit
	}
	if max := u.cfg.Search.MaxProductLimit; max > 0 && limit > max {
		return max
	}
	return limit
}

// mockMatches serves the static catalog: substring category matching in
// both directions across name, category and description, falling back to a
// random sample when nothing matches.
func (u *productUsecase) mockMatches(category string, limit int, query string) []models.ProductMatch {
	categoryLower := strings.ToLower(strings.TrimSpace(category))

	matching := make([]catalogProduct, 0, len(mockCatalog))
	for _, p := range mockCatalog {
		if catalogMatches(p, categoryLower) {
			matching = append(matching, p)
		}
	}
	if len(matching) == 0 {
		matching = mockCatalog
	}

	selected := sampleCatalog(matching, limit)
	if query == "" {
		query = category + " furniture"
	}

	return util.ConvertList(selected, func(p catalogProduct) models.ProductMatch {
		return models.ProductMatch{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price,
			Currency:   p.Currency,
			ImageURL:   p.ImageURL,
			ProductURL: p.ProductURL,
			Retailer:   p.Retailer,
			Similarity: similarity.Score(query, p.Name, false),
		}
	})
}

func catalogMatches(p catalogProduct, categoryLower string) bool {
	if categoryLower == "" {
		return false
	}
	nameLower := strings.ToLower(p.Name)
	catLower := strings.ToLower(p.Category)
	descLower := strings.ToLower(p.Description)
	return strings.Contains(catLower, categoryLower) ||
		strings.Contains(nameLower, categoryLower) ||
		strings.Contains(descLower, categoryLower) ||
		strings.Contains(categoryLower, catLower)
}

func sampleCatalog(products []catalogProduct, limit int) []catalogProduct {
	if limit >= len(products) {
		out := make([]catalogProduct, len(products))
		copy(out, products)
		return out
	}
	indices := rand.Perm(len(products))[:limit]
	out := make([]catalogProduct, 0, limit)
	for _, i := range indices {
		out = append(out, products[i])
	}
	return out
}

var mockExactVariants = []string{"", " - New", " - Refurbished", " - Open Box", " - Floor Model"}

var mockExactRetailers = []string{"Wayfair", "Amazon", "Design Within Reach", "Crate & Barrel"}

// mockExact fabricates listings for an identified product so the exact
// flow works offline.
func (u *productUsecase) mockExact(identifiedProduct string, limit int) []models.ProductMatch {
	count := limit
	if count > len(mockExactVariants) {
		count = len(mockExactVariants)
	}

	out := make([]models.ProductMatch, 0, count)
	for i := 0; i < count; i++ {
		name := identifiedProduct + mockExactVariants[i]
		price := 200 + rand.Float64()*1300
		out = append(out, models.ProductMatch{
			ID:         retailers.ProductID(fmt.Sprintf("%s-exact-%d", identifiedProduct, i)),
			Name:       name,
			Price:      float64(int(price*100)) / 100,
			Currency:   "USD",
			ImageURL:   "https://via.placeholder.com/150",
			ProductURL: fmt.Sprintf("https://example.com/product/%d", i),
			Retailer:   mockExactRetailers[i%len(mockExactRetailers)],
			Similarity: similarity.Score(identifiedProduct, name, true),
		})
	}
	return out
}
