// Package retailers holds the product-search provider integrations. Each
// provider is either a partner (affiliate, queried first) or a fallback
// source used to backfill thin partner results.
package retailers

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/edaxe/furniture-app/internal/models"
)

// Retailer is the uniform capability set every search source implements.
// New sources are added by implementing this interface and registering the
// value, not by subclassing anything.
type Retailer interface {
	// Name identifies the retailer in logs and ProductMatch records.
	Name() string
	// IsPartner reports whether this source has a commercial affiliation.
	IsPartner() bool
	// Priority orders the search; lower numbers are queried first.
	Priority() int
	// IsAvailable reports whether required credentials are configured.
	IsAvailable() bool

	// Search finds products matching a free-text query, optionally scoped
	// to a furniture category.
	Search(ctx context.Context, query, category string, limit int) ([]models.ProductMatch, error)
	// SearchExact looks up a specific identified product (brand + model).
	SearchExact(ctx context.Context, productName string, limit int) ([]models.ProductMatch, error)

	// TagAffiliateLink decorates a product URL with tracking parameters.
	TagAffiliateLink(url string) string
}

// AvailablePartners filters and priority-sorts the partner providers that
// are ready to be queried.
func AvailablePartners(all []Retailer) []Retailer {
	partners := make([]Retailer, 0, len(all))
	for _, r := range all {
		if r.IsPartner() && r.IsAvailable() {
			partners = append(partners, r)
		}
	}
	sort.SliceStable(partners, func(i, j int) bool {
		return partners[i].Priority() < partners[j].Priority()
	})
	return partners
}

// ProductID derives a stable identifier from a canonical product URL.
func ProductID(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])[:12]
}

// ParsePrice extracts a numeric value from a human-readable price string
// like "$1,299.99". Unparseable input yields 0.
func ParsePrice(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return price
}
