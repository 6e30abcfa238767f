package models

// ProductMatch is a purchasable product comparable to a detected item. The
// ID is a stable hash of the canonical product URL; Similarity is the 0-1
// relevance score used for ranking and deduplication.
type ProductMatch struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	ImageURL   string  `json:"imageUrl"`
	ProductURL string  `json:"productUrl"`
	Retailer   string  `json:"retailer"`
	Similarity float64 `json:"similarity"`
}

// ProductMatchResponse is the envelope returned by the product match
// endpoints. Products holds exact matches followed by similar items; the
// split lists are also returned so the client can render them separately.
type ProductMatchResponse struct {
	Success           bool           `json:"success"`
	Products          []ProductMatch `json:"products"`
	ExactProducts     []ProductMatch `json:"exact_products,omitempty"`
	SimilarProducts   []ProductMatch `json:"similar_products,omitempty"`
	IdentifiedProduct string         `json:"identified_product,omitempty"`
	Category          string         `json:"category,omitempty"`
	Error             string         `json:"error_message,omitempty"`
}
