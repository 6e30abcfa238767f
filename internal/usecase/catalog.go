package usecase

// catalogProduct is one entry in the built-in mock catalog used when no
// real search provider is configured.
type catalogProduct struct {
	ID          string
	Name        string
	Category    string
	Description string
	Price       float64
	Currency    string
	ImageURL    string
	ProductURL  string
	Retailer    string
}

var mockCatalog = []catalogProduct{
	{
		ID:          "mock-sofa-1",
		Name:        "Harmony Modular Sectional Sofa",
		Category:    "Sofa",
		Description: "low-profile modular sectional with feather-blend cushions in performance linen",
		Price:       1899,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/harmony-sectional",
		Retailer:    "West Elm",
	},
	{
		ID:          "mock-sofa-2",
		Name:        "Sven Charme Tan Leather Sofa",
		Category:    "Sofa",
		Description: "mid-century tan leather sofa with tufted bench seat and bolster pillows",
		Price:       1299,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/sven-leather-sofa",
		Retailer:    "Article",
	},
	{
		ID:          "mock-chair-1",
		Name:        "Aeron Ergonomic Office Chair",
		Category:    "Office Chair",
		Description: "ergonomic mesh office chair with adjustable lumbar support and tilt limiter",
		Price:       1395,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/aeron-chair",
		Retailer:    "Herman Miller",
	},
	{
		ID:          "mock-chair-2",
		Name:        "Strandmon Wingback Armchair",
		Category:    "Armchair",
		Description: "classic wingback accent chair in nordic green fabric with solid wood legs",
		Price:       379,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/strandmon-wingback",
		Retailer:    "IKEA",
	},
	{
		ID:          "mock-chair-3",
		Name:        "Eames Molded Plastic Dining Chair",
		Category:    "Chair",
		Description: "iconic molded shell dining chair with dowel wood base",
		Price:       445,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/eames-molded-chair",
		Retailer:    "Design Within Reach",
	},
	{
		ID:          "mock-table-1",
		Name:        "Reeve Mid-Century Coffee Table",
		Category:    "Coffee Table",
		Description: "round walnut coffee table with tapered legs and lower storage shelf",
		Price:       499,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/reeve-coffee-table",
		Retailer:    "West Elm",
	},
	{
		ID:          "mock-table-2",
		Name:        "Seno Walnut Dining Table",
		Category:    "Dining Table",
		Description: "rectangular walnut dining table seating six with angled legs",
		Price:       899,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/seno-dining-table",
		Retailer:    "Article",
	},
	{
		ID:          "mock-desk-1",
		Name:        "Jarvis Bamboo Standing Desk",
		Category:    "Desk",
		Description: "height-adjustable standing desk with bamboo top and memory presets",
		Price:       599,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/jarvis-standing-desk",
		Retailer:    "Fully",
	},
	{
		ID:          "mock-bed-1",
		Name:        "Andes Acacia Platform Bed",
		Category:    "Bed",
		Description: "queen platform bed frame in solid acacia wood with slatted headboard",
		Price:       1099,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/andes-platform-bed",
		Retailer:    "West Elm",
	},
	{
		ID:          "mock-shelf-1",
		Name:        "Kallax Cube Bookshelf",
		Category:    "Bookshelf",
		Description: "four-by-four cube storage bookshelf in white stained oak effect",
		Price:       179,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/kallax-bookshelf",
		Retailer:    "IKEA",
	},
	{
		ID:          "mock-dresser-1",
		Name:        "Copenhagen Six-Drawer Dresser",
		Category:    "Dresser",
		Description: "scandinavian six-drawer double dresser in matte white lacquer",
		Price:       749,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/copenhagen-dresser",
		Retailer:    "CB2",
	},
	{
		ID:          "mock-nightstand-1",
		Name:        "Mid-Century Two-Drawer Nightstand",
		Category:    "Nightstand",
		Description: "compact walnut nightstand with two drawers and brass pulls",
		Price:       299,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/mcm-nightstand",
		Retailer:    "West Elm",
	},
	{
		ID:          "mock-cabinet-1",
		Name:        "Norrebro Rattan Sideboard Cabinet",
		Category:    "Sideboard",
		Description: "two-door sideboard cabinet with woven rattan fronts and oak frame",
		Price:       649,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/norrebro-sideboard",
		Retailer:    "Crate & Barrel",
	},
	{
		ID:          "mock-ottoman-1",
		Name:        "Channel Tufted Velvet Ottoman",
		Category:    "Ottoman",
		Description: "round channel-tufted storage ottoman in emerald velvet",
		Price:       229,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/velvet-ottoman",
		Retailer:    "Wayfair",
	},
	{
		ID:          "mock-bench-1",
		Name:        "Entryway Storage Bench",
		Category:    "Bench",
		Description: "upholstered entryway bench with flip-top storage and oak legs",
		Price:       319,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/storage-bench",
		Retailer:    "Pottery Barn",
	},
	{
		ID:          "mock-tvstand-1",
		Name:        "Walnut Media Console TV Stand",
		Category:    "TV Stand",
		Description: "low walnut media console with sliding doors and cable cutouts",
		Price:       559,
		Currency:    "USD",
		ImageURL:    "https://via.placeholder.com/150",
		ProductURL:  "https://example.com/products/walnut-media-console",
		Retailer:    "Crate & Barrel",
	},
}
