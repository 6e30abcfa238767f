package models

// FurnitureCategories is the canonical category vocabulary returned by all
// detection backends.
var FurnitureCategories = []string{
	"Sofa",
	"Chair",
	"Table",
	"Bed",
	"Desk",
	"Bookshelf",
	"Cabinet",
	"Dresser",
	"Nightstand",
	"Coffee Table",
	"Dining Table",
	"Office Chair",
	"Armchair",
	"Ottoman",
	"Bench",
	"TV Stand",
	"Console Table",
	"Wardrobe",
	"Sideboard",
	"Bar Stool",
}

// BoundingBox locates a detection within an image using normalized
// coordinates. All fields are in [0,1] after Clamp.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Clamp forces the box into the unit square. Out-of-range coordinates are
// clamped rather than rejected, and width/height are capped so the box never
// extends past the image edge.
func (b BoundingBox) Clamp() BoundingBox {
	x := clamp01(b.X)
	y := clamp01(b.Y)
	return BoundingBox{
		X:      x,
		Y:      y,
		Width:  clampRange(b.Width, 0, 1-x),
		Height: clampRange(b.Height, 0, 1-y),
	}
}

// Overlaps reports whether two boxes intersect geometrically.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return !(b.X+b.Width < o.X || o.X+o.Width < b.X ||
		b.Y+b.Height < o.Y || o.Y+o.Height < b.Y)
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Detection is one identified furniture item within an image. Descriptive
// fields are optional and may be filled in by the refinement pass.
type Detection struct {
	ID          string      `json:"id"`
	Label       string      `json:"label"`
	Confidence  float64     `json:"confidence"`
	BoundingBox BoundingBox `json:"boundingBox"`

	Description         string `json:"description,omitempty"`
	Color               string `json:"color,omitempty"`
	Material            string `json:"material,omitempty"`
	Style               string `json:"style,omitempty"`
	Brand               string `json:"brand,omitempty"`
	ModelName           string `json:"model_name,omitempty"`
	IdentifiedProduct   string `json:"identified_product,omitempty"`
	EstimatedPriceRange string `json:"estimated_price_range,omitempty"`
}

// IdentifyProduct derives the identified-product string from a brand/model
// pair: both when present, otherwise whichever one is known.
func IdentifyProduct(brand, modelName string) string {
	switch {
	case brand != "" && modelName != "":
		return brand + " " + modelName
	case brand != "":
		return brand
	default:
		return modelName
	}
}

// DetectionResponse is the envelope returned by the detect endpoint.
type DetectionResponse struct {
	Success    bool        `json:"success"`
	Detections []Detection `json:"detections"`
	SessionID  string      `json:"session_id,omitempty"`
	Error      string      `json:"error_message,omitempty"`
}
