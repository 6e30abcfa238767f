package server

import (
	"io"
	"net/http"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"

	"github.com/edaxe/furniture-app/internal/events"
	"github.com/edaxe/furniture-app/internal/imagecache"
	"github.com/edaxe/furniture-app/internal/models"
	"github.com/edaxe/furniture-app/internal/server/middleware"
	"github.com/edaxe/furniture-app/internal/usecase"
	"github.com/edaxe/furniture-app/pkg/util"
)

// maxUploadSize bounds the detect endpoint's image payload.
const maxUploadSize = 10 << 20

const appVersion = "1.0.0"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

type Controller interface {
	Detect(c echo.Context) error
	MatchProducts(c echo.Context) error
	MatchProductsVisual(c echo.Context) error
	Root(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	detection usecase.DetectionUsecase
	products  usecase.ProductUsecase
	cache     *imagecache.Cache
	publisher *events.Publisher
}

func NewHandler(
	detection usecase.DetectionUsecase,
	products usecase.ProductUsecase,
	cache *imagecache.Cache,
	publisher *events.Publisher,
) Controller {
	return &controller{
		detection: detection,
		products:  products,
		cache:     cache,
		publisher: publisher,
	}
}

// Detect accepts a multipart image upload, runs furniture detection and
// stashes the image so a later visual-match call can reference it.
func (h *controller) Detect(c echo.Context) error {
	imageBytes, err := readUploadedImage(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	detections, source, err := h.detection.DetectFurniture(ctx, imageBytes)
	if err != nil {
		// Core failures keep the envelope contract: HTTP 200 with
		// success=false.
		log.Errorw(ctx, "detection failed", "error", err)
		return c.JSON(http.StatusOK, models.DetectionResponse{
			Success: false,
			Error:   "detection failed",
		})
	}

	// A full cache only disables visual comparison for this session; the
	// detections are still good.
	sessionID, err := h.cache.Store(imageBytes)
	if err != nil {
		log.Warnw(ctx, "image not cached, visual match disabled for this session", "error", err)
		sessionID = ""
	}

	h.publisher.Publish(ctx, events.PatternDetectionCompleted, events.DetectionCompleted{
		SessionID:      sessionID,
		DetectionCount: len(detections),
		Labels:         util.ConvertList(detections, func(d models.Detection) string { return d.Label }),
		Source:         source,
	})

	return c.JSON(http.StatusOK, models.DetectionResponse{
		Success:    true,
		Detections: detections,
		SessionID:  sessionID,
	})
}

func readUploadedImage(c echo.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		fileHeader, err = c.FormFile("file")
	}
	if err != nil {
		return nil, middleware.NewError(http.StatusBadRequest, "missing image file")
	}
	if fileHeader.Size > maxUploadSize {
		return nil, middleware.NewError(http.StatusBadRequest, "image exceeds the 10MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, middleware.NewError(http.StatusBadRequest, "could not read image file")
	}
	defer file.Close()

	// The declared size is client-controlled, so cap the actual read too.
	imageBytes, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return nil, middleware.NewError(http.StatusBadRequest, "could not read image file")
	}
	if len(imageBytes) > maxUploadSize {
		return nil, middleware.NewError(http.StatusBadRequest, "image exceeds the 10MB limit")
	}
	if len(imageBytes) == 0 {
		return nil, middleware.NewError(http.StatusBadRequest, "empty image file")
	}

	contentType := http.DetectContentType(imageBytes)
	if !util.SliceIncludes(allowedImageTypes, contentType) {
		return nil, middleware.NewError(http.StatusBadRequest, "unsupported image type, expected JPEG, PNG or WebP")
	}
	return imageBytes, nil
}

type matchProductsRequest struct {
	Category          string `query:"category" validate:"required,furniture_category"`
	Description       string `query:"description"`
	Brand             string `query:"brand"`
	Model             string `query:"model"`
	Color             string `query:"color"`
	Material          string `query:"material"`
	Style             string `query:"style"`
	IdentifiedProduct string `query:"identified_product"`
	Limit             int    `query:"limit" validate:"omitempty,min=1,max=20"`
}

// identified resolves the exact-search target: an explicit
// identified_product wins, otherwise it is derived from brand/model.
func (r matchProductsRequest) identified() string {
	if r.IdentifiedProduct != "" {
		return r.IdentifiedProduct
	}
	return models.IdentifyProduct(r.Brand, r.Model)
}

func (r matchProductsRequest) toQuery() usecase.ProductQuery {
	return usecase.ProductQuery{
		Category:          r.Category,
		Description:       r.Description,
		Color:             r.Color,
		Material:          r.Material,
		Style:             r.Style,
		IdentifiedProduct: r.identified(),
		Limit:             r.Limit,
	}
}

// MatchProducts searches retailers for products matching a detected item.
func (h *controller) MatchProducts(c echo.Context) error {
	var req matchProductsRequest
	if err := c.Bind(&req); err != nil {
		return middleware.NewError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(req); err != nil {
		return middleware.NewError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	result, err := h.products.GetMatchesWithExact(ctx, req.toQuery())
	if err != nil {
		log.Errorw(ctx, "product search failed", "error", err)
		return c.JSON(http.StatusOK, models.ProductMatchResponse{
			Success: false,
			Error:   "product search failed",
		})
	}

	return h.respondWithMatches(c, result, req.Category, req.identified())
}

type visualMatchRequest struct {
	SessionID         string             `json:"session_id" validate:"required"`
	BoundingBox       models.BoundingBox `json:"bounding_box"`
	Category          string             `json:"category" validate:"required,furniture_category"`
	Description       string             `json:"description"`
	Brand             string             `json:"brand"`
	Model             string             `json:"model"`
	Color             string             `json:"color"`
	Material          string             `json:"material"`
	Style             string             `json:"style"`
	IdentifiedProduct string             `json:"identified_product"`
	Limit             int                `json:"limit" validate:"omitempty,min=1,max=20"`
}

func (r visualMatchRequest) identified() string {
	if r.IdentifiedProduct != "" {
		return r.IdentifiedProduct
	}
	return models.IdentifyProduct(r.Brand, r.Model)
}

// MatchProductsVisual is MatchProducts plus a visual re-rank against the
// region of the image uploaded earlier in the session.
func (h *controller) MatchProductsVisual(c echo.Context) error {
	var req visualMatchRequest
	if err := c.Bind(&req); err != nil {
		return middleware.NewError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return middleware.NewError(http.StatusBadRequest, err.Error())
	}

	query := usecase.ProductQuery{
		Category:          req.Category,
		Description:       req.Description,
		Color:             req.Color,
		Material:          req.Material,
		Style:             req.Style,
		IdentifiedProduct: req.identified(),
		Limit:             req.Limit,
	}

	ctx := c.Request().Context()
	result, err := h.products.GetMatchesWithVisual(ctx, req.SessionID, req.BoundingBox, query)
	if err != nil {
		log.Errorw(ctx, "product search failed", "error", err)
		return c.JSON(http.StatusOK, models.ProductMatchResponse{
			Success: false,
			Error:   "product search failed",
		})
	}

	return h.respondWithMatches(c, result, req.Category, req.identified())
}

func (h *controller) respondWithMatches(c echo.Context, result usecase.MatchResult, category, identifiedProduct string) error {
	ctx := c.Request().Context()
	h.publisher.Publish(ctx, events.PatternProductsServed, events.ProductsServed{
		Category:          category,
		IdentifiedProduct: identifiedProduct,
		ExactCount:        len(result.Exact),
		SimilarCount:      len(result.Similar),
		VisuallyReranked:  result.VisuallyReranked,
	})

	combined := make([]models.ProductMatch, 0, len(result.Exact)+len(result.Similar))
	combined = append(combined, result.Exact...)
	combined = append(combined, result.Similar...)

	return c.JSON(http.StatusOK, models.ProductMatchResponse{
		Success:           true,
		Products:          combined,
		ExactProducts:     result.Exact,
		SimilarProducts:   result.Similar,
		IdentifiedProduct: identifiedProduct,
		Category:          category,
	})
}

func (h *controller) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"name":    "furniture-app",
		"version": appVersion,
		"status":  "running",
	})
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "furniture-app",
	})
}
