// Package imaging wraps the image decode/crop/resize primitives used by the
// detection refinement and visual comparison flows. Everything is re-encoded
// as JPEG since that is what the scoring models consume.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/edaxe/furniture-app/internal/models"
)

const (
	// CropPadding expands a bounding box by 5% of the image on each side so
	// the focused re-analysis sees a little context around the item.
	CropPadding = 0.05

	jpegQuality = 90
)

// CropRegion cuts the bounding-box region out of an encoded image, with
// padding clamped to the image bounds, and returns it as JPEG bytes.
func CropRegion(imageBytes []byte, box models.BoundingBox) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	left := bounds.Min.X + int(maxf(0, box.X-CropPadding)*w)
	top := bounds.Min.Y + int(maxf(0, box.Y-CropPadding)*h)
	right := bounds.Min.X + int(minf(1, box.X+box.Width+CropPadding)*w)
	bottom := bounds.Min.Y + int(minf(1, box.Y+box.Height+CropPadding)*h)
	if right <= left || bottom <= top {
		return nil, fmt.Errorf("empty crop region for box %+v", box)
	}

	rect := image.Rect(left, top, right, bottom)
	cropped := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(cropped, image.Point{}, img, rect, xdraw.Over, nil)

	return encodeJPEG(cropped)
}

// Thumbnail downscales an encoded image so its longest side is at most
// maxSize pixels, preserving aspect ratio. Images already small enough are
// re-encoded unchanged in size.
func Thumbnail(imageBytes []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSize && h <= maxSize {
		return encodeJPEG(img)
	}

	scale := float64(maxSize) / float64(w)
	if h > w {
		scale = float64(maxSize) / float64(h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)

	return encodeJPEG(dst)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
