// Package imagefetch downloads product images for visual comparison.
package imagefetch

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"github.com/edaxe/furniture-app/internal/imaging"
)

// ThumbnailMaxSize bounds the longest side of downloaded images before they
// are sent to the visual scorer.
const ThumbnailMaxSize = 512

// Fetcher downloads and downscales product images concurrently.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(client *resty.Client) *Fetcher {
	return &Fetcher{client: client}
}

// FetchAll downloads every URL in parallel and returns one entry per input,
// in order. A failed download yields a nil entry rather than an error; the
// caller tolerates holes.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) [][]byte {
	images := make([][]byte, len(urls))

	group, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		group.Go(func() error {
			data, err := f.fetchOne(ctx, url)
			if err != nil {
				log.Warnw(ctx, "product image download failed", "url", url, "error", err)
				return nil
			}
			images[i] = data
			return nil
		})
	}
	// Workers never return errors, only nil slots.
	_ = group.Wait()
	return images
}

func (f *Fetcher) fetchOne(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty image url")
	}
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}
	thumb, err := imaging.Thumbnail(resp.Body(), ThumbnailMaxSize)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	return thumb, nil
}
