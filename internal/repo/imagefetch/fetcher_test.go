package imagefetch

import (
	"bytes"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edaxe/furniture-app/pkg/util"
)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func TestFetchAllToleratesFailures(t *testing.T) {
	img := testJPEG(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.Write(img)
		case "/garbage":
			w.Write([]byte("not an image"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewFetcher(util.NewRestyClient())
	images := f.FetchAll(t.Context(), []string{
		srv.URL + "/ok.jpg",
		srv.URL + "/missing.jpg",
		srv.URL + "/garbage",
		"",
	})

	require.Len(t, images, 4)
	assert.NotNil(t, images[0])
	assert.Nil(t, images[1])
	assert.Nil(t, images[2])
	assert.Nil(t, images[3])
}

func TestFetchAllDownscales(t *testing.T) {
	img := testJPEG(t, 1024, 512)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(img)
	}))
	defer srv.Close()

	f := NewFetcher(util.NewRestyClient())
	images := f.FetchAll(t.Context(), []string{srv.URL})
	require.Len(t, images, 1)
	require.NotNil(t, images[0])

	decoded, _, err := image.Decode(bytes.NewReader(images[0]))
	require.NoError(t, err)
	assert.LessOrEqual(t, decoded.Bounds().Dx(), ThumbnailMaxSize)
	assert.LessOrEqual(t, decoded.Bounds().Dy(), ThumbnailMaxSize)
}
