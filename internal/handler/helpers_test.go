package handler_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/leca/image-store/internal/config"
	"github.com/leca/image-store/internal/router"
	"github.com/leca/image-store/internal/store"
	"github.com/stretchr/testify/require"
)

// testServer creates a test HTTP server backed by the given store.
func testServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.MaxUploadBytes = 1 << 20

	srv := router.New(st, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)
	return ts
}

// makeJPEG creates a small valid JPEG image in memory and returns the bytes.
func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// multipartBody builds a multipart body with a single file part. An empty
// partType leaves the writer's default application/octet-stream.
func multipartBody(t *testing.T, fieldName, fileName, partType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	var (
		fw  io.Writer
		err error
	)
	if partType == "" {
		fw, err = w.CreateFormFile(fieldName, fileName)
	} else {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
		hdr.Set("Content-Type", partType)
		fw, err = w.CreatePart(hdr)
	}
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

// upload posts a multipart file to /images and returns the response.
func upload(t *testing.T, ts *httptest.Server, fileName, partType string, content []byte) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, "file", fileName, partType, content)
	resp, err := http.Post(ts.URL+"/images", contentType, body)
	require.NoError(t, err)
	return resp
}

func do(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}
