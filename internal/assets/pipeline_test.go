package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"testing"

	"storegen/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholderURL = "https://cdn.example.com/placeholder.png"

type fakeBlobStore struct {
	fail  bool
	paths []string
}

func (f *fakeBlobStore) Put(_ context.Context, path string, data []byte) (string, error) {
	if f.fail {
		return "", errors.New("storage unreachable")
	}
	f.paths = append(f.paths, path)
	return "https://cdn.example.com/" + path, nil
}

func newTestPipeline(blobs BlobStore) *Pipeline {
	return NewPipeline(blobs, placeholderURL, logger.New("error"))
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestUploadInlineImage(t *testing.T) {
	blobs := &fakeBlobStore{}
	p := newTestPipeline(blobs)

	res := p.Upload(context.Background(), pngDataURI(t), "products/s1/p1/abc.png")

	assert.False(t, res.Placeholder)
	assert.Equal(t, "https://cdn.example.com/products/s1/p1/abc.png", res.URL)
	assert.Equal(t, []string{"products/s1/p1/abc.png"}, blobs.paths)
}

func TestUploadDurableURLPassThrough(t *testing.T) {
	blobs := &fakeBlobStore{}
	p := newTestPipeline(blobs)

	res := p.Upload(context.Background(), "https://img.example.com/x.png", "products/s1/p1/abc.png")

	assert.False(t, res.Placeholder)
	assert.Equal(t, "https://img.example.com/x.png", res.URL)
	assert.Empty(t, blobs.paths, "pass-through must not touch blob storage")
}

func TestUploadNeverReturnsEmptyURL(t *testing.T) {
	inputs := map[string]string{
		"empty input":      "",
		"malformed base64": "data:image/png;base64,!!!not-base64!!!",
		"bad image bytes":  "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a png")),
		"bare garbage":     base64.StdEncoding.EncodeToString([]byte("junk")),
	}
	p := newTestPipeline(&fakeBlobStore{})
	for name, input := range inputs {
		res := p.Upload(context.Background(), input, "products/s1/p1/x.png")
		assert.Equal(t, placeholderURL, res.URL, name)
		assert.True(t, res.Placeholder, name)
		assert.NotEmpty(t, res.Reason, name)
	}
}

func TestUploadBlobFailureSubstitutesPlaceholder(t *testing.T) {
	p := newTestPipeline(&fakeBlobStore{fail: true})

	res := p.Upload(context.Background(), pngDataURI(t), "logos/s1/l1/x.png")

	assert.True(t, res.Placeholder)
	assert.Equal(t, placeholderURL, res.URL)
	assert.Contains(t, res.Reason, "blob upload")
}

func TestNormalizeDownscalesLargeImages(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3200, 1600))))

	out, err := normalize(buf.Bytes())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, maxUploadDim, img.Bounds().Dx())
	assert.Equal(t, maxUploadDim/2, img.Bounds().Dy())
}

func TestUploadDestPathShape(t *testing.T) {
	blobs := &fakeBlobStore{}
	p := newTestPipeline(blobs)

	path := fmt.Sprintf("collections/%s/%s/%s.png", "store-1", "col-1", "r4nd0m")
	res := p.Upload(context.Background(), pngDataURI(t), path)

	assert.False(t, res.Placeholder)
	assert.Equal(t, []string{path}, blobs.paths)
}
