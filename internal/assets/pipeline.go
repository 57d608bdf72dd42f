package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"storegen/internal/logger"

	"github.com/disintegration/imaging"
)

// Max dimension for uploaded renditions. Larger images are downscaled
// before they hit blob storage.
const maxUploadDim = 1600

// BlobStore writes image bytes to remote blob storage and returns a
// publicly fetchable URL.
type BlobStore interface {
	Put(ctx context.Context, path string, data []byte) (string, error)
}

// UploadResult distinguishes a durable upload from a placeholder
// substitution so callers can tell degraded results from successes.
type UploadResult struct {
	URL         string
	Placeholder bool
	Reason      string
}

// Pipeline converts inline-encoded images into durable URLs. Upload
// failures never propagate: the fixed placeholder URL is substituted and
// the failure is logged.
type Pipeline struct {
	blobs          BlobStore
	logger         *logger.Logger
	placeholderURL string
}

func NewPipeline(blobs BlobStore, placeholderURL string, logger *logger.Logger) *Pipeline {
	return &Pipeline{
		blobs:          blobs,
		logger:         logger,
		placeholderURL: placeholderURL,
	}
}

// Upload takes an image as a data URI (or raw base64), or an already
// durable URL, and returns a durable URL in all cases. A durable URL
// input is a pass-through.
func (p *Pipeline) Upload(ctx context.Context, input, destPath string) UploadResult {
	if input == "" {
		return p.placeholder(destPath, "no image data")
	}
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return UploadResult{URL: input}
	}

	data, err := decodeInline(input)
	if err != nil {
		return p.placeholder(destPath, fmt.Sprintf("decode inline data: %v", err))
	}

	normalized, err := normalize(data)
	if err != nil {
		return p.placeholder(destPath, fmt.Sprintf("normalize image: %v", err))
	}

	url, err := p.blobs.Put(ctx, destPath, normalized)
	if err != nil {
		return p.placeholder(destPath, fmt.Sprintf("blob upload: %v", err))
	}
	if url == "" {
		return p.placeholder(destPath, "blob store returned empty URL")
	}

	p.logger.Debug("Uploaded image to %s", destPath)
	return UploadResult{URL: url}
}

func (p *Pipeline) placeholder(destPath, reason string) UploadResult {
	p.logger.Warn("Substituting placeholder for %s: %s", destPath, reason)
	return UploadResult{URL: p.placeholderURL, Placeholder: true, Reason: reason}
}

// decodeInline accepts "data:image/png;base64,..." URIs as well as bare
// base64 payloads.
func decodeInline(input string) ([]byte, error) {
	payload := input
	if strings.HasPrefix(input, "data:") {
		idx := strings.Index(input, "base64,")
		if idx < 0 {
			return nil, fmt.Errorf("data URI without base64 payload")
		}
		payload = input[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return data, nil
}

// normalize decodes the image, downscales anything over maxUploadDim
// preserving aspect ratio, and re-encodes as PNG.
func normalize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxUploadDim || height > maxUploadDim {
		if width > height {
			img = imaging.Resize(img, maxUploadDim, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxUploadDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
