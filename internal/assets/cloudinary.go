package assets

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads image bytes to Cloudinary, keyed by the
// destination path minus its extension.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudinaryURL string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{client: cld}, nil
}

func (s *CloudinaryStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	publicID := strings.TrimSuffix(path, ".png")
	result, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: publicID,
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("upload returned no URL")
	}
	return result.SecureURL, nil
}

type disabledStore struct{}

func (disabledStore) Put(ctx context.Context, path string, data []byte) (string, error) {
	return "", fmt.Errorf("blob storage not configured")
}

// Disabled returns a BlobStore that rejects every upload, so the
// pipeline substitutes placeholders for all inline images.
func Disabled() BlobStore {
	return disabledStore{}
}
