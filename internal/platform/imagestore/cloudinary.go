// Package imagestore uploads listing photos to Cloudinary.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	cldconfig "github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/rewear/swap-platform/internal/config"
)

// ErrUploadsDisabled is returned when no Cloudinary account is configured
var ErrUploadsDisabled = errors.New("image uploads are not configured")

// Uploader stores an image and returns its public URL
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, publicID string) (string, error)
}

// Delivery transformation applied at upload time
const imageEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsync = false

// CloudinaryUploader implements Uploader with the Cloudinary upload API
type CloudinaryUploader struct {
	folder   string
	uploader *uploader.API
}

// NewCloudinaryUploader builds an uploader from config. It returns
// ErrUploadsDisabled when no cloud name is set.
func NewCloudinaryUploader(cfg *config.CloudinaryConfig) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" {
		return nil, ErrUploadsDisabled
	}
	cldCfg, err := cldconfig.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to build cloudinary config: %w", err)
	}
	api, err := uploader.NewWithConfiguration(cldCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary uploader: %w", err)
	}
	return &CloudinaryUploader{folder: cfg.Folder, uploader: api}, nil
}

// Upload sends the image and returns its secure URL
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, publicID string) (string, error) {
	result, err := u.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     u.folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsync,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("failed to upload image: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// Disabled is the Uploader used when Cloudinary is not configured
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, string) (string, error) {
	return "", ErrUploadsDisabled
}
