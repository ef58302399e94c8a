// Package upload relays image files to the blob provider and hands back
// the public URL.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/iliyamo/venues-api/internal/config"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ErrEmptyURL is returned when the provider accepts a file but reports no
// URL for it.
var ErrEmptyURL = errors.New("upload: provider returned no url")

// Cloudinary uploads into a single folder restricted to the configured
// formats.
type Cloudinary struct {
	cld     *cloudinary.Cloudinary
	folder  string
	formats []string
}

// NewCloudinary builds the client from cfg. It performs no network call.
func NewCloudinary(cfg config.CloudinaryConfig) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld, folder: cfg.Folder, formats: cfg.Formats()}, nil
}

// Upload sends r to Cloudinary and returns the secure URL.
func (c *Cloudinary) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := CheckFormat(filename, c.formats); err != nil {
		return "", err
	}
	res, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:         c.folder,
		AllowedFormats: c.formats,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	// API-level failures come back in the result body, not as err.
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", ErrEmptyURL
	}
	return res.SecureURL, nil
}

// CheckFormat rejects filenames whose extension is not in allowed. An
// empty allow list accepts everything; so does a name without extension,
// leaving the decision to the provider.
func CheckFormat(filename string, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return nil
	}
	for _, f := range allowed {
		if f == ext {
			return nil
		}
	}
	return fmt.Errorf("upload: format %q is not allowed", ext)
}

// ErrNotConfigured is returned by Disabled for every upload.
var ErrNotConfigured = errors.New("upload: provider is not configured")

// Disabled is used when no provider credentials are configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrNotConfigured
}

// New returns the Cloudinary uploader, or Disabled when cfg has no cloud
// name.
func New(cfg config.CloudinaryConfig) (Uploader, error) {
	if cfg.CloudName == "" {
		return Disabled{}, nil
	}
	return NewCloudinary(cfg)
}
