package service

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"farmacia-compras/logger"
)

const (
	// Quality settings
	qualityThumb  = 60
	qualityMedium = 75
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// ImageCache stores optimized product images on disk
type ImageCache struct {
	dir string
}

// NewImageCache creates the cache directory if needed
func NewImageCache(dir string) (*ImageCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &ImageCache{dir: dir}, nil
}

// Path returns the cache file path for a product image size
func (c *ImageCache) Path(productID int64, size string) string {
	return filepath.Join(c.dir, fmt.Sprintf("product_%d_%s.jpg", productID, normalizeImageSize(size)))
}

// Get reads a cached image
func (c *ImageCache) Get(cachePath string) ([]byte, bool) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put saves an image to the cache
func (c *ImageCache) Put(cachePath string, imageData []byte) error {
	if err := os.MkdirAll(filepath.Dir(cachePath), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(cachePath, imageData, 0o644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	logger.Log.Debugf("✓ Image cached: %s", cachePath)
	return nil
}

func normalizeImageSize(size string) string {
	if size == "thumb" {
		return "thumb"
	}
	return "medium"
}

// OptimizeImage converts an image to JPEG bounded by the size's max dimension.
// size is "thumb" or "medium"; anything else is treated as medium.
func OptimizeImage(imageData []byte, size string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	if normalizeImageSize(size) == "thumb" {
		maxDim, quality = maxSizeThumb, qualityThumb
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		logger.Log.Debugf("🔄 Resizing image: %dx%d to fit %d", bounds.Dx(), bounds.Dy(), maxDim)
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	logger.Log.Debugf("✓ Image optimized: size=%s, quality=%d, output_size=%d bytes", size, quality, buf.Len())
	return buf.Bytes(), nil
}
