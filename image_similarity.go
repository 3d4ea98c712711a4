// image_similarity.go
// Package imagesimilarity computes a tolerance-based pixel match percentage
// between two raster images. Both images are materialized to 3-channel 8-bit
// RGB; a pixel matches when all three per-channel absolute differences fall
// within the tolerance, and the score is
//
//	score = 100 * matchingPixels / totalPixels
//
// reported as a percentage in [0, 100]. Images of different dimensions are
// resampled before comparison according to the configured resize policy
// (by default the first image is resampled to the second image's dimensions,
// matching the original comparator this package replaces).
package imagesimilarity

import (
	"context"
	"image"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/pkg/pixel"
)

// Result holds the outcome of a pixel match computation.
type Result = domain.Result

// ResizePolicy selects how a dimension mismatch is resolved.
type ResizePolicy = domain.ResizePolicy

// Resize policies.
const (
	ResizeFirstToSecond = domain.ResizeFirstToSecond
	ResizeSecondToFirst = domain.ResizeSecondToFirst
	RejectOnMismatch    = domain.RejectOnMismatch
)

// LoadError reports that an input image could not be opened or decoded.
type LoadError = domain.LoadError

// Default configuration values.
const (
	DefaultTolerance     = 5
	DefaultPassThreshold = 100.0
)

// ImageSimilarity provides methods to compute the pixel match metric using
// configurable parameters.
type ImageSimilarity struct {
	inner *pixel.PixelSimilarity
}

// Option defines a functional option for configuring the metric.
type Option = pixel.PixelSimilarityOption

// WithTolerance sets a custom per-channel tolerance.
func WithTolerance(t int) Option { return pixel.WithTolerance(t) }

// WithPassThreshold sets a custom pass threshold.
func WithPassThreshold(th float64) Option { return pixel.WithPassThreshold(th) }

// WithResizePolicy sets how dimension mismatches are resolved.
func WithResizePolicy(p ResizePolicy) Option { return pixel.WithResizePolicy(p) }

// New creates a new ImageSimilarity with the provided functional options.
func New(opts ...Option) (*ImageSimilarity, error) {
	inner, err := pixel.New(opts...)
	if err != nil {
		return nil, err
	}
	return &ImageSimilarity{inner: inner}, nil
}

// Compute calculates the pixel match percentage between two decoded images.
func (is *ImageSimilarity) Compute(ctx context.Context, first, second image.Image) Result {
	return is.inner.Compute(ctx, first, second)
}

// CompareFiles loads both paths and computes the pixel match percentage.
func (is *ImageSimilarity) CompareFiles(ctx context.Context, firstPath, secondPath string) (Result, error) {
	return is.inner.CompareFiles(ctx, firstPath, secondPath)
}

// ComputeWithDefaults loads both paths and compares them with the default
// configuration and a quiet logger.
func ComputeWithDefaults(firstPath, secondPath string) (Result, error) {
	is, err := New(pixel.WithQuietLogger())
	if err != nil {
		return Result{}, err
	}
	return is.CompareFiles(context.Background(), firstPath, secondPath)
}
