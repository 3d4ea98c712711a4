package match

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/pool"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

// SimilarityConfig holds configuration for the pixel match calculator.
type SimilarityConfig struct {
	// Tolerance is the maximum per-channel absolute difference for a pixel
	// to count as matching.
	Tolerance int
	// PassThreshold is the minimum match percentage for Result.Passed.
	PassThreshold float64
	// ResizePolicy resolves dimension mismatches between the two images.
	ResizePolicy domain.ResizePolicy
}

// DefaultConfig returns a default configuration. Tolerance 5 and the
// first-to-second resize are the historical comparator behavior; the pass
// threshold defaults to an exact match since the comparator guards golden
// renders.
func DefaultConfig() SimilarityConfig {
	return SimilarityConfig{
		Tolerance:     5,
		PassThreshold: 100.0,
		ResizePolicy:  domain.ResizeFirstToSecond,
	}
}

// Validate checks if the configuration is valid.
func (c SimilarityConfig) Validate() error {
	if c.Tolerance < 0 || c.Tolerance > 255 {
		return errors.New("tolerance must be between 0 and 255")
	}
	if c.PassThreshold < 0 || c.PassThreshold > 100 {
		return errors.New("pass threshold must be between 0 and 100")
	}
	switch c.ResizePolicy {
	case domain.ResizeFirstToSecond, domain.ResizeSecondToFirst, domain.RejectOnMismatch:
	default:
		return errors.New("unknown resize policy")
	}
	return nil
}

// Calculator implements the pixel match percentage calculation.
type Calculator struct {
	config     SimilarityConfig
	logger     ports.Logger
	normalizer ports.PixelNormalizer
	resizer    ports.Resizer

	pixmaps *pool.PixmapPool
	scratch *pool.RGBAPool
}

// NewCalculator creates a new pixel match calculator.
func NewCalculator(config SimilarityConfig, logger ports.Logger, normalizer ports.PixelNormalizer, resizer ports.Resizer) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Calculator{
		config:     config,
		logger:     logger,
		normalizer: normalizer,
		resizer:    resizer,
		pixmaps:    pool.NewPixmapPool(),
		scratch:    pool.NewRGBAPool(),
	}, nil
}

// Compute calculates the match percentage between two decoded images.
func (c *Calculator) Compute(ctx context.Context, first, second image.Image) domain.Result {
	boundsA := first.Bounds()
	boundsB := second.Bounds()

	result := domain.Result{
		Name:      "pixel_match",
		WidthA:    boundsA.Dx(),
		HeightA:   boundsA.Dy(),
		WidthB:    boundsB.Dx(),
		HeightB:   boundsB.Dy(),
		Tolerance: c.config.Tolerance,
		Threshold: c.config.PassThreshold,
		Details:   make(map[string]interface{}),
	}

	c.logger.Debug("Starting pixel match computation",
		"first", dims(result.WidthA, result.HeightA),
		"second", dims(result.WidthB, result.HeightB),
		"tolerance", c.config.Tolerance,
	)

	// Check for context cancellation.
	select {
	case <-ctx.Done():
		c.logger.Error("Computation cancelled", "error", ctx.Err())
		result.Details["error"] = "computation cancelled"
		return result
	default:
		// continue
	}

	if result.WidthA != result.WidthB || result.HeightA != result.HeightB {
		switch c.config.ResizePolicy {
		case domain.RejectOnMismatch:
			c.logger.Error("Image dimensions do not match",
				"first", dims(result.WidthA, result.HeightA),
				"second", dims(result.WidthB, result.HeightB),
			)
			result.Details["error"] = "image dimensions do not match"
			return result
		case domain.ResizeSecondToFirst:
			scr := c.resample(second, result.WidthA, result.HeightA)
			defer c.scratch.Put(scr)
			second = scr
			result.Resized = true
			result.Details["resized"] = "second image resampled to first image's dimensions"
		default:
			scr := c.resample(first, result.WidthB, result.HeightB)
			defer c.scratch.Put(scr)
			first = scr
			result.Resized = true
			result.Details["resized"] = "first image resampled to second image's dimensions"
		}
		c.logger.Info("Image dimensions differ, resampled before comparison",
			"policy", c.config.ResizePolicy.String(),
			"first", dims(result.WidthA, result.HeightA),
			"second", dims(result.WidthB, result.HeightB),
		)
	}

	bounds := second.Bounds()
	if c.config.ResizePolicy == domain.ResizeSecondToFirst {
		bounds = first.Bounds()
	}

	pa := c.pixmaps.Get(bounds.Dx(), bounds.Dy())
	defer c.pixmaps.Put(pa)
	pb := c.pixmaps.Get(bounds.Dx(), bounds.Dy())
	defer c.pixmaps.Put(pb)

	c.normalizer.NormalizeInto(first, pa)
	c.normalizer.NormalizeInto(second, pb)

	matching, total := matchPixels(pa, pb, c.config.Tolerance)
	result.MatchingPixels = matching
	result.TotalPixels = total

	if total == 0 {
		c.logger.Error("Images contain no pixels",
			"first", dims(result.WidthA, result.HeightA),
			"second", dims(result.WidthB, result.HeightB),
		)
		result.Details["error"] = "images contain no pixels"
		return result
	}

	result.Score = 100 * float64(matching) / float64(total)
	result.Passed = result.Score >= c.config.PassThreshold

	result.Details["matching_pixels"] = matching
	result.Details["total_pixels"] = total
	result.Details["tolerance"] = c.config.Tolerance

	c.logger.Debug("Computed pixel match",
		"score", result.Score,
		"passed", result.Passed,
		"matching", matching,
		"total", total,
	)

	return result
}

// dims formats a dimension pair for logging.
func dims(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

// resample scales img to width x height using the configured resampler,
// drawing the scratch target from the pool.
func (c *Calculator) resample(img image.Image, width, height int) *image.RGBA {
	dst := c.scratch.Get(width, height)
	c.resizer.Resize(dst, img)
	return dst
}

// matchPixels counts pixel positions whose three channel differences all fall
// within tolerance. The subtraction is done on ints so a dark-minus-bright
// channel cannot wrap before the absolute value is taken.
func matchPixels(a, b *domain.Pixmap, tolerance int) (matching, total int) {
	total = a.Width * a.Height

	pa, pb := a.Pix, b.Pix
	for i := 0; i+2 < len(pa) && i+2 < len(pb); i += 3 {
		dr := int(pa[i]) - int(pb[i])
		if dr < 0 {
			dr = -dr
		}
		if dr > tolerance {
			continue
		}
		dg := int(pa[i+1]) - int(pb[i+1])
		if dg < 0 {
			dg = -dg
		}
		if dg > tolerance {
			continue
		}
		db := int(pa[i+2]) - int(pb[i+2])
		if db < 0 {
			db = -db
		}
		if db > tolerance {
			continue
		}
		matching++
	}
	return matching, total
}
