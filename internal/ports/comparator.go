package ports

import (
	"context"
	"image"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
)

// ImageComparator defines the interface for computing the pixel match
// percentage between two decoded images.
type ImageComparator interface {
	Compute(ctx context.Context, first, second image.Image) domain.Result
}
