package ports

import (
	"image"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
)

// PixelNormalizer defines the interface for materializing a decoded image
// into a fixed 3-channel RGB pixel buffer. Alpha is discarded; greyscale,
// paletted and CMYK sources become plain RGB.
type PixelNormalizer interface {
	// Normalize allocates a new pixmap holding the normalized pixels.
	Normalize(img image.Image) *domain.Pixmap

	// NormalizeInto writes the normalized pixels into dst, resizing it to
	// the image's dimensions. Callers that pool pixmaps use this form.
	NormalizeInto(img image.Image, dst *domain.Pixmap)
}
