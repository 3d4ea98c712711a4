package normalizer

import (
	"image"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

// FastNormalizer implements an optimized pixel normalization strategy with
// direct buffer walks for the common decoded representations. PNG screenshots
// decode to *image.RGBA or *image.NRGBA, so the fast paths cover the
// motivating render-pipeline use case; everything else falls back to the
// generic path.
type FastNormalizer struct {
	fallback DefaultNormalizer
}

// NewFastNormalizer creates a new fast normalizer.
func NewFastNormalizer() ports.PixelNormalizer {
	return &FastNormalizer{}
}

// Normalize materializes the image into a fresh RGB pixmap.
func (n *FastNormalizer) Normalize(img image.Image) *domain.Pixmap {
	b := img.Bounds()
	dst := domain.NewPixmap(b.Dx(), b.Dy())
	n.NormalizeInto(img, dst)
	return dst
}

// NormalizeInto materializes the image into dst, using a direct buffer walk
// when the concrete type allows it.
func (n *FastNormalizer) NormalizeInto(img image.Image, dst *domain.Pixmap) {
	switch src := img.(type) {
	case *image.RGBA:
		normalizeRGBA(src, dst)
	case *image.NRGBA:
		normalizeNRGBA(src, dst)
	case *image.Gray:
		normalizeGray(src, dst)
	default:
		n.fallback.NormalizeInto(img, dst)
	}
}

func normalizeRGBA(src *image.RGBA, dst *domain.Pixmap) {
	b := src.Bounds()
	dst.Reset(b.Dx(), b.Dy())

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
		for x := 0; x < len(row); x += 4 {
			dst.Pix[i] = row[x]
			dst.Pix[i+1] = row[x+1]
			dst.Pix[i+2] = row[x+2]
			i += 3
		}
	}
}

func normalizeNRGBA(src *image.NRGBA, dst *domain.Pixmap) {
	b := src.Bounds()
	dst.Reset(b.Dx(), b.Dy())

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
		for x := 0; x < len(row); x += 4 {
			// Alpha is discarded, so the non-premultiplied channels are
			// copied as-is rather than being multiplied through.
			dst.Pix[i] = row[x]
			dst.Pix[i+1] = row[x+1]
			dst.Pix[i+2] = row[x+2]
			i += 3
		}
	}
}

func normalizeGray(src *image.Gray, dst *domain.Pixmap) {
	b := src.Bounds()
	dst.Reset(b.Dx(), b.Dy())

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
		for x := 0; x < len(row); x++ {
			v := row[x]
			dst.Pix[i] = v
			dst.Pix[i+1] = v
			dst.Pix[i+2] = v
			i += 3
		}
	}
}

// NormalizerFactory creates the appropriate normalizer based on performance
// requirements.
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory.
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// NormalizerType selects the normalizer implementation to create.
type NormalizerType int

const (
	// DefaultNormalizerType is the generic color-interface normalizer.
	DefaultNormalizerType NormalizerType = iota
	// FastNormalizerType walks the pixel buffers of common decoded types
	// directly.
	FastNormalizerType
)

// CreateNormalizer creates a normalizer of the specified type.
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.PixelNormalizer {
	switch normalizerType {
	case FastNormalizerType:
		return NewFastNormalizer()
	default:
		return NewDefaultNormalizer()
	}
}
