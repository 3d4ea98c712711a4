package normalizer

import (
	"image"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

// DefaultNormalizer implements the default pixel normalization strategy via
// the generic image.Image color interface. It handles every registered color
// model (RGBA, NRGBA, greyscale, paletted, CMYK, YCbCr) the same way: the
// 16-bit alpha-premultiplied channels are reduced to 8 bits and alpha is
// dropped.
type DefaultNormalizer struct{}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer() ports.PixelNormalizer {
	return &DefaultNormalizer{}
}

// Normalize materializes the image into a fresh RGB pixmap.
func (n *DefaultNormalizer) Normalize(img image.Image) *domain.Pixmap {
	b := img.Bounds()
	dst := domain.NewPixmap(b.Dx(), b.Dy())
	n.NormalizeInto(img, dst)
	return dst
}

// NormalizeInto materializes the image into dst.
func (n *DefaultNormalizer) NormalizeInto(img image.Image, dst *domain.Pixmap) {
	b := img.Bounds()
	dst.Reset(b.Dx(), b.Dy())

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			// 16-bit to 8-bit: keep the high byte.
			dst.Pix[i] = uint8(r >> 8)
			dst.Pix[i+1] = uint8(g >> 8)
			dst.Pix[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
}
