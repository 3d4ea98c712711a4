package resizer

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

// BilinearResizer resamples with the bilinear kernel from
// golang.org/x/image/draw. The filter choice affects the match percentage on
// size-mismatched inputs, so it is part of the comparator's documented
// contract; bilinear is deterministic and matches the behavior golden-image
// pipelines expect from a downscale.
type BilinearResizer struct{}

// NewBilinearResizer creates a new bilinear resampler.
func NewBilinearResizer() ports.Resizer {
	return &BilinearResizer{}
}

// Resize scales src to fill dst's bounds.
func (r *BilinearResizer) Resize(dst *image.RGBA, src image.Image) {
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}

// NearestResizer resamples with nearest-neighbor sampling. It preserves exact
// source colors, which keeps flat-color fixtures bit-stable across the resize
// path.
type NearestResizer struct{}

// NewNearestResizer creates a new nearest-neighbor resampler.
func NewNearestResizer() ports.Resizer {
	return &NearestResizer{}
}

// Resize scales src to fill dst's bounds.
func (r *NearestResizer) Resize(dst *image.RGBA, src image.Image) {
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
}
