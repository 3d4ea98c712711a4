package pool

import (
	"image"
	"sync"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
)

// PixmapPool implements a pool of RGB pixel buffers for efficient memory
// reuse across comparisons.
type PixmapPool struct {
	pool sync.Pool
}

// NewPixmapPool creates a new pixmap pool.
func NewPixmapPool() *PixmapPool {
	return &PixmapPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &domain.Pixmap{}
			},
		},
	}
}

// Get retrieves a pixmap sized for the given dimensions, reusing a pooled
// buffer when one is available.
func (pp *PixmapPool) Get(width, height int) *domain.Pixmap {
	p := pp.pool.Get().(*domain.Pixmap)
	p.Reset(width, height)
	return p
}

// Put returns a pixmap to the pool for reuse.
func (pp *PixmapPool) Put(p *domain.Pixmap) {
	if p == nil {
		return
	}
	pp.pool.Put(p)
}

// RGBAPool implements a pool of *image.RGBA scratch buffers used as resample
// targets.
type RGBAPool struct {
	pool sync.Pool
}

// NewRGBAPool creates a new RGBA scratch pool.
func NewRGBAPool() *RGBAPool {
	return &RGBAPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(image.RGBA)
			},
		},
	}
}

// Get retrieves an RGBA image with bounds (0,0)-(width,height), reusing the
// pooled pixel buffer when its capacity allows.
func (rp *RGBAPool) Get(width, height int) *image.RGBA {
	img := rp.pool.Get().(*image.RGBA)
	n := width * height * 4
	if cap(img.Pix) < n {
		img.Pix = make([]uint8, n)
	} else {
		img.Pix = img.Pix[:n]
	}
	img.Stride = width * 4
	img.Rect = image.Rect(0, 0, width, height)
	return img
}

// Put returns an RGBA image to the pool for reuse.
func (rp *RGBAPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	rp.pool.Put(img)
}
