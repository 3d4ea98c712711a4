package normalizer

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

func pixelAt(p *domain.Pixmap, x, y int) (uint8, uint8, uint8) {
	i := (y*p.Width + x) * 3
	return p.Pix[i], p.Pix[i+1], p.Pix[i+2]
}

func TestDefaultNormalizerDropsAlpha(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{10, 20, 30, 255})
	img.SetRGBA(1, 0, color.RGBA{200, 150, 100, 255})

	p := NewDefaultNormalizer().Normalize(img)

	if p.Width != 2 || p.Height != 1 {
		t.Fatalf("unexpected dimensions %dx%d", p.Width, p.Height)
	}
	if len(p.Pix) != 6 {
		t.Fatalf("expected 3 channels per pixel, got %d bytes", len(p.Pix))
	}
	if r, g, b := pixelAt(p, 0, 0); r != 10 || g != 20 || b != 30 {
		t.Errorf("pixel (0,0) = (%d,%d,%d), want (10,20,30)", r, g, b)
	}
	if r, g, b := pixelAt(p, 1, 0); r != 200 || g != 150 || b != 100 {
		t.Errorf("pixel (1,0) = (%d,%d,%d), want (200,150,100)", r, g, b)
	}
}

func TestDefaultNormalizerGreyBecomesRGB(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 77})

	p := NewDefaultNormalizer().Normalize(img)
	if r, g, b := pixelAt(p, 0, 0); r != 77 || g != 77 || b != 77 {
		t.Errorf("grey pixel = (%d,%d,%d), want (77,77,77)", r, g, b)
	}
}

func TestDefaultNormalizerNonZeroOrigin(t *testing.T) {
	// Subimages keep their parent's coordinate space; normalization must not.
	img := image.NewRGBA(image.Rect(2, 3, 4, 5))
	img.SetRGBA(2, 3, color.RGBA{1, 2, 3, 255})
	img.SetRGBA(3, 4, color.RGBA{4, 5, 6, 255})

	p := NewDefaultNormalizer().Normalize(img)
	if p.Width != 2 || p.Height != 2 {
		t.Fatalf("unexpected dimensions %dx%d", p.Width, p.Height)
	}
	if r, g, b := pixelAt(p, 0, 0); r != 1 || g != 2 || b != 3 {
		t.Errorf("origin pixel = (%d,%d,%d), want (1,2,3)", r, g, b)
	}
	if r, g, b := pixelAt(p, 1, 1); r != 4 || g != 5 || b != 6 {
		t.Errorf("far pixel = (%d,%d,%d), want (4,5,6)", r, g, b)
	}
}

func TestFastNormalizerMatchesDefaultOnOpaqueImages(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 7, 5))
	nrgba := image.NewNRGBA(image.Rect(0, 0, 7, 5))
	gray := image.NewGray(image.Rect(0, 0, 7, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			c := color.RGBA{uint8(x * 36), uint8(y * 51), uint8(x * y), 255}
			rgba.SetRGBA(x, y, c)
			nrgba.SetNRGBA(x, y, color.NRGBA{c.R, c.G, c.B, 255})
			gray.SetGray(x, y, color.Gray{Y: uint8(x*y + 13)})
		}
	}

	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "RGBA", img: rgba},
		{name: "NRGBA", img: nrgba},
		{name: "Gray", img: gray},
	}

	fast := NewFastNormalizer()
	fallback := NewDefaultNormalizer()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fast.Normalize(tc.img)
			want := fallback.Normalize(tc.img)

			if got.Width != want.Width || got.Height != want.Height {
				t.Fatalf("dimensions %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
			}
			for i := range want.Pix {
				if got.Pix[i] != want.Pix[i] {
					t.Fatalf("byte %d = %d, want %d", i, got.Pix[i], want.Pix[i])
				}
			}
		})
	}
}

func TestNormalizeIntoReusesBuffer(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	p := domain.NewPixmap(4, 4)
	buf := &p.Pix[0]

	NewFastNormalizer().NormalizeInto(img, p)
	if &p.Pix[0] != buf {
		t.Error("expected the existing buffer to be reused for equal dimensions")
	}
}

func TestNormalizerFactory(t *testing.T) {
	factory := NewNormalizerFactory()

	tests := []struct {
		name           string
		normalizerType NormalizerType
		want           ports.PixelNormalizer
	}{
		{name: "Default", normalizerType: DefaultNormalizerType, want: &DefaultNormalizer{}},
		{name: "Fast", normalizerType: FastNormalizerType, want: &FastNormalizer{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := factory.CreateNormalizer(tc.normalizerType)
			if fmt.Sprintf("%T", got) != fmt.Sprintf("%T", tc.want) {
				t.Errorf("got %T, want %T", got, tc.want)
			}
		})
	}
}
