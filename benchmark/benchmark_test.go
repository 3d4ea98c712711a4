package benchmark

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/baditaflorin/go_image_similarity/pkg/pixel"
)

// generateFrame creates a size x size frame with a two-axis gradient.
func generateFrame(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 255 / size),
				G: uint8(y * 255 / size),
				B: uint8((x + y) * 255 / (2 * size)),
				A: 255,
			})
		}
	}
	return img
}

func benchmarkCompute(b *testing.B, size int, fast bool) {
	opts := []pixel.PixelSimilarityOption{pixel.WithQuietLogger()}
	if fast {
		opts = append(opts, pixel.WithFastNormalizer())
	}
	ps, err := pixel.New(opts...)
	if err != nil {
		b.Fatalf("failed to create comparator: %v", err)
	}

	golden := generateFrame(size)
	candidate := generateFrame(size)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := ps.Compute(ctx, golden, candidate)
		if result.Score != 100.0 {
			b.Fatalf("expected identical frames to score 100, got %f", result.Score)
		}
	}
}

func BenchmarkCompute256Default(b *testing.B)  { benchmarkCompute(b, 256, false) }
func BenchmarkCompute256Fast(b *testing.B)     { benchmarkCompute(b, 256, true) }
func BenchmarkCompute1024Default(b *testing.B) { benchmarkCompute(b, 1024, false) }
func BenchmarkCompute1024Fast(b *testing.B)    { benchmarkCompute(b, 1024, true) }

func BenchmarkComputeResized(b *testing.B) {
	ps, err := pixel.New(
		pixel.WithQuietLogger(),
		pixel.WithFastNormalizer(),
	)
	if err != nil {
		b.Fatalf("failed to create comparator: %v", err)
	}

	golden := generateFrame(1024)
	candidate := generateFrame(512)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ps.Compute(ctx, candidate, golden)
	}
}
