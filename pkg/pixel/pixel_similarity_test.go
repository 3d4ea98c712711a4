package pixel

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/warmup"
)

func flat(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestComputeWithOptions(t *testing.T) {
	grey := flat(8, 8, color.RGBA{100, 100, 100, 255})
	offGrey := flat(8, 8, color.RGBA{110, 110, 110, 255})

	tests := []struct {
		name      string
		opts      []PixelSimilarityOption
		wantScore float64
	}{
		{
			name:      "Default tolerance misses a 10-step difference",
			opts:      []PixelSimilarityOption{WithQuietLogger()},
			wantScore: 0.0,
		},
		{
			name:      "Widened tolerance catches it",
			opts:      []PixelSimilarityOption{WithQuietLogger(), WithTolerance(10)},
			wantScore: 100.0,
		},
		{
			name:      "Fast normalizer computes the same score",
			opts:      []PixelSimilarityOption{WithQuietLogger(), WithTolerance(10), WithFastNormalizer()},
			wantScore: 100.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ps, err := New(tc.opts...)
			if err != nil {
				t.Fatalf("failed to create comparator: %v", err)
			}

			result := ps.Compute(context.Background(), grey, offGrey)
			if result.Score != tc.wantScore {
				t.Errorf("expected score %.2f, got %.2f", tc.wantScore, result.Score)
			}
		})
	}
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []PixelSimilarityOption
	}{
		{name: "Negative tolerance", opts: []PixelSimilarityOption{WithQuietLogger(), WithTolerance(-3)}},
		{name: "Oversized tolerance", opts: []PixelSimilarityOption{WithQuietLogger(), WithTolerance(300)}},
		{name: "Threshold out of range", opts: []PixelSimilarityOption{WithQuietLogger(), WithPassThreshold(150)}},
		{name: "Bad resize policy", opts: []PixelSimilarityOption{WithQuietLogger(), WithResizePolicy(domain.ResizePolicy(42))}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.opts...); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, img image.Image) string {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("creating %s: %v", path, err)
		}
		defer f.Close()
		if err := png.Encode(f, img); err != nil {
			t.Fatalf("encoding %s: %v", path, err)
		}
		return path
	}

	golden := write("golden.png", flat(6, 6, color.RGBA{30, 60, 90, 255}))
	same := write("same.png", flat(6, 6, color.RGBA{30, 60, 90, 255}))

	ps, err := New(WithQuietLogger())
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}

	result, err := ps.CompareFiles(context.Background(), golden, same)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 100.0 {
		t.Errorf("expected 100.00, got %.2f", result.Score)
	}
	if !result.Passed {
		t.Error("identical files should pass the default threshold")
	}

	_, err = ps.CompareFiles(context.Background(), golden, filepath.Join(dir, "nope.png"))
	var loadErr *domain.LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("expected *domain.LoadError, got %T: %v", err, err)
	}
}

func TestWarmUpRunsOnce(t *testing.T) {
	ps, err := New(
		WithQuietLogger(),
		WithWarmUpConfig(warmup.WarmupConfig{
			Concurrency: 2,
			Iterations:  4,
			FrameSize:   8,
			ForceGC:     false,
		}),
	)
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}
	if !ps.warmed {
		t.Error("expected the instance to be warmed after construction")
	}

	// A second warm-up is a no-op.
	ps.WarmUp(context.Background(), warmup.DefaultWarmupConfig())
	if !ps.warmed {
		t.Error("warmed flag must stick")
	}
}
