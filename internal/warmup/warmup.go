package warmup

import (
	"context"
	"image"
	"image/color"
	"runtime"
	"sync"
	"time"

	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Edge length of the synthetic warmup frames, in pixels
	FrameSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  100,
		FrameSize:   64,
		Duration:    5 * time.Second,
		ForceGC:     true,
	}
}

// Manager handles system warmup operations
type Manager struct {
	logger      ports.Logger
	comparators []ports.ImageComparator
	normalizers []ports.PixelNormalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterComparator adds a comparator to be warmed up
func (wm *Manager) RegisterComparator(cmp ports.ImageComparator) {
	wm.comparators = append(wm.comparators, cmp)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.PixelNormalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.comparators)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	// Create a context with timeout if duration is specified
	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	wm.warmUpNormalizers(warmupCtx)
	wm.warmUpComparators(warmupCtx)

	// Force garbage collection if configured
	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// warmUpNormalizers runs warmup for all registered normalizers
func (wm *Manager) warmUpNormalizers(ctx context.Context) {
	if len(wm.normalizers) == 0 {
		return
	}

	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	frame := generateGradientFrame(wm.config.FrameSize)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				for _, normalizer := range wm.normalizers {
					_ = normalizer.Normalize(frame)
				}
			}
		}()
	}

	wg.Wait()
}

// warmUpComparators runs warmup for all registered comparators
func (wm *Manager) warmUpComparators(ctx context.Context) {
	if len(wm.comparators) == 0 {
		return
	}

	wm.logger.Debug("Warming up comparators", "count", len(wm.comparators))

	// Frames at three similarity levels: identical, lightly perturbed and
	// heavily perturbed, plus a smaller frame to exercise the resize path.
	base := generateGradientFrame(wm.config.FrameSize)
	similar := perturbFrame(base, 3)
	different := perturbFrame(base, 96)
	smaller := generateGradientFrame(wm.config.FrameSize / 2)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				for _, comparator := range wm.comparators {
					switch j % 4 {
					case 0:
						_ = comparator.Compute(ctx, base, base)
					case 1:
						_ = comparator.Compute(ctx, base, similar)
					case 2:
						_ = comparator.Compute(ctx, base, different)
					default:
						_ = comparator.Compute(ctx, smaller, base)
					}
				}
			}
		}()
	}

	wg.Wait()
}

// Helper functions for generating warmup frames

// generateGradientFrame creates a size x size RGBA frame with a two-axis
// color gradient.
func generateGradientFrame(size int) *image.RGBA {
	if size < 1 {
		size = 1
	}
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

// perturbFrame copies the frame and shifts every channel by delta, clamping
// at 255.
func perturbFrame(src *image.RGBA, delta int) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	for i := 0; i < len(dst.Pix); i++ {
		if i%4 == 3 {
			continue // alpha stays opaque
		}
		v := int(dst.Pix[i]) + delta
		if v > 255 {
			v = 255
		}
		dst.Pix[i] = uint8(v)
	}
	return dst
}
