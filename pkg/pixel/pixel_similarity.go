package pixel

import (
	"context"
	"image"

	"github.com/baditaflorin/go_image_similarity/internal/adapters/loader"
	"github.com/baditaflorin/go_image_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_image_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_image_similarity/internal/adapters/resizer"
	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/core/match"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
	"github.com/baditaflorin/go_image_similarity/internal/warmup"
	"github.com/baditaflorin/l"
)

// PixelSimilarity provides methods to compute a tolerance-based pixel match
// percentage between two images.
type PixelSimilarity struct {
	comparator ports.ImageComparator
	loader     ports.ImageLoader
	logger     ports.Logger
	normalizer ports.PixelNormalizer
	warmed     bool
}

// PixelSimilarityOption defines a functional option for configuring PixelSimilarity.
type PixelSimilarityOption func(*pixelSimilarityConfig)

type pixelSimilarityConfig struct {
	Tolerance     int
	PassThreshold float64
	ResizePolicy  domain.ResizePolicy
	Logger        ports.Logger
	Normalizer    ports.PixelNormalizer
	Resizer       ports.Resizer
	Loader        ports.ImageLoader
	WarmUp        bool
	WarmUpConfig  warmup.WarmupConfig
}

// WithTolerance sets a custom per-channel tolerance.
func WithTolerance(t int) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.Tolerance = t
	}
}

// WithPassThreshold sets a custom pass threshold for Result.Passed.
func WithPassThreshold(th float64) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.PassThreshold = th
	}
}

// WithResizePolicy sets how dimension mismatches are resolved.
func WithResizePolicy(p domain.ResizePolicy) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.ResizePolicy = p
	}
}

// WithLogger sets a custom logger for pixel similarity.
func WithLogger(lg l.Logger) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithQuietLogger disables logging entirely. The CLI uses this so its output
// stays exactly the documented diagnostic and result lines.
func WithQuietLogger() PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.Logger = logger.NewQuietLogger()
	}
}

// WithNormalizer sets a custom pixel normalizer.
func WithNormalizer(n ports.PixelNormalizer) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.Normalizer = n
	}
}

// WithFastNormalizer sets the optimized normalizer with direct buffer walks.
func WithFastNormalizer() PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		normFactory := normalizer.NewNormalizerFactory()
		cfg.Normalizer = normFactory.CreateNormalizer(normalizer.FastNormalizerType)
	}
}

// WithResizer sets a custom resampler.
func WithResizer(r ports.Resizer) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.Resizer = r
	}
}

// WithLoader sets a custom image loader.
func WithLoader(ld ports.ImageLoader) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.Loader = ld
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config warmup.WarmupConfig) PixelSimilarityOption {
	return func(cfg *pixelSimilarityConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// New creates a new PixelSimilarity instance.
func New(opts ...PixelSimilarityOption) (*PixelSimilarity, error) {
	// Default configuration
	defaultConfig := match.DefaultConfig()

	config := &pixelSimilarityConfig{
		Tolerance:     defaultConfig.Tolerance,
		PassThreshold: defaultConfig.PassThreshold,
		ResizePolicy:  defaultConfig.ResizePolicy,
		WarmUp:        false,
		WarmUpConfig:  warmup.DefaultWarmupConfig(),
	}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	// Set up logger if not provided
	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	// Set up normalizer if not provided
	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewDefaultNormalizer()
	}

	// Set up resampler if not provided
	if config.Resizer == nil {
		config.Resizer = resizer.NewBilinearResizer()
	}

	// Set up loader if not provided
	if config.Loader == nil {
		config.Loader = loader.NewFileLoader()
	}

	// Create core comparator
	coreConfig := match.SimilarityConfig{
		Tolerance:     config.Tolerance,
		PassThreshold: config.PassThreshold,
		ResizePolicy:  config.ResizePolicy,
	}
	comparator, err := match.NewCalculator(coreConfig, config.Logger, config.Normalizer, config.Resizer)
	if err != nil {
		return nil, err
	}

	ps := &PixelSimilarity{
		comparator: comparator,
		loader:     config.Loader,
		logger:     config.Logger,
		normalizer: config.Normalizer,
		warmed:     false,
	}

	// Perform warm-up if configured
	if config.WarmUp {
		ps.WarmUp(context.Background(), config.WarmUpConfig)
	}

	return ps, nil
}

// Compute calculates the pixel match percentage between two decoded images.
func (ps *PixelSimilarity) Compute(ctx context.Context, first, second image.Image) domain.Result {
	return ps.comparator.Compute(ctx, first, second)
}

// CompareFiles loads both paths and computes the pixel match percentage.
// Either load failure aborts the comparison with a *domain.LoadError.
func (ps *PixelSimilarity) CompareFiles(ctx context.Context, firstPath, secondPath string) (domain.Result, error) {
	first, formatA, err := ps.loader.Load(firstPath)
	if err != nil {
		return domain.Result{}, err
	}

	second, formatB, err := ps.loader.Load(secondPath)
	if err != nil {
		return domain.Result{}, err
	}

	ps.logger.Debug("Loaded images",
		"first", firstPath,
		"format_first", formatA,
		"second", secondPath,
		"format_second", formatB,
	)

	return ps.comparator.Compute(ctx, first, second), nil
}

// WarmUp performs system warm-up to optimize performance.
func (ps *PixelSimilarity) WarmUp(ctx context.Context, config warmup.WarmupConfig) {
	if ps.warmed {
		ps.logger.Debug("System already warmed up, skipping")
		return
	}

	warmupMgr := warmup.NewManager(ps.logger, config)
	warmupMgr.RegisterComparator(ps.comparator)
	warmupMgr.RegisterNormalizer(ps.normalizer)

	warmupMgr.WarmUp(ctx)
	ps.warmed = true
}
