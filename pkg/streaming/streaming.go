package streaming

import (
	"context"
	"io"

	"github.com/baditaflorin/go_image_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_image_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_image_similarity/internal/adapters/resizer"
	"github.com/baditaflorin/go_image_similarity/internal/adapters/stream"
	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/core/match"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
	"github.com/baditaflorin/l"
)

// StreamResult represents the result of a streaming pixel match computation.
type StreamResult = domain.StreamResult

// StreamingSimilarity provides pixel match computation for encoded images
// delivered as byte streams (HTTP bodies, pipes) rather than filesystem paths.
type StreamingSimilarity struct {
	comparator ports.StreamComparator
	logger     ports.Logger
}

// StreamingOption defines a functional option for configuring StreamingSimilarity.
type StreamingOption func(*streamingConfig)

type streamingConfig struct {
	Tolerance     int
	PassThreshold float64
	ResizePolicy  domain.ResizePolicy
	Logger        ports.Logger
	Normalizer    ports.PixelNormalizer
	Resizer       ports.Resizer
}

// WithStreamingTolerance sets a custom per-channel tolerance.
func WithStreamingTolerance(t int) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.Tolerance = t
	}
}

// WithStreamingPassThreshold sets a custom pass threshold.
func WithStreamingPassThreshold(th float64) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.PassThreshold = th
	}
}

// WithStreamingResizePolicy sets how dimension mismatches are resolved.
func WithStreamingResizePolicy(p domain.ResizePolicy) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.ResizePolicy = p
	}
}

// WithStreamingLogger sets a custom logger for streaming similarity.
func WithStreamingLogger(lg l.Logger) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithStreamingNormalizer sets a custom pixel normalizer.
func WithStreamingNormalizer(n ports.PixelNormalizer) StreamingOption {
	return func(cfg *streamingConfig) {
		cfg.Normalizer = n
	}
}

// WithOptimizedNormalizer sets the fast normalizer with direct buffer walks.
func WithOptimizedNormalizer() StreamingOption {
	return func(cfg *streamingConfig) {
		normFactory := normalizer.NewNormalizerFactory()
		cfg.Normalizer = normFactory.CreateNormalizer(normalizer.FastNormalizerType)
	}
}

// NewStreamingSimilarity creates a new StreamingSimilarity instance.
func NewStreamingSimilarity(opts ...StreamingOption) (*StreamingSimilarity, error) {
	defaultConfig := match.DefaultConfig()

	config := &streamingConfig{
		Tolerance:     defaultConfig.Tolerance,
		PassThreshold: defaultConfig.PassThreshold,
		ResizePolicy:  defaultConfig.ResizePolicy,
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewDefaultNormalizer()
	}

	if config.Resizer == nil {
		config.Resizer = resizer.NewBilinearResizer()
	}

	coreConfig := match.SimilarityConfig{
		Tolerance:     config.Tolerance,
		PassThreshold: config.PassThreshold,
		ResizePolicy:  config.ResizePolicy,
	}
	calculator, err := match.NewCalculator(coreConfig, config.Logger, config.Normalizer, config.Resizer)
	if err != nil {
		return nil, err
	}

	return &StreamingSimilarity{
		comparator: stream.NewComparator(calculator, config.Logger),
		logger:     config.Logger,
	}, nil
}

// ComputeFromReaders decodes both streams and computes the pixel match
// percentage, reporting bytes consumed and wall-clock time.
func (ss *StreamingSimilarity) ComputeFromReaders(ctx context.Context, first, second io.Reader) StreamResult {
	return ss.comparator.CompareReaders(ctx, first, second)
}
