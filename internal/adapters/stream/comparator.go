package stream

import (
	"context"
	"image"
	"io"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

// Comparator decodes two encoded image streams and delegates to an
// ImageComparator. It is the transport-facing counterpart of the path-based
// comparison: HTTP handlers and pipelines hand it request bodies directly.
type Comparator struct {
	inner  ports.ImageComparator
	logger ports.Logger
}

// NewComparator creates a new stream comparator.
func NewComparator(inner ports.ImageComparator, logger ports.Logger) *Comparator {
	return &Comparator{
		inner:  inner,
		logger: logger,
	}
}

// CompareReaders decodes both streams and computes the pixel match
// percentage.
func (c *Comparator) CompareReaders(ctx context.Context, first, second io.Reader) domain.StreamResult {
	start := time.Now()

	ra := &countingReader{r: first}
	rb := &countingReader{r: second}

	result := domain.StreamResult{
		Result: domain.Result{
			Name:    "pixel_match_stream",
			Details: make(map[string]interface{}),
		},
	}

	imgA, formatA, err := image.Decode(ra)
	if err != nil {
		c.logger.Error("Failed to decode first stream", "error", err)
		result.Details["error"] = "failed to decode first image: " + err.Error()
		result.BytesProcessed = ra.n + rb.n
		result.ProcessingTime = time.Since(start).String()
		return result
	}

	imgB, formatB, err := image.Decode(rb)
	if err != nil {
		c.logger.Error("Failed to decode second stream", "error", err)
		result.Details["error"] = "failed to decode second image: " + err.Error()
		result.BytesProcessed = ra.n + rb.n
		result.ProcessingTime = time.Since(start).String()
		return result
	}

	c.logger.Debug("Decoded streams",
		"format_first", formatA,
		"format_second", formatB,
		"bytes", ra.n+rb.n,
	)

	result.Result = c.inner.Compute(ctx, imgA, imgB)
	result.Result.Name = "pixel_match_stream"
	result.BytesProcessed = ra.n + rb.n
	result.ProcessingTime = time.Since(start).String()
	return result
}

// countingReader tracks how many bytes the decoder consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
