package ports

import (
	"context"
	"io"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
)

// StreamComparator defines the interface for comparing two encoded images
// delivered as byte streams rather than filesystem paths.
type StreamComparator interface {
	// CompareReaders decodes both streams and computes the pixel match
	// percentage, reporting bytes consumed and processing time.
	CompareReaders(ctx context.Context, first, second io.Reader) domain.StreamResult
}
