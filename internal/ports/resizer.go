package ports

import "image"

// Resizer defines the interface for geometric resampling. Implementations
// scale src to fill dst's bounds; the filter choice is the implementation's.
type Resizer interface {
	Resize(dst *image.RGBA, src image.Image)
}
