package domain

import "fmt"

// Pixmap is a materialized 3-channel 8-bit RGB pixel buffer. Every decoded
// image is converted into this representation before comparison so that the
// downstream logic never has to care about the source color model.
type Pixmap struct {
	Width  int
	Height int
	// Pix holds R, G, B bytes in row-major order, 3 bytes per pixel.
	Pix []uint8
}

// NewPixmap allocates a pixmap for the given dimensions.
func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*3),
	}
}

// Reset resizes the pixmap for the given dimensions, reusing the underlying
// buffer when its capacity allows.
func (p *Pixmap) Reset(width, height int) {
	n := width * height * 3
	if cap(p.Pix) < n {
		p.Pix = make([]uint8, n)
	} else {
		p.Pix = p.Pix[:n]
	}
	p.Width = width
	p.Height = height
}

// ResizePolicy selects how a dimension mismatch between the two compared
// images is resolved.
type ResizePolicy int

const (
	// ResizeFirstToSecond resamples the first image to the second image's
	// dimensions. This is the historical behavior and the default.
	ResizeFirstToSecond ResizePolicy = iota
	// ResizeSecondToFirst resamples the second image to the first image's
	// dimensions.
	ResizeSecondToFirst
	// RejectOnMismatch refuses to compare images of different dimensions.
	RejectOnMismatch
)

// String returns the policy name used in flags and diagnostics.
func (rp ResizePolicy) String() string {
	switch rp {
	case ResizeFirstToSecond:
		return "first-to-second"
	case ResizeSecondToFirst:
		return "second-to-first"
	case RejectOnMismatch:
		return "reject-on-mismatch"
	default:
		return fmt.Sprintf("ResizePolicy(%d)", int(rp))
	}
}

// ParseResizePolicy parses the textual policy name used on the command line.
func ParseResizePolicy(s string) (ResizePolicy, error) {
	switch s {
	case "first-to-second":
		return ResizeFirstToSecond, nil
	case "second-to-first":
		return ResizeSecondToFirst, nil
	case "reject-on-mismatch":
		return RejectOnMismatch, nil
	default:
		return 0, fmt.Errorf("unknown resize policy %q", s)
	}
}

// Result holds the outcome of a pixel match computation.
type Result struct {
	// Name of the metric.
	Name string
	// Score is the match percentage in [0, 100].
	Score float64
	// Passed indicates whether the score meets or exceeds the pass threshold.
	Passed bool
	// MatchingPixels is the number of pixel positions within tolerance.
	MatchingPixels int
	// TotalPixels is the number of compared pixel positions.
	TotalPixels int
	// WidthA, HeightA are the first image's dimensions as decoded.
	WidthA, HeightA int
	// WidthB, HeightB are the second image's dimensions as decoded.
	WidthB, HeightB int
	// Resized reports whether one image was resampled before comparison.
	Resized bool
	// Tolerance is the per-channel tolerance that was applied.
	Tolerance int
	// Threshold is the pass threshold used to determine Passed.
	Threshold float64
	// Details holds additional diagnostic information.
	Details map[string]interface{}
}

// StreamResult holds the outcome of a comparison fed from readers.
type StreamResult struct {
	Result
	// BytesProcessed counts bytes consumed from both readers.
	BytesProcessed int64
	// ProcessingTime is the wall-clock duration as a display string.
	ProcessingTime string
}
