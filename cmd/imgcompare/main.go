// Command imgcompare reports the percentage of pixels matching within a
// per-channel tolerance between two images.
//
// Usage:
//
//	imgcompare [options] <image1> <image2>
//
// On success it prints a single line:
//
//	Match: XX.XX%
//
// When the two images differ in pixel dimensions, a diagnostic line naming
// both dimensions and the resampled side is printed before the result.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	imagesimilarity "github.com/baditaflorin/go_image_similarity"
	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/pkg/pixel"
)

var (
	optionTolerance    = flag.Int("tolerance", imagesimilarity.DefaultTolerance, "Maximum per-channel absolute difference for a matching pixel (0-255)")
	optionResizePolicy = flag.String("resize-policy", domain.ResizeFirstToSecond.String(), "Dimension mismatch handling: first-to-second, second-to-first or reject-on-mismatch")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <image1> <image2>\n\nOptions:\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}

	policy, err := domain.ParseResizePolicy(*optionResizePolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		usage()
		os.Exit(2)
	}

	pathA, pathB := flag.Arg(0), flag.Arg(1)

	comparator, err := pixel.New(
		pixel.WithQuietLogger(),
		pixel.WithTolerance(*optionTolerance),
		pixel.WithResizePolicy(policy),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	result, err := comparator.CompareFiles(context.Background(), pathA, pathB)
	if err != nil {
		// Load failures abort the comparison; no percentage is printed.
		fmt.Printf("Error loading images: %v\n", err)
		os.Exit(1)
	}

	if errDetail, ok := result.Details["error"]; ok {
		fmt.Printf("Error: %v (%s is %dx%d, %s is %dx%d)\n",
			errDetail,
			pathA, result.WidthA, result.HeightA,
			pathB, result.WidthB, result.HeightB,
		)
		os.Exit(1)
	}

	if result.Resized {
		switch policy {
		case domain.ResizeSecondToFirst:
			fmt.Printf("Size mismatch: %s is %dx%d, %s is %dx%d; second image resampled to %dx%d (bilinear)\n",
				pathA, result.WidthA, result.HeightA,
				pathB, result.WidthB, result.HeightB,
				result.WidthA, result.HeightA,
			)
		default:
			fmt.Printf("Size mismatch: %s is %dx%d, %s is %dx%d; first image resampled to %dx%d (bilinear)\n",
				pathA, result.WidthA, result.HeightA,
				pathB, result.WidthB, result.HeightB,
				result.WidthB, result.HeightB,
			)
		}
	}

	fmt.Printf("Match: %.2f%%\n", result.Score)
}
