package loader

import (
	"image"
	"os"

	// Registered decoders. The motivating use case is PNG screenshots from a
	// render pipeline; JPEG, BMP and GIF cover the other common raster
	// formats golden directories accumulate.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/internal/ports"
)

// FileLoader decodes images from filesystem paths. Decoding goes through
// image.Decode, so the format is sniffed from the content rather than the
// file extension.
type FileLoader struct{}

// NewFileLoader creates a new filesystem image loader.
func NewFileLoader() ports.ImageLoader {
	return &FileLoader{}
}

// Load opens and decodes the image at path. Open and decode failures both
// surface as *domain.LoadError.
func (fl *FileLoader) Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", domain.NewLoadError(path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", domain.NewLoadError(path, err)
	}

	return img, format, nil
}
