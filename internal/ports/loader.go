package ports

import "image"

// ImageLoader defines the interface for decoding an image from a filesystem
// path. The returned string is the decoded format name ("png", "jpeg", ...).
type ImageLoader interface {
	Load(path string) (image.Image, string, error)
}
