// Package imaging wraps the image decode/resize/encode capabilities the
// pipeline needs: header-only probing, the format-to-extension mapping,
// aspect-preserving width capping, and encoding to the target codec.
package imaging

import (
	"fmt"
	"image"
	"os"

	// Registered decoders. Probing and transcoding support whatever is
	// registered here; anything else falls into the unknown-format branch.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes a decoded image header.
type Info struct {
	// Format is the decoder name ("jpeg", "png", "gif", "webp", "tiff").
	// Empty if the format could not be recognized.
	Format string
	Width  int
	Height int
}

// Probe reads just enough of the file to determine its decoded format and
// dimensions. It never decodes pixel data.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open for probe: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}

	return Info{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
