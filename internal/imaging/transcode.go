package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// Encode quality settings for lossy target formats.
const (
	webpQuality = 80
	jpegQuality = 85
)

// FitWidth returns the output dimensions for an image of the given size under
// a width cap. Images at or under the cap keep their dimensions; wider images
// are scaled so the output width equals the cap, preserving aspect ratio.
// Height never drives the decision.
func FitWidth(width, height, maxWidth int) (int, int) {
	if width <= maxWidth {
		return width, height
	}
	newHeight := int(float64(height) * float64(maxWidth) / float64(width))
	return maxWidth, newHeight
}

// Transcode decodes srcPath, applies the width cap, and encodes the result to
// dstPath in the given target format. dstPath is truncated if it already
// exists, so re-running overwrites rather than duplicates.
func Transcode(srcPath, dstPath string, maxWidth int, format string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	img, srcFormat, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", srcPath, err)
	}

	bounds := img.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()

	newWidth, newHeight := FitWidth(origWidth, origHeight, maxWidth)
	if newWidth != origWidth {
		resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
		draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)
		img = resized
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	switch format {
	case "webp":
		err = webp.Encode(out, img, &webp.Options{Quality: webpQuality, Lossless: false})
	case "jpeg", "jpg":
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(out, img)
	default:
		err = fmt.Errorf("unsupported target format: %s", format)
	}
	if err != nil {
		out.Close()
		os.Remove(dstPath)
		return fmt.Errorf("encode %s: %w", dstPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Debug().
		Str("src", srcPath).
		Str("dst", dstPath).
		Str("src_format", srcFormat).
		Str("dst_format", format).
		Int("orig_width", origWidth).
		Int("orig_height", origHeight).
		Int("new_width", newWidth).
		Int("new_height", newHeight).
		Msg("Transcode complete")

	return nil
}
