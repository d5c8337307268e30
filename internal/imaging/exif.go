package imaging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/evanoberholster/imagemeta"
)

// CaptureInfo holds the EXIF fields worth logging about a fetched original.
type CaptureInfo struct {
	DateTaken   time.Time
	HasDate     bool
	CameraMake  string
	CameraModel string
}

// ProbeEXIF extracts capture metadata from an image file. Only metadata bytes
// are read, not the whole file. Many originals (PNGs in particular) carry no
// EXIF block at all; callers should treat an error as informational.
func ProbeEXIF(path string) (*CaptureInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open for EXIF probe: %w", err)
	}
	defer f.Close()

	exifData, err := imagemeta.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode EXIF: %w", err)
	}

	info := &CaptureInfo{
		CameraMake:  strings.TrimSpace(exifData.Make),
		CameraModel: strings.TrimSpace(exifData.Model),
	}

	// Fallback chain: DateTimeOriginal > CreateDate > ModifyDate.
	switch {
	case !exifData.DateTimeOriginal().IsZero():
		info.DateTaken = exifData.DateTimeOriginal()
		info.HasDate = true
	case !exifData.CreateDate().IsZero():
		info.DateTaken = exifData.CreateDate()
		info.HasDate = true
	case !exifData.ModifyDate().IsZero():
		info.DateTaken = exifData.ModifyDate()
		info.HasDate = true
	}

	return info, nil
}
