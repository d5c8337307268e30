package pipeline

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// zipMethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
const zipMethodZstd uint16 = 93

func init() {
	zip.RegisterCompressor(zipMethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	zip.RegisterDecompressor(zipMethodZstd, func(r io.Reader) io.ReadCloser {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return io.NopCloser(errReader{err})
		}
		return zr.IOReadCloser()
	})
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

// WriteBundle writes all artifacts into a single ZIP at path, entry names
// being the artifact keys plus the target extension. Entries use Zstandard
// compression.
func WriteBundle(path string, artifacts []*Artifact) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}

	zw := zip.NewWriter(f)
	for _, art := range artifacts {
		header := &zip.FileHeader{
			Name:   art.Key + filepath.Ext(art.Path),
			Method: zipMethodZstd,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("bundle entry %s: %w", art.Key, err)
		}

		src, err := os.Open(art.Path)
		if err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("open artifact %s: %w", art.Key, err)
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("write bundle entry %s: %w", art.Key, err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize bundle: %w", err)
	}
	// The central directory is flushed by zw.Close; a close failure here
	// means the bundle on disk is not what was written.
	if err := f.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat bundle: %w", err)
	}
	log.Info().Str("path", path).Int("entries", len(artifacts)).Int64("size", info.Size()).Msg("Artifact bundle written")
	return nil
}
