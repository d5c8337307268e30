package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFitWidth(t *testing.T) {
	tests := []struct {
		name       string
		w, h, max  int
		wantW      int
		wantH      int
	}{
		{"wide landscape halved", 2048, 1024, 1024, 1024, 512},
		{"under cap unchanged", 800, 600, 1024, 800, 600},
		{"exactly at cap unchanged", 1024, 768, 1024, 1024, 768},
		{"tall image ignores height", 1000, 4000, 1024, 1000, 4000},
		{"wide portrait scaled", 2000, 3000, 1000, 1000, 1500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotW, gotH := FitWidth(tt.w, tt.h, tt.max)
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Errorf("FitWidth(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.max, gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestTranscodeToWebP(t *testing.T) {
	src := writeFixturePNG(t, 2000, 1000)
	dst := filepath.Join(t.TempDir(), "out.webp")

	if err := Transcode(src, dst, 1024, "webp"); err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}

	info, err := Probe(dst)
	if err != nil {
		t.Fatalf("Probe(output) error = %v", err)
	}
	if info.Format != "webp" {
		t.Errorf("output format = %q, want webp", info.Format)
	}
	if info.Width != 1024 || info.Height != 512 {
		t.Errorf("output = %dx%d, want 1024x512", info.Width, info.Height)
	}
}

func TestTranscodeJPEGInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.jpg")
	img := image.NewRGBA(image.Rect(0, 0, 500, 500))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "out.webp")
	if err := Transcode(src, dst, 1024, "webp"); err != nil {
		t.Fatalf("Transcode() error = %v", err)
	}

	info, err := Probe(dst)
	if err != nil {
		t.Fatalf("Probe(output) error = %v", err)
	}
	if info.Width != 500 || info.Height != 500 {
		t.Errorf("output = %dx%d, want unchanged 500x500", info.Width, info.Height)
	}
}

func TestTranscodeUnsupportedTarget(t *testing.T) {
	src := writeFixturePNG(t, 10, 10)
	dst := filepath.Join(t.TempDir(), "out.bmp")

	if err := Transcode(src, dst, 1024, "bmp"); err == nil {
		t.Fatal("Transcode() succeeded with unsupported target format")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("failed transcode left an output file behind")
	}
}

func TestTranscodeBadInput(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "garbage")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Transcode(src, filepath.Join(dir, "out.webp"), 1024, "webp"); err == nil {
		t.Fatal("Transcode() succeeded on undecodable input")
	}
}

func writeFixturePNG(t *testing.T, width, height int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.png")
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
