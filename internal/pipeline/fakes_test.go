package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"testing"
)

// fakeStore is an in-memory object store capability with call counting,
// used to assert the at-most-once fetch behavior.
type fakeStore struct {
	objects  map[string][]byte
	getErr   map[string]error
	getCalls map[string]int
	puts     []putRecord
}

type putRecord struct {
	bucket      string
	key         string
	contentType string
	size        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:  make(map[string][]byte),
		getErr:   make(map[string]error),
		getCalls: make(map[string]int),
	}
}

func (s *fakeStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	s.getCalls[key]++
	if err, ok := s.getErr[key]; ok {
		return nil, err
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.puts = append(s.puts, putRecord{bucket: bucket, key: key, contentType: contentType, size: len(data)})
	return nil
}

// brokenBody simulates a stream that fails mid-transfer after some bytes.
type brokenBody struct {
	data []byte
	pos  int
}

func (b *brokenBody) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, fmt.Errorf("connection reset mid-transfer")
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

func (b *brokenBody) Close() error { return nil }

// brokenStore serves a body that errors partway through.
type brokenStore struct {
	data []byte
}

func (s *brokenStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return &brokenBody{data: s.data[:len(s.data)/2]}, nil
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode PNG fixture: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode JPEG fixture: %v", err)
	}
	return buf.Bytes()
}
