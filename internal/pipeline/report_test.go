package pipeline

import (
	"bytes"
	"strings"
	"testing"
)

func TestReduction(t *testing.T) {
	tests := []struct {
		name   string
		rec    ProcessingRecord
		want   float64
		wantOK bool
	}{
		{
			name:   "60 percent",
			rec:    ProcessingRecord{Fetched: true, Transcoded: true, OriginalSize: 1000, RevisedSize: 400},
			want:   60.0,
			wantOK: true,
		},
		{
			name:   "no reduction",
			rec:    ProcessingRecord{Fetched: true, Transcoded: true, OriginalSize: 500, RevisedSize: 500},
			want:   0.0,
			wantOK: true,
		},
		{
			name:   "grew",
			rec:    ProcessingRecord{Fetched: true, Transcoded: true, OriginalSize: 100, RevisedSize: 150},
			want:   -50.0,
			wantOK: true,
		},
		{
			name:   "zero original size",
			rec:    ProcessingRecord{Fetched: true, Transcoded: true, OriginalSize: 0, RevisedSize: 0},
			wantOK: false,
		},
		{
			name:   "never transcoded",
			rec:    ProcessingRecord{Fetched: true, OriginalSize: 1000},
			wantOK: false,
		},
		{
			name:   "never fetched",
			rec:    ProcessingRecord{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rec.Reduction()
			if ok != tt.wantOK {
				t.Fatalf("Reduction() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Reduction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWriteReportFormatsReduction(t *testing.T) {
	records := []*ProcessingRecord{
		{Key: "a", Fetched: true, Transcoded: true, Published: true, OriginalSize: 1000, RevisedSize: 400},
	}

	var buf bytes.Buffer
	WriteReport(&buf, records)

	if !strings.Contains(buf.String(), "60.0%") {
		t.Errorf("report missing 60.0%% reduction:\n%s", buf.String())
	}
}

func TestWriteReportTotals(t *testing.T) {
	records := []*ProcessingRecord{
		{Key: "a", Fetched: true, Transcoded: true, Published: true, OriginalSize: 1000, RevisedSize: 400},
		{Key: "b", Fetched: true, Transcoded: true, Published: true, OriginalSize: 3000, RevisedSize: 600},
	}

	var buf bytes.Buffer
	WriteReport(&buf, records)

	// 4000 -> 1000 bytes is a 75% aggregate reduction.
	if !strings.Contains(buf.String(), "75.0% reduction") {
		t.Errorf("report missing aggregate reduction:\n%s", buf.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{5 * 1024 * 1024 * 1024, "5.0 GiB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
