package pipeline

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// unavailable is the sentinel shown for sizes and percentages that could not
// be computed (failed stage, or an empty original).
const unavailable = "unavailable"

// WriteReport renders the per-key table plus an aggregate totals line.
// Rows appear in input-list order; failed keys keep their row with
// sentinel values rather than disappearing.
func WriteReport(w io.Writer, records []*ProcessingRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tORIGINAL\tREVISED\tREDUCTION")

	var (
		fetched, transcoded, published int
		totalBefore, totalAfter        int64
	)

	for _, rec := range records {
		origCol := unavailable
		revCol := unavailable
		redCol := unavailable

		if rec.Fetched {
			fetched++
			origCol = FormatBytes(rec.OriginalSize)
		}
		if rec.Transcoded {
			transcoded++
			revCol = FormatBytes(rec.RevisedSize)
			totalBefore += rec.OriginalSize
			totalAfter += rec.RevisedSize
		}
		if rec.Published {
			published++
		}
		if pct, ok := rec.Reduction(); ok {
			redCol = fmt.Sprintf("%.1f%%", pct)
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.Key, origCol, revCol, redCol)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d keys: %d fetched, %d transcoded, %d published\n",
		len(records), fetched, transcoded, published)

	if totalBefore > 0 {
		totalPct := 100 * float64(totalBefore-totalAfter) / float64(totalBefore)
		fmt.Fprintf(w, "total: %s -> %s (%.1f%% reduction)\n",
			FormatBytes(totalBefore), FormatBytes(totalAfter), totalPct)
	}
}

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}
