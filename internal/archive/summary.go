package archive

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"nvr-archiver/internal/domain"
)

// WriteSummary renders the human-readable end-of-run report: totals first,
// then per-channel detail, sorted by channel number.
func WriteSummary(w io.Writer, nvrID string, results map[int]domain.DownloadOutcome) {
	rule := strings.Repeat("=", 70)

	var succeeded, failed []int
	totalFiles := 0
	for channel, outcome := range results {
		if outcome.Success {
			succeeded = append(succeeded, channel)
			totalFiles += outcome.Files
		} else {
			failed = append(failed, channel)
		}
	}
	sort.Ints(succeeded)
	sort.Ints(failed)

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "DOWNLOAD SUMMARY FOR NVR: %s\n", nvrID)
	fmt.Fprintf(w, "%s\n\n", rule)

	fmt.Fprintf(w, "Total channels processed: %d\n", len(results))
	fmt.Fprintf(w, "Successful: %d\n", len(succeeded))
	fmt.Fprintf(w, "Failed: %d\n", len(failed))
	fmt.Fprintf(w, "Total files downloaded: %d\n", totalFiles)

	if len(succeeded) > 0 {
		fmt.Fprintf(w, "\nSuccessful channels:\n")
		for _, channel := range succeeded {
			fmt.Fprintf(w, "  - Channel %02d: %d files\n", channel, results[channel].Files)
		}
	}

	if len(failed) > 0 {
		fmt.Fprintf(w, "\nFailed channels:\n")
		for _, channel := range failed {
			fmt.Fprintf(w, "  - Channel %02d: %s\n", channel, results[channel].Err)
		}
	}

	fmt.Fprintf(w, "%s\n", rule)
}
