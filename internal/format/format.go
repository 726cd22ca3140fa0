package format

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/stahnma/gh-pinstars/internal/starsync"
)

// WriteJSON writes indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

// WriteSummary writes a one-line human summary of a run.
func WriteSummary(w io.Writer, sum starsync.Summary) error {
	mode := "first run"
	if sum.Target != "" {
		mode = "resumed after " + sum.Target
	}
	elapsed := sum.FinishedAt.Sub(sum.StartedAt).Round(time.Second)
	var err error
	if sum.DryRun {
		_, err = fmt.Fprintf(w, "Dry run (%s): %d bookmarks would be added from %d pages in %s\n",
			mode, sum.Previewed, sum.Pages, elapsed)
		return err
	}
	_, err = fmt.Fprintf(w, "Sync complete (%s): %d added, %d warnings, %d skipped, %d pages in %s\n",
		mode, sum.Published, sum.Warned, sum.Skipped, sum.Pages, elapsed)
	return err
}
