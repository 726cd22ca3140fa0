package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stahnma/gh-pinstars/internal/starsync"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]int{"published": 42}

	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, `"published": 42`) {
		t.Errorf("expected JSON with published, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("expected trailing newline, got:\n%q", out)
	}
}

func TestWriteJSON_Summary(t *testing.T) {
	var buf bytes.Buffer
	sum := starsync.Summary{Direction: "desc", Target: "a/b", Published: 3, BoundaryFound: true}

	if err := WriteJSON(&buf, sum); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"direction": "desc"`, `"target": "a/b"`, `"published": 3`, `"boundary_found": true`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, `"error"`) {
		t.Error("error field should be omitted when empty")
	}
}

func TestWriteSummary_FirstRun(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sum := starsync.Summary{Direction: "asc", Published: 7, Pages: 3, StartedAt: start, FinishedAt: start.Add(21 * time.Second)}

	if err := WriteSummary(&buf, sum); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "first run") {
		t.Errorf("expected first run, got:\n%s", out)
	}
	if !strings.Contains(out, "7 added") || !strings.Contains(out, "3 pages in 21s") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestWriteSummary_Resume(t *testing.T) {
	var buf bytes.Buffer
	sum := starsync.Summary{Direction: "desc", Target: "alice/repo", Published: 1, Warned: 2}

	if err := WriteSummary(&buf, sum); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "resumed after alice/repo") || !strings.Contains(out, "2 warnings") {
		t.Errorf("unexpected summary:\n%s", out)
	}
}

func TestWriteSummary_DryRun(t *testing.T) {
	var buf bytes.Buffer
	sum := starsync.Summary{DryRun: true, Previewed: 4, Pages: 1}

	if err := WriteSummary(&buf, sum); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "4 bookmarks would be added") {
		t.Errorf("unexpected summary:\n%s", buf.String())
	}
}

func TestWriteSummary_DryRunNothingNew(t *testing.T) {
	var buf bytes.Buffer
	sum := starsync.Summary{DryRun: true, Direction: "desc", Target: "alice/repo", Pages: 1, BoundaryFound: true}

	if err := WriteSummary(&buf, sum); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "Dry run (resumed after alice/repo): 0 bookmarks would be added") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if strings.Contains(out, "Sync complete") {
		t.Errorf("dry run must not report a completed sync:\n%s", out)
	}
}
