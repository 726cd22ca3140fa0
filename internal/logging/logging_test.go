package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(&buf, Options{})
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("shown", "repo", "a/b")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record logged at info level:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "repo=a/b") {
		t.Errorf("expected info record, got:\n%s", out)
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := New(&buf, Options{Debug: true})
	defer closer.Close()

	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug record, got:\n%s", buf.String())
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sync.log")
	var buf bytes.Buffer
	logger, closer := New(&buf, Options{File: path})

	logger.Warn("rate-limited")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "rate-limited") {
		t.Errorf("expected record in log file, got:\n%s", data)
	}
	if !strings.Contains(buf.String(), "rate-limited") {
		t.Error("expected record on the primary writer too")
	}
}
