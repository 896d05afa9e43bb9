package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w := NewWriter(t.TempDir(), nil)
	w.now = func() time.Time {
		return time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)
	}
	return w
}

func TestCompose(t *testing.T) {
	w := newTestWriter(t)
	r := w.Compose("machine learning", "ML is a field of AI.", "https://en.wikipedia.org/wiki/Machine_learning")

	for _, want := range []string{
		"# NOAH Topic Report: Machine Learning",
		"Generated on March 15, 2025",
		"ML is a field of AI.",
		"Source: https://en.wikipedia.org/wiki/Machine_learning",
		"Report prepared by NOAH",
	} {
		if !strings.Contains(r.Body, want) {
			t.Errorf("Body missing %q:\n%s", want, r.Body)
		}
	}
}

func TestComposeNoSource(t *testing.T) {
	w := newTestWriter(t)
	r := w.Compose("tea", "Tea is a drink.", "")
	if strings.Contains(r.Body, "Source:") {
		t.Error("Body should omit the source line without a URL")
	}
}

func TestSave(t *testing.T) {
	w := newTestWriter(t)
	r := w.Compose("machine learning", "ML is a field of AI.", "")

	mdPath, err := w.Save(r)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	base := filepath.Base(mdPath)
	if base != "Report_machine_learning_20250315_143000.md" {
		t.Errorf("filename = %q", base)
	}

	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if string(data) != r.Body {
		t.Error("markdown content mismatch")
	}

	htmlPath := strings.TrimSuffix(mdPath, ".md") + ".html"
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(html), "<h1>NOAH Topic Report: Machine Learning</h1>") {
		t.Errorf("html missing rendered heading:\n%s", html)
	}
}

func TestSaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "docs")
	w := NewWriter(dir, nil)
	w.now = func() time.Time { return time.Unix(0, 0).UTC() }

	if _, err := w.Save(w.Compose("x", "body", "")); err != nil {
		t.Fatalf("Save into missing dir: %v", err)
	}
}
