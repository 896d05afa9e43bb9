// Package report writes researched topic reports to the user's
// documents folder, as markdown plus a rendered HTML copy.
package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"noah/internal/paths"
)

// Report is an assembled topic report ready to save.
type Report struct {
	Topic     string
	Body      string
	SourceURL string
	CreatedAt time.Time
}

// Writer persists reports. The clock is injectable for tests.
type Writer struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
	md     goldmark.Markdown
}

// NewWriter creates a writer targeting dir (usually the documents
// folder). An empty dir falls back to paths.DocumentsDir().
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if dir == "" {
		dir = paths.DocumentsDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		dir:    dir,
		logger: logger.With("component", "report"),
		now:    time.Now,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Compose assembles the markdown document for a topic.
func (w *Writer) Compose(topic, content, sourceURL string) Report {
	created := w.now()
	var sb strings.Builder
	fmt.Fprintf(&sb, "# NOAH Topic Report: %s\n\n", titleWords(topic))
	fmt.Fprintf(&sb, "Generated on %s\n\n", created.Format("January 2, 2006 at 3:04 PM"))
	sb.WriteString("---\n\n")
	sb.WriteString(strings.TrimSpace(content))
	sb.WriteString("\n\n---\n\n")
	if sourceURL != "" {
		fmt.Fprintf(&sb, "Source: %s\n\n", sourceURL)
	}
	sb.WriteString("Report prepared by NOAH, your AI assistant.\n")

	return Report{
		Topic:     topic,
		Body:      sb.String(),
		SourceURL: sourceURL,
		CreatedAt: created,
	}
}

// Save writes the markdown report and an HTML rendering next to it.
// It returns the markdown path; the HTML copy is best-effort.
func (w *Writer) Save(r Report) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("report: create dir: %w", err)
	}

	stamp := r.CreatedAt.Format("20060102_150405")
	base := fmt.Sprintf("Report_%s_%s", paths.SafeFragment(r.Topic), stamp)

	mdPath := filepath.Join(w.dir, base+".md")
	if err := os.WriteFile(mdPath, []byte(r.Body), 0o644); err != nil {
		return "", fmt.Errorf("report: write markdown: %w", err)
	}

	htmlPath := filepath.Join(w.dir, base+".html")
	if html, err := w.renderHTML(r); err != nil {
		w.logger.Warn("html render failed", "error", err)
	} else if err := os.WriteFile(htmlPath, html, 0o644); err != nil {
		w.logger.Warn("html write failed", "path", htmlPath, "error", err)
	}

	w.logger.Info("report saved", "topic", r.Topic, "path", mdPath)
	return mdPath, nil
}

// titleWords uppercases the first letter of each space-separated word.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (w *Writer) renderHTML(r Report) ([]byte, error) {
	var body bytes.Buffer
	if err := w.md.Convert([]byte(r.Body), &body); err != nil {
		return nil, err
	}
	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>NOAH Topic Report: %s</title>\n</head>\n<body>\n", r.Topic)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
