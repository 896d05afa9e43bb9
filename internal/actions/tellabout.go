package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"noah/internal/memory"
	"noah/internal/report"
	"noah/internal/wiki"
)

// textGenerator is the slice of the chat adapter the reporter needs.
type textGenerator interface {
	Loaded() bool
	Load(key string) bool
	Generate(ctx context.Context, message string, history []memory.Turn) string
}

// summarizer fetches encyclopedic summaries.
type summarizer interface {
	Lookup(ctx context.Context, topic string) (*wiki.Summary, error)
}

// fileOpener opens a saved file in the system viewer.
type fileOpener interface {
	OpenFile(path string) error
}

// TopicReporter researches a topic with the AI backend plus an
// encyclopedic supplement, saves the result as a report, and opens it.
type TopicReporter struct {
	gen      textGenerator
	wiki     summarizer
	writer   *report.Writer
	opener   fileOpener
	logger   *slog.Logger
	announce func(string)
}

// NewTopicReporter wires the research pipeline. announce is called
// with interim status lines while the (slow) research runs; nil is a
// no-op.
func NewTopicReporter(gen textGenerator, w summarizer, writer *report.Writer, opener fileOpener, announce func(string), logger *slog.Logger) *TopicReporter {
	if logger == nil {
		logger = slog.Default()
	}
	if announce == nil {
		announce = func(string) {}
	}
	return &TopicReporter{
		gen:      gen,
		wiki:     w,
		writer:   writer,
		opener:   opener,
		logger:   logger.With("component", "report"),
		announce: announce,
	}
}

// minSectionChars filters out degenerate backend replies.
const minSectionChars = 50

// Research produces and saves a report about topic, returning the
// user-facing status line. It never returns an error.
func (r *TopicReporter) Research(ctx context.Context, topic string) string {
	r.logger.Info("researching topic", "topic", topic)

	if !r.gen.Loaded() {
		r.announce("Let me load my AI knowledge base first...")
		if !r.gen.Load("") {
			return r.wikiOnly(ctx, topic)
		}
	}

	r.announce(fmt.Sprintf("Let me use advanced AI to generate detailed information about %s...", topic))

	prompts := []string{
		fmt.Sprintf("Provide a comprehensive overview of %s, including key facts, importance, and applications.", topic),
		fmt.Sprintf("What are the main features and characteristics of %s? Include examples and practical uses.", topic),
	}
	var sections []string
	for i, prompt := range prompts {
		resp := strings.TrimSpace(r.gen.Generate(ctx, prompt, nil))
		if len(resp) > minSectionChars {
			sections = append(sections, fmt.Sprintf("## AI Analysis %d\n\n%s", i+1, resp))
		}
	}

	supplement, sourceURL := r.wikiSupplement(ctx, topic, 3)

	var body string
	switch {
	case len(sections) > 0:
		body = strings.Join(sections, "\n\n")
		if supplement != "" {
			body += "\n\n## Supplementary Wikipedia Information\n\n" + supplement
		}
	case supplement != "":
		body = "I apologize, but AI couldn't generate detailed information at this time.\n\n## Supplementary Wikipedia Information\n\n" + supplement
	default:
		return "I encountered an error while generating information. Please try again."
	}

	path, err := r.writer.Save(r.writer.Compose(topic, body, sourceURL))
	if err != nil {
		r.logger.Error("report save failed", "topic", topic, "error", err)
		return fmt.Sprintf("AI generated information about %s, but couldn't save it to a file.", topic)
	}
	if err := r.opener.OpenFile(path); err != nil {
		r.logger.Warn("could not open report", "path", path, "error", err)
	}
	return fmt.Sprintf("I've used advanced AI to generate detailed information about %s and saved it to your text editor.", topic)
}

// wikiOnly is the fallback path when the AI backend cannot load.
func (r *TopicReporter) wikiOnly(ctx context.Context, topic string) string {
	r.announce("Using Wikipedia for information...")
	supplement, sourceURL := r.wikiSupplement(ctx, topic, 5)
	if supplement == "" {
		return "Sorry, I couldn't load the AI model or find Wikipedia information."
	}
	body := "## Wikipedia Information\n\n" + supplement
	path, err := r.writer.Save(r.writer.Compose(topic, body, sourceURL))
	if err != nil {
		return "Sorry, I couldn't load the AI model or find Wikipedia information."
	}
	if err := r.opener.OpenFile(path); err != nil {
		r.logger.Warn("could not open report", "path", path, "error", err)
	}
	return fmt.Sprintf("I couldn't load the AI model, but I found Wikipedia information about %s.", topic)
}

func (r *TopicReporter) wikiSupplement(ctx context.Context, topic string, sentences int) (string, string) {
	s, err := r.wiki.Lookup(ctx, topic)
	if err != nil {
		r.logger.Debug("wikipedia supplement unavailable", "topic", topic, "error", err)
		return "", ""
	}
	return s.FirstSentences(sentences), s.URL
}
