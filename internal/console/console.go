package console

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/peterh/liner"
)

// ErrInterrupted is returned by ReadUtterance on Ctrl-C / Ctrl-D.
var ErrInterrupted = errors.New("console: interrupted")

const prompt = "You: "

// Console is the interactive terminal front end. Input is always
// typed; output is printed and, in voice mode, also spoken.
type Console struct {
	line    *liner.State
	speaker *Speaker
	logger  *slog.Logger

	mu    sync.Mutex
	voice bool
}

// New opens the terminal for line editing. Callers must Close.
func New(speaker *Speaker, logger *slog.Logger) *Console {
	if logger == nil {
		logger = slog.Default()
	}
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &Console{
		line:    line,
		speaker: speaker,
		logger:  logger.With("component", "console"),
	}
}

// ReadUtterance blocks for one line of input. Empty lines come back
// as empty strings, not errors.
func (c *Console) ReadUtterance() (string, error) {
	text, err := c.line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrInterrupted
		}
		return "", fmt.Errorf("console: read: %w", err)
	}
	text = strings.TrimSpace(text)
	if text != "" {
		c.line.AppendHistory(text)
	}
	return text, nil
}

// Deliver prints the assistant's reply, speaking it as well when
// voice mode is on.
func (c *Console) Deliver(text string) {
	if text == "" {
		return
	}
	fmt.Printf("NOAH: %s\n", text)

	c.mu.Lock()
	voice := c.voice
	c.mu.Unlock()
	if voice {
		c.speaker.Say(text)
	}
}

// EnableTextMode turns spoken output off.
func (c *Console) EnableTextMode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voice = false
}

// EnableVoiceMode turns spoken output on, if a synthesizer exists.
func (c *Console) EnableVoiceMode() bool {
	if c.speaker == nil || !c.speaker.Available() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.voice = true
	return true
}

// VoiceMode reports whether replies are currently spoken.
func (c *Console) VoiceMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voice
}

// Close restores the terminal.
func (c *Console) Close() error {
	return c.line.Close()
}
