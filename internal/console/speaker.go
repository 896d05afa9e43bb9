// Package console owns the interactive terminal: line input with
// history, reply delivery, and optional spoken output.
package console

import (
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
)

// Speaker synthesizes speech by shelling out to espeak (or a
// compatible command). When the command is missing the speaker is
// permanently unavailable and Say becomes a no-op.
type Speaker struct {
	command   string
	rate      int
	available bool
	logger    *slog.Logger

	mu sync.Mutex
	// run is swappable so tests never spawn processes.
	run func(name string, args ...string) error
}

// NewSpeaker probes for command on PATH. rate <= 0 uses espeak's
// default speaking rate.
func NewSpeaker(command string, rate int, logger *slog.Logger) *Speaker {
	if logger == nil {
		logger = slog.Default()
	}
	if command == "" {
		command = "espeak"
	}
	s := &Speaker{
		command: command,
		rate:    rate,
		logger:  logger.With("component", "speaker"),
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
	if _, err := exec.LookPath(command); err != nil {
		s.logger.Info("speech synthesis unavailable", "command", command)
	} else {
		s.available = true
	}
	return s
}

// Available reports whether spoken output can be produced.
func (s *Speaker) Available() bool {
	return s.available
}

// Say speaks text, blocking until synthesis finishes. Errors are
// logged, never propagated.
func (s *Speaker) Say(text string) {
	if !s.available || text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	args := []string{}
	if s.rate > 0 {
		args = append(args, "-s", strconv.Itoa(s.rate))
	}
	args = append(args, text)
	if err := s.run(s.command, args...); err != nil {
		s.logger.Warn("speech synthesis failed", "error", err)
	}
}
