package actions

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"

	"noah/internal/paths"
)

// Screenshotter captures the primary display to the pictures folder.
// The capture and clock hooks are swappable for headless tests.
type Screenshotter struct {
	dir     string
	logger  *slog.Logger
	now     func() time.Time
	capture func() (image.Image, error)
}

// NewScreenshotter creates a capturer writing into dir; "" uses the
// platform pictures folder.
func NewScreenshotter(dir string, logger *slog.Logger) *Screenshotter {
	if dir == "" {
		dir = paths.PicturesDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Screenshotter{
		dir:    dir,
		logger: logger.With("component", "screenshot"),
		now:    time.Now,
		capture: func() (image.Image, error) {
			if screenshot.NumActiveDisplays() == 0 {
				return nil, fmt.Errorf("no active displays")
			}
			return screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
		},
	}
}

// Take captures the screen and returns the saved file's path.
func (s *Screenshotter) Take() (string, error) {
	img, err := s.capture()
	if err != nil {
		return "", fmt.Errorf("screenshot: capture: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: create dir: %w", err)
	}

	name := fmt.Sprintf("screenshot_%s.png", s.now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("screenshot: create file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("screenshot: encode: %w", err)
	}

	s.logger.Info("screenshot saved", "path", path)
	return path, nil
}
