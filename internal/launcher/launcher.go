// Package launcher opens URLs, local files and desktop applications.
package launcher

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/browser"
)

// searchURLs maps a platform keyword to its query URL template.
var searchURLs = map[string]string{
	"google":    "https://www.google.com/search?q=%s",
	"youtube":   "https://www.youtube.com/results?search_query=%s",
	"amazon":    "https://www.amazon.com/s?k=%s",
	"github":    "https://github.com/search?q=%s",
	"wikipedia": "https://en.wikipedia.org/wiki/Special:Search?search=%s",
}

// Platforms returns the search platforms the launcher knows, for help
// text. Order is stable.
func Platforms() []string {
	return []string{"google", "youtube", "amazon", "github", "wikipedia"}
}

// KnownPlatform reports whether name has a search URL template.
func KnownPlatform(name string) bool {
	_, ok := searchURLs[strings.ToLower(name)]
	return ok
}

// appCommands maps spoken app names to launch commands per GOOS.
var appCommands = map[string]map[string][]string{
	"notepad": {
		"windows": {"notepad.exe"},
		"darwin":  {"open", "-a", "TextEdit"},
		"linux":   {"gedit"},
	},
	"calculator": {
		"windows": {"calc.exe"},
		"darwin":  {"open", "-a", "Calculator"},
		"linux":   {"gnome-calculator"},
	},
	"chrome": {
		"windows": {"cmd", "/c", "start", "chrome"},
		"darwin":  {"open", "-a", "Google Chrome"},
		"linux":   {"google-chrome"},
	},
	"files": {
		"windows": {"explorer.exe"},
		"darwin":  {"open", "."},
		"linux":   {"nautilus"},
	},
	"terminal": {
		"windows": {"cmd", "/c", "start", "cmd"},
		"darwin":  {"open", "-a", "Terminal"},
		"linux":   {"gnome-terminal"},
	},
}

// Launcher shells out to the desktop. The exec hooks are swappable so
// tests never spawn real processes.
type Launcher struct {
	logger *slog.Logger
	goos   string

	openURL  func(string) error
	openFile func(string) error
	start    func(name string, args ...string) error
}

// New creates a launcher for the current platform.
func New(logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		logger:   logger.With("component", "launcher"),
		goos:     runtime.GOOS,
		openURL:  browser.OpenURL,
		openFile: browser.OpenFile,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// SearchURL builds the query URL for platform, or "" if unknown.
func SearchURL(platform, query string) string {
	tmpl, ok := searchURLs[strings.ToLower(platform)]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, url.QueryEscape(query))
}

// OpenSearch opens the platform's results page for query in the
// default browser.
func (l *Launcher) OpenSearch(platform, query string) error {
	u := SearchURL(platform, query)
	if u == "" {
		return fmt.Errorf("launcher: unknown platform %q", platform)
	}
	l.logger.Info("opening search", "platform", platform, "query", query)
	return l.openURL(u)
}

// OpenFile opens a local file with the system default viewer.
func (l *Launcher) OpenFile(path string) error {
	l.logger.Info("opening file", "path", path)
	return l.openFile(path)
}

// OpenApp launches a desktop application by its spoken name.
func (l *Launcher) OpenApp(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	perOS, ok := appCommands[name]
	if !ok {
		return fmt.Errorf("launcher: unknown application %q", name)
	}
	cmd, ok := perOS[l.goos]
	if !ok {
		return fmt.Errorf("launcher: %q not supported on %s", name, l.goos)
	}
	l.logger.Info("launching app", "app", name)
	return l.start(cmd[0], cmd[1:]...)
}

// KnownApps lists launchable application names for help text.
func KnownApps() []string {
	return []string{"notepad", "calculator", "chrome", "files", "terminal"}
}
