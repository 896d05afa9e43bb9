// Package paths resolves the user directories NOAH writes into and
// builds filesystem-safe file names for generated artifacts. All
// resolvers degrade to the current directory when a preferred
// location does not exist, so a write never fails on a missing
// Documents or Pictures folder.
package paths

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ExpandHome replaces a leading ~ or ~/ with the user's home
// directory. Paths without a tilde are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// DocumentsDir returns the directory for generated reports:
// ~/Documents when it exists, otherwise the home directory,
// otherwise ".".
func DocumentsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	docs := filepath.Join(home, "Documents")
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		return docs
	}
	return home
}

// PicturesDir returns the directory for screenshots: ~/Pictures when
// it exists, otherwise the home directory, otherwise ".".
func PicturesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	pics := filepath.Join(home, "Pictures")
	if info, err := os.Stat(pics); err == nil && info.IsDir() {
		return pics
	}
	return home
}

var (
	unsafeChars = regexp.MustCompile(`[^\w\s-]`)
	separators  = regexp.MustCompile(`[-\s]+`)
)

// SafeFragmentMaxLen caps the sanitized topic fragment used in
// generated file names.
const SafeFragmentMaxLen = 30

// SafeFragment converts free text (a report topic, typically) into a
// filesystem-safe fragment: punctuation removed, runs of whitespace
// and hyphens collapsed to single underscores, length capped at
// [SafeFragmentMaxLen].
func SafeFragment(text string) string {
	s := unsafeChars.ReplaceAllString(text, "")
	s = strings.TrimSpace(s)
	s = separators.ReplaceAllString(s, "_")
	if runes := []rune(s); len(runes) > SafeFragmentMaxLen {
		s = string(runes[:SafeFragmentMaxLen])
	}
	return s
}
