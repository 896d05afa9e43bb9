package launcher

import (
	"strings"
	"testing"
)

func newTestLauncher(goos string) (*Launcher, *recorder) {
	rec := &recorder{}
	l := New(nil)
	l.goos = goos
	l.openURL = func(u string) error { rec.url = u; return nil }
	l.openFile = func(p string) error { rec.file = p; return nil }
	l.start = func(name string, args ...string) error {
		rec.cmd = append([]string{name}, args...)
		return nil
	}
	return l, rec
}

type recorder struct {
	url  string
	file string
	cmd  []string
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		platform string
		query    string
		want     string
	}{
		{"google", "go tutorials", "https://www.google.com/search?q=go+tutorials"},
		{"YouTube", "lofi beats", "https://www.youtube.com/results?search_query=lofi+beats"},
		{"amazon", "laptop", "https://www.amazon.com/s?k=laptop"},
		{"github", "http router", "https://github.com/search?q=http+router"},
		{"myspace", "x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			if got := SearchURL(tt.platform, tt.query); got != tt.want {
				t.Errorf("SearchURL(%q, %q) = %q, want %q", tt.platform, tt.query, got, tt.want)
			}
		})
	}
}

func TestOpenSearch(t *testing.T) {
	l, rec := newTestLauncher("linux")
	if err := l.OpenSearch("google", "weather"); err != nil {
		t.Fatalf("OpenSearch: %v", err)
	}
	if !strings.Contains(rec.url, "google.com/search?q=weather") {
		t.Errorf("opened %q", rec.url)
	}
	if err := l.OpenSearch("bogus", "x"); err == nil {
		t.Error("expected error for unknown platform")
	}
}

func TestOpenApp(t *testing.T) {
	tests := []struct {
		goos string
		app  string
		want string
	}{
		{"linux", "calculator", "gnome-calculator"},
		{"darwin", "notepad", "open"},
		{"windows", "notepad", "notepad.exe"},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.app, func(t *testing.T) {
			l, rec := newTestLauncher(tt.goos)
			if err := l.OpenApp(tt.app); err != nil {
				t.Fatalf("OpenApp: %v", err)
			}
			if rec.cmd[0] != tt.want {
				t.Errorf("launched %v, want first arg %q", rec.cmd, tt.want)
			}
		})
	}

	l, _ := newTestLauncher("linux")
	if err := l.OpenApp("photoshop"); err == nil {
		t.Error("expected error for unknown app")
	}
	l.goos = "plan9"
	if err := l.OpenApp("notepad"); err == nil {
		t.Error("expected error for unsupported platform")
	}
}

func TestKnownPlatform(t *testing.T) {
	if !KnownPlatform("Amazon") {
		t.Error("Amazon should be known (case-insensitive)")
	}
	if KnownPlatform("bing") {
		t.Error("bing should not be known")
	}
}
