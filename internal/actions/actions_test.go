package actions

import (
	"context"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-github/v69/github"
)

func TestWeatherCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Tokyo" || r.URL.Query().Get("format") != "3" {
			t.Errorf("unexpected request %q", r.URL.String())
		}
		w.Write([]byte("Tokyo: ⛅️ +31°C\n"))
	}))
	defer srv.Close()

	ws := NewWeatherService(srv.URL, time.Second, nil)
	got, err := ws.Current(context.Background(), "Tokyo")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if !strings.HasPrefix(got, "Tokyo:") {
		t.Errorf("report = %q", got)
	}
}

func TestWeatherCurrentErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		ws := NewWeatherService(srv.URL, time.Second, nil)
		_, err := ws.Current(context.Background(), "Tokyo")
		if err == nil {
			t.Fatal("expected error for 503")
		}
		if !errors.Is(err, ErrWeatherUnavailable) {
			t.Errorf("err = %v, want ErrWeatherUnavailable", err)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ws := NewWeatherService(srv.URL, time.Second, nil)
		if _, err := ws.Current(context.Background(), "Tokyo"); err == nil {
			t.Error("expected error for empty report")
		}
	})
}

func TestJokeTellerRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/plain" {
			t.Errorf("Accept = %q, want text/plain", got)
		}
		w.Write([]byte("A remote joke.\n"))
	}))
	defer srv.Close()

	j := NewJokeTeller(nil)
	j.baseURL = srv.URL
	if got := j.Tell(); got != "A remote joke." {
		t.Errorf("Tell() = %q, want remote joke", got)
	}
}

func TestJokeTellerFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	j := NewJokeTeller(nil)
	j.baseURL = srv.URL
	j.pick = func(n int) int { return 0 }
	if got := j.Tell(); !strings.Contains(got, "atoms") {
		t.Errorf("Tell() = %q, want first canned joke", got)
	}
	j.pick = func(n int) int { return n - 1 }
	if got := j.Tell(); !strings.Contains(got, "bugs") {
		t.Errorf("Tell() = %q, want last canned joke", got)
	}
}

type fakeOpener struct {
	platform, query string
	err             error
}

func (f *fakeOpener) OpenSearch(platform, query string) error {
	f.platform, f.query = platform, query
	return f.err
}

type fakeRepoSearcher struct {
	result *github.RepositoriesSearchResult
	err    error
}

func (f *fakeRepoSearcher) Repositories(_ context.Context, _ string, _ *github.SearchOptions) (*github.RepositoriesSearchResult, *github.Response, error) {
	return f.result, nil, f.err
}

func TestSmartSearch(t *testing.T) {
	opener := &fakeOpener{}
	s := NewSearchService(opener, nil)
	s.gh = &fakeRepoSearcher{err: errors.New("offline")}

	got := s.Smart(context.Background(), "laptop", "amazon")
	if got != "Opening amazon and searching for laptop" {
		t.Errorf("Smart = %q", got)
	}
	if opener.platform != "amazon" || opener.query != "laptop" {
		t.Errorf("opened %s/%s", opener.platform, opener.query)
	}
}

func TestSmartSearchBrowserFailure(t *testing.T) {
	s := NewSearchService(&fakeOpener{err: errors.New("no display")}, nil)
	got := s.Smart(context.Background(), "x", "google")
	if !strings.Contains(got, "Could not open google") {
		t.Errorf("Smart = %q", got)
	}
}

func TestSmartSearchGitHubEnrichment(t *testing.T) {
	name := "golang/go"
	stars := 120000
	s := NewSearchService(&fakeOpener{}, nil)
	s.gh = &fakeRepoSearcher{result: &github.RepositoriesSearchResult{
		Repositories: []*github.Repository{
			{FullName: &name, StargazersCount: &stars},
		},
	}}

	got := s.Smart(context.Background(), "go", "github")
	if !strings.Contains(got, "Top repository: golang/go with 120000 stars") {
		t.Errorf("Smart = %q", got)
	}
}

func TestSmartSearchGitHubLookupFailureIsSilent(t *testing.T) {
	s := NewSearchService(&fakeOpener{}, nil)
	s.gh = &fakeRepoSearcher{err: errors.New("rate limited")}

	got := s.Smart(context.Background(), "go", "github")
	if got != "Opening github and searching for go" {
		t.Errorf("Smart = %q, lookup failure should not surface", got)
	}
}

func TestScreenshotTake(t *testing.T) {
	dir := t.TempDir()
	s := NewScreenshotter(dir, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC) }
	s.capture = func() (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
	}

	path, err := s.Take()
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if filepath.Base(path) != "screenshot_20250315_143000.png" {
		t.Errorf("filename = %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}
}

func TestScreenshotCaptureFailure(t *testing.T) {
	s := NewScreenshotter(t.TempDir(), nil)
	s.capture = func() (image.Image, error) { return nil, errors.New("no displays") }
	if _, err := s.Take(); err == nil {
		t.Error("expected capture error")
	}
}
