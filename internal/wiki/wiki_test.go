package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(nil)
	c.SetBaseURL(srv.URL)
	return c
}

func TestLookupSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/page/summary/Go_(programming_language)") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"type": "standard",
			"title": "Go (programming language)",
			"extract": "Go is a statically typed language. It was designed at Google. It compiles fast.",
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Go_(programming_language)"}}
		}`))
	})

	s, err := c.Lookup(context.Background(), "Go (programming language)")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if s.Title != "Go (programming language)" {
		t.Errorf("Title = %q", s.Title)
	}
	if !strings.Contains(s.URL, "en.wikipedia.org") {
		t.Errorf("URL = %q", s.URL)
	}
}

func TestLookupNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.Lookup(context.Background(), "xqzzyblorp")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupDisambiguation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "disambiguation", "title": "Mercury", "extract": "Mercury may refer to:"}`))
	})

	_, err := c.Lookup(context.Background(), "Mercury")
	if !errors.Is(err, ErrAmbiguous) {
		t.Errorf("err = %v, want ErrAmbiguous", err)
	}
	if !strings.Contains(err.Error(), "Mercury") {
		t.Errorf("error %q should carry the page title", err)
	}
}

func TestLookupEmptyTopic(t *testing.T) {
	c := NewClient(nil)
	if _, err := c.Lookup(context.Background(), "   "); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupHTMLFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"type": "standard",
			"title": "Tea",
			"extract": "",
			"extract_html": "<p><b>Tea</b> is an <i>aromatic</i> beverage.</p>"
		}`))
	})

	s, err := c.Lookup(context.Background(), "Tea")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if s.Extract != "Tea is an aromatic beverage." {
		t.Errorf("Extract = %q", s.Extract)
	}
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>plain  text</p>", "plain text"},
		{"<script>alert(1)</script>visible", "visible"},
		{"", ""},
		{"no tags at all", "no tags at all"},
	}
	for _, tt := range tests {
		if got := htmlToText(tt.in); got != tt.want {
			t.Errorf("htmlToText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstSentences(t *testing.T) {
	s := &Summary{Extract: "One. Two. Three. Four."}
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{2, "One. Two."},
		{10, "One. Two. Three. Four."},
	}
	for _, tt := range tests {
		if got := s.FirstSentences(tt.n); got != tt.want {
			t.Errorf("FirstSentences(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
