package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"noah/internal/config"
	"noah/internal/llm"
	"noah/internal/memory"
)

type fakeClient struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeClient) Complete(_ context.Context, prompt string, _ llm.Params) (string, error) {
	f.lastPrompt = prompt
	return f.reply, f.err
}

func (f *fakeClient) ModelName() string { return "fake-model" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(new(strings.Builder), &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAdapter(t *testing.T, fake *fakeClient) *Adapter {
	t.Helper()
	cfg := config.Default().Gemini
	cfg.APIKey = "test-key-123"
	a := NewAdapter(cfg, testLogger())
	a.newClient = func(apiKey, model string) llm.Client { return fake }
	if !a.Load("") {
		t.Fatal("Load failed with valid config key")
	}
	return a
}

func TestLoadKeyResolution(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		env      string
		cfg      string
		want     bool
	}{
		{"explicit wins", "arg-key", "env-key", "cfg-key", true},
		{"env fallback", "", "env-key", "", true},
		{"config fallback", "", "", "cfg-key", true},
		{"placeholder rejected", "", "", "YOUR_API_KEY_HERE", false},
		{"all empty", "", "", "", false},
		{"whitespace rejected", "   ", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIKey, tt.env)
			cfg := config.Default().Gemini
			cfg.APIKey = tt.cfg
			a := NewAdapter(cfg, testLogger())
			a.newClient = func(apiKey, model string) llm.Client { return &fakeClient{reply: "ok"} }
			if got := a.Load(tt.explicit); got != tt.want {
				t.Errorf("Load(%q) = %v, want %v", tt.explicit, got, tt.want)
			}
			if a.Loaded() != tt.want {
				t.Errorf("Loaded() = %v after Load, want %v", a.Loaded(), tt.want)
			}
		})
	}
}

func TestGenerateNotLoaded(t *testing.T) {
	a := NewAdapter(config.Default().Gemini, testLogger())
	got := a.Generate(context.Background(), "hello", nil)
	if !strings.Contains(got, "load ai model") {
		t.Errorf("unloaded Generate = %q, want load prompt", got)
	}
}

func TestGeneratePromptAssembly(t *testing.T) {
	fake := &fakeClient{reply: "sure thing"}
	a := newTestAdapter(t, fake)

	history := []memory.Turn{
		{Role: memory.RoleUser, Content: "first question"},
		{Role: memory.RoleAssistant, Content: "first answer"},
	}
	a.Generate(context.Background(), "what is Go?", history)

	p := fake.lastPrompt
	if !strings.HasPrefix(p, "You are NOAH") {
		t.Errorf("prompt does not start with persona block:\n%s", p)
	}
	if !strings.Contains(p, "ULTRA-CONCISE MODE") {
		t.Error("concise modifier missing with default config")
	}
	if !strings.Contains(p, "User: first question") || !strings.Contains(p, "NOAH: first answer") {
		t.Errorf("history lines missing from prompt:\n%s", p)
	}
	if !strings.Contains(p, "Current question: what is Go?") {
		t.Errorf("current message missing from prompt:\n%s", p)
	}
	// Order: persona before history before message.
	if strings.Index(p, "Recent context:") > strings.Index(p, "Current question:") {
		t.Error("history should precede the current question")
	}
}

func TestGenerateHistoryWindow(t *testing.T) {
	fake := &fakeClient{reply: "ok"}
	a := newTestAdapter(t, fake)

	var history []memory.Turn
	for i := 0; i < 10; i++ {
		history = append(history, memory.Turn{Role: memory.RoleUser, Content: "turn " + string(rune('0'+i))})
	}
	a.Generate(context.Background(), "now", history)

	if strings.Contains(fake.lastPrompt, "turn 3") {
		t.Error("prompt includes turns older than the window")
	}
	if !strings.Contains(fake.lastPrompt, "turn 9") {
		t.Error("prompt missing the most recent turn")
	}
}

func TestGenerateTruncation(t *testing.T) {
	fake := &fakeClient{reply: strings.Repeat("a", 1000)}
	a := newTestAdapter(t, fake)

	got := a.Generate(context.Background(), "long", nil)
	if len(got) != maxReplyChars+3 {
		t.Errorf("reply length = %d, want %d", len(got), maxReplyChars+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated reply missing ellipsis")
	}
}

func TestGenerateTruncationMultibyte(t *testing.T) {
	fake := &fakeClient{reply: strings.Repeat("न", 1000)}
	a := newTestAdapter(t, fake)

	got := a.Generate(context.Background(), "long", nil)
	if !utf8.ValidString(got) {
		t.Error("truncated reply is not valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != maxReplyChars+3 {
		t.Errorf("reply length = %d chars, want %d", n, maxReplyChars+3)
	}
}

func TestGenerateStripsLabel(t *testing.T) {
	fake := &fakeClient{reply: "NOAH: hello there"}
	a := newTestAdapter(t, fake)

	if got := a.Generate(context.Background(), "hi", nil); got != "hello there" {
		t.Errorf("got %q, want label stripped", got)
	}
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", errors.New("invalid API_KEY provided"), "API key error"},
		{"quota", errors.New("quota exceeded for project"), "quota exceeded"},
		{"safety", errors.New("response blocked by safety settings"), "safety filters"},
		{"network", errors.New("dial tcp: connection refused"), "internet connection"},
		{"generic", errors.New("something odd"), "try again in a moment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, &fakeClient{err: tt.err})
			got := a.Generate(context.Background(), "hi", nil)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Generate with %v = %q, want substring %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestGenerateEmptyReply(t *testing.T) {
	a := newTestAdapter(t, &fakeClient{reply: "   "})
	got := a.Generate(context.Background(), "hi", nil)
	if !strings.Contains(got, "trouble generating") {
		t.Errorf("empty backend reply = %q, want fallback", got)
	}
}

func TestToggleConcise(t *testing.T) {
	fake := &fakeClient{reply: "ok"}
	a := newTestAdapter(t, fake)
	// Default config ships concise on.
	if a.ToggleConcise() {
		t.Error("first toggle should turn concise off")
	}
	a.Generate(context.Background(), "hi", nil)
	if strings.Contains(fake.lastPrompt, "ULTRA-CONCISE") {
		t.Error("prompt still carries the concise modifier after toggle off")
	}
	if !a.ToggleConcise() {
		t.Error("second toggle should turn concise back on")
	}
	a.Generate(context.Background(), "hi", nil)
	if !strings.Contains(fake.lastPrompt, "ULTRA-CONCISE") {
		t.Error("prompt missing the concise modifier after toggle on")
	}
}

func TestModelInfo(t *testing.T) {
	a := NewAdapter(config.Default().Gemini, testLogger())
	if got := a.ModelInfo(); got != "No model loaded" {
		t.Errorf("unloaded ModelInfo = %q", got)
	}
	loaded := newTestAdapter(t, &fakeClient{reply: "ok"})
	if got := loaded.ModelInfo(); !strings.Contains(got, "gemini-1.5-flash") {
		t.Errorf("ModelInfo = %q, want model name", got)
	}
}
