// Package router decides which action answers an utterance.
//
// Dispatch is an ordered rule list with first-match-wins semantics.
// Several trigger keyword sets overlap ("search", "youtube", "video",
// "status"); precedence between them is exactly the declaration order
// of the rules, so the table must stay a slice, never a map.
package router

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"noah/internal/memory"
	"noah/internal/sysinfo"
	"noah/internal/wiki"
)

// Reply is the outcome of routing one utterance.
type Reply struct {
	Text string
	// Halt tells the run loop to stop after delivering Text.
	Halt bool
}

// ChatBackend is the conversational fallback and model management
// surface the router drives.
type ChatBackend interface {
	Load(key string) bool
	Loaded() bool
	Generate(ctx context.Context, message string, history []memory.Turn) string
	ToggleConcise() bool
	ModelInfo() string
	APIStatus() string
}

// WeatherSource fetches a one-line weather report for a city.
type WeatherSource interface {
	Current(ctx context.Context, city string) (string, error)
}

// Summarizer fetches encyclopedic article summaries.
type Summarizer interface {
	Lookup(ctx context.Context, topic string) (*wiki.Summary, error)
}

// Searcher opens web searches and returns the status line.
type Searcher interface {
	Smart(ctx context.Context, query, platform string) string
}

// Joker returns jokes.
type Joker interface {
	Tell() string
}

// ScreenGrabber captures the screen and returns the saved path.
type ScreenGrabber interface {
	Take() (string, error)
}

// CameraPreviewer shows a blocking camera preview.
type CameraPreviewer interface {
	Preview() error
}

// AppLauncher starts desktop applications by name.
type AppLauncher interface {
	OpenApp(name string) error
}

// Reporter researches a topic and saves a report.
type Reporter interface {
	Research(ctx context.Context, topic string) string
}

// UserProfile reads and persists the user's name and preferences.
type UserProfile interface {
	Name() string
	SetName(name string) error
	SetPreference(key string, value any) error
}

// ModeController switches the I/O channel. EnableVoiceMode reports
// false when no speech device is available.
type ModeController interface {
	EnableTextMode()
	EnableVoiceMode() bool
}

// Deps are the collaborators a Router drives. Any nil field disables
// the corresponding rules' actions with a fixed unavailable reply.
type Deps struct {
	Chat     ChatBackend
	Weather  WeatherSource
	Wiki     Summarizer
	Search   Searcher
	Joker    Joker
	Metrics  func() (sysinfo.Snapshot, error)
	Screen   ScreenGrabber
	Camera   CameraPreviewer
	Apps     AppLauncher
	Reporter Reporter
	Profile  UserProfile
	Modes    ModeController
	History  *memory.Store
}

// Options tune routing behavior.
type Options struct {
	// DefaultCity is used for weather queries naming no city.
	DefaultCity string
	// HistoryWindow is how many turns of chat history accompany a
	// delegated utterance.
	HistoryWindow int
}

type rule struct {
	name   string
	match  func(q string) bool
	handle func(ctx context.Context, q string) Reply
}

// Router routes utterances to handlers.
type Router struct {
	deps   Deps
	opts   Options
	logger *slog.Logger
	rules  []rule

	// announce delivers interim status lines from long handlers.
	announce func(string)
	// now and pick are injectable for deterministic tests.
	now  func() time.Time
	pick func(n int) int
}

// New builds a router over deps.
func New(deps Deps, opts Options, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.DefaultCity == "" {
		opts.DefaultCity = "Mumbai"
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 6
	}
	r := &Router{
		deps:     deps,
		opts:     opts,
		logger:   logger.With("component", "router"),
		announce: func(string) {},
		now:      time.Now,
		pick:     rand.IntN,
	}
	r.rules = r.buildRules()
	return r
}

// SetAnnouncer routes interim handler output (camera opening, slow
// research status) to fn.
func (r *Router) SetAnnouncer(fn func(string)) {
	if fn != nil {
		r.announce = fn
	}
}

// Handle routes one utterance and always returns a non-empty reply.
// Matching is case-insensitive; panics in handlers are converted into
// a fixed error reply so the router is total over its input.
func (r *Router) Handle(ctx context.Context, raw string) (reply Reply) {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return Reply{Text: "I didn't catch that. Please say it again."}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("handler panicked", "utterance", q, "panic", rec)
			reply = Reply{Text: "I encountered an error processing that command. Please try again."}
		}
	}()

	r.logger.Info("processing command", "utterance", q)
	for _, rl := range r.rules {
		if rl.match(q) {
			r.logger.Debug("rule matched", "rule", rl.name)
			return rl.handle(ctx, q)
		}
	}
	return r.delegateToChat(ctx, q)
}

// containsAny reports whether q contains any of subs as a substring.
func containsAny(q string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(q, s) {
			return true
		}
	}
	return false
}
