package router

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"noah/internal/actions"
	"noah/internal/launcher"
	"noah/internal/memory"
	"noah/internal/wiki"
)

var greetingTemplates = []string{
	"Hello %s! How can I help you today?",
	"Hi there! I'm NOAH, ready to assist you with intelligent responses.",
	"Greetings %s! What can I do for you today?",
}

var fallbackSuggestions = []string{
	"I didn't understand that command. Say 'load ai model' to enable advanced AI responses!",
	"Sorry, I didn't catch that. Make sure your API key is set in the config file, then try 'load ai model'.",
	"I'm not sure what you mean. Try searching: 'youtube music videos' or 'search python tutorials'.",
}

// spokenReplyLimit caps delegated chat replies for delivery.
const spokenReplyLimit = 200

// inlineSummaryLimit caps which encyclopedia summaries are read aloud
// inline rather than only opened in the browser.
const inlineSummaryLimit = 200

// buildRules declares the dispatch table. Order is behavior: earlier
// rules shadow later ones wherever keyword sets overlap.
func (r *Router) buildRules() []rule {
	return []rule{
		{
			name:   "tell-me-about",
			match:  func(q string) bool { return matchesTopicRequest(q) },
			handle: r.handleTellAbout,
		},
		{
			name:   "load-model",
			match:  func(q string) bool { return containsAny(q, "load ai model", "initialize ai", "use gemini", "load gemini") },
			handle: r.handleLoadModel,
		},
		{
			name:   "config-status",
			match:  func(q string) bool { return containsAny(q, "config status", "api status") },
			handle: r.handleConfigStatus,
		},
		{
			name:   "text-mode",
			match:  func(q string) bool { return containsAny(q, "text mode", "switch to text") },
			handle: r.handleTextMode,
		},
		{
			name:   "voice-mode",
			match:  func(q string) bool { return containsAny(q, "voice mode", "switch to voice") },
			handle: r.handleVoiceMode,
		},
		{
			name:   "concise-mode",
			match:  func(q string) bool { return containsAny(q, "concise mode", "toggle concise") },
			handle: r.handleConcise,
		},
		{
			name:   "greeting",
			match:  func(q string) bool { return containsAny(q, "hello", "hi", "hey", "good morning", "good afternoon") },
			handle: r.handleGreeting,
		},
		{
			name:   "time",
			match:  func(q string) bool { return strings.Contains(q, "time") },
			handle: r.handleTime,
		},
		{
			name:   "date",
			match:  func(q string) bool { return containsAny(q, "date", "today") },
			handle: r.handleDate,
		},
		{
			name:   "weather",
			match:  func(q string) bool { return strings.Contains(q, "weather") },
			handle: r.handleWeather,
		},
		{
			name:   "wikipedia",
			match:  func(q string) bool { return strings.Contains(q, "wikipedia") },
			handle: r.handleWikipedia,
		},
		{
			name:   "joke",
			match:  func(q string) bool { return containsAny(q, "joke", "funny", "humor") },
			handle: r.handleJoke,
		},
		{
			name:   "system-info",
			match:  func(q string) bool { return containsAny(q, "system", "status", "performance") },
			handle: r.handleSystemInfo,
		},
		{
			name:   "screenshot",
			match:  func(q string) bool { return containsAny(q, "screenshot", "screen capture") },
			handle: r.handleScreenshot,
		},
		{
			name:   "camera",
			match:  func(q string) bool { return containsAny(q, "camera", "video") },
			handle: r.handleCamera,
		},
		{
			name:   "search",
			match:  func(q string) bool { return strings.Contains(q, "search") },
			handle: r.handleSearch,
		},
		{
			name:   "youtube",
			match:  func(q string) bool { return strings.Contains(q, "youtube") },
			handle: r.handleYouTube,
		},
		{
			name:   "google-search",
			match:  func(q string) bool { return strings.Contains(q, "google") && strings.Contains(q, "search") },
			handle: r.handleGoogle,
		},
		{
			name:   "open-app",
			match:  func(q string) bool { return strings.Contains(q, "open") },
			handle: r.handleOpenApp,
		},
		{
			name:   "set-name",
			match:  func(q string) bool { return containsAny(q, "my name is", "call me") },
			handle: r.handleSetName,
		},
		{
			name:   "help",
			match:  func(q string) bool { return containsAny(q, "help", "commands") },
			handle: r.handleHelp,
		},
		{
			name:   "exit",
			match:  func(q string) bool { return containsAny(q, "exit", "quit", "goodbye", "bye", "stop") },
			handle: r.handleExit,
		},
	}
}

func (r *Router) handleTellAbout(ctx context.Context, q string) Reply {
	topic := extractTopic(q)
	if topic == "" {
		return Reply{Text: "I didn't catch what you want to know about. Please say 'tell me about' followed by a topic."}
	}
	if r.deps.Reporter == nil {
		return Reply{Text: "Topic research is not available right now."}
	}
	return Reply{Text: r.deps.Reporter.Research(ctx, topic)}
}

func (r *Router) handleLoadModel(_ context.Context, _ string) Reply {
	if r.deps.Chat.Load("") {
		return Reply{Text: "Gemini AI model loaded successfully! I'm now powered by Google's advanced AI."}
	}
	return Reply{Text: "Failed to load Gemini AI model. Please check your API key in the config file."}
}

func (r *Router) handleConfigStatus(_ context.Context, _ string) Reply {
	return Reply{Text: fmt.Sprintf("Configuration status: %s. Model: %s", r.deps.Chat.APIStatus(), r.deps.Chat.ModelInfo())}
}

func (r *Router) handleTextMode(_ context.Context, _ string) Reply {
	if r.deps.Modes != nil {
		r.deps.Modes.EnableTextMode()
	}
	return Reply{Text: "Switched to text input mode"}
}

func (r *Router) handleVoiceMode(_ context.Context, _ string) Reply {
	if r.deps.Modes == nil || !r.deps.Modes.EnableVoiceMode() {
		return Reply{Text: "Voice mode is not available. Speech output not detected."}
	}
	return Reply{Text: "Switched to voice output mode"}
}

func (r *Router) handleConcise(_ context.Context, _ string) Reply {
	on := r.deps.Chat.ToggleConcise()
	if err := r.deps.Profile.SetPreference("concise_mode", on); err != nil {
		r.logger.Error("profile save failed", "error", err)
	}
	if on {
		return Reply{Text: "Concise mode enabled. I'll keep responses short."}
	}
	return Reply{Text: "Concise mode disabled. I'll give fuller responses."}
}

func (r *Router) handleGreeting(_ context.Context, _ string) Reply {
	tmpl := greetingTemplates[r.pick(len(greetingTemplates))]
	if strings.Contains(tmpl, "%s") {
		return Reply{Text: fmt.Sprintf(tmpl, r.deps.Profile.Name())}
	}
	return Reply{Text: tmpl}
}

func (r *Router) handleTime(_ context.Context, _ string) Reply {
	return Reply{Text: "The current time is " + r.now().Format("03:04 PM")}
}

func (r *Router) handleDate(_ context.Context, _ string) Reply {
	return Reply{Text: "Today is " + r.now().Format("Monday, January 02, 2006")}
}

func (r *Router) handleWeather(ctx context.Context, q string) Reply {
	city := extractCity(q, r.opts.DefaultCity)
	report, err := r.deps.Weather.Current(ctx, city)
	if err != nil {
		r.logger.Warn("weather lookup failed", "city", city, "error", err)
		if errors.Is(err, actions.ErrWeatherUnavailable) {
			return Reply{Text: fmt.Sprintf("Weather in %s: Weather information not available", city)}
		}
		return Reply{Text: fmt.Sprintf("Weather in %s: Could not get weather information", city)}
	}
	return Reply{Text: fmt.Sprintf("Weather in %s: %s", city, report)}
}

func (r *Router) handleWikipedia(ctx context.Context, q string) Reply {
	topic := stripAll(q, "wikipedia", "search")
	if topic == "" {
		return Reply{Text: "What would you like me to search on Wikipedia?"}
	}

	text := r.deps.Search.Smart(ctx, topic, "wikipedia")

	inline := r.inlineSummary(ctx, topic)
	if inline != "" && utf8.RuneCountInString(inline) < inlineSummaryLimit {
		text += "\n" + inline
	}
	return Reply{Text: text}
}

// inlineSummary renders the short spoken form of a topic lookup,
// including the fixed phrasing for ambiguous and missing pages.
func (r *Router) inlineSummary(ctx context.Context, topic string) string {
	s, err := r.deps.Wiki.Lookup(ctx, topic)
	switch {
	case errors.Is(err, wiki.ErrAmbiguous):
		return fmt.Sprintf("Multiple results found for %s. Please be more specific.", topic)
	case errors.Is(err, wiki.ErrNotFound):
		return fmt.Sprintf("No Wikipedia page found for %s", topic)
	case err != nil:
		r.logger.Warn("wikipedia lookup failed", "topic", topic, "error", err)
		return "Could not access Wikipedia at this time"
	}
	return s.FirstSentences(3)
}

func (r *Router) handleJoke(_ context.Context, _ string) Reply {
	return Reply{Text: r.deps.Joker.Tell()}
}

func (r *Router) handleSystemInfo(_ context.Context, _ string) Reply {
	snap, err := r.deps.Metrics()
	if err != nil {
		r.logger.Warn("system info failed", "error", err)
		return Reply{Text: "Could not retrieve system information"}
	}
	return Reply{Text: snap.Format()}
}

func (r *Router) handleScreenshot(_ context.Context, _ string) Reply {
	path, err := r.deps.Screen.Take()
	if err != nil {
		r.logger.Warn("screenshot failed", "error", err)
		return Reply{Text: "Could not take screenshot"}
	}
	return Reply{Text: "Screenshot saved as " + filepath.Base(path)}
}

func (r *Router) handleCamera(_ context.Context, _ string) Reply {
	r.announce("Opening camera. Press Q to close.")
	if err := r.deps.Camera.Preview(); err != nil {
		r.logger.Warn("camera failed", "error", err)
		return Reply{Text: "Could not access camera"}
	}
	return Reply{Text: "Camera closed"}
}

func (r *Router) handleSearch(ctx context.Context, q string) Reply {
	platform, query := detectPlatform(q)
	if query == "" {
		return Reply{Text: "What would you like me to search for?"}
	}
	return Reply{Text: r.deps.Search.Smart(ctx, query, platform)}
}

func (r *Router) handleYouTube(ctx context.Context, q string) Reply {
	query := stripAll(q, "youtube", "search", "on")
	if query == "" {
		return Reply{Text: "What would you like me to search on YouTube?"}
	}
	return Reply{Text: r.deps.Search.Smart(ctx, query, "youtube")}
}

func (r *Router) handleGoogle(ctx context.Context, q string) Reply {
	query := stripAll(q, "google", "search", "on")
	if query == "" {
		return Reply{Text: "What would you like me to search on Google?"}
	}
	return Reply{Text: r.deps.Search.Smart(ctx, query, "google")}
}

func (r *Router) handleOpenApp(_ context.Context, q string) Reply {
	var app string
	switch {
	case strings.Contains(q, "notepad"):
		app = "notepad"
	case strings.Contains(q, "calculator"):
		app = "calculator"
	case containsAny(q, "browser", "chrome"):
		app = "chrome"
	default:
		return Reply{Text: "Which application would you like me to open?"}
	}

	if err := r.deps.Apps.OpenApp(app); err != nil {
		r.logger.Warn("app launch failed", "app", app, "error", err)
		return Reply{Text: fmt.Sprintf("Could not open %s", app)}
	}
	return Reply{Text: fmt.Sprintf("Opening %s", app)}
}

func (r *Router) handleSetName(_ context.Context, q string) Reply {
	name := extractName(q)
	if name == "" {
		return Reply{Text: "I didn't catch your name. Please try again."}
	}
	if err := r.deps.Profile.SetName(name); err != nil {
		r.logger.Error("profile save failed", "error", err)
	}
	return Reply{Text: fmt.Sprintf("Nice to meet you, %s!", name)}
}

func (r *Router) handleHelp(_ context.Context, _ string) Reply {
	return Reply{Text: helpText(r.opts.DefaultCity)}
}

func (r *Router) handleExit(_ context.Context, _ string) Reply {
	r.logger.Info("session ended by user")
	return Reply{
		Text: fmt.Sprintf("Goodbye %s! It was great helping you today!", r.deps.Profile.Name()),
		Halt: true,
	}
}

// delegateToChat is the terminal fallback for utterances no rule
// claims.
func (r *Router) delegateToChat(ctx context.Context, q string) Reply {
	if !r.deps.Chat.Loaded() {
		return Reply{Text: fallbackSuggestions[r.pick(len(fallbackSuggestions))]}
	}

	var history []memory.Turn
	if r.deps.History != nil {
		history = r.deps.History.Recent(r.opts.HistoryWindow)
	}

	full := r.deps.Chat.Generate(ctx, q, history)
	if r.deps.History != nil {
		r.deps.History.Append(memory.RoleUser, q)
		r.deps.History.Append(memory.RoleAssistant, full)
	}

	reply := full
	if runes := []rune(reply); len(runes) > spokenReplyLimit {
		reply = string(runes[:spokenReplyLimit]) + "... Would you like me to elaborate on any part?"
	}
	return Reply{Text: reply}
}

func helpText(defaultCity string) string {
	return fmt.Sprintf(`I can help you with many things! Here are some examples:

AI Features (Powered by Google Gemini):
- Say 'tell me about Python' for detailed AI-generated information
- Ask any question for intelligent responses
- Have natural conversations with advanced AI

Configuration Commands:
- Say 'config status' to check API key status
- Say 'load ai model' to initialize Gemini

Web Search Features:
- Say 'search machine learning' - Google search
- Say 'youtube python tutorials' - YouTube search
- Say 'search python on github' - GitHub search
- Say 'search laptop on amazon' - Amazon search
- Say 'search einstein on wikipedia' - Wikipedia search
- Supported platforms: %s

System Features:
- Ask for time, date, or weather updates (default city: %s)
- Request screenshots or camera access
- Say 'open' plus an application: %s
- Get system performance information

Other Commands:
- Tell jokes and get entertainment
- Say 'text mode' or 'voice mode' to switch output
- Say 'concise mode' to toggle short answers
- Say 'exit' when you're done`,
		strings.Join(launcher.Platforms(), ", "),
		defaultCity,
		strings.Join(launcher.KnownApps(), ", "))
}
