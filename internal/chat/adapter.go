// Package chat adapts the Gemini backend for conversational replies.
// The adapter owns prompt assembly, decoding parameters, response
// post-processing, and the mapping of backend failures onto fixed
// user-facing strings. It never returns an error to the router.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"noah/internal/config"
	"noah/internal/llm"
	"noah/internal/memory"
)

// EnvAPIKey is the environment variable consulted when no explicit
// key is given. It takes priority over the config file value.
const EnvAPIKey = "GEMINI_API_KEY"

// keyPlaceholder is the template value shipped in the default config;
// it is never a valid key.
const keyPlaceholder = "YOUR_API_KEY_HERE"

// maxReplyChars is the hard output cap applied after generation.
const maxReplyChars = 800

// historyWindow is how many trailing turns (3 exchanges) are folded
// into the prompt.
const historyWindow = 6

const systemInstruction = `You are NOAH, a helpful AI assistant. Follow these rules strictly:
- Keep responses under 120 words
- Be direct and actionable
- Use bullet points for lists (max 3 bullets)
- Give numbered steps for procedures
- Avoid filler words and repetition
- Don't add unnecessary disclaimers
- If unclear, give most likely answer + 1 clarification`

const conciseModifier = "ULTRA-CONCISE MODE: Maximum 3 sentences. No elaboration unless critical.\n"

// Fixed user-facing strings for classified backend failures.
const (
	msgAuthError    = "API key error. Please check your Gemini API key in the config file."
	msgQuotaError   = "API quota exceeded. Please check your usage limits."
	msgSafetyError  = "Sorry, I cannot respond to that request due to safety filters."
	msgNetworkError = "Network error. Please check your internet connection."
	msgGenericError = "I encountered an error. Please try again in a moment."
	msgNotLoaded    = "Please load the Gemini model first by saying 'load ai model' or 'use gemini'."
	msgEmptyReply   = "I'm having trouble generating a response right now. Please try again."
)

// Adapter wraps the Gemini client with assistant-level behavior.
type Adapter struct {
	cfg    config.GeminiConfig
	logger *slog.Logger

	// newClient builds the backend client on Load. Swappable in tests.
	newClient func(apiKey, model string) llm.Client

	client  llm.Client
	loaded  bool
	concise bool
}

// NewAdapter creates an unloaded adapter. Call [Adapter.Load] before
// generating; until then Generate returns a load prompt.
func NewAdapter(cfg config.GeminiConfig, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		cfg:     cfg,
		logger:  logger.With("component", "chat"),
		concise: cfg.ConciseMode,
		newClient: func(apiKey, model string) llm.Client {
			return llm.NewGeminiClient(apiKey, model, logger)
		},
	}
}

// Load resolves an API key and configures the backend client.
// Resolution priority: explicit argument, then the GEMINI_API_KEY
// environment variable, then the config file. Placeholder and empty
// values are rejected. On failure the adapter stays unloaded; no
// partial state survives a failed load.
func (a *Adapter) Load(explicitKey string) bool {
	key := resolveKey(explicitKey, os.Getenv(EnvAPIKey), a.cfg.APIKey)
	if key == "" {
		a.logger.Warn("no valid API key found")
		return false
	}

	a.client = a.newClient(key, a.cfg.Model)
	a.loaded = true
	a.logger.Info("backend loaded", "model", a.cfg.Model)
	return true
}

// resolveKey returns the first usable key in priority order, or "".
func resolveKey(candidates ...string) string {
	for _, k := range candidates {
		k = strings.TrimSpace(k)
		if k != "" && k != keyPlaceholder {
			return k
		}
	}
	return ""
}

// Loaded reports whether the backend is ready to generate.
func (a *Adapter) Loaded() bool {
	return a.loaded
}

// Generate produces a reply for message given the conversation
// history. It fails soft: every backend error is converted into one
// of the fixed user-facing strings.
func (a *Adapter) Generate(ctx context.Context, message string, history []memory.Turn) string {
	if !a.loaded || a.client == nil {
		return msgNotLoaded
	}

	prompt := a.buildPrompt(message, history)
	params := llm.Params{
		Temperature:     a.cfg.Temperature,
		MaxOutputTokens: a.cfg.MaxOutputTokens,
		TopP:            a.cfg.TopP,
		TopK:            a.cfg.TopK,
	}

	raw, err := a.client.Complete(ctx, prompt, params)
	if err != nil {
		a.logger.Error("generation failed", "category", llm.Classify(err).String(), "error", err)
		return errorMessage(err)
	}

	reply := postProcess(raw)
	if reply == "" {
		return msgEmptyReply
	}
	return reply
}

// buildPrompt assembles: persona block, optional concise modifier,
// recent history, current message — in that literal order.
func (a *Adapter) buildPrompt(message string, history []memory.Turn) string {
	var sb strings.Builder
	sb.WriteString(systemInstruction)
	sb.WriteString("\n\n")

	if a.concise {
		sb.WriteString(conciseModifier)
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	var lines []string
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		switch turn.Role {
		case memory.RoleUser:
			lines = append(lines, "User: "+content)
		case memory.RoleAssistant:
			lines = append(lines, "NOAH: "+content)
		}
	}
	if len(lines) > 0 {
		sb.WriteString("Recent context:\n")
		sb.WriteString(strings.Join(lines, "\n"))
		sb.WriteString("\n\n")
	}

	fmt.Fprintf(&sb, "Current question: %s\n\nProvide a concise, helpful response:", message)
	return sb.String()
}

// postProcess trims, caps at maxReplyChars characters, and strips a
// leading self-name label the model sometimes echoes.
func postProcess(raw string) string {
	reply := strings.TrimSpace(raw)
	if runes := []rune(reply); len(runes) > maxReplyChars {
		reply = string(runes[:maxReplyChars]) + "..."
	}
	if strings.HasPrefix(reply, "NOAH:") {
		reply = strings.TrimSpace(strings.TrimPrefix(reply, "NOAH:"))
	}
	return reply
}

// errorMessage maps a classified backend failure to its fixed string.
func errorMessage(err error) string {
	switch llm.Classify(err) {
	case llm.CategoryAuth:
		return msgAuthError
	case llm.CategoryQuota:
		return msgQuotaError
	case llm.CategorySafety:
		return msgSafetyError
	case llm.CategoryNetwork:
		return msgNetworkError
	default:
		return msgGenericError
	}
}

// ToggleConcise flips ultra-concise mode and returns the new state.
func (a *Adapter) ToggleConcise() bool {
	a.concise = !a.concise
	return a.concise
}

// ModelInfo describes the loaded model for status replies.
func (a *Adapter) ModelInfo() string {
	if !a.loaded {
		return "No model loaded"
	}
	return fmt.Sprintf("Google %s - Advanced AI Assistant", a.cfg.Model)
}

// APIStatus describes where a usable API key was found, if anywhere.
func (a *Adapter) APIStatus() string {
	if k := strings.TrimSpace(a.cfg.APIKey); k != "" && k != keyPlaceholder {
		return "API key configured in config file"
	}
	if resolveKey(os.Getenv(EnvAPIKey)) != "" {
		return "API key found in environment"
	}
	return "No API key configured"
}
