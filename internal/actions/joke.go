package actions

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"noah/internal/httpkit"
)

const defaultJokeBaseURL = "https://icanhazdadjoke.com"

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"I told my wife she was drawing her eyebrows too high. She seemed surprised.",
	"Why don't eggs tell jokes? They'd crack each other up!",
	"I'm reading a book about anti-gravity. It's impossible to put down!",
	"Why did the scarecrow win an award? He was outstanding in his field!",
	"What do you call a bear with no teeth? A gummy bear!",
	"Why don't programmers like nature? It has too many bugs!",
}

// JokeTeller fetches a joke from a remote service, falling back to a
// canned list when the service is unreachable. The picker is swappable
// for deterministic tests.
type JokeTeller struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	pick    func(n int) int
}

// NewJokeTeller creates a teller with a random fallback picker.
func NewJokeTeller(logger *slog.Logger) *JokeTeller {
	if logger == nil {
		logger = slog.Default()
	}
	return &JokeTeller{
		baseURL: defaultJokeBaseURL,
		http:    httpkit.NewClient(httpkit.WithTimeout(5 * time.Second)),
		logger:  logger.With("component", "jokes"),
		pick:    rand.IntN,
	}
}

// Tell returns a joke. Remote failures are logged and never surfaced.
func (j *JokeTeller) Tell() string {
	if joke := j.fetch(); joke != "" {
		return joke
	}
	return jokes[j.pick(len(jokes))]
}

func (j *JokeTeller) fetch() string {
	if j.baseURL == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := j.http.Do(req)
	if err != nil {
		j.logger.Debug("joke fetch failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		j.logger.Debug("joke fetch failed", "status", resp.StatusCode)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}
