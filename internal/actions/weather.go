// Package actions implements the local command handlers: weather,
// web search, jokes, screenshots and the camera preview.
package actions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"noah/internal/httpkit"
)

const defaultWeatherBaseURL = "https://wttr.in"

// ErrWeatherUnavailable marks a response the service delivered but
// could not fulfill, as opposed to a transport failure.
var ErrWeatherUnavailable = errors.New("weather information not available")

// WeatherService fetches one-line weather reports from wttr.in.
type WeatherService struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewWeatherService creates a weather client. baseURL "" uses wttr.in;
// timeout <= 0 defaults to 5 seconds.
func NewWeatherService(baseURL string, timeout time.Duration, logger *slog.Logger) *WeatherService {
	if baseURL == "" {
		baseURL = defaultWeatherBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherService{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpkit.NewClient(httpkit.WithTimeout(timeout)),
		logger:  logger.With("component", "weather"),
	}
}

// Current returns the one-line report for city, e.g.
// "Mumbai: ⛅️ +31°C". The second return is the user-facing failure
// string when err is non-nil.
func (s *WeatherService) Current(ctx context.Context, city string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?format=3", s.baseURL, url.PathEscape(city))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Warn("weather fetch failed", "city", city, "error", err)
		return "", fmt.Errorf("weather: fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather: status %d: %w", resp.StatusCode, ErrWeatherUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("weather: read response: %w", err)
	}

	report := strings.TrimSpace(string(body))
	if report == "" {
		return "", fmt.Errorf("weather: empty report for %q", city)
	}
	return report, nil
}
