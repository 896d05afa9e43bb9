// Package config handles NOAH configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./noah.yaml, ~/.config/noah/noah.yaml, /etc/noah/noah.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"noah.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "noah", "noah.yaml"))
	}

	paths = append(paths, "/etc/noah/noah.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all NOAH configuration.
type Config struct {
	Assistant AssistantConfig `yaml:"assistant"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Weather   WeatherConfig   `yaml:"weather"`
	Speech    SpeechConfig    `yaml:"speech"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	DataDir   string          `yaml:"data_dir"`
	LogLevel  string          `yaml:"log_level"`
}

// AssistantConfig defines identity and routing defaults.
type AssistantConfig struct {
	// DefaultName is used when no profile exists yet.
	DefaultName string `yaml:"default_name"`
	// DefaultCity is the weather lookup fallback when the utterance
	// names no city.
	DefaultCity string `yaml:"default_city"`
	// ProfilePath overrides where the user profile JSON is stored.
	// Empty means <data_dir>/noah_data.json.
	ProfilePath string `yaml:"profile_path"`
	// HistoryWindow is how many recent conversation turns are visible
	// to the chat backend (default 6).
	HistoryWindow int `yaml:"history_window"`
}

// GeminiConfig defines the generative backend settings.
type GeminiConfig struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	TopP            float64 `yaml:"top_p"`
	TopK            int     `yaml:"top_k"`
	// ConciseMode starts the adapter in ultra-concise reply mode.
	ConciseMode bool `yaml:"concise_mode"`
}

// WeatherConfig defines the weather lookup service.
type WeatherConfig struct {
	// BaseURL defaults to https://wttr.in.
	BaseURL string `yaml:"base_url"`
	// TimeoutSec is the fixed request timeout (default 5).
	TimeoutSec int `yaml:"timeout_sec"`
}

// SpeechConfig defines the text-to-speech output channel.
type SpeechConfig struct {
	// Enabled starts the assistant in voice output mode when the
	// synthesizer binary is present.
	Enabled bool `yaml:"enabled"`
	// Command is the synthesizer binary (default "espeak").
	Command string `yaml:"command"`
	// Rate is words per minute passed to the synthesizer.
	Rate int `yaml:"rate"`
}

// MQTTConfig defines the optional status publisher.
type MQTTConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Broker     string `yaml:"broker"` // e.g. mqtt://broker.local:1883
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	DeviceName string `yaml:"device_name"`
	// IntervalSec is the state publish period (default 60).
	IntervalSec int `yaml:"interval_sec"`
}

// Configured reports whether the MQTT publisher should run.
func (m MQTTConfig) Configured() bool {
	return m.Enabled && m.Broker != ""
}

// Interval returns the publish period as a duration.
func (m MQTTConfig) Interval() time.Duration {
	if m.IntervalSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(m.IntervalSec) * time.Second
}

// WeatherTimeout returns the weather request timeout as a duration.
func (w WeatherConfig) WeatherTimeout() time.Duration {
	if w.TimeoutSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(w.TimeoutSec) * time.Second
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Assistant: AssistantConfig{
			DefaultName:   "Master",
			DefaultCity:   "Mumbai",
			HistoryWindow: 6,
		},
		Gemini: GeminiConfig{
			Model:           "gemini-1.5-flash",
			Temperature:     0.25,
			MaxOutputTokens: 150,
			TopP:            0.7,
			TopK:            20,
			ConciseMode:     true,
		},
		Weather: WeatherConfig{
			BaseURL:    "https://wttr.in",
			TimeoutSec: 5,
		},
		Speech: SpeechConfig{
			Command: "espeak",
			Rate:    120,
		},
	}
}
