package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"noah/internal/actions"
	"noah/internal/buildinfo"
	"noah/internal/chat"
	"noah/internal/config"
	"noah/internal/console"
	"noah/internal/launcher"
	"noah/internal/memory"
	"noah/internal/mqtt"
	"noah/internal/paths"
	"noah/internal/profile"
	"noah/internal/report"
	"noah/internal/router"
	"noah/internal/sysinfo"
	"noah/internal/wiki"
)

// sessionStats feeds the MQTT publisher from the interactive loop.
type sessionStats struct {
	model string

	mu       sync.Mutex
	commands int
	last     time.Time
}

func (s *sessionStats) Uptime() time.Duration { return buildinfo.Uptime() }
func (s *sessionStats) Version() string       { return buildinfo.Version }
func (s *sessionStats) ModelName() string     { return s.model }

func (s *sessionStats) CommandsHandled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands
}

func (s *sessionStats) LastCommandTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *sessionStats) record() {
	s.mu.Lock()
	s.commands++
	s.last = time.Now()
	s.mu.Unlock()
}

// runAssistant wires every collaborator and drives the interactive
// loop. A missing config file is not an error: defaults plus the
// GEMINI_API_KEY environment variable make a usable assistant.
func runAssistant(ctx context.Context, stdout io.Writer, stderr io.Writer, configPath string) error {
	var cfg *config.Config
	cfgPath, err := config.FindConfig(configPath)
	switch {
	case err != nil && configPath != "":
		return err
	case err != nil:
		cfg = config.Default()
		cfgPath = ""
	default:
		if cfg, err = config.Load(cfgPath); err != nil {
			return fmt.Errorf("load config %s: %w", cfgPath, err)
		}
	}

	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		if parsed, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
			level = parsed
		}
	}
	// Logs go to stderr so they never interleave with the prompt.
	logger := newLogger(stderr, level, "text")
	if cfgPath != "" {
		logger.Info("config loaded", "path", cfgPath)
	} else {
		logger.Info("no config file found, using defaults")
	}

	dataDir := paths.ExpandHome(cfg.DataDir)
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dataDir, err)
	}

	profilePath := paths.ExpandHome(cfg.Assistant.ProfilePath)
	if profilePath == "" {
		profilePath = filepath.Join(dataDir, "noah_data.json")
	}
	session := profile.NewSession(profile.NewStore(profilePath, cfg.Assistant.DefaultName, logger))

	adapter := chat.NewAdapter(cfg.Gemini, logger)
	if adapter.Load("") {
		logger.Info("chat backend ready", "model", cfg.Gemini.Model)
	}
	if v, ok := session.Preference("concise_mode"); ok {
		if on, isBool := v.(bool); isBool && on != cfg.Gemini.ConciseMode {
			adapter.ToggleConcise()
		}
	}

	speaker := console.NewSpeaker(cfg.Speech.Command, cfg.Speech.Rate, logger)
	cons := console.New(speaker, logger)
	defer cons.Close()
	if cfg.Speech.Enabled {
		cons.EnableVoiceMode()
	}

	launch := launcher.New(logger)
	wikiClient := wiki.NewClient(logger)
	searchSvc := actions.NewSearchService(launch, logger)
	reportWriter := report.NewWriter("", logger)
	reporter := actions.NewTopicReporter(adapter, wikiClient, reportWriter, launch, cons.Deliver, logger)

	history := memory.NewStore(100)

	rt := router.New(router.Deps{
		Chat:     adapter,
		Weather:  actions.NewWeatherService(cfg.Weather.BaseURL, cfg.Weather.WeatherTimeout(), logger),
		Wiki:     wikiClient,
		Search:   searchSvc,
		Joker:    actions.NewJokeTeller(logger),
		Metrics:  sysinfo.Collect,
		Screen:   actions.NewScreenshotter("", logger),
		Camera:   actions.NewCamera(logger),
		Apps:     launch,
		Reporter: reporter,
		Profile:  session,
		Modes:    cons,
		History:  history,
	}, router.Options{
		DefaultCity:   cfg.Assistant.DefaultCity,
		HistoryWindow: cfg.Assistant.HistoryWindow,
	}, logger)
	rt.SetAnnouncer(cons.Deliver)

	// Transcript persistence is best-effort.
	var transcript *memory.Transcript
	if t, err := memory.OpenTranscript(filepath.Join(dataDir, "noah_transcript.db")); err != nil {
		logger.Warn("transcript store unavailable", "error", err)
	} else {
		transcript = t
		defer transcript.Close()
	}
	sessionID := uuid.NewString()

	// Replay the previous session's tail so chat context survives a
	// restart.
	if transcript != nil {
		if v, ok := session.Preference("last_session"); ok {
			if prev, isStr := v.(string); isStr && prev != "" {
				turns, err := transcript.RecentTurns(prev, cfg.Assistant.HistoryWindow)
				if err != nil {
					logger.Warn("transcript replay failed", "error", err)
				}
				for _, turn := range turns {
					history.Append(turn.Role, turn.Content)
				}
			}
		}
		if err := session.SetPreference("last_session", sessionID); err != nil {
			logger.Warn("profile save failed", "error", err)
		}
	}

	stats := &sessionStats{model: cfg.Gemini.Model}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pub *mqtt.Publisher
	if cfg.MQTT.Configured() {
		instanceID, err := mqtt.LoadOrCreateInstanceID(dataDir)
		if err != nil {
			logger.Warn("mqtt disabled", "error", err)
		} else {
			pub = mqtt.New(cfg.MQTT, instanceID, stats, logger)
			go func() {
				if err := pub.Start(runCtx); err != nil {
					logger.Warn("mqtt publisher stopped", "error", err)
				}
			}()
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer stopCancel()
				if err := pub.Stop(stopCtx); err != nil {
					logger.Debug("mqtt stop failed", "error", err)
				}
			}()
		}
	}

	fmt.Fprintf(stdout, "%s\n", buildinfo.String())
	cons.Deliver(fmt.Sprintf("Hello %s! I'm NOAH. Say 'help' for commands or 'exit' to quit.", session.Name()))

	for {
		utterance, err := cons.ReadUtterance()
		if err != nil {
			if errors.Is(err, console.ErrInterrupted) {
				logger.Info("session interrupted")
				return nil
			}
			return err
		}
		if utterance == "" {
			continue
		}

		reply := rt.Handle(runCtx, utterance)
		cons.Deliver(reply.Text)
		stats.record()

		if transcript != nil {
			record := func(role, content string) {
				turn := memory.Turn{
					ID:        uuid.NewString(),
					Role:      role,
					Content:   content,
					Timestamp: time.Now(),
				}
				if err := transcript.Record(sessionID, turn); err != nil {
					logger.Debug("transcript write failed", "error", err)
				}
			}
			record(memory.RoleUser, utterance)
			record(memory.RoleAssistant, reply.Text)
		}

		if reply.Halt {
			return nil
		}
	}
}
