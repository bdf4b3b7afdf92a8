// Package agent runs the focus-agent poll loop: it samples the local
// perception service, steps the pet state machine, publishes visual
// updates, and reports significant events to the backend.
package agent

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/bus"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/config"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/perception"
	"github.com/ArslanKamchybekov/wildhacks-sub000/internal/petstate"
)

type Agent struct {
	cfg        config.Agent
	perception *perception.Client
	backend    *Backend
	machine    *petstate.Machine
	bus        *bus.Bus
	logger     *zap.Logger

	mu          sync.Mutex
	lastChecked map[string]time.Time
}

func New(cfg config.Agent, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Agent{
		cfg:         cfg,
		perception:  perception.NewClient(cfg.PerceptionURL, cfg.PerceptionTimeout),
		backend:     NewBackend(cfg.ServerURL, cfg.UserID, cfg.ReportTimeout),
		machine:     petstate.NewMachine(petstate.Config{}),
		bus:         bus.New(),
		logger:      logger,
		lastChecked: make(map[string]time.Time),
	}
}

// Bus exposes the update channel hub so UI consumers can subscribe.
func (a *Agent) Bus() *bus.Bus {
	return a.bus
}

// Run polls until ctx is cancelled. The loop is single-goroutine and
// non-reentrant; a slow cycle delays the next tick rather than
// overlapping it.
func (a *Agent) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()
	defer a.bus.Close()

	a.logger.Info("agent started",
		zap.String("perception_url", a.cfg.PerceptionURL),
		zap.String("server_url", a.cfg.ServerURL),
		zap.Duration("poll_interval", a.cfg.PollInterval),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.pollOnce(ctx)
		}
	}
}

// pollOnce runs one cycle. A perception failure skips the cycle with no
// state change.
func (a *Agent) pollOnce(ctx context.Context) {
	now := time.Now()
	sample, err := a.perception.State(ctx)
	if err != nil {
		a.logger.Debug("perception unreachable, skipping cycle", zap.Error(err))
		return
	}

	result := a.machine.Step(sample, now)
	a.bus.Publish(bus.Update{
		Gif:      result.Gif,
		Health:   result.Health,
		Dead:     result.Dead,
		Died:     result.Died,
		Observed: now,
	})

	tabURL := a.currentTabURL()
	if significant(sample) {
		roast, err := a.backend.ReportEvent(ctx, sample, tabURL, now)
		if err != nil {
			a.logger.Warn("event report failed", zap.Error(err))
		} else if roast != "" {
			a.logger.Info("roast received", zap.String("roast", roast))
		}
	}

	if tabURL != "" {
		if productive, message, err := a.ObserveURL(ctx, tabURL); err == nil && !productive {
			a.logger.Info("tab flagged as unproductive",
				zap.String("url", tabURL),
				zap.String("message", message),
			)
		}
	}

	// The machine reports the death transition exactly once, which makes
	// the capture call one-shot per process.
	if result.Died {
		if err := a.backend.CaptureBet(ctx); err != nil {
			a.logger.Warn("capture bet failed", zap.Error(err))
		} else {
			a.logger.Info("pet died, bet captured")
		}
	}
}

// significant mirrors the server's precedence rules so quiet samples
// are not reported at all.
func significant(sample petstate.Sample) bool {
	if sample.Focus != "" && sample.Focus != "focused" {
		return true
	}
	if sample.Wave != "" && sample.Wave != "not_detected" {
		return true
	}
	if sample.ThumbsUp != "" && sample.ThumbsUp != "not_detected" {
		return true
	}
	return sample.Emotion != "" && sample.Emotion != "neutral"
}

// currentTabURL reads the active tab URL from the configured feed
// file. The file is best effort; unreadable or empty means no URL.
func (a *Agent) currentTabURL() string {
	if a.cfg.URLFeed == "" {
		return ""
	}
	raw, err := os.ReadFile(a.cfg.URLFeed)
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(raw), "\n")
	return strings.TrimSpace(line)
}

// ObserveURL reports a visited URL, applying a per-URL cooldown so the
// same tab does not hammer the classifier.
func (a *Agent) ObserveURL(ctx context.Context, url string) (bool, string, error) {
	if url == "" {
		return true, "", nil
	}
	now := time.Now()
	a.mu.Lock()
	last, seen := a.lastChecked[url]
	if seen && now.Sub(last) < a.cfg.URLCheckCooldown {
		a.mu.Unlock()
		return true, "", nil
	}
	a.lastChecked[url] = now
	a.mu.Unlock()

	productive, message, err := a.backend.CheckURL(ctx, url)
	if err != nil {
		a.logger.Warn("url check failed", zap.String("url", url), zap.Error(err))
		return true, "", err
	}
	return productive, message, nil
}
