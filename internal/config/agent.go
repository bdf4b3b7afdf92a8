package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Agent holds the focus-agent configuration, loaded from a YAML file
// with environment overrides for the secrets-adjacent fields.
type Agent struct {
	// ServerURL is the Waddl backend base URL.
	ServerURL string `yaml:"server_url"`

	// PerceptionURL is the local CV service base URL.
	PerceptionURL string `yaml:"perception_url"`

	// UserID identifies whose session the agent reports against.
	UserID string `yaml:"user_id"`

	// URLFeed is a file the browser extension keeps current with the
	// active tab URL (first line wins). Empty disables URL checking.
	URLFeed string `yaml:"url_feed"`

	PollInterval      time.Duration `yaml:"poll_interval"`
	PerceptionTimeout time.Duration `yaml:"perception_timeout"`
	ReportTimeout     time.Duration `yaml:"report_timeout"`
	URLCheckCooldown  time.Duration `yaml:"url_check_cooldown"`
}

func DefaultAgent() Agent {
	return Agent{
		ServerURL:         "http://localhost:8080",
		PerceptionURL:     "http://localhost:5001",
		PollInterval:      300 * time.Millisecond,
		PerceptionTimeout: 250 * time.Millisecond,
		ReportTimeout:     5 * time.Second,
		URLCheckCooldown:  5 * time.Second,
	}
}

// LoadAgent reads path when it exists and applies env overrides. A
// missing file is not an error; defaults are used.
func LoadAgent(path string) (Agent, error) {
	cfg := DefaultAgent()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Agent{}, fmt.Errorf("read agent config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Agent{}, fmt.Errorf("parse agent config: %w", err)
		}
	}

	cfg.ServerURL = EnvOrDefault("WADDL_SERVER_URL", cfg.ServerURL)
	cfg.PerceptionURL = EnvOrDefault("WADDL_PERCEPTION_URL", cfg.PerceptionURL)
	cfg.UserID = EnvOrDefault("WADDL_USER_ID", cfg.UserID)
	cfg.URLFeed = EnvOrDefault("WADDL_URL_FEED", cfg.URLFeed)
	cfg.PollInterval = EnvDuration("WADDL_POLL_INTERVAL", cfg.PollInterval)
	cfg.URLCheckCooldown = EnvDuration("WADDL_URL_CHECK_COOLDOWN", cfg.URLCheckCooldown)

	return cfg, cfg.Validate()
}

func (c Agent) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	if c.PerceptionURL == "" {
		return fmt.Errorf("perception_url is required")
	}
	if c.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	return nil
}
