package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything needed to reach the Todoable API.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
	Poll     time.Duration
	LogFile  string
	LogLevel string
}

const (
	defaultConfigPath = "~/.config/todoable/config.toml"
	defaultBaseURL    = "https://todoable.teachable.tech/api"
	defaultLogFile    = "~/.local/state/todoable/todoable.log"
	defaultLogLevel   = "info"
	defaultTimeout    = 10 * time.Second
	defaultPoll       = 15 * time.Second

	envUsername = "TODOABLE_USERNAME"
	envPassword = "TODOABLE_PASSWORD"
	envBaseURL  = "TODOABLE_BASE_URL"
)

// Load locates and parses the config, falling back to defaults when the file
// is missing. Environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:  defaultBaseURL,
		Timeout:  defaultTimeout,
		Poll:     defaultPoll,
		LogFile:  mustExpand(defaultLogFile),
		LogLevel: defaultLogLevel,
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL        string `toml:"base_url"`
		Username       string `toml:"username"`
		Password       string `toml:"password"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		PollSeconds    int    `toml:"poll_seconds"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	cfg.Username = strings.TrimSpace(raw.Username)
	cfg.Password = raw.Password
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if raw.PollSeconds > 0 {
		cfg.Poll = time.Duration(raw.PollSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Validate reports missing credentials.
func (c Config) Validate() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "username ("+envUsername+")")
	}
	if c.Password == "" {
		missing = append(missing, "password ("+envPassword+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envUsername)); v != "" {
		cfg.Username = v
	}
	if v := os.Getenv(envPassword); v != "" {
		cfg.Password = v
	}
	if v := strings.TrimSpace(os.Getenv(envBaseURL)); v != "" {
		cfg.BaseURL = v
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
