// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for external calls.
	defaultRequestTimeout = 600 * time.Second
	// defaultChunkMaxChars is the default chunk window size in characters.
	defaultChunkMaxChars = 600
	// defaultTopK is the default number of passages retrieved per question.
	defaultTopK = 5
)

// Config represents the top-level application configuration.
type Config struct {
	Hosts           []Host     `json:"hosts"`
	EmbeddingHost   string     `json:"embeddingHost"`
	EmbeddingModel  string     `json:"embeddingModel"`
	GenerationHost  string     `json:"generationHost"`
	GenerationModel string     `json:"generationModel"`
	ChunkMaxChars   int        `json:"chunkMaxChars,omitempty"`
	TopK            int        `json:"topK,omitempty"`
	TimeoutSeconds  int        `json:"timeout,omitempty"`
	LogFile         string     `json:"logFile,omitempty"`
	Debug           bool       `json:"debug"`
	Parameters      Parameters `json:"parameters"`
	ConfigPath      string     `json:"-"`
}

// Host represents a single host that can serve embedding or generation models.
type Host struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Type      string `json:"type"`
	APIKeyEnv string `json:"apiKeyEnv,omitempty"`
}

// APIKey resolves the host's API key from the configured environment
// variable. Hosts that need no key return an empty string.
func (h Host) APIKey() string {
	if strings.TrimSpace(h.APIKeyEnv) == "" {
		return ""
	}
	return os.Getenv(h.APIKeyEnv)
}

// Parameters defines the sampling parameters applied to generation requests.
// Nil fields fall back to the provider defaults.
type Parameters struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	TopP          *float64 `json:"top_p,omitempty"`
	RepeatPenalty *float64 `json:"repeat_penalty,omitempty"`
	NumPredict    *int     `json:"num_predict,omitempty"`
}

// RequestTimeout returns the timeout duration for external calls, falling
// back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChunkSize returns the configured chunk window size, applying a default if
// not set.
func (c Config) ChunkSize() int {
	if c.ChunkMaxChars <= 0 {
		return defaultChunkMaxChars
	}
	return c.ChunkMaxChars
}

// RetrievalTopK returns the configured top-k, applying a default if not set.
func (c Config) RetrievalTopK() int {
	if c.TopK <= 0 {
		return defaultTopK
	}
	return c.TopK
}

// LogFilePath returns the path to the application log file, applying a
// default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "repochat.log"
}

// HostByName returns the configured host with the given name.
func (c Config) HostByName(name string) (Host, error) {
	for _, host := range c.Hosts {
		if host.Name == name {
			return host, nil
		}
	}
	return Host{}, fmt.Errorf("host %q not found in config hosts", name)
}

// EmbeddingHostConfig resolves the host serving the embedding model.
func (c Config) EmbeddingHostConfig() (Host, error) {
	if strings.TrimSpace(c.EmbeddingHost) == "" {
		return Host{}, errors.New("embeddingHost is required")
	}
	return c.HostByName(c.EmbeddingHost)
}

// GenerationHostConfig resolves the host serving the generation model.
func (c Config) GenerationHostConfig() (Host, error) {
	if strings.TrimSpace(c.GenerationHost) == "" {
		return Host{}, errors.New("generationHost is required")
	}
	return c.HostByName(c.GenerationHost)
}

// Load reads and validates the application configuration from the specified
// path. The raw JSON is checked against the embedded schema before
// unmarshalling so malformed configs fail with field-level messages.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := validateSchema(raw); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(config.Hosts) == 0 {
		return Config{}, errors.New("config must contain at least one host")
	}

	config.ConfigPath = path
	return config, nil
}
