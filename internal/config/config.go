// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds application-wide configuration populated from environment
// variables. It is read once at startup and passed to constructors.
type Config struct {
	Host string
	Port string

	AIProvider   string
	GoogleAPIKey string
	OpenAIAPIKey string
	TextModel    string // empty: provider default
	SpeechModel  string // empty: provider default
	Voice        string // empty: provider default
	AITimeout    time.Duration

	ChromePath         string
	ChromeNoSandbox    bool
	ChromeAutoDownload bool
	RenderTimeout      time.Duration

	MaxUploadBytes int
	CORSOrigins    string

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file from the working directory, then the
// environment, and returns Config with defaults applied.
func Load() (*Config, error) {
	// A missing .env is not an error; real deployments use the environment.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnv("PORT", "5000"),
		AIProvider:      strings.ToLower(getEnv("AI_PROVIDER", ProviderGemini)),
		GoogleAPIKey:    getEnv("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		TextModel:       os.Getenv("AI_TEXT_MODEL"),
		SpeechModel:     os.Getenv("AI_SPEECH_MODEL"),
		Voice:           os.Getenv("AI_VOICE"),
		ChromePath:      os.Getenv("CHROME_PATH"),
		ChromeNoSandbox: getEnvBool("CHROME_NO_SANDBOX", false),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}
	cfg.ChromeAutoDownload = getEnvBool("CHROME_AUTO_DOWNLOAD", false)

	var err error
	if cfg.AITimeout, err = getEnvDuration("AI_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.RenderTimeout, err = getEnvDuration("RENDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	mb, err := getEnvInt("MAX_UPLOAD_MB", 32)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = mb * 1024 * 1024

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AIProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("config: unknown AI_PROVIDER %q (want %q or %q)", c.AIProvider, ProviderGemini, ProviderOpenAI)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// APIKey returns the credential of the selected AI provider; empty when
// none is configured.
func (c *Config) APIKey() string {
	if c.AIProvider == ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GoogleAPIKey
}

// ProviderLabel names the selected provider in caller-facing messages.
func (c *Config) ProviderLabel() string {
	if c.AIProvider == ProviderOpenAI {
		return "OpenAI"
	}
	return "Google AI"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		switch strings.ToLower(v) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		}
		return def
	}
	return b
}

func getEnvInt(key string, def int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
