package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Analyzer providers.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Templates
	TemplatesFile string // optional YAML override of the embedded template table

	// Humanizer
	PatternCacheTTL    time.Duration
	VariationIntensity float64

	// Phrase analysis
	AnalyzerProvider  string // "claude" or "openai"
	AnthropicAPIKey   string
	AnthropicModel    string
	AnthropicBaseURL  string
	OpenAIAPIKey      string
	OpenAIBaseURL     string // any OpenAI-compatible endpoint
	OpenAIModel       string
	AnalyzeInterval   time.Duration
	AnalyzeMinReports int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It loads a .env file from the working directory first if one exists.
// Variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:     getEnv("DATABASE_PATH", "data/replyguy.db"),
		TemplatesFile:    getEnv("TEMPLATES_FILE", ""),
		AnalyzerProvider: strings.ToLower(getEnv("ANALYZER_PROVIDER", ProviderClaude)),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", ""),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.PatternCacheTTL, err = time.ParseDuration(getEnv("PATTERN_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PATTERN_CACHE_TTL: %w", err)
	}

	cfg.AnalyzeInterval, err = time.ParseDuration(getEnv("ANALYZE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYZE_INTERVAL: %w", err)
	}

	cfg.VariationIntensity, err = strconv.ParseFloat(getEnv("VARIATION_INTENSITY", "0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid VARIATION_INTENSITY: %w", err)
	}

	cfg.AnalyzeMinReports, err = strconv.Atoi(getEnv("ANALYZE_MIN_REPORTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYZE_MIN_REPORTS: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings every command relies on.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.PatternCacheTTL <= 0 {
		return fmt.Errorf("PATTERN_CACHE_TTL must be positive")
	}
	if c.VariationIntensity < 0 || c.VariationIntensity > 1 {
		return fmt.Errorf("VARIATION_INTENSITY must be between 0 and 1, got %v", c.VariationIntensity)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ValidateForAnalysis checks configuration needed to review reported phrases
// with an LLM.
func (c *Config) ValidateForAnalysis() error {
	if err := c.Validate(); err != nil {
		return err
	}
	switch c.AnalyzerProvider {
	case ProviderClaude:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when ANALYZER_PROVIDER is claude")
		}
	case ProviderOpenAI:
		// local OpenAI-compatible servers accept any key
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY or OPENAI_BASE_URL is required when ANALYZER_PROVIDER is openai")
		}
	default:
		return fmt.Errorf("invalid ANALYZER_PROVIDER: %s (must be 'claude' or 'openai')", c.AnalyzerProvider)
	}
	if c.AnalyzeMinReports < 1 {
		return fmt.Errorf("ANALYZE_MIN_REPORTS must be at least 1")
	}
	return nil
}

// ValidateForServe checks configuration needed by the daemon. Analysis is
// optional there, so only the interval is checked.
func (c *Config) ValidateForServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AnalyzeInterval <= 0 {
		return fmt.Errorf("ANALYZE_INTERVAL must be positive")
	}
	return nil
}

// AnalysisEnabled reports whether ValidateForAnalysis would pass.
func (c *Config) AnalysisEnabled() bool {
	return c.ValidateForAnalysis() == nil
}

// ParseLogLevel maps a LOG_LEVEL value to a slog level.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL: %s (must be debug, info, warn or error)", s)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
