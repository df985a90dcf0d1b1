package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "data/replyguy.db", cfg.DatabasePath)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, ProviderClaude, cfg.AnalyzerProvider)
		assert.Equal(t, 5*time.Minute, cfg.PatternCacheTTL)
		assert.Equal(t, time.Hour, cfg.AnalyzeInterval)
		assert.Equal(t, 0.3, cfg.VariationIntensity)
		assert.Equal(t, 5, cfg.AnalyzeMinReports)
		assert.Empty(t, cfg.TemplatesFile)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("DATABASE_PATH", "/custom/path.db")
		os.Setenv("ANALYZER_PROVIDER", "OpenAI")
		os.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
		os.Setenv("PATTERN_CACHE_TTL", "30s")
		os.Setenv("VARIATION_INTENSITY", "0")
		os.Setenv("ANALYZE_MIN_REPORTS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/custom/path.db", cfg.DatabasePath)
		assert.Equal(t, ProviderOpenAI, cfg.AnalyzerProvider)
		assert.Equal(t, "http://localhost:1234/v1", cfg.OpenAIBaseURL)
		assert.Equal(t, 30*time.Second, cfg.PatternCacheTTL)
		assert.Equal(t, 0.0, cfg.VariationIntensity)
		assert.Equal(t, 10, cfg.AnalyzeMinReports)
	})

	t.Run("invalid duration", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("ANALYZE_INTERVAL", "invalid")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ANALYZE_INTERVAL")
	})

	t.Run("invalid float", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("VARIATION_INTENSITY", "lots")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "VARIATION_INTENSITY")
	})

	t.Run("invalid integer", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("ANALYZE_MIN_REPORTS", "notanumber")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ANALYZE_MIN_REPORTS")
	})

	t.Run("dotenv file", func(t *testing.T) {
		os.Clearenv()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
			[]byte("DATABASE_PATH=/from/dotenv.db\nANALYZE_MIN_REPORTS=9\n"), 0o644))
		t.Chdir(dir)
		os.Setenv("ANALYZE_MIN_REPORTS", "3")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "/from/dotenv.db", cfg.DatabasePath)
		assert.Equal(t, 3, cfg.AnalyzeMinReports)
	})
}

func validConfig() *Config {
	return &Config{
		DatabasePath:      "test.db",
		PatternCacheTTL:   time.Minute,
		AnalyzeInterval:   time.Hour,
		AnalyzeMinReports: 5,
		LogLevel:          "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing database path", func(t *testing.T) {
		cfg := validConfig()
		cfg.DatabasePath = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_PATH")
	})

	t.Run("intensity out of range", func(t *testing.T) {
		cfg := validConfig()
		cfg.VariationIntensity = 1.5
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "VARIATION_INTENSITY")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.LogLevel = "loud"
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "LOG_LEVEL")
	})
}

func TestConfig_ValidateForAnalysis(t *testing.T) {
	t.Run("claude", func(t *testing.T) {
		cfg := validConfig()
		cfg.AnalyzerProvider = ProviderClaude
		cfg.AnthropicAPIKey = "sk-test"
		assert.NoError(t, cfg.ValidateForAnalysis())
		assert.True(t, cfg.AnalysisEnabled())
	})

	t.Run("missing anthropic key", func(t *testing.T) {
		cfg := validConfig()
		cfg.AnalyzerProvider = ProviderClaude
		err := cfg.ValidateForAnalysis()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
		assert.False(t, cfg.AnalysisEnabled())
	})

	t.Run("openai base url only", func(t *testing.T) {
		cfg := validConfig()
		cfg.AnalyzerProvider = ProviderOpenAI
		cfg.OpenAIBaseURL = "http://localhost:1234/v1"
		assert.NoError(t, cfg.ValidateForAnalysis())
	})

	t.Run("openai without key or url", func(t *testing.T) {
		cfg := validConfig()
		cfg.AnalyzerProvider = ProviderOpenAI
		err := cfg.ValidateForAnalysis()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := validConfig()
		cfg.AnalyzerProvider = "gemini"
		err := cfg.ValidateForAnalysis()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ANALYZER_PROVIDER")
	})
}

func TestConfig_ValidateForServe(t *testing.T) {
	assert.NoError(t, validConfig().ValidateForServe())

	cfg := validConfig()
	cfg.AnalyzeInterval = 0
	err := cfg.ValidateForServe()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYZE_INTERVAL")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
