package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/thienthu/internal/glossary"
	"codeberg.org/snonux/thienthu/internal/llm"
)

// Config is the resolved application configuration.
type Config struct {
	Provider        string
	APIKeys         []llm.Credential
	Model           string
	BaseURL         string
	Timeout         time.Duration
	MaxAttempts     int
	BreakerFailures uint32
	BreakerCooldown time.Duration

	DBPath    string
	LogLevel  string
	LogFormat string
	LogFile   string

	OrderOffset int
	WindowChars int
}

func setDefaults() {
	home, _ := os.UserHomeDir()

	viper.SetDefault("llm.provider", "gemini")
	viper.SetDefault("llm.model", llm.DefaultGeminiModel)
	viper.SetDefault("llm.timeout", 120*time.Second)
	viper.SetDefault("llm.max_attempts", 0)
	viper.SetDefault("llm.breaker.failures", 5)
	viper.SetDefault("llm.breaker.cooldown", 60*time.Second)
	viper.SetDefault("db.path", filepath.Join(home, ".local", "state", "thienthu", "thienthu.db"))
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "auto")
	viper.SetDefault("translate.order_offset", 0)
	viper.SetDefault("glossary.window_chars", glossary.DefaultWindowChars)
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".thienthu" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".thienthu")
	}

	// Environment variables, e.g. THIENTHU_LLM_API_KEYS
	viper.SetEnvPrefix("THIENTHU")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// LoadConfig resolves the configuration from viper. API keys are not
// required here: commands that never call the model work without them, and
// the model pool rejects an empty key list.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Provider:        strings.ToLower(strings.TrimSpace(viper.GetString("llm.provider"))),
		Model:           strings.TrimSpace(viper.GetString("llm.model")),
		BaseURL:         viper.GetString("llm.base_url"),
		Timeout:         viper.GetDuration("llm.timeout"),
		MaxAttempts:     viper.GetInt("llm.max_attempts"),
		BreakerFailures: viper.GetUint32("llm.breaker.failures"),
		BreakerCooldown: viper.GetDuration("llm.breaker.cooldown"),
		DBPath:          viper.GetString("db.path"),
		LogLevel:        viper.GetString("log.level"),
		LogFormat:       viper.GetString("log.format"),
		LogFile:         viper.GetString("log.file"),
		OrderOffset:     viper.GetInt("translate.order_offset"),
		WindowChars:     viper.GetInt("glossary.window_chars"),
	}

	switch cfg.Provider {
	case "":
		cfg.Provider = "gemini"
	case "gemini", "openai":
	default:
		return nil, &llm.ConfigError{Field: "llm.provider", Reason: fmt.Sprintf("unsupported provider %q (gemini or openai)", cfg.Provider)}
	}
	if cfg.Model == "" {
		return nil, &llm.ConfigError{Field: "llm.model", Reason: "model name is empty"}
	}
	if cfg.Timeout < 0 {
		return nil, &llm.ConfigError{Field: "llm.timeout", Reason: "must not be negative"}
	}
	if cfg.DBPath == "" {
		return nil, &llm.ConfigError{Field: "db.path", Reason: "database path is empty"}
	}

	cfg.APIKeys = llm.ParseCredentials(viper.GetStringSlice("llm.api_keys")...)
	if len(cfg.APIKeys) == 0 {
		cfg.APIKeys = GetAPIKeys(cfg.Provider)
	}
	return cfg, nil
}

// GetAPIKeys retrieves the API keys for provider from the environment
func GetAPIKeys(provider string) []llm.Credential {
	names := []string{"GOOGLE_API_KEYS", "GOOGLE_API_KEY"}
	if provider == "openai" {
		names = []string{"OPENAI_API_KEYS", "OPENAI_API_KEY"}
	}
	for _, name := range names {
		if keys := llm.ParseCredentials(os.Getenv(name)); len(keys) > 0 {
			return keys
		}
	}
	return nil
}
