// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"saikumar/sms-ledger/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. SMSLEDGER_LOG_LEVEL.
const EnvPrefix = "SMSLEDGER"

// LogConfig controls logger level and output format.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StoreConfig locates the transaction database.
type StoreConfig struct {
	Database string `mapstructure:"database" yaml:"database"`
}

// PatternsConfig locates the user-editable pattern files.
type PatternsConfig struct {
	CategoriesFile   string `mapstructure:"categories_file" yaml:"categories_file"`
	MerchantFile     string `mapstructure:"merchant_file" yaml:"merchant_file"`
	SalaryPayersFile string `mapstructure:"salary_payers_file" yaml:"salary_payers_file"`
}

// IngestConfig bounds extraction.
type IngestConfig struct {
	MaxAmountRupees int64 `mapstructure:"max_amount_rupees" yaml:"max_amount_rupees"`
	SnippetLength   int   `mapstructure:"snippet_length" yaml:"snippet_length"`
}

// PairingConfig sets the self-transfer window.
type PairingConfig struct {
	MaxMinutesApart int `mapstructure:"max_minutes_apart" yaml:"max_minutes_apart"`
}

// ScoringConfig controls the optional category suggestions.
type ScoringConfig struct {
	Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
	MinSamples     int     `mapstructure:"min_samples" yaml:"min_samples"`
	MinProbability float64 `mapstructure:"min_probability" yaml:"min_probability"`
}

// ExportConfig controls CSV output.
type ExportConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Patterns PatternsConfig `mapstructure:"patterns" yaml:"patterns"`
	Ingest   IngestConfig   `mapstructure:"ingest" yaml:"ingest"`
	Pairing  PairingConfig  `mapstructure:"pairing" yaml:"pairing"`
	Scoring  ScoringConfig  `mapstructure:"scoring" yaml:"scoring"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export"`
}

// MaxAmountMinor returns the extraction ceiling in paise.
func (c *Config) MaxAmountMinor() int64 {
	return c.Ingest.MaxAmountRupees * 100
}

// DelimiterRune returns the export delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.Export.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// A non-empty configFile is read instead of searching the default locations
// and must exist.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.sms-ledger")
		v.AddConfigPath(".sms-ledger")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case configFile != "":
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		case !errors.As(err, &notFound):
			fmt.Fprintf(os.Stderr, "Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("store.database", "sms-ledger.db")

	v.SetDefault("patterns.categories_file", "categories.yaml")
	v.SetDefault("patterns.merchant_file", "merchant_patterns.yaml")
	v.SetDefault("patterns.salary_payers_file", "salary_payers.yaml")

	v.SetDefault("ingest.max_amount_rupees", 10_000_000)
	v.SetDefault("ingest.snippet_length", 120)

	v.SetDefault("pairing.max_minutes_apart", 5)

	v.SetDefault("scoring.enabled", false)
	v.SetDefault("scoring.min_samples", 20)
	v.SetDefault("scoring.min_probability", 0.6)

	v.SetDefault("export.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Store.Database) == "" {
		return errors.New("store.database must not be empty")
	}

	if config.Ingest.MaxAmountRupees < 1 {
		return fmt.Errorf("ingest.max_amount_rupees must be positive, got: %d", config.Ingest.MaxAmountRupees)
	}

	if config.Ingest.SnippetLength < 10 || config.Ingest.SnippetLength > 1000 {
		return fmt.Errorf("ingest.snippet_length must be between 10 and 1000, got: %d", config.Ingest.SnippetLength)
	}

	if config.Pairing.MaxMinutesApart < 0 || config.Pairing.MaxMinutesApart > 24*60 {
		return fmt.Errorf("pairing.max_minutes_apart must be between 0 and 1440, got: %d", config.Pairing.MaxMinutesApart)
	}

	if config.Scoring.Enabled && config.Scoring.MinSamples < 1 {
		return fmt.Errorf("scoring.min_samples must be positive when scoring is enabled, got: %d", config.Scoring.MinSamples)
	}

	if config.Scoring.MinProbability < 0.0 || config.Scoring.MinProbability > 1.0 {
		return fmt.Errorf("scoring.min_probability must be between 0.0 and 1.0, got: %f", config.Scoring.MinProbability)
	}

	if len([]rune(config.Export.Delimiter)) != 1 {
		return fmt.Errorf("export delimiter must be a single character, got: %s", config.Export.Delimiter)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	return logging.NewLogrusLogger(config.Log.Level, config.Log.Format, nil)
}
