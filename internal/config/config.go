package config

import (
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	SettingsFile   string   `mapstructure:"SETTINGS_FILE"`
	AssetsDir      string   `mapstructure:"ASSETS_DIR"`
	SignatureAsset string   `mapstructure:"SIGNATURE_ASSET"`
	BodyLimit      string   `mapstructure:"BODY_LIMIT"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
}

var assetNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("SETTINGS_FILE", "settings.json")
	v.SetDefault("ASSETS_DIR", "static")
	v.SetDefault("SIGNATURE_ASSET", "signature.png")
	v.SetDefault("BODY_LIMIT", "2M")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "CORS_ORIGINS",
		"SETTINGS_FILE", "ASSETS_DIR", "SIGNATURE_ASSET", "BODY_LIMIT",
		"REQUEST_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		_ = v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: running in DEVELOPMENT mode (ENV=development).")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is usable before the server starts.
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "test", "production":
	default:
		return fmt.Errorf("ENV must be \"development\", \"test\", or \"production\", got %q", c.Env)
	}
	if c.SettingsFile == "" {
		return fmt.Errorf("SETTINGS_FILE must not be empty")
	}
	switch strings.ToLower(filepath.Ext(c.SettingsFile)) {
	case ".json", ".yaml", ".yml", ".toml":
	default:
		return fmt.Errorf("SETTINGS_FILE %q must end in .json, .yaml, .yml or .toml", c.SettingsFile)
	}
	if c.AssetsDir == "" {
		return fmt.Errorf("ASSETS_DIR must not be empty")
	}
	if !assetNamePattern.MatchString(c.SignatureAsset) {
		return fmt.Errorf("SIGNATURE_ASSET %q is not a valid asset name", c.SignatureAsset)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %s", c.RequestTimeout)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when RATE_LIMIT_RPS is set")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}
