// Package config loads the artisanhub configuration from a YAML file and
// ARTISANHUB_* environment variables.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	Environment   string `mapstructure:"environment"`
	DevModeBypass bool   `mapstructure:"dev_mode_bypass"`
	Server        struct {
		Port            int           `mapstructure:"port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
	DB struct {
		Driver   string `mapstructure:"driver"` // postgres or sqlite
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		Path     string `mapstructure:"path"` // sqlite file
	} `mapstructure:"db"`
	Marketplace struct {
		BaseURL      string        `mapstructure:"base_url"`
		Timeout      time.Duration `mapstructure:"timeout"`
		DevToken     string        `mapstructure:"dev_token"`
		ServiceToken string        `mapstructure:"service_token"`
	} `mapstructure:"marketplace"`
	Auth struct {
		Issuer       string        `mapstructure:"issuer"`
		Provider     string        `mapstructure:"provider"`
		ClientID     string        `mapstructure:"client_id"`
		ClientSecret string        `mapstructure:"client_secret"`
		RedirectURL  string        `mapstructure:"redirect_url"`
		SessionTTL   time.Duration `mapstructure:"session_ttl"`
		SecureCookie bool          `mapstructure:"secure_cookie"`
	} `mapstructure:"auth"`
	Workflow struct {
		ConsultationBudget float64       `mapstructure:"consultation_budget"`
		MaxAttachmentBytes int64         `mapstructure:"max_attachment_bytes"`
		SessionMaxAge      time.Duration `mapstructure:"session_max_age"`
	} `mapstructure:"workflow"`
	Listing struct {
		PageSize int `mapstructure:"page_size"`
	} `mapstructure:"listing"`
	TLS struct {
		Enable    bool     `mapstructure:"enable"`
		CertFile  string   `mapstructure:"cert_file"`
		KeyFile   string   `mapstructure:"key_file"`
		Hostnames []string `mapstructure:"hostnames"`
	} `mapstructure:"tls"`
}

// IsDev reports whether the service runs in the DEV environment.
func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Environment, "DEV")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "PROD")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.path", "artisanhub.db")
	v.SetDefault("marketplace.timeout", 30*time.Second)
	v.SetDefault("auth.provider", "Google")
	v.SetDefault("auth.issuer", "https://accounts.google.com")
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)
	v.SetDefault("workflow.consultation_budget", 18000)
	v.SetDefault("workflow.max_attachment_bytes", 5<<20)
	v.SetDefault("workflow.session_max_age", 24*time.Hour)
	v.SetDefault("listing.page_size", 8)
}

// LoadConfig loads the configuration. An explicit path wins over the search
// locations "." and "./config". A missing config file is not an error; the
// defaults and environment still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("ARTISANHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Auth.Issuer = normalizeIssuer(config.Auth.Issuer)
	config.Marketplace.BaseURL = strings.TrimRight(strings.TrimSpace(config.Marketplace.BaseURL), "/")

	return &config, config.validate()
}

func (c *Config) validate() error {
	if c.Marketplace.BaseURL == "" {
		return errors.New("marketplace.base_url is required")
	}
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("db.driver must be postgres or sqlite")
	}
	return nil
}

// normalizeIssuer removes surrounding space and any trailing slash so the
// issuer can be pasted straight from a provider console.
func normalizeIssuer(input string) string {
	return strings.TrimRight(strings.TrimSpace(input), "/")
}
