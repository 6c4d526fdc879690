package conf

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/zendesk-mcp/zendesk-mcp-go/internal/biz/usecase"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/infra/zendesk"
	"github.com/zendesk-mcp/zendesk-mcp-go/internal/logger"
)

// EnvPrefix prefixes every environment variable, e.g. ZENDESK_API_KEY
const EnvPrefix = "ZENDESK"

// Config represents application configuration
type Config struct {
	// Zendesk API access
	Zendesk ZendeskConfig

	// Knowledge-base cache lifetimes
	Cache CacheConfig

	// Attachment download limits
	Attachments AttachmentsConfig

	// Logging
	Log logger.Config

	// Locale used when a tool call names none
	DefaultLocale string

	// Prompts configuration (loaded from YAML)
	PromptsPath string
	Prompts     *PromptsConfig
}

// ZendeskConfig contains Zendesk API configuration
type ZendeskConfig struct {
	Subdomain string
	Email     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
}

// CacheConfig contains cache TTLs
type CacheConfig struct {
	SectionsTTL time.Duration
	ArticleTTL  time.Duration
	SearchTTL   time.Duration
}

// AttachmentsConfig contains attachment configuration
type AttachmentsConfig struct {
	MaxBytes int64
}

// LoadOptions selects where configuration is read from
type LoadOptions struct {
	// ConfigFile is an explicit YAML file; empty searches the default locations
	ConfigFile string
	// EnvFile is a dotenv file; empty means ".env" when present
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("subdomain", "")
	v.SetDefault("email", "")
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("timeout", "30s")
	v.SetDefault("default_locale", "en-us")

	v.SetDefault("cache.sections_ttl", "2h")
	v.SetDefault("cache.article_ttl", "1h")
	v.SetDefault("cache.search_ttl", "15m")

	v.SetDefault("attachments.max_bytes", usecase.DefaultAttachmentMaxBytes)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("prompts_path", "")
}

// Load reads configuration from an optional YAML file, a dotenv file and the environment.
// Environment variables win over the file.
func Load(opts LoadOptions) (*Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("zendesk-mcp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Zendesk: ZendeskConfig{
			Subdomain: strings.TrimSpace(v.GetString("subdomain")),
			Email:     strings.TrimSpace(v.GetString("email")),
			APIKey:    strings.TrimSpace(v.GetString("api_key")),
			BaseURL:   strings.TrimSpace(v.GetString("base_url")),
			Timeout:   durationOrSeconds(v, "timeout"),
		},
		Cache: CacheConfig{
			SectionsTTL: durationOrSeconds(v, "cache.sections_ttl"),
			ArticleTTL:  durationOrSeconds(v, "cache.article_ttl"),
			SearchTTL:   durationOrSeconds(v, "cache.search_ttl"),
		},
		Attachments: AttachmentsConfig{
			MaxBytes: v.GetInt64("attachments.max_bytes"),
		},
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		DefaultLocale: strings.ToLower(strings.TrimSpace(v.GetString("default_locale"))),
		PromptsPath:   v.GetString("prompts_path"),
	}

	prompts, err := LoadPromptsConfig(cfg.PromptsPath)
	if err != nil {
		return nil, err
	}
	cfg.Prompts = prompts

	return cfg, nil
}

// loadEnvFile loads a dotenv file without overriding variables already set
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// durationOrSeconds accepts "90s"/"2h" as well as a bare number of seconds
func durationOrSeconds(v *viper.Viper, key string) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return time.Duration(v.GetInt64(key)) * time.Second
}

// ToZendeskConfig converts to the HTTP client configuration
func (c *Config) ToZendeskConfig() zendesk.Config {
	return zendesk.Config{
		Subdomain:        c.Zendesk.Subdomain,
		Email:            c.Zendesk.Email,
		APIKey:           c.Zendesk.APIKey,
		BaseURL:          c.Zendesk.BaseURL,
		Timeout:          c.Zendesk.Timeout,
		MaxDownloadBytes: c.Attachments.MaxBytes,
	}
}

// ToKnowledgeConfig converts to knowledge-base cache configuration
func (c *Config) ToKnowledgeConfig() usecase.KnowledgeConfig {
	return usecase.KnowledgeConfig{
		SectionsTTL: c.Cache.SectionsTTL,
		ArticleTTL:  c.Cache.ArticleTTL,
		SearchTTL:   c.Cache.SearchTTL,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Zendesk.Subdomain == "" && c.Zendesk.BaseURL == "" {
		return &ConfigError{Field: "ZENDESK_SUBDOMAIN", Message: "required"}
	}
	if c.Zendesk.Email == "" {
		return &ConfigError{Field: "ZENDESK_EMAIL", Message: "required"}
	}
	if c.Zendesk.APIKey == "" {
		return &ConfigError{Field: "ZENDESK_API_KEY", Message: "required"}
	}
	if c.Zendesk.Timeout <= 0 {
		return &ConfigError{Field: "ZENDESK_TIMEOUT", Message: "must be positive"}
	}
	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return &ConfigError{Field: "ZENDESK_DEFAULT_LOCALE", Message: fmt.Sprintf("invalid locale %q", c.DefaultLocale)}
	}
	for field, ttl := range map[string]time.Duration{
		"ZENDESK_CACHE_SECTIONS_TTL": c.Cache.SectionsTTL,
		"ZENDESK_CACHE_ARTICLE_TTL":  c.Cache.ArticleTTL,
		"ZENDESK_CACHE_SEARCH_TTL":   c.Cache.SearchTTL,
	} {
		if ttl <= 0 {
			return &ConfigError{Field: field, Message: "must be positive"}
		}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
