// Package config loads and validates the application configuration from an
// optional config.yaml plus LEADGEN_-prefixed environment variables.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search       SearchConfig       `yaml:"search" mapstructure:"search"`
	Pacing       PacingConfig       `yaml:"pacing" mapstructure:"pacing"`
	Proxy        ProxyConfig        `yaml:"proxy" mapstructure:"proxy"`
	Browser      BrowserConfig      `yaml:"browser" mapstructure:"browser"`
	ScrapingBee  ScrapingBeeConfig  `yaml:"scrapingbee" mapstructure:"scrapingbee"`
	Hunter       HunterConfig       `yaml:"hunter" mapstructure:"hunter"`
	Clearbit     ClearbitConfig     `yaml:"clearbit" mapstructure:"clearbit"`
	FullContact  FullContactConfig  `yaml:"fullcontact" mapstructure:"fullcontact"`
	MailboxLayer MailboxLayerConfig `yaml:"mailboxlayer" mapstructure:"mailboxlayer"`
	Twilio       TwilioConfig       `yaml:"twilio" mapstructure:"twilio"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// SearchConfig shapes query expansion and result limits.
type SearchConfig struct {
	ExpansionDepth int      `yaml:"expansion_depth" mapstructure:"expansion_depth"`
	MaxResults     int      `yaml:"max_results" mapstructure:"max_results"`
	Language       string   `yaml:"language" mapstructure:"language"`
	Region         string   `yaml:"region" mapstructure:"region"`
	Sources        []string `yaml:"sources" mapstructure:"sources"`
	CacheSize      int      `yaml:"cache_size" mapstructure:"cache_size"`
}

// PacingConfig controls the per-request delay window and the LinkedIn
// request budget.
type PacingConfig struct {
	DelayMinSecs float64 `yaml:"delay_min_secs" mapstructure:"delay_min_secs"`
	DelayMaxSecs float64 `yaml:"delay_max_secs" mapstructure:"delay_max_secs"`
	LinkedInRPM  int     `yaml:"linkedin_rpm" mapstructure:"linkedin_rpm"`
}

// ProxyConfig lists proxies for rotation.
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled" mapstructure:"enabled"`
	List    []string `yaml:"list" mapstructure:"list"`
}

// BrowserConfig controls the headless browser fallback.
type BrowserConfig struct {
	Headless    bool `yaml:"headless" mapstructure:"headless"`
	TimeoutSecs int  `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScrapingBeeConfig holds the bypass-API key.
type ScrapingBeeConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// HunterConfig holds the email-finder API key.
type HunterConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// ClearbitConfig holds the company-data API key.
type ClearbitConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// FullContactConfig holds the social-lookup API key.
type FullContactConfig struct {
	Key string `yaml:"key" mapstructure:"key"`
}

// MailboxLayerConfig holds the email-verifier key and its gate.
type MailboxLayerConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	VerifyEmails bool   `yaml:"verify_emails" mapstructure:"verify_emails"`
}

// TwilioConfig holds the phone-validator credentials.
type TwilioConfig struct {
	AccountSID string `yaml:"account_sid" mapstructure:"account_sid"`
	AuthToken  string `yaml:"auth_token" mapstructure:"auth_token"`
}

// StoreConfig configures run history persistence.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// OutputConfig configures the lead artifact directory.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml (optional) and the environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.expansion_depth", 3)
	v.SetDefault("search.max_results", 100)
	v.SetDefault("search.language", "english")
	v.SetDefault("search.region", "all")
	v.SetDefault("search.sources", []string{"linkedin", "google", "baidu"})
	v.SetDefault("search.cache_size", 64)
	v.SetDefault("pacing.delay_min_secs", 0.5)
	v.SetDefault("pacing.delay_max_secs", 2.5)
	v.SetDefault("pacing.linkedin_rpm", 5)
	v.SetDefault("proxy.enabled", false)
	v.SetDefault("proxy.list", []string{})
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout_secs", 30)
	// Empty key defaults so environment overrides bind without a config file.
	v.SetDefault("scrapingbee.key", "")
	v.SetDefault("hunter.key", "")
	v.SetDefault("clearbit.key", "")
	v.SetDefault("fullcontact.key", "")
	v.SetDefault("mailboxlayer.key", "")
	v.SetDefault("mailboxlayer.verify_emails", false)
	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("store.path", "leadgen.db")
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ErrorKind classifies configuration failures. All are fatal at startup.
type ErrorKind string

const (
	KindInvalidRange         ErrorKind = "invalid_range"
	KindMissingRequiredProxy ErrorKind = "missing_required_proxy"
	KindInvalidKey           ErrorKind = "invalid_key"
)

// Error is a typed configuration failure.
type Error struct {
	Kind  ErrorKind
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s (%s)", e.Field, e.Msg, e.Kind)
}

// DelayFloorSecs is the minimum allowed inter-request delay.
const DelayFloorSecs = 0.3

var (
	scrapingBeeKeyRe = regexp.MustCompile(`^[a-zA-Z0-9]{40,}$`)
	hunterKeyRe      = regexp.MustCompile(`^[a-f0-9]{32}$`)
	clearbitKeyRe    = regexp.MustCompile(`^sk_[a-zA-Z0-9]{32}$`)
)

// Validate checks ranges and key formats. The first failure is returned;
// a failing config must not start a run.
func (c *Config) Validate() error {
	if c.Search.ExpansionDepth <= 0 {
		return &Error{Kind: KindInvalidRange, Field: "search.expansion_depth", Msg: "must be positive"}
	}
	if c.Search.MaxResults <= 0 || c.Search.MaxResults > 1000 {
		return &Error{Kind: KindInvalidRange, Field: "search.max_results", Msg: "must be in (0, 1000]"}
	}
	if c.Pacing.DelayMinSecs < DelayFloorSecs {
		return &Error{Kind: KindInvalidRange, Field: "pacing.delay_min_secs",
			Msg: fmt.Sprintf("below floor of %.1fs", DelayFloorSecs)}
	}
	if c.Pacing.DelayMaxSecs < c.Pacing.DelayMinSecs {
		return &Error{Kind: KindInvalidRange, Field: "pacing.delay_max_secs", Msg: "less than delay_min_secs"}
	}
	if c.Pacing.LinkedInRPM <= 0 {
		return &Error{Kind: KindInvalidRange, Field: "pacing.linkedin_rpm", Msg: "must be positive"}
	}
	if c.Proxy.Enabled && len(c.Proxy.List) == 0 {
		return &Error{Kind: KindMissingRequiredProxy, Field: "proxy.list", Msg: "proxy rotation enabled with no proxies"}
	}
	if c.ScrapingBee.Key != "" && !scrapingBeeKeyRe.MatchString(c.ScrapingBee.Key) {
		return &Error{Kind: KindInvalidKey, Field: "scrapingbee.key", Msg: "malformed API key"}
	}
	if c.Hunter.Key != "" && !hunterKeyRe.MatchString(c.Hunter.Key) {
		return &Error{Kind: KindInvalidKey, Field: "hunter.key", Msg: "malformed API key"}
	}
	if c.Clearbit.Key != "" && !clearbitKeyRe.MatchString(c.Clearbit.Key) {
		return &Error{Kind: KindInvalidKey, Field: "clearbit.key", Msg: "malformed API key"}
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
