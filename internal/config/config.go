package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"housing-notifier/internal/components/telemetry"
	"housing-notifier/lib/configutil"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

const (
	EnvApiUrl            = "API_URL"
	EnvDiscordWebhookUrl = "DISCORD_WEBHOOK_URL"
)

const defaultRequestTimeout = "30s"

type LocationConfig struct {
	Parent   string   `json:"parent"`
	Children []string `json:"children"`
}

// SearchConfig overrides fields of the default housing search, zero values
// keep the default.
type SearchConfig struct {
	Locations []LocationConfig `json:"locations"`
	// AvailableMaxDate is RFC3339 or YYYY-MM-DD.
	AvailableMaxDate string `json:"available_max_date"`
	// AvailableWithinDays takes precedence over AvailableMaxDate.
	AvailableWithinDays int      `json:"available_within_days"`
	ResidenceCategories []string `json:"residence_categories"`
	Offset              int      `json:"offset"`
	PageSize            int      `json:"page_size"`
	ShowUnavailable     *bool    `json:"show_unavailable"`
	IncludeFilterCounts *bool    `json:"include_filter_counts"`
}

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	To           []string `json:"to"`
	Subject      string   `json:"subject"`
}

type NotifyConfig struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	// Smtp enables the e-mail channel when set.
	Smtp *SmtpConfig `json:"smtp"`
}

type LogConfig struct {
	Json bool `json:"json"`
	// DumpHttp writes raw HTTP exchanges under .dev/resty when verbose.
	DumpHttp bool `json:"dump_http"`
}

type Config struct {
	ApiUrl            string `json:"api_url"`
	DiscordWebhookUrl string `json:"discord_webhook_url"`
	// RequestTimeout applies to each outbound call, a Go duration string.
	RequestTimeout string `json:"request_timeout"`
	// Timezone resolves relative search windows, empty means UTC.
	Timezone string `json:"timezone"`

	Search SearchConfig         `json:"search"`
	Notify NotifyConfig         `json:"notify"`
	Log    LogConfig            `json:"log"`
	Otlp   telemetry.OtlpConfig `json:"otlp"`

	Timeout time.Duration `json:"-"`
}

func defaults() Config {
	return Config{
		RequestTimeout: defaultRequestTimeout,
	}
}

type LoadOptions struct {
	// ConfigPath is a json5 file, a missing file is not an error.
	ConfigPath string
	// EnvFile is a dotenv file, a missing file is not an error.
	EnvFile string
}

// Load builds the configuration in this order, later wins:
// defaults, the json5 config file (+ its .local override), the dotenv file,
// the process environment.
func Load(opts LoadOptions) (Config, error) {
	cfg := defaults()

	if opts.ConfigPath != "" {
		fileCfg, err := configutil.ReadConfig[Config](opts.ConfigPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			err = mergo.Merge(&cfg, fileCfg, mergo.WithOverride)
			if err != nil {
				return Config{}, fmt.Errorf("merge config: %w", err)
			}
		}
	}

	if opts.EnvFile != "" {
		// godotenv never overrides variables that are already set
		err := godotenv.Load(opts.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read env file: %w", err)
		}
	}

	if value := os.Getenv(EnvApiUrl); value != "" {
		cfg.ApiUrl = value
	}
	if value := os.Getenv(EnvDiscordWebhookUrl); value != "" {
		cfg.DiscordWebhookUrl = value
	}

	err := cfg.validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ApiUrl == "" {
		return &ConfigurationError{Key: EnvApiUrl}
	}
	parsed, err := url.Parse(c.ApiUrl)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return &ConfigurationError{Key: EnvApiUrl, Reason: fmt.Sprintf("%q is not an http(s) url", c.ApiUrl)}
	}

	timeout, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || timeout <= 0 {
		return &ConfigurationError{Key: "request_timeout", Reason: fmt.Sprintf("%q is not a positive duration", c.RequestTimeout)}
	}
	c.Timeout = timeout

	if c.Notify.Smtp != nil {
		if c.Notify.Smtp.Server == "" {
			return &ConfigurationError{Key: "notify.smtp.server"}
		}
		if len(c.Notify.Smtp.To) == 0 {
			return &ConfigurationError{Key: "notify.smtp.to"}
		}
		if c.Notify.Smtp.Port == 0 {
			c.Notify.Smtp.Port = 587
		}
	}

	return nil
}
