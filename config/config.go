// Package config holds the environment driven configuration for the wallet
// provider and its supporting components.
package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
)

type contextKey string

func (c contextKey) String() string {
	return "promptwallet/config/" + string(c)
}

const ctxKeyConfiguration = contextKey("configurationKey")

// ToContext adds service configuration to the current supplied context.
func ToContext(ctx context.Context, config any) context.Context {
	return context.WithValue(ctx, ctxKeyConfiguration, config)
}

// FromContext extracts service configuration from the supplied context if any exist.
func FromContext[T any](ctx context.Context) T {
	if cfg, ok := ctx.Value(ctxKeyConfiguration).(T); ok {
		return cfg
	}
	var zero T
	return zero
}

// FromEnv convenience method to process configs.
func FromEnv[T any]() (T, error) {
	return env.ParseAs[T]()
}

// FillEnv convenience method to fill a config object with environment data.
func FillEnv(v any) error {
	return env.Parse(v)
}

type ConfigurationDefault struct {
	LogLevel      string `envDefault:"info"                      env:"LOG_LEVEL"       yaml:"log_level"`
	LogTimeFormat string `envDefault:"2006-01-02T15:04:05Z07:00" env:"LOG_TIME_FORMAT" yaml:"log_time_format"`
	LogColored    bool   `envDefault:"true"                      env:"LOG_COLORED"     yaml:"log_colored"`

	ServiceName        string `envDefault:"" env:"SERVICE_NAME"        yaml:"service_name"`
	ServiceEnvironment string `envDefault:"" env:"SERVICE_ENVIRONMENT" yaml:"service_environment"`
	ServiceVersion     string `envDefault:"" env:"SERVICE_VERSION"     yaml:"service_version"`

	LanguageDefault    string   `envDefault:"en"           env:"WALLET_LANGUAGE"            yaml:"wallet_language"`
	LanguagePacks      []string `envDefault:"en"           env:"WALLET_LANGUAGE_PACKS"      yaml:"wallet_language_packs"`
	TranslationsFolder string   `envDefault:"localization" env:"WALLET_TRANSLATIONS_FOLDER" yaml:"wallet_translations_folder"`

	WalletForceInstall  bool   `envDefault:"false" env:"WALLET_FORCE_INSTALL"  yaml:"wallet_force_install"`
	WalletPromptTimeout string `envDefault:"0"     env:"WALLET_PROMPT_TIMEOUT" yaml:"wallet_prompt_timeout"`

	WorkerPoolCPUFactorForWorkerCount int    `envDefault:"10"  env:"WORKER_POOL_CPU_FACTOR_FOR_WORKER_COUNT" yaml:"worker_pool_cpu_factor_for_worker_count"`
	WorkerPoolCapacity                int    `envDefault:"100" env:"WORKER_POOL_CAPACITY"                    yaml:"worker_pool_capacity"`
	WorkerPoolCount                   int    `envDefault:"1"   env:"WORKER_POOL_COUNT"                       yaml:"worker_pool_count"`
	WorkerPoolExpiryDuration          string `envDefault:"1s"  env:"WORKER_POOL_EXPIRY_DURATION"             yaml:"worker_pool_expiry_duration"`
}

type ConfigurationService interface {
	Name() string
	Environment() string
	Version() string
}

var _ ConfigurationService = new(ConfigurationDefault)

func (c *ConfigurationDefault) Name() string {
	return c.ServiceName
}
func (c *ConfigurationDefault) Environment() string {
	return c.ServiceEnvironment
}
func (c *ConfigurationDefault) Version() string {
	return c.ServiceVersion
}

type ConfigurationLogLevel interface {
	LoggingLevel() string
	LoggingTimeFormat() string
	LoggingColored() bool
	LoggingLevelIsDebug() bool
}

var _ ConfigurationLogLevel = new(ConfigurationDefault)

func (c *ConfigurationDefault) LoggingLevel() string {
	return c.LogLevel
}

func (c *ConfigurationDefault) LoggingTimeFormat() string {
	return c.LogTimeFormat
}

func (c *ConfigurationDefault) LoggingColored() bool {
	return c.LogColored
}

func (c *ConfigurationDefault) LoggingLevelIsDebug() bool {
	return c.LoggingLevel() == "debug" || c.LoggingLevel() == "trace"
}

type ConfigurationLocalization interface {
	DefaultLanguage() string
	GetLanguagePacks() []string
	GetTranslationsFolder() string
}

var _ ConfigurationLocalization = new(ConfigurationDefault)

func (c *ConfigurationDefault) DefaultLanguage() string {
	if c.LanguageDefault == "" {
		return "en"
	}
	return c.LanguageDefault
}

func (c *ConfigurationDefault) GetLanguagePacks() []string {
	if len(c.LanguagePacks) == 0 {
		return []string{c.DefaultLanguage()}
	}
	return c.LanguagePacks
}

func (c *ConfigurationDefault) GetTranslationsFolder() string {
	return c.TranslationsFolder
}

type ConfigurationWallet interface {
	ForceInstall() bool
	PromptTimeout() time.Duration
}

var _ ConfigurationWallet = new(ConfigurationDefault)

func (c *ConfigurationDefault) ForceInstall() bool {
	return c.WalletForceInstall
}

// PromptTimeout is how long an admitted request may wait for a decision.
// Zero means wait indefinitely.
func (c *ConfigurationDefault) PromptTimeout() time.Duration {
	if c.WalletPromptTimeout == "" || c.WalletPromptTimeout == "0" {
		return 0
	}

	duration, err := time.ParseDuration(c.WalletPromptTimeout)
	if err != nil {
		return 0
	}
	return duration
}

type ConfigurationWorkerPool interface {
	GetCPUFactor() int
	GetCapacity() int
	GetCount() int
	GetExpiryDuration() time.Duration
}

var _ ConfigurationWorkerPool = new(ConfigurationDefault)

func (c *ConfigurationDefault) GetCPUFactor() int {
	return c.WorkerPoolCPUFactorForWorkerCount
}

func (c *ConfigurationDefault) GetCapacity() int {
	return c.WorkerPoolCapacity
}

func (c *ConfigurationDefault) GetCount() int {
	return c.WorkerPoolCount
}

func (c *ConfigurationDefault) GetExpiryDuration() time.Duration {
	if c.WorkerPoolExpiryDuration != "" {
		duration, err := time.ParseDuration(c.WorkerPoolExpiryDuration)
		if err == nil {
			return duration
		}
	}

	return time.Second
}
