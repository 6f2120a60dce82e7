package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Settings holds the full application configuration.
type Settings struct {
	Provider    ProviderConfig    `yaml:"provider" mapstructure:"provider"`
	Keys        Keys              `yaml:"keys" mapstructure:"keys"`
	Scrape      ScrapeConfig      `yaml:"scrape" mapstructure:"scrape"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Credentials CredentialsConfig `yaml:"credentials" mapstructure:"credentials"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ProviderConfig selects the chat provider. An empty Name lets each flow
// apply its own default.
type ProviderConfig struct {
	Name              string `yaml:"name" mapstructure:"name"`
	Model             string `yaml:"model" mapstructure:"model"`
	BaseURL           string `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens         int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// ScrapeConfig configures page rendering.
type ScrapeConfig struct {
	NavigationTimeout time.Duration `yaml:"navigation_timeout" mapstructure:"navigation_timeout"`
	HTTPTimeout       time.Duration `yaml:"http_timeout" mapstructure:"http_timeout"`
	Width             int           `yaml:"width" mapstructure:"width"`
	Height            int           `yaml:"height" mapstructure:"height"`
	ProfileDir        string        `yaml:"profile_dir" mapstructure:"profile_dir"`
	NoSandbox         bool          `yaml:"no_sandbox" mapstructure:"no_sandbox"`
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputConfig configures where scraped documents are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// CredentialsConfig locates the credential files.
type CredentialsConfig struct {
	JSONFile string `yaml:"json_file" mapstructure:"json_file"`
	EnvFile  string `yaml:"env_file" mapstructure:"env_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// flagKeys maps command-line flags to settings keys.
var flagKeys = map[string]string{
	"provider": "provider.name",
	"model":    "provider.model",
	"dir":      "output.dir",
	"width":    "scrape.width",
	"height":   "scrape.height",
	"profile":  "scrape.profile_dir",
}

// Load reads configuration from file, environment and flags. flags may be
// nil; flags it does not define are ignored.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("web-scrap-ai")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WEBSCRAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Provider keys also come from the conventional variables
	for key, env := range map[string]string{
		"keys.openai":    EnvOpenAI,
		"keys.gemini":    EnvGemini,
		"keys.groq":      EnvGroq,
		"keys.anthropic": EnvAnthropic,
	} {
		if err := v.BindEnv(key, "WEBSCRAP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	// Defaults
	v.SetDefault("provider.name", "")
	v.SetDefault("provider.model", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.max_tokens", 1024)
	v.SetDefault("provider.requests_per_minute", 30)
	v.SetDefault("scrape.navigation_timeout", 100*time.Minute)
	v.SetDefault("scrape.http_timeout", 30*time.Second)
	v.SetDefault("scrape.width", 1280)
	v.SetDefault("scrape.height", 800)
	v.SetDefault("scrape.profile_dir", "")
	v.SetDefault("scrape.no_sandbox", false)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; web-scrap-ai/1.0)")
	v.SetDefault("output.dir", ".")
	v.SetDefault("credentials.json_file", ".web-scraper-config.json")
	v.SetDefault("credentials.env_file", ".env")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, eris.Wrapf(err, "config: bind flag %s", name)
				}
			}
		}
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Settings
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.DisableStacktrace = true
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
