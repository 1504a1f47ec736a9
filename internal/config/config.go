package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trustgrid-labs/site-cli/pkg/airtable"
	"github.com/trustgrid-labs/site-cli/pkg/ipinfo"
)

// Config holds the full application configuration.
type Config struct {
	Airtable AirtableConfig `yaml:"airtable" mapstructure:"airtable"`
	IPLookup IPLookupConfig `yaml:"ip_lookup" mapstructure:"ip_lookup"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// AirtableConfig holds record-store credentials and table names. Table
// names are deliberately configuration, not constants: the lead and
// traffic tables have been renamed remotely before.
type AirtableConfig struct {
	APIKey       string `yaml:"api_key" mapstructure:"api_key"`
	BaseID       string `yaml:"base_id" mapstructure:"base_id"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	LeadsTable   string `yaml:"leads_table" mapstructure:"leads_table"`
	TrafficTable string `yaml:"traffic_table" mapstructure:"traffic_table"`
}

// IPLookupConfig holds the public-IP lookup settings.
type IPLookupConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ServerConfig configures the site API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	Env            string   `yaml:"env" mapstructure:"env"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	RatePerMin     int      `yaml:"rate_per_min" mapstructure:"rate_per_min"`
}

// IsProduction reports whether the server runs with production
// error-surfacing behavior (analytics diagnostics suppressed).
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TRUSTGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Secrets default empty so the env binding picks them up;
	// absence is reported per-call by the airtable client, not here.
	v.SetDefault("airtable.api_key", "")
	v.SetDefault("airtable.base_id", "")
	v.SetDefault("airtable.base_url", airtable.DefaultBaseURL)
	v.SetDefault("airtable.leads_table", "Leads")
	v.SetDefault("airtable.traffic_table", "Traffic Analysis")
	v.SetDefault("ip_lookup.base_url", ipinfo.DefaultBaseURL)
	v.SetDefault("ip_lookup.timeout_secs", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.env", "production")
	v.SetDefault("server.allowed_origins", []string{"https://trustgrid.com", "https://www.trustgrid.com"})
	v.SetDefault("server.rate_per_min", 60)
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
