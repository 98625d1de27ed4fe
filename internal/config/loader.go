package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/agalitsyn/secret"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the loader reads, e.g.
// TV_BACKEND or TV_DATABASE_DIR.
const EnvPrefix = "TV"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	viper      *viper.Viper
	configFile string
	envFile    string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config:  NewConfig(),
		viper:   viper.New(),
		envFile: ".env",
	}
}

// WithConfigFile makes Load read a config file (yaml, toml or json).
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvFile changes the dotenv file read before the environment. An empty
// path disables it.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load loads configuration using the cascading strategy:
// defaults, config file, .env file, TV_* environment variables.
// Command line flags are applied by LoadWithOverrides.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	v := l.viper
	setDefaults(v, l.config)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	l.config.decode(v)

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		config.ApplyOverrides(overrides)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	if _, err := os.Stat(l.envFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", l.envFile, err)
	}
	if err := godotenv.Load(l.envFile); err != nil {
		return fmt.Errorf("failed to load %s: %w", l.envFile, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("backend", c.Backend)

	v.SetDefault("database.dir", c.Database.Dir)
	v.SetDefault("database.filename", c.Database.Filename)
	v.SetDefault("database.query_timeout", c.Database.QueryTimeout)
	v.SetDefault("database.write_timeout", c.Database.WriteTimeout)
	v.SetDefault("database.dir_permissions", c.Database.DirPermissions)
	v.SetDefault("database.watch_interval", c.Database.WatchInterval)

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.host", c.Postgres.Host)
	v.SetDefault("postgres.port", c.Postgres.Port)
	v.SetDefault("postgres.name", c.Postgres.Name)
	v.SetDefault("postgres.user", c.Postgres.User)
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.disable_tls", c.Postgres.DisableTLS)
	v.SetDefault("postgres.ping_attempts", c.Postgres.PingAttempts)

	v.SetDefault("validation.title_max_length", c.Validation.TitleMaxLength)
	v.SetDefault("validation.description_max_length", c.Validation.DescriptionMaxLength)
	v.SetDefault("validation.discipline_name_max_length", c.Validation.DisciplineNameMaxLength)
	v.SetDefault("validation.date_years_back", c.Validation.DateYearsBack)
	v.SetDefault("validation.date_years_ahead", c.Validation.DateYearsAhead)

	v.SetDefault("rate_limit.max_attempts", c.RateLimit.MaxAttempts)
	v.SetDefault("rate_limit.window", c.RateLimit.Window)
	v.SetDefault("rate_limit.max_keys", c.RateLimit.MaxKeys)
	v.SetDefault("rate_limit.sweep_interval", c.RateLimit.SweepInterval)

	v.SetDefault("server.addr", c.Server.Addr)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("server.debug", c.Server.Debug)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.rollbar_token", "")
	v.SetDefault("log.environment", c.Log.Environment)

	v.SetDefault("app.timeout", c.Application.Timeout)
	v.SetDefault("app.verbose", c.Application.Verbose)

	v.SetDefault("commands.default_owner", c.Commands.DefaultOwner)
	v.SetDefault("commands.output_format", c.Commands.OutputDefaultFormat)
}

func (c *Config) decode(v *viper.Viper) {
	c.Backend = strings.ToLower(v.GetString("backend"))

	c.Database.Dir = v.GetString("database.dir")
	c.Database.Filename = v.GetString("database.filename")
	c.Database.QueryTimeout = v.GetDuration("database.query_timeout")
	c.Database.WriteTimeout = v.GetDuration("database.write_timeout")
	c.Database.DirPermissions = v.GetUint32("database.dir_permissions")
	c.Database.WatchInterval = v.GetDuration("database.watch_interval")

	c.Postgres.URL = secret.NewString(v.GetString("postgres.url"))
	c.Postgres.Host = v.GetString("postgres.host")
	c.Postgres.Port = v.GetInt("postgres.port")
	c.Postgres.Name = v.GetString("postgres.name")
	c.Postgres.User = v.GetString("postgres.user")
	c.Postgres.Password = secret.NewString(v.GetString("postgres.password"))
	c.Postgres.DisableTLS = v.GetBool("postgres.disable_tls")
	c.Postgres.PingAttempts = v.GetInt("postgres.ping_attempts")

	c.Validation.TitleMaxLength = v.GetInt("validation.title_max_length")
	c.Validation.DescriptionMaxLength = v.GetInt("validation.description_max_length")
	c.Validation.DisciplineNameMaxLength = v.GetInt("validation.discipline_name_max_length")
	c.Validation.DateYearsBack = v.GetInt("validation.date_years_back")
	c.Validation.DateYearsAhead = v.GetInt("validation.date_years_ahead")

	c.RateLimit.MaxAttempts = v.GetInt("rate_limit.max_attempts")
	c.RateLimit.Window = v.GetDuration("rate_limit.window")
	c.RateLimit.MaxKeys = v.GetInt("rate_limit.max_keys")
	c.RateLimit.SweepInterval = v.GetDuration("rate_limit.sweep_interval")

	c.Server.Addr = v.GetString("server.addr")
	c.Server.ShutdownTimeout = v.GetDuration("server.shutdown_timeout")
	c.Server.Debug = v.GetBool("server.debug")

	c.Log.Level = strings.ToLower(v.GetString("log.level"))
	c.Log.Format = strings.ToLower(v.GetString("log.format"))
	c.Log.RollbarToken = secret.NewString(v.GetString("log.rollbar_token"))
	c.Log.Environment = v.GetString("log.environment")

	c.Application.Timeout = v.GetDuration("app.timeout")
	c.Application.Verbose = v.GetBool("app.verbose")

	c.Commands.DefaultOwner = v.GetString("commands.default_owner")
	c.Commands.OutputDefaultFormat = v.GetString("commands.output_format")
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	Backend     *string
	DBDir       *string
	DBFilename  *string
	PostgresURL *string

	QueryTimeout *time.Duration
	WriteTimeout *time.Duration

	ServerAddr *string
	LogLevel   *string
	LogFormat  *string

	Timeout *time.Duration
	Verbose *bool

	Owner        *string
	OutputFormat *string
}

// ApplyOverrides applies command line overrides to the configuration
func (c *Config) ApplyOverrides(overrides *ConfigOverrides) {
	if overrides.Backend != nil {
		c.Backend = strings.ToLower(*overrides.Backend)
	}
	if overrides.DBDir != nil {
		c.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		c.Database.Filename = *overrides.DBFilename
	}
	if overrides.PostgresURL != nil {
		c.Postgres.URL = secret.NewString(*overrides.PostgresURL)
	}
	if overrides.QueryTimeout != nil {
		c.Database.QueryTimeout = *overrides.QueryTimeout
	}
	if overrides.WriteTimeout != nil {
		c.Database.WriteTimeout = *overrides.WriteTimeout
	}

	if overrides.ServerAddr != nil {
		c.Server.Addr = *overrides.ServerAddr
	}
	if overrides.LogLevel != nil {
		c.Log.Level = strings.ToLower(*overrides.LogLevel)
	}
	if overrides.LogFormat != nil {
		c.Log.Format = strings.ToLower(*overrides.LogFormat)
	}

	if overrides.Timeout != nil {
		c.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		c.Application.Verbose = *overrides.Verbose
	}

	if overrides.Owner != nil {
		c.Commands.DefaultOwner = *overrides.Owner
	}
	if overrides.OutputFormat != nil {
		c.Commands.OutputDefaultFormat = *overrides.OutputFormat
	}
}
