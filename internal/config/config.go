package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agalitsyn/secret"
)

// Backend kinds.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration options for the task viewer
type Config struct {
	Backend     string
	Database    DatabaseConfig
	Postgres    PostgresConfig
	Validation  ValidationConfig
	RateLimit   RateLimitConfig
	Server      ServerConfig
	Log         LogConfig
	Application ApplicationConfig
	Commands    CommandsConfig
}

// DatabaseConfig holds the local SQLite store configuration
type DatabaseConfig struct {
	Dir            string
	Filename       string
	QueryTimeout   time.Duration
	WriteTimeout   time.Duration
	DirPermissions uint32
	WatchInterval  time.Duration
}

// PostgresConfig holds the remote store configuration. URL, when set, wins
// over the individual fields.
type PostgresConfig struct {
	URL          secret.String
	Host         string
	Port         int
	Name         string
	User         string
	Password     secret.String
	DisableTLS   bool
	PingAttempts int
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength          int
	DescriptionMaxLength    int
	DisciplineNameMaxLength int
	DateYearsBack           int
	DateYearsAhead          int
}

// RateLimitConfig holds the discipline creation throttle
type RateLimitConfig struct {
	MaxAttempts   int
	Window        time.Duration
	MaxKeys       int
	SweepInterval time.Duration
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	Debug           bool
}

// LogConfig holds logging and error reporting configuration
type LogConfig struct {
	Level        string
	Format       string
	RollbarToken secret.String
	Environment  string
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration
	Verbose bool
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	DefaultOwner        string
	OutputDefaultFormat string
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Backend: BackendSQLite,
		Database: DatabaseConfig{
			Dir:            filepath.Join(homeDir, ".tv"),
			Filename:       "tv.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
			WatchInterval:  time.Second,
		},
		Postgres: PostgresConfig{
			Host:         "localhost",
			Port:         5432,
			Name:         "task_viewer",
			User:         "postgres",
			PingAttempts: 10,
		},
		Validation: ValidationConfig{
			TitleMaxLength:          255,
			DescriptionMaxLength:    1000,
			DisciplineNameMaxLength: 100,
			DateYearsBack:           1,
			DateYearsAhead:          5,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   10,
			Window:        time.Minute,
			MaxKeys:       10000,
			SweepInterval: 5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "text",
			Environment: "development",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
		Commands: CommandsConfig{
			DefaultOwner:        "local",
			OutputDefaultFormat: "table",
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// PostgresDSN builds the connection string for the remote store.
func (c *Config) PostgresDSN() string {
	if dsn := c.Postgres.URL.Unmask(); dsn != "" {
		return dsn
	}

	sslMode := "require"
	if c.Postgres.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password.Unmask()),
		Host:     c.Postgres.Host + ":" + strconv.Itoa(c.Postgres.Port),
		Path:     c.Postgres.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
		if c.Database.Dir == "" && c.Database.Filename != ":memory:" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.WatchInterval <= 0 {
			return &ConfigError{Field: "database.watch_interval", Message: "watch interval must be positive"}
		}
	case BackendPostgres:
		if c.Postgres.URL.Unmask() == "" && (c.Postgres.Host == "" || c.Postgres.Name == "") {
			return &ConfigError{Field: "postgres.host", Message: "postgres host and name are required when no url is set"}
		}
		if c.Postgres.PingAttempts < 1 {
			return &ConfigError{Field: "postgres.ping_attempts", Message: "ping attempts must be at least 1"}
		}
	default:
		return &ConfigError{Field: "backend", Message: "backend must be one of: sqlite, postgres"}
	}

	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.DescriptionMaxLength < 0 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length cannot be negative"}
	}
	if c.Validation.DisciplineNameMaxLength < 1 {
		return &ConfigError{Field: "validation.discipline_name_max_length", Message: "discipline name maximum length must be at least 1"}
	}
	if c.Validation.DateYearsBack < 0 || c.Validation.DateYearsAhead < 0 {
		return &ConfigError{Field: "validation.date_years", Message: "date window cannot be negative"}
	}

	if c.RateLimit.MaxAttempts < 1 {
		return &ConfigError{Field: "rate_limit.max_attempts", Message: "max attempts must be at least 1"}
	}
	if c.RateLimit.Window <= 0 {
		return &ConfigError{Field: "rate_limit.window", Message: "rate limit window must be positive"}
	}
	if c.RateLimit.MaxKeys < 1 {
		return &ConfigError{Field: "rate_limit.max_keys", Message: "max keys must be at least 1"}
	}

	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "server address cannot be empty"}
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: "log format must be text or json"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
