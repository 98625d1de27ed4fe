package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"task-viewer/internal/config"
	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/logging"
	"task-viewer/internal/repository"
	"task-viewer/internal/services"
)

// Version is set at build time.
var Version = "dev"

// BackendFactory opens the backend selected by the configuration
type BackendFactory func(cfg *config.Config) (repository.Backend, error)

// RootOptions configures the root command. Zero values select the
// production behaviour: configuration loaded from file and environment, and
// the backend opened by config.CreateBackend.
type RootOptions struct {
	Config      *config.Config
	OpenBackend BackendFactory
	// Services, when set, is used as is and never closed by the command.
	Services *services.ServiceContainer
}

type rootFlags struct {
	configFile   string
	envFile      string
	backend      string
	dbDir        string
	dbFilename   string
	postgresURL  string
	queryTimeout time.Duration
	writeTimeout time.Duration
	logLevel     string
	logFormat    string
	appTimeout   time.Duration
	verbose      bool
	owner        string
	format       string
	noColor      bool
	addr         string
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	opts    RootOptions
	flags   rootFlags
	config  *config.Config
	app     *App
	ownsApp bool
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts RootOptions) *RootCommand {
	root := &RootCommand{opts: opts}

	root.cmd = &cobra.Command{
		Use:     "tv",
		Short:   "Track study tasks by discipline",
		Version: Version,
		Long: `Task Viewer (tv) keeps a student's tasks grouped by discipline, in a local
SQLite file or a shared PostgreSQL database, and serves them over HTTP.

EXAMPLES:
  tv discipline add Física                       # Create a discipline
  tv task add --title "Ler capítulo 3" \
      --discipline Física --due 2025-04-10       # Add a pending task
  tv task list --due 2025-04-10                  # Tasks due on a day
  tv task status <id> em-andamento               # Move a task along
  tv discipline rename Fisica Física             # Rename, moving its tasks
  tv stats -o json                               # Summary as JSON
  tv watch                                       # Follow changes from other clients
  tv serve --addr :8080                          # HTTP API and change events

CONFIGURATION:
  Priority order: command-line flags > TV_* environment variables > .env file >
  config file > defaults

    TV_BACKEND                 sqlite or postgres (default: sqlite)
    TV_DATABASE_DIR            SQLite directory (default: ~/.tv)
    TV_DATABASE_FILENAME       SQLite filename (default: tv.db)
    TV_POSTGRES_URL            PostgreSQL connection URL
    TV_LOG_LEVEL               debug, info, warn or error (default: info)
    TV_LOG_ROLLBAR_TOKEN       Report server errors to Rollbar
    TV_COMMANDS_DEFAULT_OWNER  Owner the CLI acts for (default: local)
    TV_DEBUG                   Force debug logging`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.prepare(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command and releases the backend afterwards.
// Failures not caused by user input are reported.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.close()
	err := r.cmd.ExecuteContext(ctx)
	if apperrors.IsAppError(err) && !apperrors.IsUserError(err) {
		logging.Report("command failed", err)
	}
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()
	f := &r.flags

	flags.StringVar(&f.configFile, "config", "", "Config file (yaml, toml or json)")
	flags.StringVar(&f.envFile, "env-file", ".env", "Dotenv file read before the environment")

	// Backend configuration
	flags.StringVar(&f.backend, "backend", "", "Storage backend, sqlite or postgres (overrides TV_BACKEND)")
	flags.StringVar(&f.dbDir, "db-dir", "", "SQLite directory (overrides TV_DATABASE_DIR)")
	flags.StringVar(&f.dbFilename, "db-filename", "", "SQLite filename (overrides TV_DATABASE_FILENAME)")
	flags.StringVar(&f.postgresURL, "postgres-url", "", "PostgreSQL connection URL (overrides TV_POSTGRES_URL)")
	flags.DurationVar(&f.queryTimeout, "db-query-timeout", 0, "Database query timeout (overrides TV_DATABASE_QUERY_TIMEOUT)")
	flags.DurationVar(&f.writeTimeout, "db-write-timeout", 0, "Database write timeout (overrides TV_DATABASE_WRITE_TIMEOUT)")

	// Logging configuration
	flags.StringVar(&f.logLevel, "log-level", "", "Log level (overrides TV_LOG_LEVEL)")
	flags.StringVar(&f.logFormat, "log-format", "", "Log format, text or json (overrides TV_LOG_FORMAT)")

	// Application configuration
	flags.DurationVar(&f.appTimeout, "app-timeout", 0, "Command timeout (overrides TV_APPLICATION_TIMEOUT)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output and request logs")

	// Commands configuration
	flags.StringVar(&f.owner, "owner", "", "Owner the command acts for (overrides TV_COMMANDS_DEFAULT_OWNER)")
	flags.StringVarP(&f.format, "format", "o", "", "Output format: table, json or yaml")
	flags.BoolVar(&f.noColor, "no-color", false, "Disable coloured output")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.newTaskCmd(),
		r.newDisciplineCmd(),
		r.newStatsCmd(),
		r.newWatchCmd(),
		r.newServeCmd(),
		r.newImportCmd(),
	)
}

// overrides collects the flags set on the command line
func (r *RootCommand) overrides(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	f := &r.flags
	o := &config.ConfigOverrides{}

	if flags.Changed("backend") {
		o.Backend = &f.backend
	}
	if flags.Changed("db-dir") {
		o.DBDir = &f.dbDir
	}
	if flags.Changed("db-filename") {
		o.DBFilename = &f.dbFilename
	}
	if flags.Changed("postgres-url") {
		o.PostgresURL = &f.postgresURL
	}
	if flags.Changed("db-query-timeout") {
		o.QueryTimeout = &f.queryTimeout
	}
	if flags.Changed("db-write-timeout") {
		o.WriteTimeout = &f.writeTimeout
	}
	if flags.Changed("log-level") {
		o.LogLevel = &f.logLevel
	}
	if flags.Changed("log-format") {
		o.LogFormat = &f.logFormat
	}
	if flags.Changed("app-timeout") {
		o.Timeout = &f.appTimeout
	}
	if flags.Changed("verbose") {
		o.Verbose = &f.verbose
	}
	if flags.Changed("owner") {
		o.Owner = &f.owner
	}
	if flags.Changed("format") {
		o.OutputFormat = &f.format
	}
	if flags.Changed("addr") {
		o.ServerAddr = &f.addr
	}
	return o
}

// loadConfig resolves the configuration for cmd
func (r *RootCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := r.overrides(cmd)
	if r.opts.Config != nil {
		cfg := r.opts.Config
		cfg.ApplyOverrides(overrides)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	loader := config.NewLoader().WithEnvFile(r.flags.envFile)
	if r.flags.configFile != "" {
		loader = loader.WithConfigFile(r.flags.configFile)
	}
	return loader.LoadWithOverrides(overrides)
}

// prepare loads the configuration, sets up logging and opens the backend
func (r *RootCommand) prepare(cmd *cobra.Command) error {
	cfg, err := r.loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	r.config = cfg

	if r.flags.noColor {
		color.NoColor = true
	}

	level := cfg.Log.Level
	if cfg.Application.Verbose {
		level = "debug"
	}
	if _, err := logging.Setup(logging.Options{Level: level, Format: cfg.Log.Format, Writer: cmd.ErrOrStderr()}); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	logging.ConfigureReporter(logging.ReporterOptions{
		Token:       cfg.Log.RollbarToken.Unmask(),
		Environment: cfg.Log.Environment,
		CodeVersion: Version,
	})

	if !needsBackend(cmd) {
		return nil
	}

	container := r.opts.Services
	if container == nil {
		open := r.opts.OpenBackend
		if open == nil {
			open = config.CreateBackend
		}
		backend, err := open(cfg)
		if err != nil {
			return fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
		}
		container, err = services.NewServiceContainer(backend, cfg)
		if err != nil {
			backend.Close()
			return err
		}
		r.ownsApp = true
	}

	app, err := NewApp(container, cfg, cmd.OutOrStdout())
	if err != nil {
		if r.ownsApp {
			container.Close()
		}
		return err
	}
	r.app = app
	return nil
}

func (r *RootCommand) close() {
	if r.app != nil && r.ownsApp {
		if err := r.app.Close(); err != nil {
			logging.Report("failed to close backend", err)
		}
	}
	logging.Flush()
}

// commandContext bounds a short command by the configured timeout
func (r *RootCommand) commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// needsBackend reports whether cmd touches stored data. Help and shell
// completion never do.
func needsBackend(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return cmd.RunE != nil || cmd.Run != nil
}
