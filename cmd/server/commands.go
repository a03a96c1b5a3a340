package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/taskmanager/internal/config"
	"github.com/phrazzld/taskmanager/internal/platform/logger"
	"github.com/spf13/cobra"
)

// Migrate subcommand actions.
const (
	migrateUp      = "up"
	migrateDown    = "down"
	migrateStatus  = "status"
	migrateVersion = "version"
)

// cliOptions holds values of the command line flags.
type cliOptions struct {
	configFile string
	logLevel   string
	dbDriver   string
	dbURL      string
	port       int
	generator  bool
}

// flagOverrides maps flags to the config keys they override. A flag only
// takes effect when it was set explicitly.
var flagOverrides = []struct {
	flag  string
	key   string
	value func(*cliOptions) any
}{
	{"log-level", "server.log_level", func(o *cliOptions) any { return o.logLevel }},
	{"database-driver", "database.driver", func(o *cliOptions) any { return o.dbDriver }},
	{"database-url", "database.url", func(o *cliOptions) any { return o.dbURL }},
	{"port", "server.port", func(o *cliOptions) any { return o.port }},
	{"generator", "generator.enabled", func(o *cliOptions) any { return o.generator }},
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "taskmanager",
		Short:         "Task manager REST API",
		Long:          "Serves the task REST API and periodically generates sample tasks.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "path to a config file (default: ./config.yaml or $HOME/.taskmanager/config.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&opts.dbDriver, "database-driver", "", "task store backend: postgres, sqlite or memory")
	pf.StringVar(&opts.dbURL, "database-url", "", "database connection URL or SQLite file path")
	addServeFlags(root, opts)

	root.AddCommand(newServeCmd(opts), newMigrateCmd(opts))
	return root
}

func newServeCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the task generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	addServeFlags(cmd, opts)
	return cmd
}

func addServeFlags(cmd *cobra.Command, opts *cliOptions) {
	cmd.Flags().IntVar(&opts.port, "port", config.DefaultPort, "HTTP listen port")
	cmd.Flags().BoolVar(&opts.generator, "generator", true, "run the periodic task generator")
}

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown migrate action %q", args[0])
		},
	}

	actions := []struct {
		name  string
		short string
	}{
		{migrateUp, "Apply all pending migrations"},
		{migrateDown, "Roll back the most recent migration"},
		{migrateStatus, "Show the status of every migration"},
		{migrateVersion, "Print the current schema version"},
	}
	for _, a := range actions {
		action := a.name
		cmd.AddCommand(&cobra.Command{
			Use:   action,
			Short: a.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfigAndLogger(cmd, opts)
				if err != nil {
					return err
				}
				return runMigrations(cmd.Context(), cfg, log, action, cmd.OutOrStdout())
			},
		})
	}
	return cmd
}

// loadConfigAndLogger loads configuration, applies explicitly set flags on
// top of it, and installs the configured logger as the slog default.
func loadConfigAndLogger(cmd *cobra.Command, opts *cliOptions) (*config.Config, *slog.Logger, error) {
	var loadOpts []config.Option
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(opts.configFile))
	}
	for _, o := range flagOverrides {
		if cmd.Flags().Changed(o.flag) {
			loadOpts = append(loadOpts, config.WithOverride(o.key, o.value(opts)))
		}
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("generator_enabled", cfg.Generator.Enabled))
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, opts *cliOptions) error {
	ctx := cmd.Context()
	cfg, log, err := loadConfigAndLogger(cmd, opts)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.run(ctx)
}

// writeLine writes one line of command output, ignoring write errors on
// the terminal.
func writeLine(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
