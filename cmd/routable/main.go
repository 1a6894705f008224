// Package main is the entry point of the routable simulator. It loads a
// route tree and probe controllers from YAML and replays navigations
// through the lifecycle dispatcher.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vyrodovalexey/routable/internal/config"
	"github.com/vyrodovalexey/routable/internal/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// exitFunc is replaced in tests.
var exitFunc = os.Exit

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	logLevel    string
	logFormat   string
	watch       bool
	showVersion bool
}

func main() {
	flags := parseFlags(os.Args[1:])

	if flags.showVersion {
		printVersion()
		return
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		exitFunc(1)
		return
	}

	logger := initLogger(cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("starting routable simulator",
		observability.String("version", version),
		observability.String("config", flags.configPath),
	)

	app, err := initApplication(cfg, logger)
	if err != nil {
		fatalWithSync(logger, "failed to initialize simulator", observability.Error(err))
		return
	}

	run(app, flags, logger)
}

// parseFlags parses command line flags. Environment variables provide the
// defaults.
func parseFlags(args []string) cliFlags {
	fs := flag.NewFlagSet("routable", flag.ExitOnError)
	configPath := fs.String("config", getEnvOrDefault("ROUTABLE_CONFIG_PATH", "configs/routable.yaml"),
		"Path to configuration file")
	logLevel := fs.String("log-level", getEnvOrDefault("ROUTABLE_LOG_LEVEL", ""),
		"Log level (debug, info, warn, error); overrides the configuration")
	logFormat := fs.String("log-format", getEnvOrDefault("ROUTABLE_LOG_FORMAT", ""),
		"Log format (json, console); overrides the configuration")
	watch := fs.Bool("watch", getEnvBool("ROUTABLE_WATCH", false),
		"Watch the configuration file and replay navigations on change")
	showVersion := fs.Bool("version", false, "Show version information")
	_ = fs.Parse(args)

	return cliFlags{
		configPath:  *configPath,
		logLevel:    *logLevel,
		logFormat:   *logFormat,
		watch:       *watch,
		showVersion: *showVersion,
	}
}

// printVersion prints version information.
func printVersion() {
	fmt.Printf("routable version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadConfig loads and validates the configuration and applies flag
// overrides.
func loadConfig(flags cliFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Observability.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Observability.Logging.Format = flags.logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initLogger initializes the global logger.
func initLogger(cfg *config.Config) observability.Logger {
	l := cfg.Observability.Logging
	logger, err := observability.NewLogger(observability.LogConfig{
		Level:  l.Level,
		Format: l.Format,
		Output: l.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		exitFunc(1)
		return observability.NopLogger()
	}

	observability.SetGlobalLogger(logger)
	return logger
}

// fatalWithSync logs, flushes the logger and exits.
func fatalWithSync(logger observability.Logger, msg string, fields ...observability.Field) {
	logger.Error(msg, fields...)
	_ = logger.Sync()
	exitFunc(1)
}

// run replays the navigations once. With -watch or metrics enabled it
// keeps running until a shutdown signal.
func run(app *application, flags cliFlags, logger observability.Logger) {
	ctx := context.Background()

	startMetricsServerIfEnabled(app, logger)
	app.replay(ctx)

	if !flags.watch && app.metricsServer == nil {
		shutdown(app, nil, logger)
		return
	}

	var watcher *config.Watcher
	if flags.watch {
		watcher = startConfigWatcher(app, flags.configPath, logger)
	}
	waitForShutdown(app, watcher, logger)
}

// startConfigWatcher reloads the configuration and replays navigations
// whenever the file changes.
func startConfigWatcher(app *application, configPath string, logger observability.Logger) *config.Watcher {
	watcher, err := config.NewWatcher(configPath, func(newCfg *config.Config) {
		logger.Info("configuration changed, replaying navigations")
		if err := app.reload(newCfg); err != nil {
			logger.Error("failed to apply configuration", observability.Error(err))
			return
		}
		app.replay(context.Background())
	}, config.WithLogger(logger))
	if err != nil {
		logger.Warn("failed to create config watcher", observability.Error(err))
		return nil
	}

	if err := watcher.Start(context.Background()); err != nil {
		logger.Warn("failed to start config watcher", observability.Error(err))
	}
	return watcher
}
