// Package cli provides the command-line interface for patrol-runner.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/patrol-runner/pkg/config"
	"github.com/devicelab-dev/patrol-runner/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

const configKey = "config"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to workspace config.yaml (default: ./config.yaml if present)",
		EnvVars: []string{"PATROL_RUNNER_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable debug logging",
		EnvVars: []string{"PATROL_RUNNER_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file",
		EnvVars: []string{"PATROL_RUNNER_LOG_FILE"},
	},
}

// NewApp builds the patrol-runner application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "patrol-runner",
		Usage:   "Compile Patrol selectors and test trees for UIAutomator2",
		Version: Version,
		Description: `patrol-runner turns Patrol wire selectors into UIAutomator2 queries,
flattens Dart test trees into qualified test names and looks up elements
on a connected Android device.

Examples:
  patrol-runner selector --text "Log in" --instance 1
  patrol-runner list-tests --include "app_test.dart Login *" tests.json
  patrol-runner find --port 8200 --resource-id com.app:id/login`,
		Flags: GlobalFlags,

		// Include globs use {a,b} alternatives, so keep commas intact.
		DisableSliceFlagSeparator: true,
		Before:                    setup,
		After:                     teardown,
		Commands: []*cli.Command{
			selectorCommand,
			listTestsCommand,
			findCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the workspace config and initializes logging.
func setup(c *cli.Context) error {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configKey] = cfg

	logPath := c.String("log-file")
	if logPath == "" {
		logPath = cfg.LogFile
	}
	if logPath != "" {
		if err := logger.Init(logPath); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Warning: Failed to initialize logger: %v\n", err)
		}
	}

	level := cfg.LogLevel
	if c.Bool("verbose") {
		level = "debug"
	}
	if level == "" {
		level = "info"
	}
	return logger.SetLevel(level)
}

func teardown(*cli.Context) error {
	logger.Close()
	return nil
}

// workspaceConfig returns the config loaded by setup.
func workspaceConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return &config.Config{}
}
