package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/patrol-runner/pkg/config"
	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	"github.com/devicelab-dev/patrol-runner/pkg/logger"
	"github.com/devicelab-dev/patrol-runner/pkg/suite"
)

var listTestsCommand = &cli.Command{
	Name:      "list-tests",
	Usage:     "Flatten a test tree into qualified test names",
	ArgsUsage: "<tree.json|tree.yaml>",
	Description: `Read a Dart test tree (a group entry with nested groups and tests) and print
one space-qualified name per test, in declaration order.

Examples:
  patrol-runner list-tests tests.json
  patrol-runner list-tests --include "app_test.dart Login *" tests.json
  patrol-runner list-tests --format json tests.yaml`,
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "include",
			Aliases: []string{"i"},
			Usage:   "Only list tests matching this glob (repeatable, adds to config include)",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format (text, json); defaults to config format",
		},
	},
	Action: runListTests,
}

func runListTests(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one test tree file")
	}
	path := c.Args().First()

	cfg := workspaceConfig(c)
	format := c.String("format")
	if format == "" {
		format = cfg.OutputFormat()
	}
	if format != config.FormatText && format != config.FormatJSON {
		return fmt.Errorf("unknown format %q (use text or json)", format)
	}

	root, err := contracts.LoadGroupEntry(path)
	if err != nil {
		return fmt.Errorf("failed to load test tree: %w", err)
	}

	tests, err := suite.ListTestsFlat(root)
	if err != nil {
		return err
	}

	patterns := append(append([]string{}, cfg.Include...), c.StringSlice("include")...)
	selected, err := suite.Filter(tests, patterns)
	if err != nil {
		return err
	}
	logger.Info("Listed %d of %d test(s) from %s", len(selected), len(tests), path)

	out := c.App.Writer
	if format == config.FormatJSON {
		if selected == nil {
			selected = []contracts.GroupEntry{}
		}
		return writeJSON(out, selected)
	}

	for _, name := range suite.Names(selected) {
		fmt.Fprintln(out, name)
	}
	return nil
}
