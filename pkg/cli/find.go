package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/patrol-runner/pkg/config"
	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	uia2driver "github.com/devicelab-dev/patrol-runner/pkg/driver/uiautomator2"
	"github.com/devicelab-dev/patrol-runner/pkg/logger"
	"github.com/devicelab-dev/patrol-runner/pkg/selector"
	"github.com/devicelab-dev/patrol-runner/pkg/uiautomator2"
)

var findCommand = &cli.Command{
	Name:  "find",
	Usage: "Look up the element a selector points to",
	Description: `Compile a selector and resolve it on a UIAutomator2 server, or offline
against a saved page source dump.

Examples:
  patrol-runner find --port 8200 --text "Log in"
  patrol-runner find --socket /tmp/uia2.sock --class-name android.widget.Button --all
  patrol-runner find --source window_dump.xml --resource-id com.app:id/login`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "socket",
			Usage: "UIAutomator2 server Unix socket (overrides config server.socket)",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "UIAutomator2 server TCP port (overrides config server.port)",
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "Find timeout in milliseconds (overrides config server.timeoutMs)",
		},
		&cli.StringFlag{
			Name:  "source",
			Usage: "Resolve against this page source XML instead of a device",
		},
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Print every match of the direct query",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Output format (text, json); defaults to config format",
		},
	}, selectorFlags...),
	Action: runFind,
}

func runFind(c *cli.Context) error {
	sel, err := selectorFromFlags(c)
	if err != nil {
		return err
	}

	cfg := workspaceConfig(c)
	format := c.String("format")
	if format == "" {
		format = cfg.OutputFormat()
	}
	if format != config.FormatText && format != config.FormatJSON {
		return fmt.Errorf("unknown format %q (use text or json)", format)
	}

	if path := c.String("source"); path != "" {
		return findInSourceFile(c.App.Writer, path, sel, c.Bool("all"), format)
	}

	client, err := connect(c, cfg)
	if err != nil {
		return err
	}
	if err := client.CreateSession(uiautomator2.Capabilities{PlatformName: "Android"}); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("Failed to delete session: %v", err)
		}
	}()

	driver := uia2driver.New(client)
	timeout := cfg.Server.TimeoutMs
	if c.IsSet("timeout") {
		timeout = c.Int("timeout")
	}
	driver.SetFindTimeout(timeout)

	var elems []*uiautomator2.Element
	if c.Bool("all") {
		elems, err = driver.FindElements(c.Context, sel)
	} else {
		var elem *uiautomator2.Element
		elem, err = driver.FindElement(c.Context, sel)
		if elem != nil {
			elems = []*uiautomator2.Element{elem}
		}
	}
	if err != nil {
		return err
	}

	infos := make([]*uia2driver.ElementInfo, len(elems))
	for i, elem := range elems {
		infos[i] = uia2driver.Describe(elem)
	}

	if format == config.FormatJSON {
		return writeJSON(c.App.Writer, infos)
	}
	for _, info := range infos {
		b := info.Bounds
		fmt.Fprintf(c.App.Writer, "%s text=%q enabled=%t bounds=[%d,%d][%d,%d]\n",
			info.ID, info.Text, info.Enabled, b.X, b.Y, b.X+b.Width, b.Y+b.Height)
	}
	return nil
}

// connect builds a client from --socket/--port, falling back to config.
func connect(c *cli.Context, cfg *config.Config) (*uiautomator2.Client, error) {
	socket := cfg.Server.Socket
	port := cfg.Server.Port
	if c.IsSet("socket") {
		socket = c.String("socket")
	}
	if c.IsSet("port") {
		port = c.Int("port")
		socket = ""
	}

	switch {
	case socket != "":
		logger.Info("Connecting to UIAutomator2 via socket %s", socket)
		return uiautomator2.NewClient(socket), nil
	case port > 0:
		logger.Info("Connecting to UIAutomator2 on port %d", port)
		return uiautomator2.NewClientTCP(port), nil
	}
	return nil, fmt.Errorf("--socket or --port is required (or set server.socket/server.port in config)")
}

type sourceMatch struct {
	Text        string            `json:"text"`
	ResourceID  string            `json:"resourceId"`
	ContentDesc string            `json:"contentDescription"`
	ClassName   string            `json:"className"`
	Bounds      uia2driver.Bounds `json:"bounds"`
}

func findInSourceFile(out io.Writer, path string, sel contracts.Selector, all bool, format string) error {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided page source dump
	if err != nil {
		return fmt.Errorf("failed to read page source: %w", err)
	}
	elements, err := uia2driver.ParsePageSource(string(data))
	if err != nil {
		return err
	}

	var matched []*uia2driver.ParsedElement
	if all {
		query, err := selector.ToDirectQuery(sel)
		if err != nil {
			return err
		}
		matched = uia2driver.MatchDirect(elements, query)
	} else {
		elem, err := uia2driver.Resolve(elements, sel)
		if err != nil {
			return err
		}
		matched = []*uia2driver.ParsedElement{elem}
	}

	results := make([]sourceMatch, len(matched))
	for i, e := range matched {
		results[i] = sourceMatch{
			Text:        e.Text,
			ResourceID:  e.ResourceID,
			ContentDesc: e.ContentDesc,
			ClassName:   e.ClassName,
			Bounds:      e.Bounds,
		}
	}

	if format == config.FormatJSON {
		return writeJSON(out, results)
	}
	for _, r := range results {
		b := r.Bounds
		fmt.Fprintf(out, "%s text=%q resource-id=%q bounds=[%d,%d][%d,%d]\n",
			r.ClassName, r.Text, r.ResourceID, b.X, b.Y, b.X+b.Width, b.Y+b.Height)
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
