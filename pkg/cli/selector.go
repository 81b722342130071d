package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/patrol-runner/pkg/contracts"
	"github.com/devicelab-dev/patrol-runner/pkg/selector"
)

// Query forms printed by the selector command.
const (
	formIndex  = "index"
	formDirect = "direct"
	formBoth   = "both"
)

// selectorFlags describe a wire selector. A field is present only when its
// flag is set, so --enabled=false is distinct from leaving enabled out.
var selectorFlags = []cli.Flag{
	&cli.StringFlag{Name: "from", Usage: "Read the selector from a YAML or JSON file; flags override its fields"},
	&cli.StringFlag{Name: "text", Usage: "Exact text"},
	&cli.StringFlag{Name: "text-starts-with", Usage: "Text prefix"},
	&cli.StringFlag{Name: "text-contains", Usage: "Text substring"},
	&cli.StringFlag{Name: "class-name", Usage: "Widget class name"},
	&cli.StringFlag{Name: "content-description", Usage: "Exact content description"},
	&cli.StringFlag{Name: "content-description-starts-with", Usage: "Content description prefix"},
	&cli.StringFlag{Name: "content-description-contains", Usage: "Content description substring"},
	&cli.StringFlag{Name: "resource-id", Usage: "Resource id (package:id/name)"},
	&cli.IntFlag{Name: "instance", Usage: "Zero-based index among matches"},
	&cli.BoolFlag{Name: "enabled", Usage: "Enabled state"},
	&cli.BoolFlag{Name: "focused", Usage: "Focused state"},
	&cli.StringFlag{Name: "pkg", Usage: "Application package"},
}

var selectorCommand = &cli.Command{
	Name:  "selector",
	Usage: "Compile a selector into UIAutomator2 queries",
	Description: `Print the index query (UiSelector expression) and the direct query (XPath)
for a selector.

Examples:
  patrol-runner selector --text "Log in"
  patrol-runner selector --class-name android.widget.Button --instance 2 --form index
  patrol-runner selector --from selector.yaml --enabled=false`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "form",
			Usage: "Query form to print (index, direct, both)",
			Value: formBoth,
		},
	}, selectorFlags...),
	Action: runSelector,
}

// selectorFromFlags builds a Selector from --from and the field flags.
func selectorFromFlags(c *cli.Context) (contracts.Selector, error) {
	var sel contracts.Selector
	if path := c.String("from"); path != "" {
		data, err := os.ReadFile(path) //#nosec G304 -- user-provided selector file
		if err != nil {
			return contracts.Selector{}, fmt.Errorf("failed to read selector: %w", err)
		}
		if sel, err = contracts.ParseSelector(data); err != nil {
			return contracts.Selector{}, err
		}
	}

	str := func(name string, dst **string) {
		if c.IsSet(name) {
			*dst = contracts.String(c.String(name))
		}
	}
	str("text", &sel.Text)
	str("text-starts-with", &sel.TextStartsWith)
	str("text-contains", &sel.TextContains)
	str("class-name", &sel.ClassName)
	str("content-description", &sel.ContentDescription)
	str("content-description-starts-with", &sel.ContentDescriptionStartsWith)
	str("content-description-contains", &sel.ContentDescriptionContains)
	str("resource-id", &sel.ResourceID)
	str("pkg", &sel.Pkg)

	if c.IsSet("instance") {
		sel.Instance = contracts.Int(c.Int("instance"))
	}
	if c.IsSet("enabled") {
		sel.Enabled = contracts.Bool(c.Bool("enabled"))
	}
	if c.IsSet("focused") {
		sel.Focused = contracts.Bool(c.Bool("focused"))
	}

	return sel, nil
}

func runSelector(c *cli.Context) error {
	form := c.String("form")
	switch form {
	case formIndex, formDirect, formBoth:
	default:
		return fmt.Errorf("unknown form %q (use index, direct or both)", form)
	}

	sel, err := selectorFromFlags(c)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if form != formDirect {
		index := selector.ToIndexQuery(sel)
		if form == formIndex {
			fmt.Fprintln(out, index.String())
			return nil
		}
		fmt.Fprintf(out, "index:  %s\n", index.String())
	}

	direct, err := selector.ToDirectQuery(sel)
	if form == formDirect {
		if err != nil {
			return err
		}
		fmt.Fprintln(out, direct.XPath())
		return nil
	}

	if err != nil {
		fmt.Fprintf(out, "direct: unavailable (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "direct: %s\n", direct.XPath())
	return nil
}
