package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
)

// convertOpts holds the flags of the convert command.
type convertOpts struct {
	output      string
	indent      int
	compact     bool
	declaration bool
	standOff    float64
	noCache     bool
	refresh     bool
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	opts := convertOpts{indent: 2, standOff: route.DefaultStandOff}

	cmd := &cobra.Command{
		Use:   "convert [diagram.json]",
		Short: "Convert an IDEF0 diagram into a draw.io document",
		Long: `Convert an IDEF0 diagram into a draw.io (mxGraph XML) document.

Activities are laid out as a staircase from the top left, one step per
activity in file order. Arrows attach to the side their role calls for:
inputs on the left, controls on top, mechanisms at the bottom and outputs on
the right. Arrows crossing the diagram boundary start or end at a free point
beside the box.

The document is written next to the input as <name>.xml unless -o is given;
use -o - to write to stdout. Results are cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: <input>.xml)")
	cmd.Flags().IntVar(&opts.indent, "indent", opts.indent, "spaces per indentation level")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "write the document on a single line")
	cmd.Flags().BoolVar(&opts.declaration, "declaration", false, "prepend an <?xml ...?> declaration")
	cmd.Flags().Float64Var(&opts.standOff, "stand-off", opts.standOff, "distance of boundary arrow ends from their box")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results and regenerate")

	return cmd
}

// pipelineOptions maps the flags onto pipeline options.
func (o convertOpts) pipelineOptions() (pipeline.Options, error) {
	if o.indent < 0 || o.indent > 8 {
		return pipeline.Options{}, fmt.Errorf("invalid indent: %d (must be between 0 and 8)", o.indent)
	}
	return pipeline.Options{
		Indent:      strings.Repeat(" ", o.indent),
		Compact:     o.compact || o.indent == 0,
		Declaration: o.declaration,
		StandOff:    route.StandOff(o.standOff),
		Refresh:     o.refresh,
	}, nil
}

// runConvert loads the diagram, converts it and writes the document.
func (c *CLI) runConvert(ctx context.Context, stdout io.Writer, input string, opts convertOpts) error {
	popts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}

	d, err := readDiagram(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st := startStage(c.Logger, "converted")
	result, err := runner.Convert(ctx, d, popts)
	if err != nil {
		return fmt.Errorf("convert %s: %w", input, err)
	}

	out := outputPath(opts.output, input, ".xml")
	if err := writeOutput(stdout, out, result.Document); err != nil {
		return err
	}
	if out == "-" {
		return nil
	}
	st.done("file", input, "activities", result.Stats.NodeCount, "arrows", result.Stats.EdgeCount, "cached", result.CacheHit)

	printSuccess("Document written")
	printFile(out)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
	printNewline()
	printNextStep("Open in draw.io or preview", appName+" preview "+input)
	return nil
}

// =============================================================================
// validate
// =============================================================================

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [diagram.json]",
		Short: "Check a diagram file without producing output",
		Long: `Check a diagram file without producing output.

Reports unknown roles, duplicate activity ids, arrows referencing missing
activities and arrows with neither end attached. Arrows that enter an
activity with a role that has no dedicated side are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := readDiagram(args[0])
			if err != nil {
				return err
			}

			printSuccess("%s is valid", args[0])
			printStats(d.NodeCount(), d.EdgeCount(), false)
			for _, w := range diagramWarnings(d) {
				printWarning("%s", w)
			}
			return nil
		},
	}
}

// diagramWarnings lists arrows whose target side falls back to the input
// side because their role has no dedicated entry anchor.
func diagramWarnings(d *idef0.Diagram) []string {
	var warnings []string
	for i, e := range d.Edges() {
		id, ok := e.Target.NodeID()
		if !ok || e.Role != idef0.RoleOutput {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("edge_%d: %s arrow enters activity %d on the input side", i+1, e.Role, id))
	}
	return warnings
}
