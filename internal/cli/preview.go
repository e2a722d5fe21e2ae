package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PigStep/vibe-idef0-front/pkg/pipeline"
)

// previewOpts holds the flags of the preview command.
type previewOpts struct {
	output    string
	format    string
	direction string
	roles     bool
	scale     float64
	noCache   bool
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	opts := previewOpts{
		format:    pipeline.DefaultFormat,
		direction: "LR",
		scale:     pipeline.DefaultScale,
	}

	cmd := &cobra.Command{
		Use:   "preview [diagram.json]",
		Short: "Render a Graphviz preview of a diagram",
		Long: `Render a Graphviz preview of a diagram.

The preview draws activities as boxes and arrows as colored edges, with
boundary arrows starting or ending at small points. It is meant for a quick
look at the structure; the draw.io document from 'convert' is the real output.

Formats: svg (default), png, pdf, dot. PNG and PDF need rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, png, pdf, dot")
	cmd.Flags().StringVar(&opts.direction, "direction", opts.direction, "graph direction: LR, TB")
	cmd.Flags().BoolVar(&opts.roles, "roles", false, "append the arrow role to every label")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runPreview loads the diagram and renders the preview.
func (c *CLI) runPreview(ctx context.Context, stdout io.Writer, input string, opts previewOpts) error {
	d, err := readDiagram(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipeline.Options{
		Format:    opts.format,
		Direction: strings.ToUpper(opts.direction),
		ShowRoles: opts.roles,
		Scale:     opts.scale,
	}

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s preview", opts.format))
	spin.Start()

	data, cacheHit, err := runner.PreviewWithCacheInfo(ctx, d, popts)
	if err != nil {
		spin.Fail("Preview failed")
		return fmt.Errorf("preview %s: %w", input, err)
	}
	spin.Stop()

	if spin.Cancelled() {
		return ctx.Err()
	}

	out := outputPath(opts.output, input, "."+opts.format)
	if err := writeOutput(stdout, out, data); err != nil {
		return err
	}
	if out == "-" {
		return nil
	}

	printSuccess("Preview written")
	printFile(out)
	printStats(d.NodeCount(), d.EdgeCount(), cacheHit)
	return nil
}
