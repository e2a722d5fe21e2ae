package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/render"
)

// Layout directions.
const (
	DirectionLR = "LR"
	DirectionTB = "TB"
)

// Options configures preview generation.
type Options struct {
	// Direction is the Graphviz rankdir. Empty or unknown values mean LR,
	// which keeps the left-to-right reading order of the activity chain.
	Direction string
	// ShowRoles appends the ICOM role to every arrow label.
	ShowRoles bool
}

// ValidDirection reports whether dir is a supported rankdir. Empty is valid.
func ValidDirection(dir string) bool {
	return dir == "" || dir == DirectionLR || dir == DirectionTB
}

// roleStyle holds the head port and color for each ICOM role. The head port
// mirrors the side of the box the arrow attaches to in the mxGraph document.
var roleStyle = map[idef0.Role]struct {
	port  string
	color string
}{
	idef0.RoleInput:     {"w", "#1f2937"},
	idef0.RoleControl:   {"n", "#2563eb"},
	idef0.RoleOutput:    {"w", "#16a34a"},
	idef0.RoleMechanism: {"s", "#9333ea"},
}

// ToDOT converts a diagram to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Arrows with a boundary end get a point-shaped helper node named
// "boundary_<n>" where n is the 1-based edge position, so the preview shows
// where an arrow enters or leaves the frame.
func ToDOT(d *idef0.Diagram, opts Options) string {
	dir := opts.Direction
	if dir != DirectionTB {
		dir = DirectionLR
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11, arrowsize=0.7];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	if name := d.Name(); name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", name)
	}
	buf.WriteString("\n")

	for _, n := range d.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeName(n.ID), n.DisplayLabel())
	}

	buf.WriteString("\n")
	for i, e := range d.Edges() {
		from, to := endpointName(e.Source, i), endpointName(e.Target, i)
		if e.Source.IsBoundary() {
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.06, label=\"\"];\n", from)
		}
		if e.Target.IsBoundary() {
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.06, label=\"\"];\n", to)
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(edgeAttrs(e, opts.ShowRoles), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeName(id int) string {
	return "n" + strconv.Itoa(id)
}

func endpointName(ep idef0.Endpoint, edgeIndex int) string {
	if id, ok := ep.NodeID(); ok {
		return nodeName(id)
	}
	return "boundary_" + strconv.Itoa(edgeIndex+1)
}

func edgeAttrs(e idef0.Edge, showRoles bool) []string {
	style := roleStyle[e.Role]
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, showRoles))}
	if !e.Source.IsBoundary() {
		attrs = append(attrs, "tailport=e")
	}
	if !e.Target.IsBoundary() {
		attrs = append(attrs, "headport="+style.port)
	}
	attrs = append(attrs, fmt.Sprintf("color=%q", style.color), fmt.Sprintf("fontcolor=%q", style.color))
	return attrs
}

func fmtLabel(e idef0.Edge, showRoles bool) string {
	if !showRoles {
		return e.Label
	}
	if e.Label == "" {
		return e.Role.String()
	}
	return e.Label + " (" + e.Role.String() + ")"
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the viewBox starts at the
// origin and width/height match it in user units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
