// Package nodelink renders IDEF0 diagrams as Graphviz node-link previews.
//
// # Overview
//
// The mxGraph document is the primary artifact, but it needs draw.io to be
// looked at. This package produces a quick preview instead: activities become
// boxes, ICOM arrows become Graphviz edges attached to the side of the box
// their role dictates, and boundary ends become small point nodes.
//
// # Usage
//
// Convert a diagram to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{ShowRoles: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Direction: Graphviz rankdir, [DirectionLR] (default) or [DirectionTB]
//   - ShowRoles: append the ICOM role to each arrow label
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
