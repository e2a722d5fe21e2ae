// Package render holds the output renderers for IDEF0 diagrams.
//
// # Overview
//
// Two renderers live in subpackages:
//
//   - [mxgraph]: the draw.io / mxGraph XML document (the primary artifact)
//   - [nodelink]: Graphviz previews in SVG, PNG, PDF or raw DOT
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, _ := nodelink.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// When rsvg-convert is missing both return an UNSUPPORTED error; use
// [Available] to check up front.
package render
