// Package pipeline provides the conversion pipeline for IDEF0 diagrams.
//
// This package implements the complete layout → route → render pipeline that
// is used by both the CLI and the HTTP server. Centralizing it here keeps
// option defaults, caching and instrumentation identical for every entry
// point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Layout: place every activity on the staircase (pkg/layout)
//  2. Route: anchor every ICOM arrow to the correct box side (pkg/route)
//  3. Render: emit the mxGraph document (pkg/render/mxgraph) or a Graphviz
//     preview (pkg/render/nodelink)
//
// Stages are pure; only the [Runner] touches the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Convert(ctx, d, pipeline.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Document)
//
// Render a preview:
//
//	svg, err := runner.Preview(ctx, d, pipeline.Options{Format: pipeline.FormatSVG})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/PigStep/vibe-idef0-front/pkg/cache"
	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/graph"
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/layout"
	"github.com/PigStep/vibe-idef0-front/pkg/render/mxgraph"
	"github.com/PigStep/vibe-idef0-front/pkg/render/nodelink"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFormat is the default preview format.
	DefaultFormat = FormatSVG

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for preview formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported preview formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// mediaTypes maps preview formats to HTTP content types.
var mediaTypes = map[string]string{
	FormatSVG: "image/svg+xml",
	FormatPNG: "image/png",
	FormatPDF: "application/pdf",
	FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

// MediaType returns the content type for a preview format, or
// application/octet-stream for unknown formats.
func MediaType(format string) string {
	if t, ok := mediaTypes[format]; ok {
		return t
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Document options
	Indent      string        `json:"indent,omitempty"`
	Compact     bool          `json:"compact,omitempty"`
	Declaration bool          `json:"declaration,omitempty"`
	Layout      layout.Params `json:"layout,omitempty"`
	StandOff    *float64      `json:"stand_off,omitempty"` // nil means route.DefaultStandOff

	// Preview options
	Format    string  `json:"format,omitempty"`
	Direction string  `json:"direction,omitempty"`
	ShowRoles bool    `json:"show_roles,omitempty"`
	Scale     float64 `json:"scale,omitempty"`

	// Refresh bypasses cache reads; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a conversion.
type Result struct {
	// Diagram is the converted diagram.
	Diagram *idef0.Diagram

	// DiagramHash is the content hash of the canonical diagram JSON.
	DiagramHash string

	// Document is the serialized mxGraphModel.
	Document []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Document came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Bytes      int
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a preview format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot)", format)
	}
	return nil
}

// ValidateDirection checks that a preview direction is valid.
func ValidateDirection(dir string) error {
	if !nodelink.ValidDirection(dir) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid direction: %q (must be LR or TB)", dir)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for conversion.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.StandOff != nil && *o.StandOff < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "stand_off must not be negative")
	}
	if o.Layout != (layout.Params{}) && (o.Layout.BlockWidth <= 0 || o.Layout.BlockHeight <= 0) {
		return errors.New(errors.ErrCodeInvalidInput, "block_width and block_height must be positive")
	}
	o.SetDocumentDefaults()
	o.validated = true
	return nil
}

// SetDocumentDefaults sets default values for document rendering.
func (o *Options) SetDocumentDefaults() {
	if o.Indent == "" && !o.Compact {
		o.Indent = mxgraph.DefaultIndent
	}
	if o.Compact {
		o.Indent = ""
	}
	if o.Layout == (layout.Params{}) {
		o.Layout = layout.DefaultParams()
	}
	if o.StandOff == nil {
		o.StandOff = route.StandOff(route.DefaultStandOff)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForPreview validates and sets defaults for preview rendering.
func (o *Options) ValidateForPreview() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Direction == "" {
		o.Direction = nodelink.DirectionLR
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	return ValidateDirection(o.Direction)
}

// DocumentOptions returns the serializer options.
func (o *Options) DocumentOptions() mxgraph.Options {
	return mxgraph.Options{
		Indent:      o.Indent,
		Compact:     o.Compact,
		Declaration: o.Declaration,
		Layout:      o.Layout,
		StandOff:    o.StandOff,
	}
}

// PreviewOptions returns the Graphviz preview options.
func (o *Options) PreviewOptions() nodelink.Options {
	return nodelink.Options{Direction: o.Direction, ShowRoles: o.ShowRoles}
}

// DocumentKeyOpts returns cache key options for document rendering.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Indent:      o.Indent,
		Compact:     o.Compact,
		Declaration: o.Declaration,
		StartX:      o.Layout.StartX,
		StartY:      o.Layout.StartY,
		OffsetX:     o.Layout.OffsetX,
		OffsetY:     o.Layout.OffsetY,
		BlockWidth:  o.Layout.BlockWidth,
		BlockHeight: o.Layout.BlockHeight,
		StandOff:    o.standOff(),
	}
}

// standOff returns the effective boundary arrow distance.
func (o *Options) standOff() float64 {
	if o.StandOff == nil {
		return route.DefaultStandOff
	}
	return *o.StandOff
}

// PreviewKeyOpts returns cache key options for preview rendering.
func (o *Options) PreviewKeyOpts() cache.PreviewKeyOpts {
	return cache.PreviewKeyOpts{
		Format:    o.Format,
		Direction: o.Direction,
		ShowRoles: o.ShowRoles,
		Scale:     o.Scale,
	}
}

// DiagramHash returns the content hash of the canonical diagram JSON.
func DiagramHash(d *idef0.Diagram) (string, error) {
	data, err := graph.MarshalDiagram(d)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "serialize diagram for cache key")
	}
	return cache.Hash(data), nil
}
