package mxgraph

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/layout"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
)

// Cell ids and styles.
const (
	RootCellID  = "0"
	LayerCellID = "layer_1"

	VertexStyle = "rounded=0;whiteSpace=wrap;html=1;shadow=0;"
	EdgeStyle   = "edgeStyle=orthogonalEdgeStyle;rounded=0;orthogonalLoop=1;jettySize=auto;html=1"

	DefaultIndent = "  "
)

// MediaType is the content type of a rendered document.
const MediaType = "application/xml"

// Page holds the mxGraphModel page attributes.
type Page struct {
	Dx         int    `json:"dx" toml:"dx"`
	Dy         int    `json:"dy" toml:"dy"`
	GridSize   int    `json:"grid_size" toml:"grid_size"`
	PageWidth  int    `json:"page_width" toml:"page_width"`
	PageHeight int    `json:"page_height" toml:"page_height"`
	Background string `json:"background" toml:"background"`
}

// DefaultPage returns the A4 portrait page draw.io uses by default.
func DefaultPage() Page {
	return Page{
		Dx:         1000,
		Dy:         1000,
		GridSize:   10,
		PageWidth:  827,
		PageHeight: 1169,
		Background: "#ffffff",
	}
}

// Options configures serialization.
type Options struct {
	// Indent is the per-level indentation. Empty means DefaultIndent unless
	// Compact is set.
	Indent string
	// Compact writes the document on a single line.
	Compact bool
	// Declaration prepends <?xml version="1.0" encoding="UTF-8"?>.
	Declaration bool
	// Page overrides the page attributes. Zero fields take the defaults.
	Page Page
	// Layout overrides the staircase constants used by [Convert]. A zero
	// value means layout.DefaultParams.
	Layout layout.Params
	// StandOff overrides the boundary arrow distance used by [Convert].
	// Nil means route.DefaultStandOff; an explicit zero puts the free end
	// on the box edge.
	StandOff *float64
}

// WithDefaults returns a copy of o with zero fields replaced.
func (o Options) WithDefaults() Options {
	if o.Indent == "" && !o.Compact {
		o.Indent = DefaultIndent
	}
	def := DefaultPage()
	if o.Page.Dx == 0 {
		o.Page.Dx = def.Dx
	}
	if o.Page.Dy == 0 {
		o.Page.Dy = def.Dy
	}
	if o.Page.GridSize == 0 {
		o.Page.GridSize = def.GridSize
	}
	if o.Page.PageWidth == 0 {
		o.Page.PageWidth = def.PageWidth
	}
	if o.Page.PageHeight == 0 {
		o.Page.PageHeight = def.PageHeight
	}
	if o.Page.Background == "" {
		o.Page.Background = def.Background
	}
	if o.Layout == (layout.Params{}) {
		o.Layout = layout.DefaultParams()
	}
	if o.StandOff == nil {
		o.StandOff = route.StandOff(route.DefaultStandOff)
	}
	return o
}

// =============================================================================
// Document tree
// =============================================================================

// Document is the mxGraphModel element. Field order is attribute order.
type Document struct {
	XMLName    xml.Name `xml:"mxGraphModel"`
	Dx         string   `xml:"dx,attr"`
	Dy         string   `xml:"dy,attr"`
	Grid       string   `xml:"grid,attr"`
	GridSize   string   `xml:"gridSize,attr"`
	Guides     string   `xml:"guides,attr"`
	Tooltips   string   `xml:"tooltips,attr"`
	Connect    string   `xml:"connect,attr"`
	Arrows     string   `xml:"arrows,attr"`
	Fold       string   `xml:"fold,attr"`
	Page       string   `xml:"page,attr"`
	PageScale  string   `xml:"pageScale,attr"`
	PageWidth  string   `xml:"pageWidth,attr"`
	PageHeight string   `xml:"pageHeight,attr"`
	Background string   `xml:"background,attr"`
	Root       Root     `xml:"root"`
}

// Root holds every cell in document order.
type Root struct {
	Cells []Cell `xml:"mxCell"`
}

// Cell is an mxCell: a base cell, a vertex or an edge.
type Cell struct {
	ID       string    `xml:"id,attr"`
	Value    *string   `xml:"value,attr,omitempty"` // nil only on the base cells
	Style    string    `xml:"style,attr,omitempty"`
	Parent   string    `xml:"parent,attr,omitempty"`
	Vertex   string    `xml:"vertex,attr,omitempty"`
	Edge     string    `xml:"edge,attr,omitempty"`
	Source   string    `xml:"source,attr,omitempty"`
	Target   string    `xml:"target,attr,omitempty"`
	Geometry *Geometry `xml:"mxGeometry"`
}

// Label returns the cell value, or "" for cells without one.
func (c Cell) Label() string {
	if c.Value == nil {
		return ""
	}
	return *c.Value
}

// IsVertex reports whether the cell is an activity box.
func (c Cell) IsVertex() bool { return c.Vertex == "1" }

// IsEdge reports whether the cell is an arrow.
func (c Cell) IsEdge() bool { return c.Edge == "1" }

// Geometry is an mxGeometry element.
type Geometry struct {
	X        string  `xml:"x,attr,omitempty"`
	Y        string  `xml:"y,attr,omitempty"`
	Width    string  `xml:"width,attr,omitempty"`
	Height   string  `xml:"height,attr,omitempty"`
	Relative string  `xml:"relative,attr,omitempty"`
	As       string  `xml:"as,attr"`
	Points   []Point `xml:"mxPoint"`
}

// Point is an mxPoint element.
type Point struct {
	X  string `xml:"x,attr"`
	Y  string `xml:"y,attr"`
	As string `xml:"as,attr"`
}

// Point roles inside an edge geometry.
const (
	SourcePoint = "sourcePoint"
	TargetPoint = "targetPoint"
)

// Cell returns the cell with the given id.
func (d *Document) Cell(id string) (Cell, bool) {
	for _, c := range d.Root.Cells {
		if c.ID == id {
			return c, true
		}
	}
	return Cell{}, false
}

// Point returns the mxPoint with the given role, if present.
func (g *Geometry) Point(as string) (Point, bool) {
	if g == nil {
		return Point{}, false
	}
	for _, p := range g.Points {
		if p.As == as {
			return p, true
		}
	}
	return Point{}, false
}

// =============================================================================
// Building
// =============================================================================

// Build assembles the document tree for d.
//
// boxes must cover every node and routes must be parallel to d.Edges();
// [Convert] computes both from the defaults.
func Build(d *idef0.Diagram, boxes layout.Boxes, routes []route.Route, opts Options) (*Document, error) {
	if d.EdgeCount() != len(routes) {
		return nil, errors.New(errors.ErrCodeInternal, "%d routes for %d edges", len(routes), d.EdgeCount())
	}
	opts = opts.WithDefaults()
	pg := opts.Page

	doc := &Document{
		Dx:         strconv.Itoa(pg.Dx),
		Dy:         strconv.Itoa(pg.Dy),
		Grid:       "1",
		GridSize:   strconv.Itoa(pg.GridSize),
		Guides:     "1",
		Tooltips:   "1",
		Connect:    "1",
		Arrows:     "1",
		Fold:       "1",
		Page:       "1",
		PageScale:  "1",
		PageWidth:  strconv.Itoa(pg.PageWidth),
		PageHeight: strconv.Itoa(pg.PageHeight),
		Background: pg.Background,
	}

	cells := make([]Cell, 0, 2+d.NodeCount()+d.EdgeCount())
	cells = append(cells,
		Cell{ID: RootCellID},
		Cell{ID: LayerCellID, Parent: RootCellID},
	)

	for _, n := range d.Nodes() {
		b, ok := boxes[n.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "no box for node %d", n.ID)
		}
		cells = append(cells, vertexCell(n, b))
	}

	for i, e := range d.Edges() {
		cells = append(cells, edgeCell(i, e, routes[i]))
	}

	doc.Root.Cells = cells
	return doc, nil
}

// EdgeID returns the cell id of the i-th edge (zero-based index).
func EdgeID(i int) string {
	return "edge_" + strconv.Itoa(i+1)
}

// VertexID returns the cell id of a node.
func VertexID(nodeID int) string {
	return strconv.Itoa(nodeID)
}

func vertexCell(n idef0.Node, b layout.Box) Cell {
	return Cell{
		ID:     VertexID(n.ID),
		Value:  text(n.DisplayLabel()),
		Style:  VertexStyle,
		Parent: LayerCellID,
		Vertex: "1",
		Geometry: &Geometry{
			X:      num(b.X),
			Y:      num(b.Y),
			Width:  num(b.Width),
			Height: num(b.Height),
			As:     "geometry",
		},
	}
}

func edgeCell(i int, e idef0.Edge, rt route.Route) Cell {
	c := Cell{
		ID:     EdgeID(i),
		Value:  text(e.Label),
		Style:  edgeStyle(rt),
		Parent: LayerCellID,
		Edge:   "1",
		Geometry: &Geometry{
			Relative: "1",
			As:       "geometry",
		},
	}
	if id, ok := e.Source.NodeID(); ok {
		c.Source = VertexID(id)
	}
	if id, ok := e.Target.NodeID(); ok {
		c.Target = VertexID(id)
	}
	if p := rt.SourcePoint; p != nil {
		c.Geometry.Points = append(c.Geometry.Points, Point{X: num(p.X), Y: num(p.Y), As: SourcePoint})
	}
	if p := rt.TargetPoint; p != nil {
		c.Geometry.Points = append(c.Geometry.Points, Point{X: num(p.X), Y: num(p.Y), As: TargetPoint})
	}
	return c
}

// edgeStyle appends the entry and exit fragments to the base edge style.
func edgeStyle(rt route.Route) string {
	var sb strings.Builder
	sb.WriteString(EdgeStyle)
	if a := rt.Entry; a != nil {
		sb.WriteString(";entryX=" + num(a.X) + ";entryY=" + num(a.Y))
	}
	if a := rt.Exit; a != nil {
		sb.WriteString(";exitX=" + num(a.X) + ";exitY=" + num(a.Y))
	}
	return sb.String()
}

func text(s string) *string { return &s }

// num formats coordinates without trailing zeros: 120, 0.5, 62.5.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// Serialization
// =============================================================================

// Marshal serializes a document tree.
func Marshal(doc *Document, opts Options) ([]byte, error) {
	opts = opts.WithDefaults()

	var (
		out []byte
		err error
	)
	if opts.Compact {
		out, err = xml.Marshal(doc)
	} else {
		out, err = xml.MarshalIndent(doc, "", opts.Indent)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode mxGraph document")
	}
	if opts.Declaration {
		decl := strings.TrimSuffix(xml.Header, "\n")
		if !opts.Compact {
			decl += "\n"
		}
		out = append([]byte(decl), out...)
	}
	return out, nil
}

// Render builds and serializes the document for d.
func Render(d *idef0.Diagram, boxes layout.Boxes, routes []route.Route, opts Options) ([]byte, error) {
	doc, err := Build(d, boxes, routes, opts)
	if err != nil {
		return nil, err
	}
	return Marshal(doc, opts)
}

// Convert runs layout, routing and serialization for d.
func Convert(d *idef0.Diagram, opts Options) ([]byte, error) {
	opts = opts.WithDefaults()
	boxes := layout.Diagram(d, opts.Layout)
	routes := route.New(*opts.StandOff).RouteAll(d.Edges(), boxes)
	return Render(d, boxes, routes, opts)
}

// Parse decodes a document produced by [Marshal]. It exists for inspection
// and tests; it does not reconstruct an idef0.Diagram.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode mxGraph document")
	}
	return &doc, nil
}
