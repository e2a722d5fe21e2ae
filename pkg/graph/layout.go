package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/layout"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
)

// =============================================================================
// Layout - Computed Geometry
// =============================================================================

// Layout is the serialization format for a laid-out and routed diagram.
// It carries the same geometry the XML document encodes, in a form that is
// easy to inspect or feed to other tools.
type Layout struct {
	Name   string  `json:"name" bson:"name"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Blocks []Block `json:"blocks" bson:"blocks"`
	Arrows []Arrow `json:"arrows" bson:"arrows"`
}

// Block is a positioned activity box.
type Block struct {
	ID     int     `json:"id" bson:"id"`
	Label  string  `json:"label" bson:"label"`
	Number string  `json:"node_number,omitempty" bson:"node_number,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Arrow is a routed edge.
type Arrow struct {
	ID       string `json:"id" bson:"id"`
	SourceID *int   `json:"source_id" bson:"source_id"`
	TargetID *int   `json:"target_id" bson:"target_id"`
	Type     string `json:"type" bson:"type"`
	Label    string `json:"label,omitempty" bson:"label,omitempty"`

	Entry       *Anchor `json:"entry,omitempty" bson:"entry,omitempty"`
	Exit        *Anchor `json:"exit,omitempty" bson:"exit,omitempty"`
	SourcePoint *Point  `json:"source_point,omitempty" bson:"source_point,omitempty"`
	TargetPoint *Point  `json:"target_point,omitempty" bson:"target_point,omitempty"`
}

// Anchor is a relative position on a box edge.
type Anchor struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Point is an absolute page coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// NewLayout exports computed geometry. routes must be parallel to d.Edges().
// Width and Height span every box and free point.
func NewLayout(d *idef0.Diagram, boxes layout.Boxes, routes []route.Route) Layout {
	l := Layout{
		Name:   d.Name(),
		Blocks: make([]Block, 0, d.NodeCount()),
		Arrows: make([]Arrow, 0, d.EdgeCount()),
	}

	for _, n := range d.Nodes() {
		b := boxes[n.ID]
		l.Blocks = append(l.Blocks, Block{
			ID: n.ID, Label: n.Label, Number: n.Number,
			X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
		})
		l.extend(b.Right(), b.Bottom())
	}

	for i, e := range d.Edges() {
		a := Arrow{
			ID:       fmt.Sprintf("edge_%d", i+1),
			SourceID: nodeID(e.Source),
			TargetID: nodeID(e.Target),
			Type:     e.Role.String(),
			Label:    e.Label,
		}
		if i < len(routes) {
			rt := routes[i]
			if rt.Entry != nil {
				a.Entry = &Anchor{X: rt.Entry.X, Y: rt.Entry.Y}
			}
			if rt.Exit != nil {
				a.Exit = &Anchor{X: rt.Exit.X, Y: rt.Exit.Y}
			}
			if p := rt.SourcePoint; p != nil {
				a.SourcePoint = &Point{X: p.X, Y: p.Y}
				l.extend(p.X, p.Y)
			}
			if p := rt.TargetPoint; p != nil {
				a.TargetPoint = &Point{X: p.X, Y: p.Y}
				l.extend(p.X, p.Y)
			}
		}
		l.Arrows = append(l.Arrows, a)
	}

	return l
}

func (l *Layout) extend(x, y float64) {
	l.Width = max(l.Width, x)
	l.Height = max(l.Height, y)
}

// Block returns the block for node id.
func (l *Layout) Block(id int) (Block, bool) {
	for _, b := range l.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	for _, b := range l.Blocks {
		if b.Width <= 0 || b.Height <= 0 {
			return Layout{}, fmt.Errorf("block %d has empty size", b.ID)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
