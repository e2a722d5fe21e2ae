// Package layout assigns boxes to IDEF0 activities.
//
// The layout is the conventional IDEF0 "staircase": successive activities
// step diagonally down and to the right. Position depends only on a node's
// index in the diagram's node sequence:
//
//	x = StartX + i*OffsetX
//	y = StartY + i*OffsetY
//
// Every box has the same BlockWidth and BlockHeight. There is no overlap
// avoidance and no optimization; re-ordering the nodes moves every box.
package layout

import "github.com/PigStep/vibe-idef0-front/pkg/idef0"

// Default layout constants.
const (
	DefaultStartX      = 120.0
	DefaultStartY      = 100.0
	DefaultOffsetX     = 180.0
	DefaultOffsetY     = 120.0
	DefaultBlockWidth  = 140.0
	DefaultBlockHeight = 80.0
)

// Params holds the staircase constants.
type Params struct {
	StartX      float64 `json:"start_x" toml:"start_x"`
	StartY      float64 `json:"start_y" toml:"start_y"`
	OffsetX     float64 `json:"offset_x" toml:"offset_x"`
	OffsetY     float64 `json:"offset_y" toml:"offset_y"`
	BlockWidth  float64 `json:"block_width" toml:"block_width"`
	BlockHeight float64 `json:"block_height" toml:"block_height"`
}

// DefaultParams returns the conventional page constants.
func DefaultParams() Params {
	return Params{
		StartX:      DefaultStartX,
		StartY:      DefaultStartY,
		OffsetX:     DefaultOffsetX,
		OffsetY:     DefaultOffsetY,
		BlockWidth:  DefaultBlockWidth,
		BlockHeight: DefaultBlockHeight,
	}
}

// Box is an axis-aligned rectangle in page coordinates.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the bottom edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center.
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// Boxes maps node ids to their computed boxes.
type Boxes map[int]Box

// BoxAt returns the box for the node at sequence index i.
func (p Params) BoxAt(i int) Box {
	return Box{
		X:      p.StartX + float64(i)*p.OffsetX,
		Y:      p.StartY + float64(i)*p.OffsetY,
		Width:  p.BlockWidth,
		Height: p.BlockHeight,
	}
}

// Compute assigns a box to every node by its position in nodes.
func Compute(nodes []idef0.Node, p Params) Boxes {
	boxes := make(Boxes, len(nodes))
	for i, n := range nodes {
		boxes[n.ID] = p.BoxAt(i)
	}
	return boxes
}

// Diagram is a convenience wrapper around [Compute] for a validated diagram.
func Diagram(d *idef0.Diagram, p Params) Boxes {
	return Compute(d.Nodes(), p)
}
