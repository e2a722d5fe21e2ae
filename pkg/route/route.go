// Package route derives arrow anchoring for IDEF0 edges.
//
// For every edge the router decides:
//   - which side of the target box the arrow enters (by ICOM role)
//   - which side of the source box it leaves (always the right side)
//   - a free-floating start or end point when that end lies on the
//     diagram boundary rather than on a node
//
// Anchors are expressed as relative coordinates on the box (0..1 on each
// axis), matching mxGraph's entryX/entryY and exitX/exitY style keys.
package route

import (
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/layout"
)

// DefaultStandOff is the distance between a box and the free point of a
// boundary arrow.
const DefaultStandOff = 60.0

// StandOff returns a pointer to d, for option structs where nil selects
// [DefaultStandOff] and an explicit zero is kept.
func StandOff(d float64) *float64 { return &d }

// Anchor is a point on a box in relative coordinates.
type Anchor struct {
	X, Y float64
}

// Side anchors.
var (
	LeftMiddle   = Anchor{X: 0, Y: 0.5}
	TopMiddle    = Anchor{X: 0.5, Y: 0}
	BottomMiddle = Anchor{X: 0.5, Y: 1}
	RightMiddle  = Anchor{X: 1, Y: 0.5}
)

// Point is an absolute page coordinate.
type Point struct {
	X, Y float64
}

// Route is the routing descriptor of a single edge. Entry and SourcePoint
// are mutually exclusive with respect to their endpoint: a node endpoint gets
// an anchor, a boundary endpoint gets a free point.
type Route struct {
	Entry       *Anchor // nil when the target is the boundary
	Exit        *Anchor // nil when the source is the boundary
	SourcePoint *Point  // set only when the source is the boundary
	TargetPoint *Point  // set only when the target is the boundary
}

// Router computes routes. The zero value uses a zero stand-off; use [New].
// A Router holds no per-call state and is safe for concurrent use.
type Router struct {
	StandOff float64
}

// New returns a router with the given stand-off distance.
func New(standOff float64) Router {
	return Router{StandOff: standOff}
}

// Default returns a router using [DefaultStandOff].
func Default() Router {
	return New(DefaultStandOff)
}

// EntryAnchor returns the side of the target box an arrow of role r enters.
//
// Output arrows entering an activity use the left side, the same as Input.
func EntryAnchor(r idef0.Role) Anchor {
	switch r {
	case idef0.RoleInput:
		return LeftMiddle
	case idef0.RoleControl:
		return TopMiddle
	case idef0.RoleMechanism:
		return BottomMiddle
	default:
		return LeftMiddle
	}
}

// ExitAnchor returns the side of the source box every arrow leaves from.
func ExitAnchor() Anchor {
	return RightMiddle
}

// Route computes the routing descriptor for e.
//
// boxes must contain every node referenced by e; diagrams built with
// idef0.New guarantee that for boxes produced by layout.Compute.
func (r Router) Route(e idef0.Edge, boxes layout.Boxes) Route {
	var rt Route

	if id, ok := e.Target.NodeID(); ok {
		a := EntryAnchor(e.Role)
		rt.Entry = &a
		if e.Source.IsBoundary() {
			p := r.originPoint(e.Role, boxes[id])
			rt.SourcePoint = &p
		}
	}

	if id, ok := e.Source.NodeID(); ok {
		a := ExitAnchor()
		rt.Exit = &a
		if e.Target.IsBoundary() {
			p := r.terminationPoint(boxes[id])
			rt.TargetPoint = &p
		}
	}

	return rt
}

// RouteAll routes every edge, preserving order.
func (r Router) RouteAll(edges []idef0.Edge, boxes layout.Boxes) []Route {
	routes := make([]Route, len(edges))
	for i, e := range edges {
		routes[i] = r.Route(e, boxes)
	}
	return routes
}

// originPoint places the free start of a boundary arrow outside the target
// box, on the side matching the role.
func (r Router) originPoint(role idef0.Role, b layout.Box) Point {
	switch role {
	case idef0.RoleControl:
		return Point{X: b.CenterX(), Y: b.Y - r.StandOff}
	case idef0.RoleMechanism:
		return Point{X: b.CenterX(), Y: b.Bottom() + r.StandOff}
	default:
		return Point{X: b.X - r.StandOff, Y: b.CenterY()}
	}
}

// terminationPoint places the free end of an arrow leaving the diagram to
// the right of the source box, vertically centered.
func (r Router) terminationPoint(b layout.Box) Point {
	return Point{X: b.Right() + r.StandOff, Y: b.CenterY()}
}
