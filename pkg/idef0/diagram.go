package idef0

import (
	"fmt"
	"slices"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

// Endpoint is one end of an arrow: either the diagram boundary or a
// reference to a node. The zero value is the boundary.
type Endpoint struct {
	node  int
	isRef bool
}

// Boundary returns the endpoint representing the diagram frame.
func Boundary() Endpoint { return Endpoint{} }

// NodeRef returns an endpoint attached to the node with the given id.
func NodeRef(id int) Endpoint { return Endpoint{node: id, isRef: true} }

// IsBoundary reports whether the endpoint lies on the diagram frame.
func (e Endpoint) IsBoundary() bool { return !e.isRef }

// NodeID returns the referenced node id. ok is false for boundary endpoints.
func (e Endpoint) NodeID() (id int, ok bool) { return e.node, e.isRef }

// String renders the endpoint for messages: "boundary" or "node 3".
func (e Endpoint) String() string {
	if !e.isRef {
		return "boundary"
	}
	return fmt.Sprintf("node %d", e.node)
}

// Node is an activity box.
type Node struct {
	ID     int    // Unique within a diagram; becomes the mxCell id
	Label  string // Display text
	Number string // Optional decomposition code, e.g. "A1"
}

// DisplayLabel returns the label prefixed with the node number and a line
// break when a number is present.
func (n Node) DisplayLabel() string {
	if n.Number == "" {
		return n.Label
	}
	return n.Number + "\n" + n.Label
}

// Edge is an ICOM arrow.
type Edge struct {
	Source Endpoint
	Target Endpoint
	Role   Role
	Label  string
}

// IsBoundaryOrigin reports whether the arrow enters the diagram from the frame.
func (e Edge) IsBoundaryOrigin() bool { return e.Source.IsBoundary() && !e.Target.IsBoundary() }

// IsBoundaryTermination reports whether the arrow leaves the diagram at the frame.
func (e Edge) IsBoundaryTermination() bool { return e.Target.IsBoundary() && !e.Source.IsBoundary() }

// Diagram is a validated, immutable IDEF0 diagram.
//
// The zero value is an empty diagram. Use [New] to build one from caller data.
// A Diagram is safe for concurrent reads.
type Diagram struct {
	name  string
	nodes []Node
	edges []Edge
	index map[int]int // node id -> position in nodes
}

// New validates nodes and edges and returns the diagram.
//
// Validation fails with a validation-family error when:
//   - a node id appears twice (DUPLICATE_NODE)
//   - an edge role is not one of the four ICOM roles (UNKNOWN_ROLE)
//   - an edge has two boundary endpoints (UNANCHORED_EDGE)
//   - an edge references a node id that is not in nodes (DANGLING_REFERENCE)
//
// The slices are copied; later changes by the caller do not affect the diagram.
func New(name string, nodes []Node, edges []Edge) (*Diagram, error) {
	index := make(map[int]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeDuplicateNode, "duplicate node id %d", n.ID)
		}
		index[n.ID] = i
	}

	for i, e := range edges {
		if !e.Role.Valid() {
			return nil, errors.New(errors.ErrCodeUnknownRole, "edge %d: unknown ICOM role %d", i, int(e.Role))
		}
		if e.Source.IsBoundary() && e.Target.IsBoundary() {
			return nil, errors.New(errors.ErrCodeUnanchoredEdge, "edge %d (%q): source and target cannot both be the boundary", i, e.Label)
		}
		for _, ep := range []Endpoint{e.Source, e.Target} {
			if id, ok := ep.NodeID(); ok {
				if _, known := index[id]; !known {
					return nil, errors.New(errors.ErrCodeDanglingReference, "edge %d (%q): unknown node id %d", i, e.Label, id)
				}
			}
		}
	}

	return &Diagram{
		name:  name,
		nodes: slices.Clone(nodes),
		edges: slices.Clone(edges),
		index: index,
	}, nil
}

// Name returns the diagram name.
func (d *Diagram) Name() string { return d.name }

// Nodes returns a copy of the nodes in layout order.
func (d *Diagram) Nodes() []Node { return slices.Clone(d.nodes) }

// Edges returns a copy of the edges in render order.
func (d *Diagram) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes.
func (d *Diagram) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges.
func (d *Diagram) EdgeCount() int { return len(d.edges) }

// Node returns the node with the given id.
func (d *Diagram) Node(id int) (Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return Node{}, false
	}
	return d.nodes[i], true
}

// Position returns the index of the node in layout order.
func (d *Diagram) Position(id int) (int, bool) {
	i, ok := d.index[id]
	return i, ok
}
