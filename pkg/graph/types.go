package graph

import (
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
)

// =============================================================================
// Diagram - Wire Format
// =============================================================================

// Diagram is the JSON wire format for IDEF0 diagrams.
// Used for CLI input files, API request bodies and cache keys.
//
// A null or absent source_id/target_id marks the diagram boundary.
type Diagram struct {
	Name  string `json:"name" bson:"name" validate:"max=256"`
	Nodes []Node `json:"nodes" bson:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" bson:"edges" validate:"dive"`
}

// =============================================================================
// Node - Activity Box
// =============================================================================

// Node is the wire form of an activity.
type Node struct {
	ID         int    `json:"id" bson:"id"`
	Label      string `json:"label" bson:"label" validate:"max=512"`
	NodeNumber string `json:"node_number,omitempty" bson:"node_number,omitempty" validate:"omitempty,max=32"`
}

// =============================================================================
// Edge - ICOM Arrow
// =============================================================================

// Edge is the wire form of an arrow. Type holds the role token, matched
// case-insensitively ("Input", "input", "INPUT").
type Edge struct {
	SourceID *int   `json:"source_id" bson:"source_id"`
	TargetID *int   `json:"target_id" bson:"target_id"`
	Type     string `json:"type" bson:"type"`
	Label    string `json:"label" bson:"label" validate:"max=512"`
}

// =============================================================================
// Model Conversion
// =============================================================================

// ToDiagram validates g and converts it into the domain model.
//
// Length limit violations return INVALID_DIAGRAM; an unknown or missing role
// token returns UNKNOWN_ROLE; structural problems (duplicate ids, dangling
// references, edges with two boundary ends) are reported by idef0.New.
func ToDiagram(g Diagram) (*idef0.Diagram, error) {
	if err := Validate(g); err != nil {
		return nil, err
	}

	nodes := make([]idef0.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = idef0.Node{ID: n.ID, Label: n.Label, Number: n.NodeNumber}
	}

	edges := make([]idef0.Edge, len(g.Edges))
	for i, e := range g.Edges {
		role, err := idef0.ParseRole(e.Type)
		if err != nil {
			return nil, err
		}
		edges[i] = idef0.Edge{
			Source: endpoint(e.SourceID),
			Target: endpoint(e.TargetID),
			Role:   role,
			Label:  e.Label,
		}
	}

	return idef0.New(g.Name, nodes, edges)
}

// FromDiagram converts a domain diagram into its wire form.
func FromDiagram(d *idef0.Diagram) Diagram {
	out := Diagram{
		Name:  d.Name(),
		Nodes: make([]Node, 0, d.NodeCount()),
		Edges: make([]Edge, 0, d.EdgeCount()),
	}
	for _, n := range d.Nodes() {
		out.Nodes = append(out.Nodes, Node{ID: n.ID, Label: n.Label, NodeNumber: n.Number})
	}
	for _, e := range d.Edges() {
		out.Edges = append(out.Edges, Edge{
			SourceID: nodeID(e.Source),
			TargetID: nodeID(e.Target),
			Type:     e.Role.String(),
			Label:    e.Label,
		})
	}
	return out
}

// =============================================================================
// Internal Helpers
// =============================================================================

func endpoint(id *int) idef0.Endpoint {
	if id == nil {
		return idef0.Boundary()
	}
	return idef0.NodeRef(*id)
}

func nodeID(ep idef0.Endpoint) *int {
	id, ok := ep.NodeID()
	if !ok {
		return nil
	}
	return &id
}
