// Package idef0 provides the immutable IDEF0 diagram model.
//
// # Overview
//
// An IDEF0 diagram is a set of activity boxes connected by arrows. Every
// arrow plays one of four ICOM roles relative to the activity it touches:
//
//   - Input: data or material transformed by the activity (enters left)
//   - Control: constraints governing the activity (enters top)
//   - Output: results produced by the activity (leaves right)
//   - Mechanism: resources performing the activity (enters bottom)
//
// An arrow may start or end at the diagram frame instead of an activity.
// Such boundary arrows are modeled with [Endpoint], a closed two-case
// variant: [Boundary] or [NodeRef]. An [Edge] whose endpoints are both
// boundaries cannot be constructed.
//
// # Construction
//
// Diagrams are validated once, in [New], and never mutated afterwards:
//
//	d, err := idef0.New("Order Handling",
//	    []idef0.Node{
//	        {ID: 1, Label: "Register Order", Number: "A1"},
//	        {ID: 2, Label: "Ship Goods", Number: "A2"},
//	    },
//	    []idef0.Edge{
//	        {Source: idef0.Boundary(), Target: idef0.NodeRef(1), Role: idef0.RoleInput, Label: "Order"},
//	        {Source: idef0.NodeRef(1), Target: idef0.NodeRef(2), Role: idef0.RoleInput, Label: "Registered order"},
//	        {Source: idef0.NodeRef(2), Target: idef0.Boundary(), Role: idef0.RoleOutput, Label: "Shipment"},
//	    })
//
// New returns an error from the validation family of
// [github.com/PigStep/vibe-idef0-front/pkg/errors] when a node id is
// duplicated, an edge references an unknown node, or an edge has no node
// endpoint at all. No partially valid diagram is ever returned.
//
// # Ordering
//
// Node order is significant: it drives the cascading layout computed by
// the layout package. Edge order is the order edges are rendered in.
package idef0
