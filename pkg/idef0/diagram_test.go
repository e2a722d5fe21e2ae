package idef0

import (
	"testing"

	"github.com/PigStep/vibe-idef0-front/pkg/errors"
)

func sampleNodes() []Node {
	return []Node{
		{ID: 1, Label: "Register Order", Number: "A1"},
		{ID: 2, Label: "Check Availability", Number: "A2"},
		{ID: 3, Label: "Ship Goods", Number: "A3"},
	}
}

func TestNew_Valid(t *testing.T) {
	edges := []Edge{
		{Source: Boundary(), Target: NodeRef(1), Role: RoleInput, Label: "Order"},
		{Source: NodeRef(1), Target: NodeRef(2), Role: RoleInput, Label: "Registered"},
		{Source: Boundary(), Target: NodeRef(2), Role: RoleControl, Label: "Stock policy"},
		{Source: Boundary(), Target: NodeRef(3), Role: RoleMechanism, Label: "Courier"},
		{Source: NodeRef(3), Target: Boundary(), Role: RoleOutput, Label: "Shipment"},
	}

	d, err := New("Order Handling", sampleNodes(), edges)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if d.Name() != "Order Handling" {
		t.Errorf("Name() = %q, want %q", d.Name(), "Order Handling")
	}
	if d.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", d.NodeCount())
	}
	if d.EdgeCount() != 5 {
		t.Errorf("EdgeCount() = %d, want 5", d.EdgeCount())
	}
	if pos, ok := d.Position(3); !ok || pos != 2 {
		t.Errorf("Position(3) = %d, %v, want 2, true", pos, ok)
	}
	if n, ok := d.Node(2); !ok || n.Label != "Check Availability" {
		t.Errorf("Node(2) = %+v, %v", n, ok)
	}
	if _, ok := d.Node(42); ok {
		t.Error("Node(42) should not exist")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		code  errors.Code
	}{
		{
			name:  "duplicate node id",
			nodes: []Node{{ID: 1, Label: "a"}, {ID: 1, Label: "b"}},
			code:  errors.ErrCodeDuplicateNode,
		},
		{
			name:  "dangling target",
			nodes: sampleNodes(),
			edges: []Edge{{Source: Boundary(), Target: NodeRef(9), Role: RoleInput}},
			code:  errors.ErrCodeDanglingReference,
		},
		{
			name:  "dangling source",
			nodes: sampleNodes(),
			edges: []Edge{{Source: NodeRef(7), Target: NodeRef(1), Role: RoleInput}},
			code:  errors.ErrCodeDanglingReference,
		},
		{
			name:  "both boundary",
			nodes: sampleNodes(),
			edges: []Edge{{Source: Boundary(), Target: Boundary(), Role: RoleInput}},
			code:  errors.ErrCodeUnanchoredEdge,
		},
		{
			name:  "invalid role value",
			nodes: sampleNodes(),
			edges: []Edge{{Source: NodeRef(1), Target: NodeRef(2), Role: Role(9)}},
			code:  errors.ErrCodeUnknownRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New("bad", tt.nodes, tt.edges)
			if err == nil {
				t.Fatal("New() error = nil, want error")
			}
			if d != nil {
				t.Error("New() returned a diagram alongside an error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
			if !errors.IsValidation(err) {
				t.Errorf("IsValidation(%v) = false, want true", err)
			}
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	nodes := sampleNodes()
	d, err := New("copy", nodes, nil)
	if err != nil {
		t.Fatal(err)
	}
	nodes[0].Label = "mutated"
	if got := d.Nodes()[0].Label; got != "Register Order" {
		t.Errorf("Nodes()[0].Label = %q after caller mutation, want %q", got, "Register Order")
	}

	out := d.Nodes()
	out[1].Label = "mutated"
	if got := d.Nodes()[1].Label; got != "Check Availability" {
		t.Errorf("Nodes()[1].Label = %q after accessor mutation", got)
	}
}

func TestEndpoint(t *testing.T) {
	b := Boundary()
	if !b.IsBoundary() {
		t.Error("Boundary().IsBoundary() = false")
	}
	if _, ok := b.NodeID(); ok {
		t.Error("Boundary().NodeID() ok = true")
	}
	var zero Endpoint
	if !zero.IsBoundary() {
		t.Error("zero Endpoint should be the boundary")
	}

	r := NodeRef(0)
	if r.IsBoundary() {
		t.Error("NodeRef(0).IsBoundary() = true")
	}
	if id, ok := r.NodeID(); !ok || id != 0 {
		t.Errorf("NodeRef(0).NodeID() = %d, %v", id, ok)
	}
	if r.String() != "node 0" || b.String() != "boundary" {
		t.Errorf("String() = %q / %q", r.String(), b.String())
	}
}

func TestEdgeBoundaryKinds(t *testing.T) {
	in := Edge{Source: Boundary(), Target: NodeRef(1), Role: RoleInput}
	out := Edge{Source: NodeRef(1), Target: Boundary(), Role: RoleOutput}
	inner := Edge{Source: NodeRef(1), Target: NodeRef(2), Role: RoleControl}

	if !in.IsBoundaryOrigin() || in.IsBoundaryTermination() {
		t.Error("boundary-origin edge misclassified")
	}
	if !out.IsBoundaryTermination() || out.IsBoundaryOrigin() {
		t.Error("boundary-termination edge misclassified")
	}
	if inner.IsBoundaryOrigin() || inner.IsBoundaryTermination() {
		t.Error("interior edge misclassified")
	}
}

func TestDisplayLabel(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{Node{ID: 1, Label: "Register Order", Number: "A1"}, "A1\nRegister Order"},
		{Node{ID: 1, Label: "Register Order"}, "Register Order"},
		{Node{ID: 1, Label: "", Number: "A0"}, "A0\n"},
	}
	for _, tt := range tests {
		if got := tt.node.DisplayLabel(); got != tt.want {
			t.Errorf("DisplayLabel(%+v) = %q, want %q", tt.node, got, tt.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"Input", RoleInput, false},
		{"input", RoleInput, false},
		{"CONTROL", RoleControl, false},
		{" Output ", RoleOutput, false},
		{"mechanism", RoleMechanism, false},
		{"Call", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !errors.Is(err, errors.ErrCodeUnknownRole) {
				t.Errorf("ParseRole(%q) code = %v, want UNKNOWN_ROLE", tt.in, errors.GetCode(err))
			}
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRoleText(t *testing.T) {
	for _, r := range []Role{RoleInput, RoleControl, RoleOutput, RoleMechanism} {
		text, err := r.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", r, err)
		}
		var back Role
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q) error = %v", text, err)
		}
		if back != r {
			t.Errorf("round trip %v -> %q -> %v", r, text, back)
		}
	}
	if _, err := Role(7).MarshalText(); err == nil {
		t.Error("MarshalText(Role(7)) should fail")
	}
	if got := Role(7).String(); got != "Role(7)" {
		t.Errorf("Role(7).String() = %q", got)
	}
}
