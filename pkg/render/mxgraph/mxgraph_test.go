package mxgraph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/layout"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
)

func mustDiagram(t *testing.T, nodes []idef0.Node, edges []idef0.Edge) *idef0.Diagram {
	t.Helper()
	d, err := idef0.New("test", nodes, edges)
	if err != nil {
		t.Fatalf("idef0.New() error = %v", err)
	}
	return d
}

func mustConvert(t *testing.T, d *idef0.Diagram, opts Options) *Document {
	t.Helper()
	out, err := Convert(d, opts)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	doc, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse() error = %v\n%s", err, out)
	}
	return doc
}

func orderDiagram(t *testing.T) *idef0.Diagram {
	return mustDiagram(t,
		[]idef0.Node{
			{ID: 1, Label: "Register Order", Number: "A1"},
			{ID: 2, Label: "Check Availability", Number: "A2"},
			{ID: 3, Label: "Ship Goods", Number: "A3"},
		},
		[]idef0.Edge{
			{Source: idef0.Boundary(), Target: idef0.NodeRef(1), Role: idef0.RoleInput, Label: "Order"},
			{Source: idef0.NodeRef(1), Target: idef0.NodeRef(2), Role: idef0.RoleInput, Label: "Registered order"},
			{Source: idef0.Boundary(), Target: idef0.NodeRef(2), Role: idef0.RoleControl, Label: "Stock policy"},
			{Source: idef0.Boundary(), Target: idef0.NodeRef(3), Role: idef0.RoleMechanism, Label: "Courier"},
			{Source: idef0.NodeRef(3), Target: idef0.Boundary(), Role: idef0.RoleOutput, Label: "Shipment"},
		})
}

func TestConvert_Deterministic(t *testing.T) {
	d := orderDiagram(t)
	first, err := Convert(d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Convert(d, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("run %d differs:\n%s\n---\n%s", i, first, again)
		}
	}
}

func TestConvert_ModelAttributes(t *testing.T) {
	doc := mustConvert(t, mustDiagram(t, nil, nil), Options{})

	got := map[string]string{
		"dx": doc.Dx, "dy": doc.Dy, "grid": doc.Grid, "gridSize": doc.GridSize,
		"guides": doc.Guides, "tooltips": doc.Tooltips, "connect": doc.Connect,
		"arrows": doc.Arrows, "fold": doc.Fold, "page": doc.Page, "pageScale": doc.PageScale,
		"pageWidth": doc.PageWidth, "pageHeight": doc.PageHeight, "background": doc.Background,
	}
	want := map[string]string{
		"dx": "1000", "dy": "1000", "grid": "1", "gridSize": "10",
		"guides": "1", "tooltips": "1", "connect": "1",
		"arrows": "1", "fold": "1", "page": "1", "pageScale": "1",
		"pageWidth": "827", "pageHeight": "1169", "background": "#ffffff",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
	if len(doc.Root.Cells) != 2 {
		t.Fatalf("empty diagram has %d cells, want 2", len(doc.Root.Cells))
	}
	if c := doc.Root.Cells[0]; c.ID != "0" || c.Parent != "" {
		t.Errorf("cells[0] = %+v, want id 0 without parent", c)
	}
	if c := doc.Root.Cells[1]; c.ID != "layer_1" || c.Parent != "0" {
		t.Errorf("cells[1] = %+v, want layer_1 under 0", c)
	}
}

func TestConvert_ScenarioA_Staircase(t *testing.T) {
	d := mustDiagram(t, []idef0.Node{{ID: 1, Label: "a"}, {ID: 2, Label: "b"}, {ID: 3, Label: "c"}}, nil)
	doc := mustConvert(t, d, Options{})

	var vertices []Cell
	for _, c := range doc.Root.Cells {
		if c.IsVertex() {
			vertices = append(vertices, c)
		}
	}
	if len(doc.Root.Cells) != 5 || len(vertices) != 3 {
		t.Fatalf("cells = %d, vertices = %d, want 5 and 3", len(doc.Root.Cells), len(vertices))
	}

	want := [][2]string{{"120", "100"}, {"300", "220"}, {"480", "340"}}
	for i, v := range vertices {
		g := v.Geometry
		if g == nil {
			t.Fatalf("vertex %s has no geometry", v.ID)
		}
		if g.X != want[i][0] || g.Y != want[i][1] {
			t.Errorf("vertex %s at (%s,%s), want (%s,%s)", v.ID, g.X, g.Y, want[i][0], want[i][1])
		}
		if g.Width != "140" || g.Height != "80" || g.As != "geometry" {
			t.Errorf("vertex %s geometry = %+v", v.ID, g)
		}
		if v.Style != VertexStyle || v.Parent != LayerCellID {
			t.Errorf("vertex %s style/parent = %q / %q", v.ID, v.Style, v.Parent)
		}
	}
}

func TestConvert_ScenarioB_NumberedLabel(t *testing.T) {
	d := mustDiagram(t, []idef0.Node{{ID: 1, Label: "Register Order", Number: "A1"}}, nil)
	doc := mustConvert(t, d, Options{})

	c, ok := doc.Cell("1")
	if !ok {
		t.Fatal("vertex 1 missing")
	}
	if got := c.Label(); got != "A1\nRegister Order" {
		t.Errorf("value = %q, want %q", got, "A1\nRegister Order")
	}
}

func TestConvert_ScenarioC_BoundaryOrigin(t *testing.T) {
	d := mustDiagram(t,
		[]idef0.Node{{ID: 1, Label: "Register Order"}},
		[]idef0.Edge{{Source: idef0.Boundary(), Target: idef0.NodeRef(1), Role: idef0.RoleInput, Label: "Order"}})
	doc := mustConvert(t, d, Options{})

	e, ok := doc.Cell("edge_1")
	if !ok {
		t.Fatal("edge_1 missing")
	}
	if e.Source != "" {
		t.Errorf("source = %q, want absent", e.Source)
	}
	if e.Target != "1" {
		t.Errorf("target = %q, want 1", e.Target)
	}
	p, ok := e.Geometry.Point(SourcePoint)
	if !ok {
		t.Fatal("sourcePoint missing")
	}
	if p.X != "60" || p.Y != "140" {
		t.Errorf("sourcePoint = (%s,%s), want (60,140)", p.X, p.Y)
	}
	if _, ok := e.Geometry.Point(TargetPoint); ok {
		t.Error("unexpected targetPoint")
	}
	if e.Label() != "Order" || e.Geometry.Relative != "1" {
		t.Errorf("edge = %+v", e)
	}
	if want := EdgeStyle + ";entryX=0;entryY=0.5"; e.Style != want {
		t.Errorf("style = %q, want %q", e.Style, want)
	}
}

func TestConvert_ScenarioD_BoundaryTermination(t *testing.T) {
	d := mustDiagram(t,
		[]idef0.Node{{ID: 1, Label: "Register Order"}},
		[]idef0.Edge{{Source: idef0.NodeRef(1), Target: idef0.Boundary(), Role: idef0.RoleOutput, Label: "Result"}})
	doc := mustConvert(t, d, Options{})

	e, _ := doc.Cell("edge_1")
	if e.Target != "" || e.Source != "1" {
		t.Errorf("source/target = %q/%q, want 1/absent", e.Source, e.Target)
	}
	p, ok := e.Geometry.Point(TargetPoint)
	if !ok {
		t.Fatal("targetPoint missing")
	}
	if p.X != "320" || p.Y != "140" {
		t.Errorf("targetPoint = (%s,%s), want (320,140)", p.X, p.Y)
	}
	if want := EdgeStyle + ";exitX=1;exitY=0.5"; e.Style != want {
		t.Errorf("style = %q, want %q", e.Style, want)
	}
}

func TestConvert_EntryStylePerRole(t *testing.T) {
	tests := []struct {
		role idef0.Role
		frag string
	}{
		{idef0.RoleInput, ";entryX=0;entryY=0.5"},
		{idef0.RoleControl, ";entryX=0.5;entryY=0"},
		{idef0.RoleMechanism, ";entryX=0.5;entryY=1"},
		{idef0.RoleOutput, ";entryX=0;entryY=0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			d := mustDiagram(t,
				[]idef0.Node{{ID: 1, Label: "a"}, {ID: 2, Label: "b"}},
				[]idef0.Edge{{Source: idef0.NodeRef(1), Target: idef0.NodeRef(2), Role: tt.role}})
			doc := mustConvert(t, d, Options{})

			e, _ := doc.Cell("edge_1")
			want := EdgeStyle + tt.frag + ";exitX=1;exitY=0.5"
			if e.Style != want {
				t.Errorf("style = %q, want %q", e.Style, want)
			}
			if len(e.Geometry.Points) != 0 {
				t.Errorf("interior edge has points %+v", e.Geometry.Points)
			}
		})
	}
}

func TestConvert_EdgeOrderAndIDs(t *testing.T) {
	doc := mustConvert(t, orderDiagram(t), Options{})

	var ids, labels []string
	for _, c := range doc.Root.Cells {
		if c.IsEdge() {
			ids = append(ids, c.ID)
			labels = append(labels, c.Label())
		}
	}
	wantIDs := []string{"edge_1", "edge_2", "edge_3", "edge_4", "edge_5"}
	wantLabels := []string{"Order", "Registered order", "Stock policy", "Courier", "Shipment"}
	if strings.Join(ids, ",") != strings.Join(wantIDs, ",") {
		t.Errorf("edge ids = %v, want %v", ids, wantIDs)
	}
	if strings.Join(labels, ",") != strings.Join(wantLabels, ",") {
		t.Errorf("edge labels = %v, want %v", labels, wantLabels)
	}

	// vertices precede edges
	seenEdge := false
	for _, c := range doc.Root.Cells {
		if c.IsEdge() {
			seenEdge = true
		} else if c.IsVertex() && seenEdge {
			t.Errorf("vertex %s after an edge", c.ID)
		}
	}
}

func TestConvert_EmptyLabelsKeepValue(t *testing.T) {
	d := mustDiagram(t,
		[]idef0.Node{{ID: 1}},
		[]idef0.Edge{{Source: idef0.Boundary(), Target: idef0.NodeRef(1), Role: idef0.RoleInput}})
	out, err := Convert(d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(out), `value=""`); got != 2 {
		t.Errorf("value=\"\" appears %d times, want 2\n%s", got, out)
	}
}

func TestMarshal_Formatting(t *testing.T) {
	d := mustDiagram(t, []idef0.Node{{ID: 1, Label: "a"}}, nil)

	indented, err := Convert(d, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(indented), "<mxGraphModel dx=\"1000\"") {
		t.Errorf("unexpected prefix: %.40s", indented)
	}
	if !strings.Contains(string(indented), "\n  <root>\n    <mxCell id=\"0\"></mxCell>") {
		t.Errorf("missing two-space indentation:\n%s", indented)
	}

	compact, err := Convert(d, Options{Compact: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(compact), "\n") {
		t.Errorf("compact output contains newlines:\n%s", compact)
	}

	withDecl, err := Convert(d, Options{Declaration: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(withDecl), `<?xml version="1.0" encoding="UTF-8"?>`+"\n<mxGraphModel") {
		t.Errorf("declaration missing:\n%.80s", withDecl)
	}

	tabs, err := Convert(d, Options{Indent: "\t"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(tabs), "\n\t<root>") {
		t.Errorf("custom indent not applied:\n%s", tabs)
	}
}

func TestRender_CustomGeometry(t *testing.T) {
	d := mustDiagram(t,
		[]idef0.Node{{ID: 4, Label: "a"}},
		[]idef0.Edge{{Source: idef0.Boundary(), Target: idef0.NodeRef(4), Role: idef0.RoleControl}})
	boxes := layout.Boxes{4: {X: 10.5, Y: 20, Width: 100, Height: 50}}
	routes := route.New(15).RouteAll(d.Edges(), boxes)

	out, err := Render(d, boxes, routes, Options{})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := doc.Cell("4")
	if v.Geometry.X != "10.5" {
		t.Errorf("x = %q, want 10.5", v.Geometry.X)
	}
	e, _ := doc.Cell("edge_1")
	p, _ := e.Geometry.Point(SourcePoint)
	if p.X != "60.5" || p.Y != "5" {
		t.Errorf("sourcePoint = (%s,%s), want (60.5,5)", p.X, p.Y)
	}
}

func TestBuild_Mismatch(t *testing.T) {
	d := orderDiagram(t)
	boxes := layout.Diagram(d, layout.DefaultParams())

	if _, err := Build(d, boxes, nil, Options{}); err == nil {
		t.Error("Build() with missing routes should fail")
	}
	routes := route.Default().RouteAll(d.Edges(), boxes)
	delete(boxes, 2)
	if _, err := Build(d, boxes, routes, Options{}); err == nil {
		t.Error("Build() with a missing box should fail")
	}
}

func TestOptions_WithDefaults(t *testing.T) {
	o := Options{Page: Page{PageWidth: 1000}}.WithDefaults()
	if o.Indent != DefaultIndent {
		t.Errorf("Indent = %q, want %q", o.Indent, DefaultIndent)
	}
	if o.Page.PageWidth != 1000 || o.Page.PageHeight != 1169 {
		t.Errorf("Page = %+v", o.Page)
	}
	if o.Layout != layout.DefaultParams() || o.StandOff == nil || *o.StandOff != route.DefaultStandOff {
		t.Errorf("Layout/StandOff not defaulted: %+v / %v", o.Layout, o.StandOff)
	}
	if z := (Options{StandOff: route.StandOff(0)}).WithDefaults(); *z.StandOff != 0 {
		t.Errorf("explicit zero StandOff became %v", *z.StandOff)
	}
	if c := (Options{Compact: true}).WithDefaults(); c.Indent != "" {
		t.Errorf("compact Indent = %q, want empty", c.Indent)
	}
}
