// Package mxgraph serializes a laid-out IDEF0 diagram as an mxGraph
// (draw.io) XML document.
//
// # Document Shape
//
// The output is a single mxGraphModel element with fixed page attributes,
// a root holding the two base cells ("0" and the "layer_1" layer), one
// vertex cell per activity in node order and one edge cell per arrow in edge
// order:
//
//	<mxGraphModel dx="1000" dy="1000" grid="1" ... background="#ffffff">
//	  <root>
//	    <mxCell id="0"></mxCell>
//	    <mxCell id="layer_1" parent="0"></mxCell>
//	    <mxCell id="1" value="A1&#xA;Register Order" style="rounded=0;..." parent="layer_1" vertex="1">
//	      <mxGeometry x="120" y="100" width="140" height="80" as="geometry"></mxGeometry>
//	    </mxCell>
//	    <mxCell id="edge_1" value="Order" style="edgeStyle=...;entryX=0;entryY=0.5" parent="layer_1" edge="1" target="1">
//	      <mxGeometry relative="1" as="geometry">
//	        <mxPoint x="60" y="140" as="sourcePoint"></mxPoint>
//	      </mxGeometry>
//	    </mxCell>
//	  </root>
//	</mxGraphModel>
//
// Edge cells carry source and target attributes only for ends attached to a
// node. A boundary end is expressed instead as an mxPoint child of the
// geometry ("sourcePoint" or "targetPoint").
//
// # Determinism
//
// Attribute order, cell order and number formatting are fixed, so the same
// diagram always produces byte-identical output.
//
// # Usage
//
//	xml, err := mxgraph.Convert(d, mxgraph.Options{})
//
// or, with precomputed geometry:
//
//	boxes := layout.Diagram(d, layout.DefaultParams())
//	routes := route.Default().RouteAll(d.Edges(), boxes)
//	xml, err := mxgraph.Render(d, boxes, routes, mxgraph.Options{})
package mxgraph
