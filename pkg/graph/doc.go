// Package graph provides serialization types for IDEF0 diagrams and their
// computed layouts.
//
// This package defines the JSON wire format used for CLI input files, API
// request bodies, caching and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between the domain model
// and external formats:
//
//   - [Diagram], [Layout]: Serialization types (this package)
//   - pkg/idef0.Diagram: Validated domain model
//   - pkg/layout.Boxes, pkg/route.Route: Computed geometry
//
// Use [ToDiagram]/[FromDiagram] to move between wire and domain forms, and
// [NewLayout] to export computed geometry.
//
// # Diagram Serialization
//
// Diagrams use a node/edge JSON format. A null (or absent) source_id or
// target_id marks the diagram boundary:
//
//	{
//	  "name": "Order Handling",
//	  "nodes": [{"id": 1, "label": "Register Order", "node_number": "A1"}],
//	  "edges": [
//	    {"source_id": null, "target_id": 1, "type": "Input", "label": "Order"},
//	    {"source_id": 1, "target_id": null, "type": "Output", "label": "Invoice"}
//	  ]
//	}
//
// Role tokens ("type") are matched case-insensitively against Input,
// Control, Output and Mechanism.
//
// Common operations:
//
//	d, _ := graph.ReadDiagramFile("order.json")    // File → validated model
//	graph.WriteDiagramFile(d, "copy.json")         // Model → File
//	data, _ := graph.MarshalDiagram(d)             // Model → []byte
//	wire, _ := graph.UnmarshalDiagram(data)        // []byte → Diagram (unvalidated)
//
// # Validation
//
// Conversion to the model runs two passes. [Validate] checks struct tags with
// validator/v10 (bounded name and label lengths; any integer id and any label,
// empty included, is accepted) and
// reports every violation at once under INVALID_DIAGRAM. The model
// constructor then checks references and fails on the first problem.
//
// # Concurrency
//
// All functions are safe for concurrent use.
package graph
