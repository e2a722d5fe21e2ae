// Package pkg provides the libraries behind the idef0 generator.
//
// # Overview
//
// idef0 turns an IDEF0 function model into an mxGraph (draw.io) document.
// Activities are laid out as a descending staircase and every arrow is
// anchored on the side of its box that its ICOM role calls for: inputs on
// the left, controls on top, mechanisms at the bottom and outputs on the
// right.
//
// # Architecture
//
// The data flow through the generator:
//
//	diagram JSON
//	     ↓
//	[graph] package (decode, validate, build the model)
//	     ↓
//	[idef0] package (immutable diagram)
//	     ↓
//	[layout] package (one box per activity)
//	     ↓
//	[route] package (anchors and free points per arrow)
//	     ↓
//	[render/mxgraph] package (document tree + XML)
//
// # Quick Start
//
//	d, err := graph.ReadDiagramFile("order.json")
//	if err != nil {
//	    return err
//	}
//	xml, err := mxgraph.Convert(d, mxgraph.Options{})
//
// # Main Packages
//
// ## Core
//
// [idef0] - Diagram model: nodes, ICOM roles, and edges whose endpoints are
// either a node reference or the diagram boundary. Construction validates
// every invariant; a diagram that exists is well formed.
//
// [layout] - Index-driven box placement. The i-th activity sits at
// (120 + 180i, 100 + 120i) with a fixed 140x80 box.
//
// [route] - Entry and exit anchors per role and the free start or end point
// of arrows that cross the diagram boundary.
//
// [render/mxgraph] - Document tree, styles and serialization.
//
// ## Previews
//
// [render/nodelink] - Graphviz DOT and SVG previews of a diagram.
//
// [render] - SVG to PDF/PNG conversion.
//
// ## Serving
//
// [pipeline] - Runner shared by the CLI and the HTTP API: validation,
// conversion, previews, and a content-addressed cache in front of them.
//
// [cache] - Cache backends (file, Redis, null) and key derivation.
//
// [store] - Stored documents by variant name (files or MongoDB).
//
// [config] - Layered settings: defaults, TOML file, .env, environment.
//
// [httputil] - JSON request and response helpers.
//
// [errors] - Coded errors mapped onto HTTP statuses.
//
// [observability] - Hooks for pipeline, cache, store and HTTP events.
//
// ## Serialization
//
// [graph] - JSON wire format for diagrams and computed layouts.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/route/...              # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// MongoDB and Redis tests are skipped unless IDEF0_TEST_MONGO_URI or
// IDEF0_TEST_REDIS_ADDR is set.
//
// [idef0]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/idef0
// [layout]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/layout
// [route]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/route
// [render]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/render
// [render/mxgraph]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/render/mxgraph
// [render/nodelink]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/cache
// [store]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/store
// [config]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/config
// [httputil]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/errors
// [observability]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/observability
// [graph]: https://pkg.go.dev/github.com/PigStep/vibe-idef0-front/pkg/graph
package pkg
