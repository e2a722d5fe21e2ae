package pipeline

import (
	"github.com/PigStep/vibe-idef0-front/pkg/graph"
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/layout"
	"github.com/PigStep/vibe-idef0-front/pkg/route"
)

// ComputeLayout places and routes d and exports the geometry. It uses the
// same constants as [RenderDocument], so the result describes exactly what
// the document encodes.
func ComputeLayout(d *idef0.Diagram, opts Options) (graph.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, err
	}
	boxes := layout.Diagram(d, opts.Layout)
	routes := route.New(opts.standOff()).RouteAll(d.Edges(), boxes)
	return graph.NewLayout(d, boxes, routes), nil
}
