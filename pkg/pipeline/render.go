package pipeline

import (
	"github.com/PigStep/vibe-idef0-front/pkg/errors"
	"github.com/PigStep/vibe-idef0-front/pkg/idef0"
	"github.com/PigStep/vibe-idef0-front/pkg/render/mxgraph"
	"github.com/PigStep/vibe-idef0-front/pkg/render/nodelink"
)

// RenderDocument lays out, routes and serializes d as an mxGraphModel.
// No partial output is returned on error.
func RenderDocument(d *idef0.Diagram, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return mxgraph.Convert(d, opts.DocumentOptions())
}

// RenderPreview renders a Graphviz preview of d in opts.Format.
func RenderPreview(d *idef0.Diagram, opts Options) ([]byte, error) {
	if err := opts.ValidateForPreview(); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(d, opts.PreviewOptions())

	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		data, err = nodelink.RenderSVG(dot)
	case FormatPNG:
		data, err = nodelink.RenderPNG(dot, opts.Scale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(dot)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported preview format: %s", opts.Format)
	}

	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", opts.Format)
	}
	return data, nil
}
