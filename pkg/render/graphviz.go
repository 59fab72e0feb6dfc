package render

import (
	"bytes"
	"context"

	"github.com/goccy/go-graphviz"

	"github.com/importspy/importspy/pkg/errors"
)

// imageFormats maps user-facing format names to Graphviz layouts.
var imageFormats = map[string]graphviz.Format{
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
	"jpg": graphviz.JPG,
	"dot": graphviz.XDOT,
}

// ValidFormat reports whether the given image format is renderable.
func ValidFormat(format string) bool {
	_, ok := imageFormats[format]
	return ok
}

// RenderImage lays out a DOT graph and renders it to the requested
// image format.
func RenderImage(ctx context.Context, dot string, format string) ([]byte, error) {
	target, ok := imageFormats[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported image format: %s", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, target, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render graph")
	}
	return buf.Bytes(), nil
}
