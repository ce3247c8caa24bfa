package sink

import (
	"encoding/json"

	"github.com/matzehuels/forcegraph/pkg/render"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	indent     bool
	linkLabels bool
}

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONLinkLabels includes relationship labels even when the scene style
// hides them.
func WithJSONLinkLabels() JSONOption { return func(r *jsonRenderer) { r.linkLabels = true } }

// RenderJSON serializes the scene primitives.
func RenderJSON(s render.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{linkLabels: s.Style.LinkLabels}
	for _, opt := range opts {
		opt(&r)
	}

	out := s.Clone()
	if out.Nodes == nil {
		out.Nodes = []render.NodeMarker{}
	}
	if out.NodeLabels == nil {
		out.NodeLabels = []render.NodeLabel{}
	}
	if out.Links == nil {
		out.Links = []render.LinkLine{}
	}
	if !r.linkLabels || out.LinkLabels == nil {
		out.LinkLabels = []render.LinkLabel{}
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
