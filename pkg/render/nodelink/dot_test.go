package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
)

func snapshot() graph.Snapshot {
	return graph.Snapshot{
		Nodes: []graph.Node{{ID: "Alice", Group: "person"}, {ID: "Acme", Group: "org"}},
		Links: []graph.Link{
			{Source: "Alice", Target: "Acme", Relationship: "works at"},
			{Source: "Alice", Target: "Nonexistent"},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(snapshot(), Options{})

	for _, want := range []string{
		"digraph G {",
		`"Alice" [label="Alice", fillcolor="#1f77b4", tooltip="person"];`,
		`"Acme" [label="Acme", fillcolor="#ff7f0e", tooltip="org"];`,
		`"Alice" -> "Acme";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "Nonexistent") {
		t.Errorf("DOT should skip dangling links:\n%s", dot)
	}
}

func TestToDOTRelationships(t *testing.T) {
	dot := ToDOT(snapshot(), Options{Relationships: true})
	if !strings.Contains(dot, `"Alice" -> "Acme" [label="works at"];`) {
		t.Errorf("DOT missing edge label:\n%s", dot)
	}
}

func TestToDOTSharedPalette(t *testing.T) {
	p := render.NewPalette()
	p.Color("org")
	dot := ToDOT(snapshot(), Options{Palette: p})
	if !strings.Contains(dot, `"Acme" [label="Acme", fillcolor="#1f77b4"`) {
		t.Errorf("org should keep its session color:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}
