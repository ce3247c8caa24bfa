package nodelink_test

import (
	"fmt"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render/nodelink"
)

func ExampleToDOT() {
	s := graph.Snapshot{
		Nodes: []graph.Node{{ID: "Alice", Group: "person"}, {ID: "Acme", Group: "org"}},
		Links: []graph.Link{{Source: "Alice", Target: "Acme", Relationship: "works at"}},
	}
	fmt.Print(nodelink.ToDOT(s, nodelink.Options{Relationships: true}))
	// Output:
	// digraph G {
	//   bgcolor="transparent";
	//   overlap=false;
	//   node [shape=circle, style=filled, fontsize=12, fixedsize=false, color=white];
	//   edge [color="#999999", fontsize=10, fontcolor="#666666"];
	//
	//   "Alice" [label="Alice", fillcolor="#1f77b4", tooltip="person"];
	//   "Acme" [label="Acme", fillcolor="#ff7f0e", tooltip="org"];
	//
	//   "Alice" -> "Acme" [label="works at"];
	// }
}
