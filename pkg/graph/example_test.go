package graph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

func ExampleResolve() {
	s := graph.Snapshot{
		Nodes: []graph.Node{{ID: "Alice"}, {ID: "Acme"}},
		Links: []graph.Link{
			{Source: "Alice", Target: "Acme", Relationship: "works at"},
			{Source: "Alice", Target: "Nonexistent"},
		},
	}

	r, err := graph.Resolve(s, false)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("links:", len(r.Links))
	for _, d := range r.Dangling {
		fmt.Println("dropped link to", d.Missing)
	}
	// Output:
	// links: 1
	// dropped link to Nonexistent
}

func ExampleMerge() {
	base := graph.Snapshot{
		Nodes: []graph.Node{{ID: "Alice", Group: "person"}},
	}
	suggestion := graph.Snapshot{
		Nodes: []graph.Node{{ID: "Alice", Group: "employee"}, {ID: "Acme", Group: "org"}},
		Links: []graph.Link{{Source: "Alice", Target: "Acme", Relationship: "works at"}},
	}

	merged := graph.Merge(base, suggestion)
	for _, n := range merged.Nodes {
		fmt.Println(n.ID, n.Group)
	}
	fmt.Println("links:", len(merged.Links))
	// Output:
	// Alice person
	// Acme org
	// links: 1
}

func ExampleReadSnapshot() {
	data := `{
		"nodes": [{"id": "Alice", "group": "person"}, {"id": "Acme", "group": "org"}],
		"links": [{"source": "Alice", "target": "Acme", "relationship": "works at"}]
	}`

	s, err := graph.ReadSnapshot(strings.NewReader(data))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	st := s.Stats()
	fmt.Printf("%d entities, %d relations, groups %v\n", st.Entities, st.Relations, st.Groups)
	// Output:
	// 2 entities, 1 relations, groups [person org]
}
