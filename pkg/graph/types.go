package graph

import "slices"

// =============================================================================
// Snapshot - Knowledge Graph Serialization
// =============================================================================

// Snapshot is an immutable (nodes, links) pair describing a knowledge graph
// at one point in time.
//
// Consumers must treat a Snapshot as a value: the layout engine deep-copies it
// on entry and never mutates the caller's slices.
type Snapshot struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Links []Link `json:"links" bson:"links"`
}

// Node is a knowledge entity.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	Group string  `json:"group,omitempty" bson:"group,omitempty"` // Color category
	Val   float64 `json:"val,omitempty" bson:"val,omitempty"`     // Visual weight hint
}

// Link is a directed, labeled relationship between two nodes.
type Link struct {
	Source       string `json:"source" bson:"source"`
	Target       string `json:"target" bson:"target"`
	Relationship string `json:"relationship,omitempty" bson:"relationship,omitempty"`
}

// IsSelfLoop reports whether the link starts and ends at the same node.
func (l Link) IsSelfLoop() bool { return l.Source == l.Target }

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Nodes: slices.Clone(s.Nodes),
		Links: slices.Clone(s.Links),
	}
}

// IsEmpty reports whether the snapshot has no nodes.
func (s Snapshot) IsEmpty() bool { return len(s.Nodes) == 0 }

// =============================================================================
// Stats - Snapshot Summary
// =============================================================================

// Stats summarizes a snapshot. Counts are taken from the snapshot itself,
// not from a running simulation.
type Stats struct {
	Entities  int      `json:"entities"`
	Relations int      `json:"relations"`
	Groups    []string `json:"groups"`     // Distinct groups in first-encounter order
	SelfLoops int      `json:"self_loops"` // Links with source == target
	Dangling  int      `json:"dangling"`   // Links with an unknown endpoint
}

// Stats computes summary counts for the snapshot.
func (s Snapshot) Stats() Stats {
	st := Stats{
		Entities:  len(s.Nodes),
		Relations: len(s.Links),
		Groups:    []string{},
	}

	ids := make(map[string]struct{}, len(s.Nodes))
	seen := make(map[string]struct{})
	for _, n := range s.Nodes {
		ids[n.ID] = struct{}{}
		if _, ok := seen[n.Group]; !ok {
			seen[n.Group] = struct{}{}
			st.Groups = append(st.Groups, n.Group)
		}
	}

	for _, l := range s.Links {
		if l.IsSelfLoop() {
			st.SelfLoops++
		}
		_, okS := ids[l.Source]
		_, okT := ids[l.Target]
		if !okS || !okT {
			st.Dangling++
		}
	}
	return st
}
