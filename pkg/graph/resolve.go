package graph

import (
	"errors"
	"fmt"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
)

// Sentinel errors returned (wrapped) by [Resolve].
var (
	ErrEmptyNodeID     = errors.New("empty node id")
	ErrDuplicateNodeID = errors.New("duplicate node id")
	ErrUnknownNode     = errors.New("unknown node")
)

// Resolved is a validated snapshot whose link endpoints have been mapped to
// indices into Nodes.
type Resolved struct {
	Nodes    []Node
	Links    []ResolvedLink
	Index    map[string]int // node id → index into Nodes
	Dangling []DanglingLink // dropped links, in input order
}

// ResolvedLink is a link with both endpoints resolved to node indices.
type ResolvedLink struct {
	Source       int
	Target       int
	Relationship string
}

// DanglingLink records a link that referenced an id absent from the snapshot.
type DanglingLink struct {
	Position int    // Index of the link in the input snapshot
	Link     Link   // The offending link
	Missing  string // The first endpoint id that could not be resolved
}

// Err returns the dangling link as an UNKNOWN_NODE error.
func (d DanglingLink) Err() error {
	return errs.Wrap(errs.ErrCodeUnknownNode,
		fmt.Errorf("%q: %w", d.Missing, ErrUnknownNode),
		"link %d (%s → %s) references unknown node %q", d.Position, d.Link.Source, d.Link.Target, d.Missing)
}

// Resolve validates s and resolves link endpoints through an id lookup table.
//
// Empty or duplicate node ids reject the snapshot with an INVALID_SNAPSHOT
// error. Links referencing unknown ids are dropped and reported in
// Resolved.Dangling, unless strict is set, in which case the first dangling
// link fails resolution with an UNKNOWN_NODE error.
//
// The returned Nodes slice is a copy; s is never modified.
func Resolve(s Snapshot, strict bool) (*Resolved, error) {
	r := &Resolved{
		Nodes: make([]Node, 0, len(s.Nodes)),
		Links: make([]ResolvedLink, 0, len(s.Links)),
		Index: make(map[string]int, len(s.Nodes)),
	}

	for i, n := range s.Nodes {
		if n.ID == "" {
			return nil, errs.Wrap(errs.ErrCodeInvalidSnapshot, ErrEmptyNodeID, "node %d has an empty id", i)
		}
		if err := errs.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		if _, dup := r.Index[n.ID]; dup {
			return nil, errs.Wrap(errs.ErrCodeInvalidSnapshot,
				fmt.Errorf("%q: %w", n.ID, ErrDuplicateNodeID), "node id %q appears more than once", n.ID)
		}
		r.Index[n.ID] = i
		r.Nodes = append(r.Nodes, n)
	}

	for i, l := range s.Links {
		src, okS := r.Index[l.Source]
		dst, okT := r.Index[l.Target]
		if !okS || !okT {
			missing := l.Source
			if okS {
				missing = l.Target
			}
			d := DanglingLink{Position: i, Link: l, Missing: missing}
			if strict {
				return nil, d.Err()
			}
			r.Dangling = append(r.Dangling, d)
			continue
		}
		r.Links = append(r.Links, ResolvedLink{Source: src, Target: dst, Relationship: l.Relationship})
	}

	return r, nil
}

// DanglingErr joins the errors of all dangling links, or returns nil.
func (r *Resolved) DanglingErr() error {
	if len(r.Dangling) == 0 {
		return nil
	}
	out := make([]error, len(r.Dangling))
	for i, d := range r.Dangling {
		out[i] = d.Err()
	}
	return errors.Join(out...)
}

// Degrees returns the number of links incident to each node. Self-loops count
// twice, matching how the link force sees them.
func (r *Resolved) Degrees() []int {
	deg := make([]int, len(r.Nodes))
	for _, l := range r.Links {
		deg[l.Source]++
		deg[l.Target]++
	}
	return deg
}
