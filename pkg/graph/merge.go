package graph

// linkKey identifies a link for deduplication.
type linkKey struct {
	source, target, relationship string
}

// Merge combines base with incoming suggestions and returns a new snapshot.
//
// Nodes are keyed by id: the first occurrence wins, but an empty Group or a
// zero Val is filled from a later occurrence. Links are keyed by
// (source, target, relationship) and the first occurrence wins. Order is
// preserved, base first. Nodes with empty ids are skipped. Neither input is
// modified.
//
// Merge does not drop links whose endpoints are missing; use [Resolve] for
// that.
func Merge(base Snapshot, incoming ...Snapshot) Snapshot {
	var out Snapshot
	pos := make(map[string]int)
	seen := make(map[linkKey]struct{})

	add := func(s Snapshot) {
		for _, n := range s.Nodes {
			if n.ID == "" {
				continue
			}
			if i, ok := pos[n.ID]; ok {
				if out.Nodes[i].Group == "" {
					out.Nodes[i].Group = n.Group
				}
				if out.Nodes[i].Val == 0 {
					out.Nodes[i].Val = n.Val
				}
				continue
			}
			pos[n.ID] = len(out.Nodes)
			out.Nodes = append(out.Nodes, n)
		}
		for _, l := range s.Links {
			k := linkKey{l.Source, l.Target, l.Relationship}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out.Links = append(out.Links, l)
		}
	}

	add(base)
	for _, s := range incoming {
		add(s)
	}

	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Links == nil {
		out.Links = []Link{}
	}
	return out
}
