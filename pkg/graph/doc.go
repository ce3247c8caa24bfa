// Package graph provides the knowledge-graph snapshot and layout wire formats.
//
// This package defines the canonical serialization of the data flowing into
// and out of the layout engine: snapshots (entities and relationships, as
// produced by an upstream extraction service) and layouts (converged node
// positions for a given viewport). It is used for JSON files, API payloads
// and cache entries.
//
// # Core Types
//
//   - [Snapshot]: Node-link format for a knowledge graph
//   - [Node], [Link]: Entity and relationship records
//   - [Resolved]: A validated snapshot with link endpoints resolved to indices
//   - [Layout]: Positioned nodes for one viewport
//
// # Snapshot Serialization
//
// Snapshots use the D3 node-link JSON format:
//
//	{
//	  "nodes": [{"id": "Alice", "group": "person"}, {"id": "Acme", "group": "org"}],
//	  "links": [{"source": "Alice", "target": "Acme", "relationship": "works at"}]
//	}
//
// Common operations:
//
//	s, _ := graph.ReadSnapshotFile("graph.json")  // File → Snapshot
//	graph.WriteSnapshotFile(s, "out.json")        // Snapshot → File
//	r, _ := graph.Resolve(s, false)               // Validate + resolve ids
//
// # Resolution Policy
//
// Node ids must be non-empty and unique; violations reject the snapshot with
// [ErrEmptyNodeID] or [ErrDuplicateNodeID]. Links whose source or target is
// not a known id are dropped and reported in [Resolved.Dangling]. In strict
// mode any dangling link fails resolution with [ErrUnknownNode] instead.
// Self-loops and parallel links are kept as-is.
//
// # Merging
//
// [Merge] combines a base snapshot with incoming suggestions. Nodes are keyed
// by id and links by (source, target, relationship); the first occurrence
// wins, and empty fields are filled from later duplicates.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
