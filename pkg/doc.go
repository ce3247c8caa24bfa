// Package pkg provides the core libraries for forcegraph knowledge-graph
// layout.
//
// # Overview
//
// Forcegraph positions the entities of a knowledge graph with a
// force-directed simulation and keeps the drawing in sync while the user
// drags nodes, pans and zooms. The pkg directory is organized into:
//
//  1. [graph] - Snapshot and layout types, merging and id resolution
//  2. [force] - The simulation engine: forces, cooling schedule, tick loop
//  3. [interact] - Drag, pan and zoom controller with hit testing
//  4. [render] - The render bridge: palette, scene primitives, exporters
//  5. [viz] - A View tying engine, controller and bridge to one viewport
//  6. [pipeline] - Headless layout → render with caching
//  7. [session] - Registry of live views driven by a frame clock
//  8. [cache], [config], [errors], [observability], [metrics] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot (nodes, links)
//	         ↓
//	    [graph] package (resolve ids, drop dangling links)
//	         ↓
//	    [force] package (tick until alpha < alpha_min)
//	         ↓
//	    [render] package (scene primitives, SVG/PNG/PDF/JSON/DOT)
//
// Interactive hosts ([viz], internal/tui, internal/server) run the same
// simulation on a frame clock and feed pointer events through [interact].
//
// # Quick Start
//
//	s, _ := graph.ReadSnapshotFile("kg.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, s, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("kg.svg", result.Artifacts["svg"], 0o644)
package pkg
