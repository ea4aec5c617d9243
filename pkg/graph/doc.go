// Package graph provides serialization types for layout input graphs and
// computed layouts.
//
// This package defines the canonical wire format for kklayout's data, used for
// JSON files, API requests and responses, and cache entries.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/ugraph.Graph: Index-addressed graph consumed by the layout core
//   - pkg/layout/kamadakawai: Bounds, seed positions and results
//
// Use [Resolve] and [FromUGraph] to convert between them.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format. Edges are undirected; weights, seed
// positions and bounding boxes are optional:
//
//	{
//	  "bounds": {"min_x": -10, "max_x": 10},
//	  "nodes": [
//	    {"id": "a", "pos": {"x": 0, "y": 0}},
//	    {"id": "b", "bounds": {"min_y": 0}}
//	  ],
//	  "edges": [{"from": "a", "to": "b", "weight": 2.5}]
//	}
//
// A graph-level "bounds" object applies to every node; a node's own bounds
// override it side by side. A side that is set must end up set for every
// node, since the layout core takes one vector per side.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")   // File → Graph
//	r, _ := graph.Resolve(g)                    // Graph → ugraph + options
//	graph.WriteGraphFile(g, "copy.json")        // Graph → File
//
// # Layout Serialization
//
// A [Layout] lists one [Position] per node in input order together with the
// solver statistics and parameters that produced it:
//
//	l, _ := graph.ReadLayoutFile("layout.json")
//	pos := l.PositionMap()
//
// [WithPositions] copies a layout back into a graph as seed positions, so a
// previous result can be refined.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
