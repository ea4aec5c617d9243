// Package ugraph provides an undirected multigraph with dense integer vertex
// indices, the input shape consumed by the layout algorithms.
//
// # Overview
//
// Force-directed layouts address vertices through flat, index-addressed
// arrays (distance matrices, coordinate buffers). This package therefore
// identifies vertices by their index 0..n-1 rather than by name; mapping
// external identifiers onto indices is the job of the wire layer
// (see pkg/graph).
//
// # Basic Usage
//
// Create a graph with [New], then connect vertices with [Graph.AddEdge]:
//
//	g := ugraph.New(3)
//	_ = g.AddEdge(0, 1)
//	_ = g.AddEdge(1, 2)
//
// Self-loops and parallel edges are accepted and preserved: [Graph.Edges]
// returns them in insertion order, so a caller-supplied weight vector can be
// matched to edges by position. Algorithms decide how to interpret them.
//
// Convenience constructors cover common shapes: [Full], [Ring], [Star] and
// [FromPairs], which mirrors the flat "u,v, u,v, ..." edge list notation.
//
// # Concurrency
//
// Graph instances are not safe for concurrent mutation. Concurrent reads of
// a graph that is no longer modified are safe.
package ugraph
