// Package pkg provides the core libraries for kklayout, a Kamada-Kawai
// force-directed layout engine for undirected graphs.
//
// # Overview
//
// kklayout places the vertices of a graph in the plane so that the
// Euclidean distance between two vertices approximates their graph-theoretic
// distance. The pkg directory is organized into three areas:
//
//  1. Domain logic ([ugraph], [layout/kamadakawai])
//  2. Serialization and orchestration ([graph], [pipeline])
//  3. Infrastructure ([cache], [config], [errors], [observability])
//
// # Architecture
//
// The typical data flow through kklayout:
//
//	Node-link JSON
//	      ↓
//	 [graph] package (decode + validate + resolve)
//	      ↓
//	 [ugraph] package (index-addressed undirected graph)
//	      ↓
//	 [layout/kamadakawai] package (distance matrix + energy minimization)
//	      ↓
//	 Layout JSON
//
// [pipeline] ties these together and adds caching and observability hooks.
//
// # Quick Start
//
// Lay out a graph directly:
//
//	import (
//	    "github.com/matzehuels/kklayout/pkg/layout/kamadakawai"
//	    "github.com/matzehuels/kklayout/pkg/ugraph"
//	)
//
//	g := ugraph.Ring(12)
//	pos, err := kamadakawai.Layout(g, nil, kamadakawai.DefaultOptions(g.NodeCount()))
//
// Or go through the pipeline with the serialized types:
//
//	l, stats, err := pipeline.GenerateLayout(ctx, g, pipeline.DefaultOptions())
//
// # Main Packages
//
// [ugraph] - Compact undirected graph with optional edge weights.
//
// [layout/kamadakawai] - The layout algorithm: all-pairs distances, the
// spring model, and the per-vertex Newton optimizer.
//
// [graph] - Serialization types for graphs and layouts (JSON node-link format).
//
// [pipeline] - Options, validation, caching and the [pipeline.Runner] used
// by both the CLI and the HTTP API.
//
// [cache] - Layout cache backends (file, Redis, MongoDB, null).
//
// [config] - TOML/YAML configuration loading.
//
// [observability] - Hook interfaces with a Prometheus implementation in
// observability/prom.
//
// [ugraph]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/ugraph
// [layout/kamadakawai]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/layout/kamadakawai
// [graph]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/kklayout/pkg/observability
package pkg
