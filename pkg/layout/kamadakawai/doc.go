// Package kamadakawai computes two-dimensional graph layouts with the
// Kamada-Kawai stress model.
//
// # Overview
//
// Every pair of vertices is joined by a virtual spring whose rest length is
// proportional to the graph-theoretic distance between them and whose
// stiffness falls off with the square of that distance. The layout is the
// configuration that (locally) minimises the total spring energy:
//
//	E = Σ_{i<j} ½ · k_ij · (|p_i - p_j| - l_ij)²
//
// The solver repeatedly picks the vertex with the largest energy gradient and
// moves it by one Newton-Raphson step on its two coordinates while every other
// vertex stays fixed. Gradients are updated incrementally, so each step costs
// O(n).
//
// # Pipeline
//
// A call to [Run] proceeds through five stages:
//
//  1. [DistanceMatrix] builds all-pairs shortest paths, by breadth-first
//     search for unweighted graphs and Dijkstra for weighted ones.
//     Vertices in different components get a finite sentinel distance.
//  2. [NewModel] derives rest lengths and stiffnesses from the distances.
//  3. Starting coordinates are either the caller's seed layout or drawn from
//     a seeded generator, inside any supplied bounds.
//  4. The optimizer runs until the largest gradient drops to
//     [Options].Epsilon or [Options].MaxIterations steps have been taken.
//  5. Coordinates are clamped into their bounding boxes and returned.
//
// # Bounds
//
// [Bounds] holds four optional per-vertex vectors. A nil vector leaves that
// side unconstrained. Seed coordinates are not clamped before optimisation,
// but every returned coordinate lies inside its box.
//
// # Determinism
//
// No process-wide random state is used. With UseSeed false the starting
// layout comes from [Options].Rand, or from a PCG generator seeded with
// [Options].Seed, so identical inputs give bit-identical output.
//
// # Concurrency
//
// Layout calls share no state and may run concurrently on different inputs.
// The graph is only read; the position buffer is owned by the call for its
// duration.
package kamadakawai
