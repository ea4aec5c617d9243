package pipeline

import (
	"context"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/graph"
	"github.com/matzehuels/kklayout/pkg/layout/kamadakawai"
)

// GenerateLayout computes a Kamada-Kawai layout for g without caching.
//
// Bounds and edge weights come from g. With opts.UseSeed every node must
// carry a position, which becomes the starting layout; otherwise node
// positions are ignored and the start is random, seeded by opts.Seed.
func GenerateLayout(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, kamadakawai.Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Layout{}, kamadakawai.Stats{}, err
	}

	r, err := graph.Resolve(g)
	if err != nil {
		return graph.Layout{}, kamadakawai.Stats{}, err
	}

	var pos []r2.Vec
	if opts.UseSeed {
		if !r.HasSeed() && len(g.Nodes) > 0 {
			return graph.Layout{}, kamadakawai.Stats{}, errors.New(errors.ErrCodeInvalidInput, "use_seed requires a position on every node")
		}
		pos = r.Seed
	}

	res, err := kamadakawai.RunContext(ctx, r.Graph, pos, solverOptions(r, opts))
	if err != nil {
		return graph.Layout{}, res.Stats, err
	}

	params := opts.Params()
	params.Weighted = r.Weights != nil
	params.Bounded = !r.Bounds.IsZero()

	l := graph.Layout{
		Algorithm:     graph.AlgorithmKamadaKawai,
		Nodes:         graph.Positions(r.IDs, res.Pos),
		Iterations:    res.Stats.Iterations,
		Converged:     res.Stats.Converged,
		MaxGradient:   res.Stats.MaxGradient,
		InitialEnergy: res.Stats.InitialEnergy,
		Energy:        res.Stats.FinalEnergy,
		Components:    len(r.Graph.Components()),
		Seed:          opts.Seed,
		Params:        params,
	}
	return l, res.Stats, nil
}

func solverOptions(r graph.Resolved, opts Options) kamadakawai.Options {
	return kamadakawai.Options{
		UseSeed:       opts.UseSeed,
		MaxIterations: opts.MaxIterations,
		Epsilon:       opts.Epsilon,
		KKConst:       opts.KKConst,
		Weights:       r.Weights,
		Bounds:        r.Bounds,
		Seed:          opts.Seed,
	}
}
