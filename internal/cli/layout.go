package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/graph"
	"github.com/matzehuels/kklayout/pkg/pipeline"
)

// stdio is the file name that selects stdin or stdout.
const stdio = "-"

// layoutFlags holds the raw layout command flags. Only flags the user set
// override the configured defaults.
type layoutFlags struct {
	output  string
	init    string
	refresh bool

	seed          uint64
	maxIterations int
	epsilon       float64
	kkconst       float64
	useSeed       bool

	minX, maxX, minY, maxY float64
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a Kamada-Kawai layout for a graph",
		Long: `Compute a Kamada-Kawai layout for a graph.

The layout command reads a graph.json file ({"nodes": [...], "edges": [...]})
and writes a layout.json file with one position per node. Use "-" to read
the graph from stdin; the layout then goes to stdout unless -o is given.

Edge weights, per-node bounds and seed positions are taken from the graph
file. --min-x/--max-x/--min-y/--max-y restrict every node to a box, and
--init refines an existing layout instead of starting from random positions.

Results are cached, so repeated runs with the same graph and options are
instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.Layout.Options()
			f.apply(cmd.Flags(), &opts)
			return c.runLayout(cmd.Context(), args[0], f, opts, cmd.Flags())
		},
	}

	defaults := pipeline.DefaultOptions()
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	fl.StringVar(&f.init, "init", "", "start from the positions in this layout.json (implies --use-seed)")
	fl.BoolVar(&f.refresh, "refresh", false, "recompute even if a cached layout exists")

	fl.Uint64Var(&f.seed, "seed", defaults.Seed, "random seed for the starting layout")
	fl.IntVar(&f.maxIterations, "max-iter", defaults.MaxIterations, "maximum number of vertex moves (0 returns the start layout)")
	fl.Float64Var(&f.epsilon, "epsilon", defaults.Epsilon, "stop when the largest gradient is at most this (0 disables)")
	fl.Float64Var(&f.kkconst, "kkconst", defaults.KKConst, "spring stiffness constant")
	fl.BoolVar(&f.useSeed, "use-seed", false, "refine the node positions given in the graph file")

	fl.Float64Var(&f.minX, "min-x", 0, "lower x bound for every node")
	fl.Float64Var(&f.maxX, "max-x", 0, "upper x bound for every node")
	fl.Float64Var(&f.minY, "min-y", 0, "lower y bound for every node")
	fl.Float64Var(&f.maxY, "max-y", 0, "upper y bound for every node")

	return cmd
}

// apply overrides opts with every solver flag the user set.
func (f *layoutFlags) apply(fs *pflag.FlagSet, opts *pipeline.Options) {
	if fs.Changed("seed") {
		opts.Seed = f.seed
	}
	if fs.Changed("max-iter") {
		opts.MaxIterations = f.maxIterations
	}
	if fs.Changed("epsilon") {
		opts.Epsilon = f.epsilon
	}
	if fs.Changed("kkconst") {
		opts.KKConst = f.kkconst
	}
	opts.UseSeed = f.useSeed || f.init != ""
	opts.Refresh = f.refresh
}

// applyBox sets the box flags the user gave as graph-wide default bounds.
func (f *layoutFlags) applyBox(fs *pflag.FlagSet, g *graph.Graph) {
	sides := []struct {
		flag string
		val  float64
		dst  func(b *graph.NodeBounds) **float64
	}{
		{"min-x", f.minX, func(b *graph.NodeBounds) **float64 { return &b.MinX }},
		{"max-x", f.maxX, func(b *graph.NodeBounds) **float64 { return &b.MaxX }},
		{"min-y", f.minY, func(b *graph.NodeBounds) **float64 { return &b.MinY }},
		{"max-y", f.maxY, func(b *graph.NodeBounds) **float64 { return &b.MaxY }},
	}
	for _, s := range sides {
		if !fs.Changed(s.flag) {
			continue
		}
		if g.Bounds == nil {
			g.Bounds = &graph.NodeBounds{}
		}
		v := s.val
		*s.dst(g.Bounds) = &v
	}
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, f layoutFlags, opts pipeline.Options, fs *pflag.FlagSet) error {
	logger := loggerFromContext(ctx)

	g, err := readGraphInput(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}
	f.applyBox(fs, &g)

	if f.init != "" {
		start, err := graph.ReadLayoutFile(f.init)
		if err != nil {
			return fmt.Errorf("load initial layout %s: %w", f.init, err)
		}
		if g, err = graph.WithPositions(g, start); err != nil {
			return fmt.Errorf("apply initial layout: %w", err)
		}
	}

	outputPath := f.output
	if outputPath == "" {
		outputPath = defaultOutput(input)
	}
	if outputPath != stdio {
		if err := errors.ValidatePath(outputPath); err != nil {
			return err
		}
	}
	quiet := outputPath == stdio

	runner, err := c.newRunner(ctx, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger
	prog := newProgress(logger)

	var spin *spinner
	if !quiet {
		spin = newSpinner(ctx, os.Stderr, fmt.Sprintf("Computing layout for %d nodes...", len(g.Nodes)))
		spin.Start()
	}

	res, err := runner.ComputeLayout(ctx, g, opts)
	if err != nil {
		if spin != nil {
			spin.Stop()
			c.out.failure("Layout failed")
		}
		return fmt.Errorf("compute layout: %w", err)
	}
	if spin != nil {
		spin.Stop()
	}
	prog.done("Computed layout", "iterations", res.Layout.Iterations, "energy", res.Layout.Energy, "cached", res.CacheHit)

	if err := writeLayoutOutput(res.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if quiet {
		return nil
	}

	c.out.success("Layout complete")
	c.out.file(outputPath)
	c.out.stats(layoutStats{
		Nodes:       res.Stats.NodeCount,
		Edges:       res.Stats.EdgeCount,
		Components:  res.Layout.Components,
		Iterations:  res.Layout.Iterations,
		Converged:   res.Layout.Converged,
		Energy:      res.Layout.Energy,
		MaxGradient: res.Layout.MaxGradient,
		Cached:      res.CacheHit,
	})
	if !res.Layout.Converged && opts.Epsilon > 0 && res.Layout.Iterations > 0 {
		c.out.warn("Stopped at the iteration cap (max gradient %.3g > epsilon %g)", res.Layout.MaxGradient, opts.Epsilon)
	}
	c.out.blank()
	c.out.nextStep("Refine", appName+" layout "+input+" --init "+outputPath)
	return nil
}

func readGraphInput(input string) (graph.Graph, error) {
	if input == stdio {
		return graph.ReadGraph(os.Stdin)
	}
	return graph.ReadGraphFile(input)
}

func writeLayoutOutput(l graph.Layout, path string) error {
	if path == stdio {
		data, err := graph.MarshalLayout(l)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return graph.WriteLayoutFile(l, path)
}

// defaultOutput derives the layout path from the graph path: graph.json
// becomes graph.layout.json. Stdin input goes to stdout.
func defaultOutput(input string) string {
	if input == stdio {
		return stdio
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
