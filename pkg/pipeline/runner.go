package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/kklayout/pkg/cache"
	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/graph"
	"github.com/matzehuels/kklayout/pkg/observability"
)

// cacheKeyType labels layout entries in cache hooks.
const cacheKeyType = "layout"

// Runner encapsulates layout execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// ComputeLayout returns the layout of g under opts, reading and filling the
// cache. Cache failures are logged and never fail the run.
func (r *Runner) ComputeLayout(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	res := &Result{
		RunID: uuid.New(),
		Stats: Stats{NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)},
	}
	logger := opts.Logger.With("run", res.RunID.String())

	graphHash, err := cache.HashJSON(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	res.GraphHash = graphHash
	cacheKey := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if l, ok := r.lookup(ctx, logger, cacheKey); ok {
			res.Layout = l
			res.CacheHit = true
			logger.Debug("layout cache hit", "nodes", res.Stats.NodeCount)
			return res, nil
		}
	}

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, res.Stats.NodeCount, res.Stats.EdgeCount)
	start := time.Now()
	l, st, err := GenerateLayout(ctx, g, opts)
	res.Stats.LayoutTime = time.Since(start)
	hooks.OnLayoutComplete(ctx, observability.LayoutEvent{
		Nodes:      res.Stats.NodeCount,
		Edges:      res.Stats.EdgeCount,
		Iterations: st.Iterations,
		Converged:  st.Converged,
		Duration:   res.Stats.LayoutTime,
		Err:        err,
	})
	if err != nil {
		return nil, err
	}
	res.Layout = l

	logger.Info("computed layout",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"iterations", l.Iterations,
		"converged", l.Converged,
		"energy", l.Energy,
		"duration", res.Stats.LayoutTime)

	r.store(ctx, logger, cacheKey, l)
	return res, nil
}

// lookup returns the cached layout for key. Corrupt entries count as misses.
func (r *Runner) lookup(ctx context.Context, logger *log.Logger, key string) (graph.Layout, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return graph.Layout{}, false
	}
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		logger.Warn("discarding corrupt cache entry", "error", err)
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return graph.Layout{}, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return l, true
}

func (r *Runner) store(ctx context.Context, logger *log.Logger, key string, l graph.Layout) {
	data, err := graph.MarshalLayout(l)
	if err != nil {
		logger.Warn("encode layout for cache", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
		logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
