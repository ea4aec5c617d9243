// Package pipeline runs Kamada-Kawai layouts for serialized graphs.
//
// This package is the single entry point used by the CLI and the HTTP API.
// It resolves a [graph.Graph] into solver inputs, applies defaults and
// validation to the solver options, runs the layout and caches the result.
// By centralizing this logic, both entry points produce identical layouts
// for identical requests.
//
// # Usage
//
// Create a Runner and compute a layout:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.ComputeLayout(ctx, g, pipeline.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range res.Layout.Nodes {
//	    fmt.Println(p.ID, p.X, p.Y)
//	}
//
// Compute without a cache:
//
//	l, stats, err := pipeline.GenerateLayout(ctx, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/matzehuels/kklayout/pkg/cache"
	"github.com/matzehuels/kklayout/pkg/errors"
	"github.com/matzehuels/kklayout/pkg/graph"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultMaxIterations is the default cap on single-vertex moves.
	DefaultMaxIterations = 500

	// DefaultEpsilon is the default gradient threshold for early termination.
	DefaultEpsilon = 0.0001

	// DefaultKKConst is the default spring stiffness scale.
	DefaultKKConst = 10.0

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// MaxIterationsLimit bounds MaxIterations for untrusted callers.
	MaxIterationsLimit = 10_000_000
)

// validate is a singleton validator instance.
var validate = validator.New()

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a layout run. This struct supports JSON serialization
// for API requests.
//
// Negative MaxIterations or Epsilon and a zero KKConst or Seed select the
// package defaults. An explicit MaxIterations of 0 is honoured and returns
// the starting layout unchanged.
type Options struct {
	Seed          uint64  `json:"seed,omitempty"`
	MaxIterations int     `json:"max_iterations" validate:"gte=0,lte=10000000"`
	Epsilon       float64 `json:"epsilon" validate:"gte=0"`
	KKConst       float64 `json:"kkconst" validate:"gt=0"`
	UseSeed       bool    `json:"use_seed,omitempty"` // Refine node positions instead of a random start
	Refresh       bool    `json:"refresh,omitempty"`  // Skip the cache lookup (the result is still stored)

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" validate:"-"`
}

// DefaultOptions returns options populated with the package defaults.
func DefaultOptions() Options {
	return Options{
		Seed:          DefaultSeed,
		MaxIterations: DefaultMaxIterations,
		Epsilon:       DefaultEpsilon,
		KKConst:       DefaultKKConst,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs and API responses.
	RunID uuid.UUID

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout holds the computed positions and solver statistics.
	Layout graph.Layout

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Layout came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults replaces unset fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.MaxIterations < 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if o.Epsilon < 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.KKConst == 0 {
		o.KKConst = DefaultKKConst
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks the result. Failures
// carry the INVALID_VALUE code. Calling it again has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	if err := validate.Struct(o); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		MaxIterations: o.MaxIterations,
		Epsilon:       o.Epsilon,
		KKConst:       o.KKConst,
		Seed:          o.Seed,
		UseSeed:       o.UseSeed,
	}
}

// Params returns the parameters recorded alongside a layout.
func (o *Options) Params() graph.LayoutParams {
	return graph.LayoutParams{
		MaxIterations: o.MaxIterations,
		Epsilon:       o.Epsilon,
		KKConst:       o.KKConst,
		UseSeed:       o.UseSeed,
	}
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidValue, err, "options")
	}

	e := verrs[0]
	var msg string
	switch e.Tag() {
	case "gte":
		msg = fmt.Sprintf("must be at least %s", e.Param())
	case "gt":
		msg = fmt.Sprintf("must be greater than %s", e.Param())
	case "lte":
		msg = fmt.Sprintf("must not exceed %s", e.Param())
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return errors.New(errors.ErrCodeInvalidValue, "%s: %v %s", e.Field(), e.Value(), msg)
}
