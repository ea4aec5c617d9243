package cache

// layoutKeyVersion is mixed into every layout key. Bump it when a solver
// change makes previously cached layouts stale.
const layoutKeyVersion = 1

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout computed from the graph with the
	// given content hash under opts.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts holds every solver parameter that affects a layout.
// Inputs carried by the graph itself (weights, bounds, seed positions) are
// covered by the graph hash.
type LayoutKeyOpts struct {
	MaxIterations int     `json:"max_iterations"`
	Epsilon       float64 `json:"epsilon"`
	KKConst       float64 `json:"kkconst"`
	Seed          uint64  `json:"seed"`
	UseSeed       bool    `json:"use_seed"`
}

// DefaultKeyer produces unprefixed keys of the form "layout:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", layoutKeyVersion, graphHash, opts)
}
