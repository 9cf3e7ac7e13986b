package resolver

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/standoc-mcp/internal/index"
	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// DefaultCacheSize is the number of parsed reference targets kept in memory
const DefaultCacheSize = 1024

// Resolver answers cross-reference queries against a built index.
//
// Resolution never logs: ambiguity and missing targets are reported through
// the returned types.Resolution so callers decide how to present them.
type Resolver struct {
	index *index.Index
	cache *lru.Cache[string, types.LookupQuery]
}

// Option configures a Resolver
type Option func(*config)

type config struct {
	cacheSize int
}

// WithCacheSize sets the size of the parsed-target cache
func WithCacheSize(size int) Option {
	return func(c *config) {
		c.cacheSize = size
	}
}

// New creates a Resolver over idx. The index should be frozen; the resolver
// only reads from it.
func New(idx *index.Index, opts ...Option) *Resolver {
	cfg := config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.cacheSize <= 0 {
		cfg.cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, types.LookupQuery](cfg.cacheSize)
	if err != nil {
		// Only returned for non-positive sizes, which are excluded above
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Resolver{index: idx, cache: cache}
}

// Resolve matches a query against the index.
//
// Qualified queries require exact, order-sensitive equality of parameter
// types; zero matches is NotFound even when the name exists. Unqualified
// queries return every overload of the name: one is Unique, several are
// Ambiguous with candidates in declaration order.
func (r *Resolver) Resolve(q types.LookupQuery) types.Resolution {
	res := types.Resolution{Query: q}
	overloads := r.index.LookupByName(q.Name)

	if q.Qualified {
		for _, sig := range overloads {
			if q.Matches(sig) {
				res.Kind = types.ResolutionUnique
				res.Candidates = []*types.Signature{sig}
				return res
			}
		}
		res.Kind = types.ResolutionNotFound
		res.NameKnown = len(overloads) > 0
		return res
	}

	switch len(overloads) {
	case 0:
		res.Kind = types.ResolutionNotFound
	case 1:
		res.Kind = types.ResolutionUnique
		res.Candidates = []*types.Signature(overloads)
	default:
		res.Kind = types.ResolutionAmbiguous
		res.Candidates = []*types.Signature(overloads)
	}
	return res
}

// ResolveTarget parses a cross-reference string ("name" or
// "name(type, ...)") and resolves it. Only malformed targets return an error.
func (r *Resolver) ResolveTarget(target string) (types.Resolution, error) {
	q, err := r.parseTarget(target)
	if err != nil {
		return types.Resolution{}, err
	}
	return r.Resolve(q), nil
}

// parseTarget parses target text, consulting the cache first
func (r *Resolver) parseTarget(target string) (types.LookupQuery, error) {
	if q, ok := r.cache.Get(target); ok {
		return q, nil
	}
	q, err := parser.ParseQuery(target)
	if err != nil {
		return types.LookupQuery{}, fmt.Errorf("invalid reference target: %w", err)
	}
	r.cache.Add(target, q)
	return q, nil
}

// CacheLen returns the number of cached targets
func (r *Resolver) CacheLen() int {
	return r.cache.Len()
}
