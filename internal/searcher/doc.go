// Package searcher finds stored functions by keyword or by reference.
//
// The searcher provides three search modes:
//   - Hybrid: Combines reference and BM25 keyword search (default)
//   - Reference: Parses the query as "name" or "name(type, ...)"
//   - Keyword: BM25 full-text search over names, signatures and summaries
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    ProjectID: project.ID,
//	    Query:     "log(real, real)",
//	    Mode:      searcher.SearchModeReference,
//	})
//
//	for _, r := range resp.Results {
//	    fmt.Printf("[%d] %s (%s)\n", r.Rank, r.Signature, r.Summary)
//	}
//
// Reference mode follows resolution rules: a bare name returns every
// overload in declaration order, a qualified name returns the exact overload.
// Hybrid mode merges both lists with Reciprocal Rank Fusion (k = 60), so a
// query that is not valid reference syntax still returns keyword hits.
//
// # Caching
//
// Responses are cached in an LRU keyed by a SHA-256 of the request when
// UseCache is set. Entries expire after CacheTTL (default one hour).
// InvalidateCache purges everything and should follow a re-index.
package searcher
