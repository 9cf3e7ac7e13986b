package searcher

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/internal/storage"
)

// SearchMode defines how search is performed
type SearchMode string

const (
	SearchModeHybrid    SearchMode = "hybrid"    // Reference + keyword with RRF
	SearchModeReference SearchMode = "reference" // Query parsed as name or name(types)
	SearchModeKeyword   SearchMode = "keyword"   // BM25 text search only
)

// ErrEmptyQuery is returned for blank queries
var ErrEmptyQuery = errors.New("query cannot be empty")

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	Query       string
	Limit       int
	Mode        SearchMode
	Filters     *storage.SearchFilters
	ProjectID   int64
	UseCache    bool // Whether to use query cache
	CacheTTL    time.Duration
	RRFConstant float64 // k value for Reciprocal Rank Fusion (default 60)
}

// Result is one documented function matching a search
type Result struct {
	FunctionID        int64             `json:"function_id"`
	Rank              int               `json:"rank"`
	RelevanceScore    float64           `json:"relevance_score"`
	Signature         string            `json:"signature"`
	IdentityKey       string            `json:"identity_key"`
	Anchor            string            `json:"anchor"`
	File              string            `json:"file"`
	StartLine         int               `json:"start_line"`
	EndLine           int               `json:"end_line"`
	Summary           string            `json:"summary,omitempty"`
	ParamDocs         map[string]string `json:"param_docs,omitempty"`
	ReturnDoc         string            `json:"return_doc,omitempty"`
	FailureConditions []string          `json:"failure_conditions,omitempty"`
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results          []Result
	TotalResults     int
	SearchMode       SearchMode
	Duration         time.Duration
	CacheHit         bool
	ReferenceResults int
	TextResults      int
}

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Searcher runs keyword and reference searches over stored functions
type Searcher struct {
	storage storage.Storage
	cache   *lru.Cache[[32]byte, *cacheEntry]
	cacheMu sync.RWMutex
}

// NewSearcher creates a new Searcher instance
func NewSearcher(storage storage.Storage) *Searcher {
	cache, err := lru.New[[32]byte, *cacheEntry](1000)
	if err != nil {
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Searcher{
		storage: storage,
		cache:   cache,
	}
}

// Search performs a search based on the request parameters
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	if req.UseCache {
		if cached := s.checkCache(req); cached != nil {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	var refs, text, ranked []rankedResult
	var err error

	switch req.Mode {
	case SearchModeHybrid:
		// a query that is not reference syntax still gets keyword results
		refs, _ = s.referenceSearch(ctx, req)
		text, err = s.keywordSearch(ctx, req)
		if err != nil && len(refs) == 0 {
			return nil, err
		}
		ranked = applyRRF(refs, text, req.RRFConstant)
	case SearchModeReference:
		if refs, err = s.referenceSearch(ctx, req); err != nil {
			return nil, err
		}
		ranked = refs
	case SearchModeKeyword:
		if text, err = s.keywordSearch(ctx, req); err != nil {
			return nil, err
		}
		ranked = text
	default:
		return nil, fmt.Errorf("unsupported search mode: %s", req.Mode)
	}

	results, err := s.fetchResults(ctx, ranked, req.Limit)
	if err != nil {
		return nil, err
	}

	response := &SearchResponse{
		Results:          results,
		TotalResults:     len(results),
		SearchMode:       req.Mode,
		Duration:         time.Since(startTime),
		ReferenceResults: len(refs),
		TextResults:      len(text),
	}

	if req.UseCache && len(response.Results) > 0 {
		s.storeInCache(req, response)
	}

	return response, nil
}

// referenceSearch parses the query as a cross-reference target and returns
// the matching overloads in declaration order
func (s *Searcher) referenceSearch(ctx context.Context, req SearchRequest) ([]rankedResult, error) {
	q, err := parser.ParseQuery(req.Query)
	if err != nil {
		return nil, err
	}

	fns, err := s.storage.ListFunctionsByName(ctx, req.ProjectID, q.Name)
	if err != nil {
		return nil, err
	}

	ranked := make([]rankedResult, 0, len(fns))
	for _, fn := range fns {
		if q.Qualified {
			doc, err := fn.ToDocumented()
			if err != nil || !q.Matches(doc.Signature) {
				continue
			}
		}
		if req.Filters != nil && !passesFilters(fn, req.Filters) {
			continue
		}
		ranked = append(ranked, rankedResult{functionID: fn.ID, score: 1.0, rank: len(ranked) + 1})
	}
	return ranked, nil
}

// keywordSearch performs BM25 text search
func (s *Searcher) keywordSearch(ctx context.Context, req SearchRequest) ([]rankedResult, error) {
	textResults, err := s.storage.SearchText(ctx, req.ProjectID, req.Query, req.Limit*2, req.Filters)
	if err != nil {
		return nil, err
	}

	ranked := make([]rankedResult, len(textResults))
	for i, tr := range textResults {
		ranked[i] = rankedResult{
			functionID: tr.FunctionID,
			score:      tr.BM25Score,
			rank:       i + 1,
		}
	}
	return ranked, nil
}

// passesFilters applies name and file filters to reference matches
func passesFilters(fn *storage.Function, filters *storage.SearchFilters) bool {
	if len(filters.Names) > 0 {
		found := false
		for _, n := range filters.Names {
			if n == fn.Name {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filters.FilePattern != "" {
		// storage uses SQLite GLOB for the same filter
		if ok, err := globMatch(filters.FilePattern, fn.FilePath); err != nil || !ok {
			return false
		}
	}
	return true
}

// globMatch matches like SQLite GLOB, where "*" also crosses "/"
func globMatch(pattern, path string) (bool, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return false, err
	}
	return g.Match(path), nil
}

// rankedResult represents a function with its relevance score and rank
type rankedResult struct {
	functionID int64
	score      float64
	rank       int
}

// applyRRF applies Reciprocal Rank Fusion to combine reference and text
// results. RRF(d) = sum of 1/(k + rank(d))
func applyRRF(refs, text []rankedResult, k float64) []rankedResult {
	if k == 0 {
		k = 60
	}

	scores := make(map[int64]float64)
	for _, list := range [][]rankedResult{refs, text} {
		for rank, r := range list {
			scores[r.functionID] += 1.0 / (k + float64(rank+1))
		}
	}

	results := make([]rankedResult, 0, len(scores))
	for id, score := range scores {
		results = append(results, rankedResult{functionID: id, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].functionID < results[j].functionID
	})
	for i := range results {
		results[i].rank = i + 1
	}
	return results
}

// fetchResults loads stored functions for ranked results
func (s *Searcher) fetchResults(ctx context.Context, ranked []rankedResult, limit int) ([]Result, error) {
	if limit > len(ranked) {
		limit = len(ranked)
	}

	results := make([]Result, 0, limit)
	for i := 0; i < limit; i++ {
		rr := ranked[i]

		fn, err := s.storage.GetFunction(ctx, rr.functionID)
		if err != nil {
			continue // Skip functions removed since ranking
		}
		doc, err := fn.ToDocumented()
		if err != nil {
			continue
		}

		result := Result{
			FunctionID:        fn.ID,
			Rank:              rr.rank,
			RelevanceScore:    rr.score,
			Signature:         fn.Signature,
			IdentityKey:       fn.IdentityKey,
			Anchor:            fn.Anchor,
			File:              fn.FilePath,
			StartLine:         fn.StartLine,
			EndLine:           fn.EndLine,
			Summary:           doc.Doc.Summary,
			FailureConditions: doc.Doc.FailureConditions,
		}
		if doc.Doc.ReturnDoc != nil {
			result.ReturnDoc = *doc.Doc.ReturnDoc
		}
		if len(doc.Doc.ParamDocs) > 0 {
			result.ParamDocs = make(map[string]string, len(doc.Doc.ParamDocs))
			for pos, text := range doc.Doc.ParamDocs {
				if pos < len(doc.Signature.Params) {
					result.ParamDocs[doc.Signature.Params[pos].Name] = text
				}
			}
		}

		results = append(results, result)
	}

	return results, nil
}

// validateRequest ensures search request is valid
func (s *Searcher) validateRequest(req *SearchRequest) error {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return ErrEmptyQuery
	}

	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Mode == "" {
		req.Mode = SearchModeHybrid
	}
	if req.RRFConstant == 0 {
		req.RRFConstant = 60
	}
	if req.CacheTTL == 0 {
		req.CacheTTL = 1 * time.Hour
	}

	return nil
}

// checkCache looks up cached search results, or nil
func (s *Searcher) checkCache(req SearchRequest) *SearchResponse {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil
	}

	response := copySearchResponse(entry.response)
	s.cacheMu.RUnlock()
	return response
}

// storeInCache saves search results to cache
func (s *Searcher) storeInCache(req SearchRequest, response *SearchResponse) {
	entry := &cacheEntry{
		response:  copySearchResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(req), entry)
	s.cacheMu.Unlock()
}

// copySearchResponse creates a deep copy of a SearchResponse
func copySearchResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}

	dst := *src
	dst.Results = make([]Result, len(src.Results))
	for i, r := range src.Results {
		dst.Results[i] = r
		if r.ParamDocs != nil {
			dst.Results[i].ParamDocs = make(map[string]string, len(r.ParamDocs))
			for k, v := range r.ParamDocs {
				dst.Results[i].ParamDocs[k] = v
			}
		}
		if r.FailureConditions != nil {
			dst.Results[i].FailureConditions = append([]string(nil), r.FailureConditions...)
		}
	}
	return &dst
}

// computeQueryHash computes a unique hash for a search request
func computeQueryHash(req SearchRequest) [32]byte {
	var data strings.Builder
	data.WriteString(req.Query)
	data.WriteString("|")
	data.WriteString(string(req.Mode))
	data.WriteString("|")
	data.WriteString(fmt.Sprintf("%d|%d", req.ProjectID, req.Limit))

	if req.Filters != nil {
		data.WriteString("|filters:")
		data.WriteString(strings.Join(req.Filters.Names, ","))
		data.WriteString("|")
		data.WriteString(req.Filters.FilePattern)
		data.WriteString("|")
		data.WriteString(fmt.Sprintf("%.2f", req.Filters.MinRelevance))
	}

	return sha256.Sum256([]byte(data.String()))
}

// InvalidateCache drops every cached response. The cache cannot filter by
// project, so a re-index of any project purges it.
func (s *Searcher) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
}

// CacheLen returns the number of cached responses
func (s *Searcher) CacheLen() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.cache.Len()
}
