package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/standoc-mcp/internal/indexer"
	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/internal/searcher"
	"github.com/dshills/standoc-mcp/internal/storage"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeProjectNotFound    = -32001 // Specified path does not contain source files
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeNotIndexed         = -32003 // Project not indexed
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
)

// maxReportedDiagnostics caps the errors and warnings echoed in a response
const maxReportedDiagnostics = 5

// handleIndexFunctions handles the index_functions tool invocation
func (s *Server) handleIndexFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := s.requireProjectPath(args)
	if err != nil {
		return nil, err
	}

	config := s.indexerConfig()
	config.Workers = getIntDefault(args, "workers", config.Workers)
	if config.Workers < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "workers must not be negative", map[string]interface{}{
			"param": "workers",
			"value": config.Workers,
		})
	}

	stats, err := s.indexer.IndexProject(ctx, path, config)
	if errors.Is(err, indexer.ErrIndexInProgress) {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "indexing already in progress", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.invalidate(path)

	response := map[string]interface{}{
		"indexed":              true,
		"files_indexed":        stats.FilesIndexed,
		"files_skipped":        stats.FilesSkipped,
		"files_failed":         stats.FilesFailed,
		"files_removed":        stats.FilesRemoved,
		"functions_registered": stats.FunctionsRegistered,
		"duration_ms":          stats.Duration.Milliseconds(),
	}
	addDiagnostics(response, "errors", stats.ErrorMessages)
	addDiagnostics(response, "warnings", stats.WarningMessages)

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleResolveReference handles the resolve_reference tool invocation
func (s *Server) handleResolveReference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, err := s.requireProjectPath(args)
	if err != nil {
		return nil, err
	}

	target, ok := args["target"].(string)
	if !ok || target == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "target parameter is required", map[string]interface{}{
			"param":  "target",
			"reason": "missing or empty",
		})
	}
	includeDocs := getBoolDefault(args, "include_docs", true)

	project, err := s.project(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load index", map[string]interface{}{
			"error": err.Error(),
		})
	}

	res, err := project.resolver.ResolveTarget(target)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid target", map[string]interface{}{
			"param":  "target",
			"reason": err.Error(),
		})
	}

	var docOf func(*types.Signature) *types.DocRecord
	if includeDocs {
		docOf = project.index.Doc
	}
	return mcp.NewToolResultText(formatJSON(res.View(docOf))), nil
}

// handleDocumentFile handles the document_file tool invocation
func (s *Server) handleDocumentFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	file, ok := args["file"].(string)
	if !ok || file == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "file parameter is required", map[string]interface{}{
			"param":  "file",
			"reason": "missing or empty",
		})
	}
	if err := validateFile(file); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid file", map[string]interface{}{
			"param":  "file",
			"reason": err.Error(),
		})
	}

	members, err := parser.ParseMembers(getStringDefault(args, "members", ""))
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid members", map[string]interface{}{
			"param":  "members",
			"reason": err.Error(),
		})
	}

	build, err := indexer.DocumentPath(file)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to document file", map[string]interface{}{
			"error": err.Error(),
		})
	}

	selected, selectWarnings := build.Index.Select(members)
	functions := make([]types.FunctionView, 0, len(selected))
	for _, sig := range selected {
		functions = append(functions, types.NewFunctionView(sig, build.Index.Doc(sig)))
	}

	warnings := append(append([]error{}, build.Result.Warnings...), selectWarnings...)
	response := map[string]interface{}{
		"file":      file,
		"functions": functions,
		"errors":    errorStrings(build.Result.Errors),
		"warnings":  errorStrings(warnings),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchFunctions handles the search_functions tool invocation
func (s *Server) handleSearchFunctions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	path = filepath.Clean(path)

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	mode := searcher.SearchMode(getStringDefault(args, "search_mode", string(searcher.SearchModeHybrid)))
	switch mode {
	case searcher.SearchModeHybrid, searcher.SearchModeReference, searcher.SearchModeKeyword:
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid search_mode", map[string]interface{}{
			"param":   "search_mode",
			"value":   mode,
			"allowed": []string{"hybrid", "reference", "keyword"},
		})
	}

	project, err := s.storage.GetProject(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeNotIndexed, "project not indexed", map[string]interface{}{
			"path": path,
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project", map[string]interface{}{
			"error": err.Error(),
		})
	}

	resp, err := s.searcher.Search(ctx, searcher.SearchRequest{
		Query:     query,
		Limit:     limit,
		Mode:      mode,
		Filters:   parseFilters(args),
		ProjectID: project.ID,
		UseCache:  true,
	})
	if errors.Is(err, searcher.ErrEmptyQuery) {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query has no searchable terms", map[string]interface{}{
			"param": "query",
		})
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"results":       resp.Results,
		"total_results": resp.TotalResults,
		"search_mode":   resp.SearchMode,
		"cache_hit":     resp.CacheHit,
		"duration_ms":   resp.Duration.Milliseconds(),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	path = filepath.Clean(path)

	project, err := s.storage.GetProject(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		response := map[string]interface{}{
			"indexed": false,
			"path":    path,
			"message": "Project not indexed. Use the index_functions tool to index this project.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get project status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	status, err := s.storage.GetStatus(ctx, project.ID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed": true,
		"project": map[string]interface{}{
			"path":            project.RootPath,
			"name":            project.Name,
			"last_indexed_at": project.LastIndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"files_count":       status.FilesCount,
			"functions_count":   status.FunctionsCount,
			"documented_count":  status.DocumentedCount,
			"files_with_errors": status.FilesWithErrors,
			"index_size_mb":     fmt.Sprintf("%.2f", status.IndexSizeMB),
			"schema_version":    status.SchemaVersion,
		},
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_indexes_built":   status.Health.FTSIndexesBuilt,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// requireProjectPath extracts and validates the "path" argument
func (s *Server) requireProjectPath(args map[string]interface{}) (string, error) {
	path, ok := args["path"].(string)
	if !ok || path == "" {
		return "", newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	discovery, err := indexer.NewFileDiscovery(path, s.cfg.Paths.Include, s.cfg.Paths.Ignore)
	if err != nil {
		return "", newMCPError(ErrorCodeInternalError, "invalid discovery patterns", map[string]interface{}{
			"error": err.Error(),
		})
	}
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}
	if len(files) == 0 {
		return "", newMCPError(ErrorCodeProjectNotFound, ErrNoSourceFiles.Error(), map[string]interface{}{
			"path": path,
		})
	}
	return filepath.Clean(path), nil
}

// parseFilters converts the optional filters object
func parseFilters(args map[string]interface{}) *storage.SearchFilters {
	raw, ok := args["filters"].(map[string]interface{})
	if !ok {
		return nil
	}

	filters := &storage.SearchFilters{
		FilePattern: getStringDefault(raw, "file_pattern", ""),
	}
	if names, ok := raw["names"].([]interface{}); ok {
		for _, n := range names {
			if name, ok := n.(string); ok && name != "" {
				filters.Names = append(filters.Names, name)
			}
		}
	}
	if v, ok := raw["min_relevance"].(float64); ok {
		filters.MinRelevance = v
	}
	return filters
}

// addDiagnostics includes the first few messages under key
func addDiagnostics(response map[string]interface{}, key string, messages []string) {
	if len(messages) == 0 {
		return
	}
	if len(messages) > maxReportedDiagnostics {
		response[key] = messages[:maxReportedDiagnostics]
		response[key+"_count"] = len(messages)
		return
	}
	response[key] = messages
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks that a project path is an absolute, readable directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// validateFile checks that a path is an absolute, readable source file
func validateFile(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if info.IsDir() {
		return ErrIsDirectory
	}

	switch filepath.Ext(path) {
	case ".stan", ".stanfunctions":
		return nil
	default:
		return ErrNotSourceFile
	}
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
	ErrIsDirectory     = errors.New("path is a directory")
	ErrNotSourceFile   = errors.New("file is not a .stan or .stanfunctions source file")
	ErrNoSourceFiles   = errors.New("directory does not contain source files")
)
