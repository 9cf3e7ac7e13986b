package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/standoc-mcp/internal/config"
	"github.com/dshills/standoc-mcp/internal/index"
	"github.com/dshills/standoc-mcp/internal/indexer"
	"github.com/dshills/standoc-mcp/internal/resolver"
	"github.com/dshills/standoc-mcp/internal/searcher"
	"github.com/dshills/standoc-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "standoc-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"

	// loadedProjectsCacheSize bounds the number of project indexes kept in memory
	loadedProjectsCacheSize = 16
)

// loadedProject is a frozen index rebuilt from storage with its resolver
type loadedProject struct {
	index    *index.Index
	resolver *resolver.Resolver
}

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	cfg      *config.Config
	storage  storage.Storage
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
	projects *lru.Cache[string, *loadedProject]
}

// NewServer creates a new MCP server instance. A nil cfg uses config.Default().
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	dbFile, err := cfg.DatabaseFile()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	projects, err := lru.New[string, *loadedProject](loadedProjectsCacheSize)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create project cache: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcp:      mcpServer,
		cfg:      cfg,
		storage:  store,
		indexer:  indexer.New(store),
		searcher: searcher.NewSearcher(store),
		projects: projects,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	log.Printf("%s %s serving on stdio", ServerName, ServerVersion)
	return server.ServeStdio(s.mcp)
}

// Close releases the storage backend
func (s *Server) Close() error {
	return s.storage.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexFunctionsTool(), s.handleIndexFunctions)
	s.mcp.AddTool(resolveReferenceTool(), s.handleResolveReference)
	s.mcp.AddTool(documentFileTool(), s.handleDocumentFile)
	s.mcp.AddTool(searchFunctionsTool(), s.handleSearchFunctions)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}

// indexerConfig maps the loaded configuration onto an indexing run
func (s *Server) indexerConfig() *indexer.Config {
	return &indexer.Config{
		Workers:   s.cfg.Indexer.Workers,
		BatchSize: s.cfg.Indexer.BatchSize,
		Include:   s.cfg.Paths.Include,
		Ignore:    s.cfg.Paths.Ignore,
	}
}

// project returns the cached index for rootPath, loading it from storage on
// first use
func (s *Server) project(ctx context.Context, rootPath string) (*loadedProject, error) {
	if p, ok := s.projects.Get(rootPath); ok {
		return p, nil
	}

	idx, err := indexer.LoadIndex(ctx, s.storage, rootPath)
	if err != nil {
		return nil, err
	}
	p := &loadedProject{
		index:    idx,
		resolver: resolver.New(idx, resolver.WithCacheSize(s.cfg.Resolver.CacheSize)),
	}
	s.projects.Add(rootPath, p)
	return p, nil
}

// invalidate drops cached state that a rebuild of rootPath makes stale
func (s *Server) invalidate(rootPath string) {
	s.projects.Remove(rootPath)
	s.searcher.InvalidateCache()
}
