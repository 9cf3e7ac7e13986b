package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dshills/standoc-mcp/internal/parser"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// Storage defines the interface for persisting and querying documented functions
type Storage interface {
	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, rootPath string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error

	// File operations
	UpsertFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, projectID int64, filePath string) (*File, error)
	GetFileByID(ctx context.Context, fileID int64) (*File, error)
	DeleteFile(ctx context.Context, fileID int64) error
	ListFiles(ctx context.Context, projectID int64) ([]*File, error)

	// Function operations
	UpsertFunction(ctx context.Context, fn *Function) error
	GetFunction(ctx context.Context, functionID int64) (*Function, error)
	ListFunctionsByFile(ctx context.Context, fileID int64) ([]*Function, error)
	ListFunctionsByProject(ctx context.Context, projectID int64) ([]*Function, error)
	ListFunctionsByName(ctx context.Context, projectID int64, name string) ([]*Function, error)
	DeleteFunction(ctx context.Context, functionID int64) error
	DeleteFunctionsByFile(ctx context.Context, fileID int64) error

	// Search operations
	SearchText(ctx context.Context, projectID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error)

	// Status operations
	GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Project represents an indexed source tree
type Project struct {
	ID             int64
	RootPath       string
	Name           string
	TotalFiles     int
	TotalFunctions int
	IndexVersion   string
	LastIndexedAt  time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// File represents a tracked source file
type File struct {
	ID            int64
	ProjectID     int64
	FilePath      string // Relative to project root
	ContentHash   [32]byte
	ModTime       time.Time
	SizeBytes     int64
	ParseError    *string // Nullable; first error of the last build
	LastIndexedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Function is one registered overload with its documentation
type Function struct {
	ID          int64
	FileID      int64
	Name        string
	Signature   string // Canonical declaration text
	IdentityKey string // Name and parameter types, see types.Signature.Key
	DeclOrder   int    // Global declaration order within the project
	StartLine   int
	EndLine     int
	Anchor      string
	Summary     string
	DocJSON     string // Serialized docPayload
	CreatedAt   time.Time

	// FilePath is filled by queries that join files; it is not stored
	FilePath string
}

// SearchFilters contains filters for narrowing search results
type SearchFilters struct {
	FilePattern  string   // GLOB pattern for file paths
	Names        []string // Restrict to these function names
	MinRelevance float64  // Minimum relevance score
}

// TextResult represents a result from full-text search
type TextResult struct {
	FunctionID int64
	BM25Score  float64
}

// ProjectStatus contains statistics about an indexed project
type ProjectStatus struct {
	Project         *Project
	FilesCount      int
	FunctionsCount  int
	DocumentedCount int
	FilesWithErrors int
	IndexSizeMB     float64
	LastIndexedAt   time.Time
	SchemaVersion   string
	Health          HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexesBuilt    bool
}

// docPayload is the stored form of a types.DocRecord
type docPayload struct {
	Summary           string         `json:"summary,omitempty"`
	ParamDocs         map[int]string `json:"param_docs,omitempty"`
	ReturnDoc         *string        `json:"return_doc,omitempty"`
	FailureConditions []string       `json:"failure_conditions,omitempty"`
}

// FromDocumented converts a documented function into its storage row
func FromDocumented(fn types.DocumentedFunction, fileID int64) (*Function, error) {
	sig := fn.Signature
	payload := docPayload{}
	if fn.Doc != nil {
		payload = docPayload{
			Summary:           fn.Doc.Summary,
			ParamDocs:         fn.Doc.ParamDocs,
			ReturnDoc:         fn.Doc.ReturnDoc,
			FailureConditions: fn.Doc.FailureConditions,
		}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode documentation for %s: %w", sig.Key(), err)
	}

	return &Function{
		FileID:      fileID,
		Name:        sig.Name,
		Signature:   sig.String(),
		IdentityKey: sig.Key(),
		DeclOrder:   sig.Order,
		StartLine:   sig.Source.Line,
		EndLine:     sig.Source.EndLine,
		Anchor:      sig.Anchor,
		Summary:     payload.Summary,
		DocJSON:     string(data),
	}, nil
}

// ToDocumented rebuilds the signature and documentation from a stored row.
// The signature text is re-parsed, so the result compares equal to the
// value that was stored.
func (f *Function) ToDocumented() (types.DocumentedFunction, error) {
	sig, err := parser.ParseSignature(f.Signature, f.DeclOrder)
	if err != nil {
		return types.DocumentedFunction{}, fmt.Errorf("stored signature %q: %w", f.Signature, err)
	}
	sig.Source = types.Location{File: f.FilePath, Line: f.StartLine, EndLine: f.EndLine}
	sig.Anchor = f.Anchor

	var payload docPayload
	if f.DocJSON != "" {
		if err := json.Unmarshal([]byte(f.DocJSON), &payload); err != nil {
			return types.DocumentedFunction{}, fmt.Errorf("stored documentation for %s: %w", f.IdentityKey, err)
		}
	}
	if payload.ParamDocs == nil {
		payload.ParamDocs = make(map[int]string)
	}

	doc := &types.DocRecord{
		Signature:         sig,
		Summary:           payload.Summary,
		ParamDocs:         payload.ParamDocs,
		ReturnDoc:         payload.ReturnDoc,
		FailureConditions: payload.FailureConditions,
	}
	return types.DocumentedFunction{Signature: sig, Doc: doc}, nil
}
