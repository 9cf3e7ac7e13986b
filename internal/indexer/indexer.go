package indexer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/standoc-mcp/internal/index"
	"github.com/dshills/standoc-mcp/internal/storage"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// ErrIndexInProgress is returned when a build is already running
var ErrIndexInProgress = errors.New("indexing already in progress")

// Indexer coordinates the build pipeline:
// discover -> extract -> parse + normalize -> merge -> store
type Indexer struct {
	storage storage.Storage
	logger  *slog.Logger
	lock    IndexLock

	// Worker pool configuration
	workers int
}

// Config contains configuration for a project build
type Config struct {
	Workers   int      // Number of concurrent workers (default: runtime.NumCPU())
	BatchSize int      // Number of files to commit per transaction (default: 20)
	Include   []string // File globs (default: DefaultInclude)
	Ignore    []string // Ignore globs (default: DefaultIgnore)

	// OnProgress is called after each file is built. It may be called
	// from several goroutines.
	OnProgress func(done, total int)
}

// Statistics contains statistics about a project build
type Statistics struct {
	FilesIndexed        int // New or changed files
	FilesSkipped        int // Files with an unchanged content hash
	FilesFailed         int // Files that could not be read
	FilesRemoved        int // Stored files no longer on disk
	FunctionsRegistered int
	Errors              int
	Warnings            int
	Duration            time.Duration
	ErrorMessages       []string
	WarningMessages     []string

	// Result carries the merged functions and every diagnostic
	Result *types.BuildResult `json:"-" yaml:"-"`
}

// fileState is one discovered file moving through the pipeline
type fileState struct {
	relPath string
	hash    [32]byte
	modTime time.Time
	size    int64
	build   *FileBuild
	err     error
}

// New creates a new Indexer instance
func New(store storage.Storage) *Indexer {
	return &Indexer{
		storage: store,
		logger:  slog.Default(),
		workers: runtime.NumCPU(),
	}
}

// WithLogger sets the logger used for build diagnostics
func (idx *Indexer) WithLogger(logger *slog.Logger) *Indexer {
	if logger != nil {
		idx.logger = logger
	}
	return idx
}

// IndexProject builds every matching file under rootPath and stores the
// merged result. Only one build runs at a time per Indexer.
func (idx *Indexer) IndexProject(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrIndexInProgress
	}
	defer idx.lock.Release()

	if config == nil {
		config = &Config{}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 20
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}
	idx.workers = config.Workers

	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages:   make([]string, 0),
		WarningMessages: make([]string, 0),
	}

	project, err := idx.getOrCreateProject(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create project: %w", err)
	}

	discovery, err := NewFileDiscovery(rootPath, config.Include, config.Ignore)
	if err != nil {
		return nil, fmt.Errorf("failed to configure discovery: %w", err)
	}
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	states, err := idx.buildFiles(ctx, rootPath, files, config)
	if err != nil {
		return nil, fmt.Errorf("failed to build files: %w", err)
	}

	builds := make([]*FileBuild, 0, len(states))
	for _, st := range states {
		if st.err != nil {
			stats.FilesFailed++
			stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", st.relPath, st.err))
			continue
		}
		builds = append(builds, st.build)
	}

	merged, result := MergeBuilds(builds)
	idx.report(result, stats)

	if err := idx.persist(ctx, project, states, merged, config.BatchSize, stats); err != nil {
		return nil, fmt.Errorf("failed to store functions: %w", err)
	}

	if err := idx.updateProjectStats(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project stats: %w", err)
	}

	stats.FunctionsRegistered = merged.Len()
	stats.Result = result
	stats.Duration = time.Since(startTime)
	return stats, nil
}

// getOrCreateProject retrieves an existing project or creates a new one
func (idx *Indexer) getOrCreateProject(ctx context.Context, rootPath string) (*storage.Project, error) {
	project, err := idx.storage.GetProject(ctx, rootPath)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	project = &storage.Project{
		RootPath:     rootPath,
		Name:         filepath.Base(rootPath),
		IndexVersion: storage.CurrentSchemaVersion,
	}
	if err := idx.storage.CreateProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// buildFiles reads and documents files concurrently. Each file gets its own
// index, so workers share nothing; the returned slice keeps the order of
// files for the sequential merge.
func (idx *Indexer) buildFiles(ctx context.Context, rootPath string, files []string, config *Config) ([]*fileState, error) {
	states := make([]*fileState, len(files))
	semaphore := make(chan struct{}, idx.workers)
	var done int32

	g, gctx := errgroup.WithContext(ctx)
	for i, relPath := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			states[i] = buildOne(rootPath, relPath)
			if config.OnProgress != nil {
				config.OnProgress(int(atomic.AddInt32(&done, 1)), len(files))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

// buildOne reads, hashes and documents a single file
func buildOne(rootPath, relPath string) *fileState {
	st := &fileState{relPath: relPath}

	path := filepath.Join(rootPath, filepath.FromSlash(relPath))
	content, err := os.ReadFile(path)
	if err != nil {
		st.err = err
		return st
	}
	info, err := os.Stat(path)
	if err != nil {
		st.err = err
		return st
	}

	st.hash = sha256.Sum256(content)
	st.modTime = info.ModTime()
	st.size = info.Size()
	st.build = BuildFile(relPath, string(content))
	return st
}

// report logs diagnostics and copies them into stats
func (idx *Indexer) report(result *types.BuildResult, stats *Statistics) {
	for _, err := range result.Errors {
		idx.logger.Warn("declaration skipped", "error", err)
		stats.ErrorMessages = append(stats.ErrorMessages, err.Error())
	}
	for _, w := range result.Warnings {
		idx.logger.Info("documentation warning", "warning", w)
		stats.WarningMessages = append(stats.WarningMessages, w.Error())
	}
	stats.Errors = len(result.Errors)
	stats.Warnings = len(result.Warnings)
}

// persist writes files and their functions in batches, one transaction per
// batch, then removes stored files that were not discovered
func (idx *Indexer) persist(ctx context.Context, project *storage.Project, states []*fileState,
	merged *index.Index, batchSize int, stats *Statistics) error {

	byFile := make(map[string][]types.DocumentedFunction)
	for _, fn := range merged.Functions() {
		byFile[fn.Signature.Source.File] = append(byFile[fn.Signature.Source.File], fn)
	}

	for i := 0; i < len(states); i += batchSize {
		end := i + batchSize
		if end > len(states) {
			end = len(states)
		}
		if err := idx.persistBatch(ctx, project, states[i:end], byFile, stats); err != nil {
			return err
		}
	}

	return idx.removeStaleFiles(ctx, project, states, stats)
}

// persistBatch stores a batch of files within a transaction
func (idx *Indexer) persistBatch(ctx context.Context, project *storage.Project, batch []*fileState,
	byFile map[string][]types.DocumentedFunction, stats *Statistics) error {

	tx, err := idx.storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range batch {
		if st.err != nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		file, changed, err := idx.storeFile(ctx, tx, project, st)
		if err != nil {
			return fmt.Errorf("%s: %w", st.relPath, err)
		}
		if changed {
			stats.FilesIndexed++
		} else {
			stats.FilesSkipped++
		}

		if err := syncFunctions(ctx, tx, file.ID, byFile[st.relPath]); err != nil {
			return fmt.Errorf("%s: %w", st.relPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// storeFile upserts the file row when its content hash changed
func (idx *Indexer) storeFile(ctx context.Context, store storage.Storage, project *storage.Project,
	st *fileState) (*storage.File, bool, error) {

	existing, err := store.GetFile(ctx, project.ID, st.relPath)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, false, err
	}
	if err == nil && existing.ContentHash == st.hash {
		return existing, false, nil
	}

	file := &storage.File{
		ProjectID:   project.ID,
		FilePath:    st.relPath,
		ContentHash: st.hash,
		ModTime:     st.modTime,
		SizeBytes:   st.size,
	}
	if errs := st.build.Result.Errors; len(errs) > 0 {
		msg := errs[0].Error()
		file.ParseError = &msg
	}
	if err := store.UpsertFile(ctx, file); err != nil {
		return nil, false, err
	}
	return file, true, nil
}

// syncFunctions makes the stored functions of a file match fns. Overloads
// that still exist are updated in place so their anchors survive; the rest
// are deleted.
func syncFunctions(ctx context.Context, store storage.Storage, fileID int64, fns []types.DocumentedFunction) error {
	stored, err := store.ListFunctionsByFile(ctx, fileID)
	if err != nil {
		return err
	}

	keep := make(map[string]bool, len(fns))
	for _, fn := range fns {
		row, err := storage.FromDocumented(fn, fileID)
		if err != nil {
			return err
		}
		if err := store.UpsertFunction(ctx, row); err != nil {
			return fmt.Errorf("failed to store function %s: %w", row.IdentityKey, err)
		}
		fn.Signature.Anchor = row.Anchor
		keep[row.IdentityKey] = true
	}

	for _, old := range stored {
		if keep[old.IdentityKey] {
			continue
		}
		if err := store.DeleteFunction(ctx, old.ID); err != nil {
			return fmt.Errorf("failed to delete function %s: %w", old.IdentityKey, err)
		}
	}
	return nil
}

// removeStaleFiles deletes stored files that are no longer discovered
func (idx *Indexer) removeStaleFiles(ctx context.Context, project *storage.Project, states []*fileState, stats *Statistics) error {
	present := make(map[string]bool, len(states))
	for _, st := range states {
		present[st.relPath] = true
	}

	files, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if present[f.FilePath] {
			continue
		}
		if err := idx.storage.DeleteFile(ctx, f.ID); err != nil {
			return fmt.Errorf("failed to remove %s: %w", f.FilePath, err)
		}
		stats.FilesRemoved++
	}
	return nil
}

// updateProjectStats updates the project's file and function counts
func (idx *Indexer) updateProjectStats(ctx context.Context, project *storage.Project) error {
	files, err := idx.storage.ListFiles(ctx, project.ID)
	if err != nil {
		return err
	}
	fns, err := idx.storage.ListFunctionsByProject(ctx, project.ID)
	if err != nil {
		return err
	}

	project.TotalFiles = len(files)
	project.TotalFunctions = len(fns)
	project.LastIndexedAt = time.Now()

	return idx.storage.UpdateProject(ctx, project)
}

// DocumentPath builds a single file from disk without touching storage
func DocumentPath(path string) (*FileBuild, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return BuildFile(path, string(content)), nil
}

// LoadIndex rebuilds the frozen index of a stored project, in global
// declaration order, for resolution without re-reading sources
func LoadIndex(ctx context.Context, store storage.Storage, rootPath string) (*index.Index, error) {
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}
	project, err := store.GetProject(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", rootPath, err)
	}
	rows, err := store.ListFunctionsByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	idx := index.New()
	for _, row := range rows {
		fn, err := row.ToDocumented()
		if err != nil {
			return nil, err
		}
		if err := idx.Register(fn.Signature, fn.Doc); err != nil {
			return nil, err
		}
	}
	idx.Freeze()
	return idx, nil
}
