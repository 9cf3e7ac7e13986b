package indexer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/standoc-mcp/internal/resolver"
	"github.com/dshills/standoc-mcp/internal/storage"
	"github.com/dshills/standoc-mcp/pkg/types"
)

// setupTestStorage creates an in-memory SQLite database for testing
func setupTestStorage(t testing.TB) storage.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err, "Failed to create test storage")
	t.Cleanup(func() { _ = store.Close() })

	return store
}

// createTestFile creates a source file for testing
func createTestFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	filePath := filepath.Join(dir, name)
	err := os.MkdirAll(filepath.Dir(filePath), 0755)
	require.NoError(t, err)

	err = os.WriteFile(filePath, []byte(content), 0644)
	require.NoError(t, err)

	return filePath
}

const mathSource = `functions {
  /** Natural log. */
  real log(real x) {
    return x;
  }

  /** Log with a base. */
  real log(real x, real b) {
    return x;
  }
}
`

const utilSource = `// Identity.
real ident(real x) {
  return x;
}
`

// TestNew verifies indexer initialization
func TestNew(t *testing.T) {
	store := setupTestStorage(t)

	idx := New(store)

	assert.NotNil(t, idx)
	assert.NotNil(t, idx.storage)
	assert.NotNil(t, idx.logger)
	assert.Equal(t, runtime.NumCPU(), idx.workers)
}

func TestIndexProject_Basic(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	tmpDir := t.TempDir()

	createTestFile(t, tmpDir, "math.stan", mathSource)
	createTestFile(t, tmpDir, "lib/util.stanfunctions", utilSource)
	createTestFile(t, tmpDir, "README.md", "# readme\n")

	var calls int32
	stats, err := New(store).IndexProject(ctx, tmpDir, &Config{
		Workers:    2,
		OnProgress: func(done, total int) { atomic.AddInt32(&calls, 1); assert.Equal(t, 2, total) },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesIndexed)
	assert.Equal(t, 0, stats.FilesSkipped)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Equal(t, 3, stats.FunctionsRegistered)
	assert.Equal(t, 0, stats.Errors)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	root, err := filepath.Abs(tmpDir)
	require.NoError(t, err)
	project, err := store.GetProject(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, 2, project.TotalFiles)
	assert.Equal(t, 3, project.TotalFunctions)

	// sorted paths give lib/util.stanfunctions first
	fns, err := store.ListFunctionsByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, fns, 3)
	assert.Equal(t, "ident(real)", fns[0].IdentityKey)
	assert.Equal(t, "lib/util.stanfunctions", fns[0].FilePath)
	assert.Equal(t, "log(real)", fns[1].IdentityKey)
	assert.Equal(t, "Natural log.", fns[1].Summary)
	assert.Equal(t, "log(real, real)", fns[2].IdentityKey)
}

func TestIndexProject_Incremental(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	tmpDir := t.TempDir()

	mathPath := createTestFile(t, tmpDir, "math.stan", mathSource)
	utilPath := createTestFile(t, tmpDir, "util.stan", utilSource)

	idx := New(store)
	_, err := idx.IndexProject(ctx, tmpDir, nil)
	require.NoError(t, err)

	root, _ := filepath.Abs(tmpDir)
	project, err := store.GetProject(ctx, root)
	require.NoError(t, err)
	before, err := store.ListFunctionsByName(ctx, project.ID, "log")
	require.NoError(t, err)
	require.Len(t, before, 2)

	// unchanged tree
	stats, err := idx.IndexProject(ctx, tmpDir, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesIndexed)
	assert.Equal(t, 2, stats.FilesSkipped)

	// drop one overload and remove a file
	createTestFile(t, tmpDir, "math.stan", "/** Natural log. */\nreal log(real x) {\n  return x;\n}\n")
	require.NoError(t, os.Remove(utilPath))

	stats, err = idx.IndexProject(ctx, tmpDir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Equal(t, 1, stats.FilesRemoved)
	assert.Equal(t, 1, stats.FunctionsRegistered)

	after, err := store.ListFunctionsByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "log(real)", after[0].IdentityKey)
	assert.Equal(t, before[0].Anchor, after[0].Anchor, "anchor survives re-indexing")

	_, err = os.Stat(mathPath)
	require.NoError(t, err)
}

func TestIndexProject_ReportsDiagnostics(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	tmpDir := t.TempDir()

	createTestFile(t, tmpDir, "a.stan", "real f(real x) {\n  return x;\n}\n")
	createTestFile(t, tmpDir, "b.stan", "real f(real x) {\n  return x;\n}\n/** @see f */\nreal g(real x) {\n  return x;\n}\n")
	createTestFile(t, tmpDir, "c.stan", "real bad(array[3] real x) {\n  return 1;\n}\n")

	stats, err := New(store).IndexProject(ctx, tmpDir, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Errors)
	assert.Equal(t, 1, stats.Warnings)
	assert.Equal(t, 2, stats.FunctionsRegistered)
	assert.Len(t, stats.ErrorMessages, 2)
	require.NotNil(t, stats.Result)
	assert.Len(t, stats.Result.Functions, 2)

	root, _ := filepath.Abs(tmpDir)
	project, err := store.GetProject(ctx, root)
	require.NoError(t, err)
	file, err := store.GetFile(ctx, project.ID, "c.stan")
	require.NoError(t, err)
	require.NotNil(t, file.ParseError)
	assert.Contains(t, *file.ParseError, "syntax error")

	status, err := store.GetStatus(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, status.FilesWithErrors)
}

func TestIndexProject_Locked(t *testing.T) {
	idx := New(setupTestStorage(t))
	require.True(t, idx.lock.TryAcquire())
	defer idx.lock.Release()

	_, err := idx.IndexProject(context.Background(), t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrIndexInProgress)
}

func TestIndexProject_CanceledContext(t *testing.T) {
	tmpDir := t.TempDir()
	createTestFile(t, tmpDir, "a.stan", utilSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(setupTestStorage(t)).IndexProject(ctx, tmpDir, nil)
	assert.Error(t, err)
}

func TestLoadIndex(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	tmpDir := t.TempDir()

	createTestFile(t, tmpDir, "math.stan", mathSource)
	_, err := New(store).IndexProject(ctx, tmpDir, nil)
	require.NoError(t, err)

	loaded, err := LoadIndex(ctx, store, tmpDir)
	require.NoError(t, err)
	assert.True(t, loaded.Frozen())
	assert.Equal(t, 2, loaded.Len())

	r := resolver.New(loaded)
	res, err := r.ResolveTarget("log")
	require.NoError(t, err)
	assert.Equal(t, types.ResolutionAmbiguous, res.Kind)
	assert.Equal(t, "log(real)", res.First().Key())

	res, err = r.ResolveTarget("log(real, real)")
	require.NoError(t, err)
	require.Equal(t, types.ResolutionUnique, res.Kind)
	doc := loaded.Doc(res.Unique())
	require.NotNil(t, doc)
	assert.Equal(t, "Log with a base.", doc.Summary)
	assert.Equal(t, "math.stan", res.Unique().Source.File)

	_, err = LoadIndex(ctx, store, t.TempDir())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentPath(t *testing.T) {
	path := createTestFile(t, t.TempDir(), "u.stan", utilSource)

	fb, err := DocumentPath(path)
	require.NoError(t, err)
	require.Len(t, fb.Result.Functions, 1)
	assert.Equal(t, "Identity.", fb.Result.Functions[0].Doc.Summary)

	_, err = DocumentPath(filepath.Join(t.TempDir(), "missing.stan"))
	assert.Error(t, err)
}

// TestIndexLock_ConcurrentAcquisition tests IndexLock behavior under concurrent access
func TestIndexLock_ConcurrentAcquisition(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "TryAcquire succeeds when lock is available",
			testFunc: func(t *testing.T) {
				var lock IndexLock
				assert.True(t, lock.TryAcquire())
				assert.True(t, lock.Held())
				lock.Release()
				assert.False(t, lock.Held())
			},
		},
		{
			name: "TryAcquire fails when lock is held",
			testFunc: func(t *testing.T) {
				var lock IndexLock
				require.True(t, lock.TryAcquire())
				assert.False(t, lock.TryAcquire())
				lock.Release()
				assert.True(t, lock.TryAcquire())
				lock.Release()
			},
		},
		{
			name: "Concurrent goroutines attempting acquisition",
			testFunc: func(t *testing.T) {
				var lock IndexLock
				const numGoroutines = 100

				var successCount int32
				var wg sync.WaitGroup
				wg.Add(numGoroutines)
				for i := 0; i < numGoroutines; i++ {
					go func() {
						defer wg.Done()
						if lock.TryAcquire() {
							atomic.AddInt32(&successCount, 1)
						}
					}()
				}
				wg.Wait()

				assert.Equal(t, int32(1), successCount, "Exactly one goroutine should acquire the lock")
				lock.Release()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.testFunc)
	}
}
