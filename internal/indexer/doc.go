// Package indexer coordinates the documentation build for a source tree.
//
// The indexer ties the core packages together: the extractor finds
// declarations and their comments, the parser turns each declaration into a
// signature, the docstring normalizer builds its documentation record, and
// the symbol index registers the pair. Results are stored so a resolver can
// be rebuilt later without re-reading sources.
//
// # Basic Usage
//
//	idx := indexer.New(store)
//
//	stats, err := idx.IndexProject(ctx, "/path/to/project", &indexer.Config{
//	    Include: []string{"**/*.stan"},
//	})
//
//	fmt.Printf("Registered %d functions in %v\n", stats.FunctionsRegistered, stats.Duration)
//
// A single file can be documented without storage:
//
//	fb := indexer.BuildFile("series.stan", source)
//	for _, fn := range fb.Result.Functions {
//	    fmt.Println(fn.Signature, fn.Doc.Summary)
//	}
//
// # Build Pipeline
//
//  1. Discovery: walk the root, keep files matching the include globs
//  2. Per-file build: extract, parse, normalize, register (parallel)
//  3. Merge: combine per-file indexes in sorted path order (sequential)
//  4. Store: upsert files and functions in batched transactions
//
// Each worker fills its own index, so the parallel stage shares no state.
// The merge renumbers declaration order globally and reports overloads
// defined in more than one file.
//
// # Partial Failure
//
// A declaration that fails to parse, or that duplicates an earlier overload,
// is skipped and recorded in BuildResult.Errors. Unknown documentation fields
// and parameters are warnings. Neither stops the build. Warnings are logged
// through log/slog.
//
// # Incremental Builds
//
// Files whose SHA-256 content hash is unchanged keep their stored row.
// Functions are always re-synchronized so declaration order stays global;
// surviving overloads keep their anchors.
//
// # Watch Mode
//
// Watcher uses fsnotify to trigger a debounced rebuild when a matching file
// changes:
//
//	w, err := indexer.NewWatcher(root, discovery, func(ctx context.Context, changed []string) {
//	    _, _ = idx.IndexProject(ctx, root, cfg)
//	})
//	w.Start(ctx)
//	defer w.Stop()
package indexer
