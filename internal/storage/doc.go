// Package storage provides SQLite-based persistence for documented functions.
//
// The storage layer manages:
//   - Project metadata
//   - File paths and content hashes
//   - Registered function overloads with their normalized documentation
//   - A full-text search index over function names, signatures and summaries
//
// # Database Schema
//
// Tables:
//   - projects: Project metadata (root path, totals, last index time)
//   - files: File paths, SHA-256 hashes and the first build error
//   - functions: One row per overload; identity key, declaration order,
//     anchor and documentation as JSON
//   - functions_fts: FTS5 index kept in sync by triggers
//
// Schema versions are semantic versions applied in order by ApplyMigrations.
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.standoc/standoc.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	row, err := storage.FromDocumented(fn, file.ID)
//	if err != nil {
//	    return err
//	}
//	err = db.UpsertFunction(ctx, row)
//
// Stored rows convert back with Function.ToDocumented, which re-parses the
// canonical signature text. A resolver can therefore be rebuilt from the
// database without re-reading source files.
//
// # Transactions
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer func() { _ = tx.Rollback() }()
//
//	if err := tx.UpsertFile(ctx, file); err != nil {
//	    return err
//	}
//	return tx.Commit()
//
// # Build Modes
//
// The default build uses modernc.org/sqlite (pure Go). Building with the
// sqlite_cgo and sqlite_fts5 tags switches to github.com/mattn/go-sqlite3.
package storage
