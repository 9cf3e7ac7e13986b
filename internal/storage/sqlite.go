package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when trying to create a duplicate entity
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyQuery is returned for a search query with no terms
	ErrEmptyQuery = errors.New("empty search query")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// rowScanner is implemented by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Project operations

const projectColumns = `id, root_path, name, total_files, total_functions,
		       index_version, last_indexed_at, created_at, updated_at`

func scanProject(row rowScanner) (*Project, error) {
	var project Project
	var name sql.NullString
	var lastIndexedAt sql.NullTime
	err := row.Scan(
		&project.ID, &project.RootPath, &name, &project.TotalFiles, &project.TotalFunctions,
		&project.IndexVersion, &lastIndexedAt, &project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	project.Name = name.String
	if lastIndexedAt.Valid {
		project.LastIndexedAt = lastIndexedAt.Time
	}
	return &project, nil
}

func (s *SQLiteStorage) createProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		INSERT INTO projects (root_path, name, index_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if project.IndexVersion == "" {
		project.IndexVersion = CurrentSchemaVersion
	}
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		project.RootPath, project.Name, project.IndexVersion, now, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return fmt.Errorf("project %s: %w", project.RootPath, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	project.ID = id
	project.CreatedAt = now
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateProject(ctx context.Context, project *Project) error {
	return s.createProjectWithQuerier(ctx, s.querier(), project)
}

func (s *SQLiteStorage) getProjectWithQuerier(ctx context.Context, q querier, rootPath string) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE root_path = ?`
	return scanProject(q.QueryRowContext(ctx, query, rootPath))
}

func (s *SQLiteStorage) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return s.getProjectWithQuerier(ctx, s.querier(), rootPath)
}

func (s *SQLiteStorage) getProjectByIDWithQuerier(ctx context.Context, q querier, projectID int64) (*Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return scanProject(q.QueryRowContext(ctx, query, projectID))
}

func (s *SQLiteStorage) updateProjectWithQuerier(ctx context.Context, q querier, project *Project) error {
	query := `
		UPDATE projects
		SET name = ?, total_files = ?, total_functions = ?, last_indexed_at = ?, updated_at = ?
		WHERE id = ?
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		project.Name, project.TotalFiles, project.TotalFunctions,
		project.LastIndexedAt, now, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	project.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpdateProject(ctx context.Context, project *Project) error {
	return s.updateProjectWithQuerier(ctx, s.querier(), project)
}

// File operations

const fileColumns = `id, project_id, file_path, content_hash, mod_time,
		       size_bytes, parse_error, last_indexed_at, created_at, updated_at`

func scanFile(row rowScanner) (*File, error) {
	var file File
	var hash []byte
	var parseError sql.NullString
	err := row.Scan(
		&file.ID, &file.ProjectID, &file.FilePath, &hash, &file.ModTime,
		&file.SizeBytes, &parseError, &file.LastIndexedAt, &file.CreatedAt, &file.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	copy(file.ContentHash[:], hash)
	if parseError.Valid {
		file.ParseError = &parseError.String
	}
	return &file, nil
}

func (s *SQLiteStorage) upsertFileWithQuerier(ctx context.Context, q querier, file *File) error {
	query := `
		INSERT INTO files (project_id, file_path, content_hash, mod_time, size_bytes, parse_error, last_indexed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, file_path) DO UPDATE SET
			content_hash = excluded.content_hash,
			mod_time = excluded.mod_time,
			size_bytes = excluded.size_bytes,
			parse_error = excluded.parse_error,
			last_indexed_at = excluded.last_indexed_at,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		file.ProjectID, file.FilePath, file.ContentHash[:],
		file.ModTime, file.SizeBytes, file.ParseError, now, now, now).Scan(&file.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert file: %w", err)
	}

	file.LastIndexedAt = now
	file.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) UpsertFile(ctx context.Context, file *File) error {
	return s.upsertFileWithQuerier(ctx, s.querier(), file)
}

func (s *SQLiteStorage) getFileWithQuerier(ctx context.Context, q querier, projectID int64, filePath string) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? AND file_path = ?`
	return scanFile(q.QueryRowContext(ctx, query, projectID, filePath))
}

func (s *SQLiteStorage) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return s.getFileWithQuerier(ctx, s.querier(), projectID, filePath)
}

func (s *SQLiteStorage) getFileByIDWithQuerier(ctx context.Context, q querier, fileID int64) (*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = ?`
	return scanFile(q.QueryRowContext(ctx, query, fileID))
}

func (s *SQLiteStorage) GetFileByID(ctx context.Context, fileID int64) (*File, error) {
	return s.getFileByIDWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) deleteFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM files WHERE id = ?`, fileID)
	return err
}

func (s *SQLiteStorage) DeleteFile(ctx context.Context, fileID int64) error {
	return s.deleteFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) listFilesWithQuerier(ctx context.Context, q querier, projectID int64) ([]*File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE project_id = ? ORDER BY file_path`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	files := make([]*File, 0)
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (s *SQLiteStorage) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return s.listFilesWithQuerier(ctx, s.querier(), projectID)
}

// Function operations

const functionColumns = `fn.id, fn.file_id, fn.name, fn.signature, fn.identity_key, fn.decl_order,
		       fn.start_line, fn.end_line, fn.anchor, fn.summary, fn.doc_json, fn.created_at, f.file_path`

const functionFrom = ` FROM functions fn JOIN files f ON fn.file_id = f.id`

func scanFunction(row rowScanner) (*Function, error) {
	var fn Function
	var summary, docJSON sql.NullString
	err := row.Scan(
		&fn.ID, &fn.FileID, &fn.Name, &fn.Signature, &fn.IdentityKey, &fn.DeclOrder,
		&fn.StartLine, &fn.EndLine, &fn.Anchor, &summary, &docJSON, &fn.CreatedAt, &fn.FilePath,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	fn.Summary = summary.String
	fn.DocJSON = docJSON.String
	return &fn, nil
}

func collectFunctions(rows *sql.Rows) ([]*Function, error) {
	defer func() { _ = rows.Close() }()
	functions := make([]*Function, 0)
	for rows.Next() {
		fn, err := scanFunction(rows)
		if err != nil {
			return nil, err
		}
		functions = append(functions, fn)
	}
	return functions, rows.Err()
}

func (s *SQLiteStorage) upsertFunctionWithQuerier(ctx context.Context, q querier, fn *Function) error {
	query := `
		INSERT INTO functions (
			file_id, name, signature, identity_key, decl_order,
			start_line, end_line, anchor, summary, doc_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file_id, identity_key)
		DO UPDATE SET
			name = excluded.name,
			signature = excluded.signature,
			decl_order = excluded.decl_order,
			start_line = excluded.start_line,
			end_line = excluded.end_line,
			summary = excluded.summary,
			doc_json = excluded.doc_json
		RETURNING id, anchor, created_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		fn.FileID, fn.Name, fn.Signature, fn.IdentityKey, fn.DeclOrder,
		fn.StartLine, fn.EndLine, fn.Anchor, fn.Summary, fn.DocJSON, now,
	).Scan(&fn.ID, &fn.Anchor, &fn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert function: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertFunction(ctx context.Context, fn *Function) error {
	return s.upsertFunctionWithQuerier(ctx, s.querier(), fn)
}

func (s *SQLiteStorage) getFunctionWithQuerier(ctx context.Context, q querier, functionID int64) (*Function, error) {
	query := `SELECT ` + functionColumns + functionFrom + ` WHERE fn.id = ?`
	return scanFunction(q.QueryRowContext(ctx, query, functionID))
}

func (s *SQLiteStorage) GetFunction(ctx context.Context, functionID int64) (*Function, error) {
	return s.getFunctionWithQuerier(ctx, s.querier(), functionID)
}

func (s *SQLiteStorage) listFunctionsByFileWithQuerier(ctx context.Context, q querier, fileID int64) ([]*Function, error) {
	query := `SELECT ` + functionColumns + functionFrom + ` WHERE fn.file_id = ? ORDER BY fn.decl_order`
	rows, err := q.QueryContext(ctx, query, fileID)
	if err != nil {
		return nil, err
	}
	return collectFunctions(rows)
}

func (s *SQLiteStorage) ListFunctionsByFile(ctx context.Context, fileID int64) ([]*Function, error) {
	return s.listFunctionsByFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) listFunctionsByProjectWithQuerier(ctx context.Context, q querier, projectID int64) ([]*Function, error) {
	query := `SELECT ` + functionColumns + functionFrom + ` WHERE f.project_id = ? ORDER BY fn.decl_order, fn.id`
	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	return collectFunctions(rows)
}

func (s *SQLiteStorage) ListFunctionsByProject(ctx context.Context, projectID int64) ([]*Function, error) {
	return s.listFunctionsByProjectWithQuerier(ctx, s.querier(), projectID)
}

func (s *SQLiteStorage) listFunctionsByNameWithQuerier(ctx context.Context, q querier, projectID int64, name string) ([]*Function, error) {
	query := `SELECT ` + functionColumns + functionFrom +
		` WHERE f.project_id = ? AND fn.name = ? ORDER BY fn.decl_order, fn.id`
	rows, err := q.QueryContext(ctx, query, projectID, name)
	if err != nil {
		return nil, err
	}
	return collectFunctions(rows)
}

func (s *SQLiteStorage) ListFunctionsByName(ctx context.Context, projectID int64, name string) ([]*Function, error) {
	return s.listFunctionsByNameWithQuerier(ctx, s.querier(), projectID, name)
}

func (s *SQLiteStorage) deleteFunctionsByFileWithQuerier(ctx context.Context, q querier, fileID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM functions WHERE file_id = ?`, fileID)
	return err
}

func (s *SQLiteStorage) DeleteFunctionsByFile(ctx context.Context, fileID int64) error {
	return s.deleteFunctionsByFileWithQuerier(ctx, s.querier(), fileID)
}

func (s *SQLiteStorage) deleteFunctionWithQuerier(ctx context.Context, q querier, functionID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM functions WHERE id = ?`, functionID)
	return err
}

func (s *SQLiteStorage) DeleteFunction(ctx context.Context, functionID int64) error {
	return s.deleteFunctionWithQuerier(ctx, s.querier(), functionID)
}

// Search operations

// searchTextWithQuerier performs BM25 full-text search over function names,
// signatures and summaries
func (s *SQLiteStorage) searchTextWithQuerier(ctx context.Context, q querier, projectID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	match := sanitizeFTSQuery(query)
	if match == "" {
		return nil, ErrEmptyQuery
	}

	// bm25 weights: name, signature, summary
	sqlQuery := `
		SELECT fn.id, bm25(functions_fts, 10.0, 5.0, 1.0) AS score
		FROM functions_fts
		JOIN functions fn ON functions_fts.rowid = fn.id
		JOIN files f ON fn.file_id = f.id
		WHERE functions_fts MATCH ?
		AND f.project_id = ?
	`
	args := []interface{}{match, projectID}
	sqlQuery, args = applyTextFilters(sqlQuery, args, filters)
	sqlQuery += " ORDER BY score, fn.decl_order LIMIT ?"
	args = append(args, limit)

	rows, err := q.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]TextResult, 0)
	for rows.Next() {
		var result TextResult
		if err := rows.Scan(&result.FunctionID, &result.BM25Score); err != nil {
			return nil, err
		}
		// BM25 is negative with lower being better; map to (0, 1]
		result.BM25Score = 1.0 / (1.0 + math.Abs(result.BM25Score)/50.0)
		if filters != nil && filters.MinRelevance > 0 && result.BM25Score < filters.MinRelevance {
			continue
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *SQLiteStorage) SearchText(ctx context.Context, projectID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return s.searchTextWithQuerier(ctx, s.querier(), projectID, query, limit, filters)
}

// applyTextFilters adds WHERE clause filters for text search
func applyTextFilters(query string, args []interface{}, filters *SearchFilters) (string, []interface{}) {
	if filters == nil {
		return query, args
	}

	if len(filters.Names) > 0 {
		query += " AND fn.name IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filters.Names)), ",") + ")"
		for _, name := range filters.Names {
			args = append(args, name)
		}
	}

	if filters.FilePattern != "" {
		query += " AND f.file_path GLOB ?"
		args = append(args, filters.FilePattern)
	}

	return query, args
}

// sanitizeFTSQuery turns free text into an FTS5 query of quoted terms, so
// operators and punctuation in user input are matched literally. A trailing
// "*" on a term keeps prefix matching.
func sanitizeFTSQuery(query string) string {
	terms := make([]string, 0)
	for _, word := range strings.Fields(query) {
		prefix := strings.HasSuffix(word, "*")
		word = strings.TrimRight(word, "*")
		if word == "" {
			continue
		}
		term := `"` + strings.ReplaceAll(word, `"`, `""`) + `"`
		if prefix {
			term += "*"
		}
		terms = append(terms, term)
	}
	return strings.Join(terms, " ")
}

// Status operations

func (s *SQLiteStorage) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	project, err := s.getProjectByIDWithQuerier(ctx, s.querier(), projectID)
	if err != nil {
		return nil, err
	}

	status := &ProjectStatus{
		Project:       project,
		LastIndexedAt: project.LastIndexedAt,
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN parse_error IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM files WHERE project_id = ?
	`, projectID).Scan(&status.FilesCount, &status.FilesWithErrors)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN fn.doc_json != '{}' THEN 1 ELSE 0 END), 0)
		FROM functions fn
		JOIN files f ON fn.file_id = f.id
		WHERE f.project_id = ?
	`, projectID).Scan(&status.FunctionsCount, &status.DocumentedCount)
	if err != nil {
		return nil, err
	}

	var pageCount, pageSize int
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		status.IndexSizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	if v, err := SchemaVersion(ctx, s.db); err == nil {
		status.SchemaVersion = v.String()
	}

	var ftsTable string
	ftsErr := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='functions_fts'").Scan(&ftsTable)

	status.Health = HealthStatus{
		DatabaseAccessible: true,
		FTSIndexesBuilt:    ftsErr == nil,
	}

	return status, nil
}

// Transaction implementations route through the transaction querier

func (t *sqliteTx) CreateProject(ctx context.Context, project *Project) error {
	return t.storage.createProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) GetProject(ctx context.Context, rootPath string) (*Project, error) {
	return t.storage.getProjectWithQuerier(ctx, t.querier(), rootPath)
}

func (t *sqliteTx) UpdateProject(ctx context.Context, project *Project) error {
	return t.storage.updateProjectWithQuerier(ctx, t.querier(), project)
}

func (t *sqliteTx) UpsertFile(ctx context.Context, file *File) error {
	return t.storage.upsertFileWithQuerier(ctx, t.querier(), file)
}

func (t *sqliteTx) GetFile(ctx context.Context, projectID int64, filePath string) (*File, error) {
	return t.storage.getFileWithQuerier(ctx, t.querier(), projectID, filePath)
}

func (t *sqliteTx) GetFileByID(ctx context.Context, fileID int64) (*File, error) {
	return t.storage.getFileByIDWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) DeleteFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) ListFiles(ctx context.Context, projectID int64) ([]*File, error) {
	return t.storage.listFilesWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) UpsertFunction(ctx context.Context, fn *Function) error {
	return t.storage.upsertFunctionWithQuerier(ctx, t.querier(), fn)
}

func (t *sqliteTx) GetFunction(ctx context.Context, functionID int64) (*Function, error) {
	return t.storage.getFunctionWithQuerier(ctx, t.querier(), functionID)
}

func (t *sqliteTx) ListFunctionsByFile(ctx context.Context, fileID int64) ([]*Function, error) {
	return t.storage.listFunctionsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) ListFunctionsByProject(ctx context.Context, projectID int64) ([]*Function, error) {
	return t.storage.listFunctionsByProjectWithQuerier(ctx, t.querier(), projectID)
}

func (t *sqliteTx) ListFunctionsByName(ctx context.Context, projectID int64, name string) ([]*Function, error) {
	return t.storage.listFunctionsByNameWithQuerier(ctx, t.querier(), projectID, name)
}

func (t *sqliteTx) DeleteFunctionsByFile(ctx context.Context, fileID int64) error {
	return t.storage.deleteFunctionsByFileWithQuerier(ctx, t.querier(), fileID)
}

func (t *sqliteTx) DeleteFunction(ctx context.Context, functionID int64) error {
	return t.storage.deleteFunctionWithQuerier(ctx, t.querier(), functionID)
}

func (t *sqliteTx) SearchText(ctx context.Context, projectID int64, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return t.storage.searchTextWithQuerier(ctx, t.querier(), projectID, query, limit, filters)
}

func (t *sqliteTx) GetStatus(ctx context.Context, projectID int64) (*ProjectStatus, error) {
	return t.storage.GetStatus(ctx, projectID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	return nil, errors.New("nested transactions not supported")
}
