// Package mcp implements the Model Context Protocol (MCP) server for standoc.
//
// The MCP server exposes five tools to AI coding assistants:
//   - index_functions: Document every function of a project and store it
//   - resolve_reference: Resolve "name" or "name(type, ...)" to its overloads
//   - document_file: Document one file, optionally restricted to a member list
//   - search_functions: Search stored functions by reference or keywords
//   - get_status: Check indexing status and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server is started via the serve command and writes logs to stderr,
// since stdout is reserved for protocol messages:
//
//	standoc serve
//
// # Tool: resolve_reference
//
//	Request:
//	{
//	  "name": "resolve_reference",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "target": "log"
//	  }
//	}
//
//	Response:
//	{
//	  "query": "log",
//	  "kind": "ambiguous",
//	  "link": "3f0c8d5e-...",
//	  "candidates": [
//	    {"signature": "real log(real x)", "key": "log(real)", ...},
//	    {"signature": "real log(real x, real b)", "key": "log(real, real)", ...}
//	  ],
//	  "diagnostic": "multiple functions found for reference `log`: ..."
//	}
//
// An ambiguous reference links to the earliest declared overload. A
// qualified target that matches no overload is "not_found" even when the
// name exists.
//
// # Tool: document_file
//
// Documents a single file without touching the store. The members argument
// is a semicolon-separated list; bare names select every overload in
// declaration order and qualified names select exactly one:
//
//	{"file": "/path/to/lib/math.stan", "members": "softplus; log(real, real)"}
//
// # Error Handling
//
// Tool failures are returned as *MCPError values carrying a JSON-RPC code:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Directory contains no source files
//   - -32002: Indexing in progress
//   - -32003: Project not indexed
//   - -32004: Empty query
//
// Syntax errors, duplicate definitions and documentation warnings are not
// tool failures; they are reported in the response alongside the functions
// that were documented.
//
// # Caching
//
// Frozen project indexes are rebuilt from storage on first use and kept in
// an LRU cache. index_functions drops the cached index of the project it
// rebuilt and clears the search cache.
package mcp
