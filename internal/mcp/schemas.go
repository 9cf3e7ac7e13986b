package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexFunctionsTool returns the tool definition for index_functions
func indexFunctionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_functions",
		Description: "Document every function signature in a Stan project and store the result for lookup and search",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root (must contain .stan or .stanfunctions files)",
				},
				"workers": map[string]interface{}{
					"type":        "integer",
					"description": "Number of files documented in parallel (0 uses every CPU)",
					"minimum":     0,
				},
			},
			Required: []string{"path"},
		},
	}
}

// resolveReferenceTool returns the tool definition for resolve_reference
func resolveReferenceTool() mcp.Tool {
	return mcp.Tool{
		Name:        "resolve_reference",
		Description: "Resolve a cross-reference such as 'log' or 'log(real, real)' against an indexed project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the indexed project",
				},
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Function name, optionally qualified with parameter types",
				},
				"include_docs": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include the documentation of every candidate",
					"default":     true,
				},
			},
			Required: []string{"path", "target"},
		},
	}
}

// documentFileTool returns the tool definition for document_file
func documentFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "document_file",
		Description: "Extract and normalize the documented function signatures of a single source file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a .stan or .stanfunctions file",
				},
				"members": map[string]interface{}{
					"type":        "string",
					"description": "Semicolon-separated member list, e.g. 'foo; bar(real, int)'. Empty selects every function",
				},
			},
			Required: []string{"file"},
		},
	}
}

// searchFunctionsTool returns the tool definition for search_functions
func searchFunctionsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_functions",
		Description: "Search documented functions by reference or by keywords in names, signatures and summaries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the indexed project",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Reference (name or name(types)) or keywords",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"filters": map[string]interface{}{
					"type":        "object",
					"description": "Optional filters to narrow search",
					"properties": map[string]interface{}{
						"file_pattern": map[string]interface{}{
							"type":        "string",
							"description": "Glob pattern for file paths (e.g., 'lib/**')",
						},
						"names": map[string]interface{}{
							"type":        "array",
							"description": "Restrict to these function names",
							"items": map[string]interface{}{
								"type": "string",
							},
						},
						"min_relevance": map[string]interface{}{
							"type":        "number",
							"description": "Minimum relevance score threshold",
							"minimum":     0.0,
						},
					},
				},
				"search_mode": map[string]interface{}{
					"type":        "string",
					"description": "Search strategy: hybrid (reference + keyword), reference (name lookup only), or keyword (full-text only)",
					"enum":        []string{"hybrid", "reference", "keyword"},
					"default":     "hybrid",
				},
			},
			Required: []string{"path", "query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query documentation status and statistics for a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project",
				},
			},
			Required: []string{"path"},
		},
	}
}
