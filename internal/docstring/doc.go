// Package docstring normalizes raw doc comments into types.DocRecord values.
//
// Two comment dialects are understood. The dialect is sniffed from content,
// never declared:
//
//	Field-list                      Brace-tag
//	:param x: Point to evaluate.    @param x Point to evaluate.
//	:returns: The value.            @returns The value.
//	:throws:                        @throws
//	  - If x is negative.            - If x is negative.
//
// Unknown fields and parameters missing from the signature are dropped and
// reported as Warning values; normalization itself never fails.
package docstring
