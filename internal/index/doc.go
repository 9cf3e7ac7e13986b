// Package index holds the symbol index of one documentation build: every
// registered function signature keyed by name, in declaration order.
//
//	idx := index.New()
//	if err := idx.Register(sig, doc); err != nil {
//	    // *types.DuplicateDefinitionError for a repeated (name, parameter types)
//	}
//	idx.Freeze()
//	overloads := idx.LookupByName("log")
//
// Builds of several files use one Index per file and combine them with Merge,
// which keeps the order in which the files were submitted.
package index
