// Package resolver resolves cross-references against a frozen symbol index.
//
// A reference is either unqualified ("log") or qualified with explicit
// parameter types ("log(real, real)"). The result is a types.Resolution:
//
//	r := resolver.New(idx)
//	res, err := r.ResolveTarget("log")
//	switch res.Kind {
//	case types.ResolutionUnique:    // link to res.Unique()
//	case types.ResolutionAmbiguous: // res.Candidates in declaration order
//	case types.ResolutionNotFound:  // broken reference
//	}
//
// Return types never take part in matching. The signature language does not
// allow overloads that differ only in return type, and the resolver assumes
// that rule rather than checking it.
package resolver
