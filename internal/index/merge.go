package index

import (
	"errors"

	"github.com/dshills/standoc-mcp/pkg/types"
)

// Merge combines per-file indexes into one frozen index. Parts are consumed in
// the order given, so global declaration order follows file submission order
// and then source order within each file. Signatures are copied and
// renumbered; the parts are left untouched.
//
// Duplicates across parts are collected and returned together; the merged
// index keeps the first definition of each overload.
func Merge(parts ...*Index) (*Index, error) {
	merged := New()
	var errs []error
	order := 0

	for _, part := range parts {
		if part == nil {
			continue
		}
		for _, e := range part.entries {
			sig := *e.sig
			sig.Order = order

			var doc *types.DocRecord
			if e.doc != nil {
				d := *e.doc
				doc = &d
			}

			if err := merged.Register(&sig, doc); err != nil {
				errs = append(errs, err)
				continue
			}
			order++
		}
	}

	merged.Freeze()
	return merged, errors.Join(errs...)
}
