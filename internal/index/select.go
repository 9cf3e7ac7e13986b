package index

import (
	"github.com/dshills/standoc-mcp/pkg/types"
)

// Select applies a member-selection list. Bare names select every overload of
// that name in declaration order; qualified entries select exactly one
// overload. Output follows the order of the list, and a signature selected by
// several entries is emitted once. A nil or empty list selects every function
// in declaration order.
//
// Entries that match nothing produce a *types.NotFoundError in the returned
// slice; they never abort the selection.
func (idx *Index) Select(members []types.LookupQuery) (OverloadSet, []error) {
	if len(members) == 0 {
		return idx.All(), nil
	}

	var (
		selected = make(OverloadSet, 0)
		seen     = make(map[string]bool)
		warnings []error
	)

	for _, member := range members {
		matched := 0
		for _, sig := range idx.LookupByName(member.Name) {
			if !member.Matches(sig) {
				continue
			}
			matched++
			key := sig.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			selected = append(selected, sig)
		}
		if matched == 0 {
			warnings = append(warnings, &types.NotFoundError{
				Query: member,
				Known: member.Qualified && idx.HasName(member.Name),
			})
		}
	}

	return selected, warnings
}
