package index

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/standoc-mcp/pkg/types"
)

// OverloadSet is the ordered list of signatures declared under one name.
// Order is declaration order and is never re-sorted.
type OverloadSet []*types.Signature

// Keys returns the identity keys of the set, in order
func (os OverloadSet) Keys() []string {
	keys := make([]string, len(os))
	for i, sig := range os {
		keys[i] = sig.Key()
	}
	return keys
}

// entry is one registered function
type entry struct {
	sig *types.Signature
	doc *types.DocRecord
}

// Index stores every registered signature of one documentation build.
//
// An Index is append-only: it is created empty, populated by Register in
// source order and then frozen for the resolution phase. It is not safe for
// concurrent mutation; parallel builds use one Index each and combine them
// with Merge.
type Index struct {
	entries []*entry
	byName  map[string][]*entry
	byKey   map[string]*entry
	frozen  bool
}

// New creates an empty Index
func New() *Index {
	return &Index{
		entries: make([]*entry, 0),
		byName:  make(map[string][]*entry),
		byKey:   make(map[string]*entry),
	}
}

// Register adds a signature and its documentation. It returns a
// *types.DuplicateDefinitionError when the same (name, parameter types) pair
// is already registered, and types.ErrIndexFrozen after Freeze.
func (idx *Index) Register(sig *types.Signature, doc *types.DocRecord) error {
	if idx.frozen {
		return types.ErrIndexFrozen
	}
	if sig == nil {
		return fmt.Errorf("cannot register nil signature")
	}
	if err := sig.Validate(); err != nil {
		return fmt.Errorf("invalid signature %s: %w", sig.Name, err)
	}

	key := sig.Key()
	if existing, ok := idx.byKey[key]; ok {
		return &types.DuplicateDefinitionError{Existing: existing.sig, Duplicate: sig}
	}

	if sig.Anchor == "" {
		sig.Anchor = uuid.New().String()
	}
	if doc == nil {
		doc = &types.DocRecord{ParamDocs: map[int]string{}}
	}
	doc.Signature = sig

	e := &entry{sig: sig, doc: doc}
	idx.entries = append(idx.entries, e)
	idx.byName[sig.Name] = append(idx.byName[sig.Name], e)
	idx.byKey[key] = e
	return nil
}

// LookupByName returns every overload of name in declaration order. An
// unknown name yields an empty set, not an error.
func (idx *Index) LookupByName(name string) OverloadSet {
	entries := idx.byName[name]
	set := make(OverloadSet, len(entries))
	for i, e := range entries {
		set[i] = e.sig
	}
	return set
}

// Lookup returns the overload with exactly these parameter types, or nil
func (idx *Index) Lookup(name string, params []types.TypeExpr) *types.Signature {
	if e, ok := idx.byKey[types.IdentityKey(name, params)]; ok &&
		e.sig.Name == name && types.EqualTypeLists(e.sig.ParamTypes(), params) {
		return e.sig
	}
	return nil
}

// HasName reports whether any overload is registered under name
func (idx *Index) HasName(name string) bool {
	return len(idx.byName[name]) > 0
}

// Doc returns the documentation registered with sig
func (idx *Index) Doc(sig *types.Signature) *types.DocRecord {
	if e, ok := idx.byKey[sig.Key()]; ok && e.sig.SameOverload(sig) {
		return e.doc
	}
	return nil
}

// All returns every registered signature in declaration order
func (idx *Index) All() OverloadSet {
	set := make(OverloadSet, len(idx.entries))
	for i, e := range idx.entries {
		set[i] = e.sig
	}
	return set
}

// Functions returns every registered signature paired with its documentation
func (idx *Index) Functions() []types.DocumentedFunction {
	out := make([]types.DocumentedFunction, len(idx.entries))
	for i, e := range idx.entries {
		out[i] = types.DocumentedFunction{Signature: e.sig, Doc: e.doc}
	}
	return out
}

// Names returns the distinct function names in order of first declaration
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.byName))
	seen := make(map[string]bool, len(idx.byName))
	for _, e := range idx.entries {
		if !seen[e.sig.Name] {
			seen[e.sig.Name] = true
			names = append(names, e.sig.Name)
		}
	}
	return names
}

// Len returns the number of registered signatures
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Freeze makes the index read-only
func (idx *Index) Freeze() {
	idx.frozen = true
}

// Frozen reports whether Freeze has been called
func (idx *Index) Frozen() bool {
	return idx.frozen
}
