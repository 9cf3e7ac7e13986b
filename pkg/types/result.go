package types

// ResolutionKind classifies the outcome of resolving a reference
type ResolutionKind string

const (
	ResolutionUnique    ResolutionKind = "unique"
	ResolutionAmbiguous ResolutionKind = "ambiguous"
	ResolutionNotFound  ResolutionKind = "not_found"
)

// LookupQuery is a cross-reference or member-selection target.
// ParamTypes is only meaningful when Qualified is true; "name()" is a
// qualified query with zero parameters.
type LookupQuery struct {
	Name       string
	ParamTypes []TypeExpr
	Qualified  bool
}

// String renders the query in its textual form
func (q LookupQuery) String() string {
	if !q.Qualified {
		return q.Name
	}
	return IdentityKey(q.Name, q.ParamTypes)
}

// Matches reports whether the signature satisfies the query
func (q LookupQuery) Matches(sig *Signature) bool {
	if sig.Name != q.Name {
		return false
	}
	if !q.Qualified {
		return true
	}
	return EqualTypeLists(q.ParamTypes, sig.ParamTypes())
}

// Resolution is the typed result of resolving a LookupQuery
type Resolution struct {
	Kind       ResolutionKind
	Query      LookupQuery
	Candidates []*Signature // Declaration order; empty for NotFound
	// NameKnown is set for qualified NotFound results when the name exists
	NameKnown bool
}

// Unique returns the single matched signature, or nil
func (r Resolution) Unique() *Signature {
	if r.Kind != ResolutionUnique {
		return nil
	}
	return r.Candidates[0]
}

// First implements the "first wins" link policy: the earliest declared
// candidate for Unique and Ambiguous results, nil for NotFound.
func (r Resolution) First() *Signature {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0]
}

// Err converts non-unique outcomes into their diagnostic form. It returns nil
// for Unique, *AmbiguousReferenceWarning for Ambiguous and *NotFoundError for
// NotFound.
func (r Resolution) Err() error {
	switch r.Kind {
	case ResolutionAmbiguous:
		return &AmbiguousReferenceWarning{Query: r.Query, Candidates: r.Candidates}
	case ResolutionNotFound:
		return &NotFoundError{Query: r.Query, Known: r.NameKnown}
	default:
		return nil
	}
}

// DocRecord is the normalized documentation of one function
type DocRecord struct {
	Signature         *Signature
	Summary           string
	ParamDocs         map[int]string // Parameter position -> description
	ReturnDoc         *string
	FailureConditions []string
}

// ParamDoc returns the description for the named parameter, if any
func (d *DocRecord) ParamDoc(name string) (string, bool) {
	if d.Signature == nil {
		return "", false
	}
	i := d.Signature.ParamIndex(name)
	if i < 0 {
		return "", false
	}
	doc, ok := d.ParamDocs[i]
	return doc, ok
}

// IsEmpty reports whether the record carries no documentation at all
func (d *DocRecord) IsEmpty() bool {
	return d.Summary == "" && len(d.ParamDocs) == 0 && d.ReturnDoc == nil && len(d.FailureConditions) == 0
}

// DocumentedFunction pairs a registered signature with its documentation
type DocumentedFunction struct {
	Signature *Signature
	Doc       *DocRecord
}

// BuildResult is the outcome of documenting one source file or project.
// Errors and Warnings are collected per declaration so one bad function does
// not prevent documenting the rest.
type BuildResult struct {
	Functions []DocumentedFunction
	Errors    []error
	Warnings  []error
}

// HasErrors returns true if any declaration failed
func (br *BuildResult) HasErrors() bool {
	return len(br.Errors) > 0
}

// AddError records a per-declaration failure
func (br *BuildResult) AddError(err error) {
	br.Errors = append(br.Errors, err)
}

// AddWarning records a non-fatal diagnostic
func (br *BuildResult) AddWarning(err error) {
	br.Warnings = append(br.Warnings, err)
}
