package types

// ParamView is the serializable form of one documented parameter
type ParamView struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Type string `json:"type" yaml:"type"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// FunctionView is the serializable form of a documented function, used for
// CLI and MCP output
type FunctionView struct {
	Signature         string      `json:"signature" yaml:"signature"`
	Key               string      `json:"key" yaml:"key"`
	Anchor            string      `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	File              string      `json:"file,omitempty" yaml:"file,omitempty"`
	Line              int         `json:"line,omitempty" yaml:"line,omitempty"`
	ReturnType        string      `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	Summary           string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Params            []ParamView `json:"params,omitempty" yaml:"params,omitempty"`
	Returns           *string     `json:"returns,omitempty" yaml:"returns,omitempty"`
	FailureConditions []string    `json:"failure_conditions,omitempty" yaml:"failure_conditions,omitempty"`
}

// NewFunctionView flattens a signature and its documentation. doc may be nil.
func NewFunctionView(sig *Signature, doc *DocRecord) FunctionView {
	v := FunctionView{
		Signature: sig.String(),
		Key:       sig.Key(),
		Anchor:    sig.Anchor,
		File:      sig.Source.File,
		Line:      sig.Source.Line,
	}
	if sig.ReturnType != nil {
		v.ReturnType = sig.ReturnType.String()
	}

	for i, p := range sig.Params {
		pv := ParamView{Name: p.Name, Type: p.Type.String()}
		if doc != nil {
			pv.Doc = doc.ParamDocs[i]
		}
		v.Params = append(v.Params, pv)
	}

	if doc != nil {
		v.Summary = doc.Summary
		v.Returns = doc.ReturnDoc
		v.FailureConditions = doc.FailureConditions
	}
	return v
}

// ResolutionView is the serializable form of a Resolution. Link is the
// first-wins target; it is empty for NotFound.
type ResolutionView struct {
	Query      string         `json:"query" yaml:"query"`
	Kind       ResolutionKind `json:"kind" yaml:"kind"`
	Link       string         `json:"link,omitempty" yaml:"link,omitempty"`
	Candidates []FunctionView `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Diagnostic string         `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
}

// View converts the resolution. docOf may be nil when documentation is not
// wanted.
func (r Resolution) View(docOf func(*Signature) *DocRecord) ResolutionView {
	v := ResolutionView{Query: r.Query.String(), Kind: r.Kind}
	for _, sig := range r.Candidates {
		var doc *DocRecord
		if docOf != nil {
			doc = docOf(sig)
		}
		v.Candidates = append(v.Candidates, NewFunctionView(sig, doc))
	}
	if first := r.First(); first != nil {
		v.Link = first.Anchor
	}
	if err := r.Err(); err != nil {
		v.Diagnostic = err.Error()
	}
	return v
}
