package docstring

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/standoc-mcp/pkg/types"
)

// Dialect is the markup style of a doc comment
type Dialect int

const (
	// DialectFieldList uses reST field markers such as ":param x:"
	DialectFieldList Dialect = iota
	// DialectBraceTag uses tags such as "@param x"
	DialectBraceTag
)

func (d Dialect) String() string {
	switch d {
	case DialectBraceTag:
		return "brace-tag"
	default:
		return "field-list"
	}
}

// Warning kinds
var (
	ErrUnknownField     = errors.New("unknown documentation field")
	ErrUnknownParameter = errors.New("documented parameter not in signature")
	ErrDuplicateField   = errors.New("duplicate documentation field")
)

// Warning is a non-fatal problem found while normalizing a comment. The
// offending content is dropped; the rest of the record is still built.
type Warning struct {
	Kind     error  // One of ErrUnknownField, ErrUnknownParameter, ErrDuplicateField
	Field    string // Field or tag as written, e.g. "@see" or ":param y:"
	Line     int    // 1-based line within the comment
	Function string // Identity key of the documented function
}

func (w Warning) Error() string {
	msg := fmt.Sprintf("%v `%s` on comment line %d", w.Kind, w.Field, w.Line)
	if w.Function != "" {
		msg += " of " + w.Function
	}
	return msg
}

// Unwrap exposes Kind to errors.Is
func (w Warning) Unwrap() error {
	return w.Kind
}

var (
	// ":param x:", ":param real x:", ":returns:", ":throws:"
	fieldListPattern = regexp.MustCompile(`^:(\w+)((?:\s+[^:\s]+)*)\s*:\s*(.*)$`)
	// "@param x text", "@return text", "@throws"
	braceTagPattern = regexp.MustCompile(`^@(\w+)(?:\s+(.*))?$`)
	bulletPattern   = regexp.MustCompile(`^[-*+]\s+(.*)$`)
)

// field kinds after alias folding
const (
	fieldParam   = "param"
	fieldReturn  = "return"
	fieldThrows  = "throws"
	fieldIgnored = "ignored"
)

var fieldAliases = map[string]string{
	"param":     fieldParam,
	"parameter": fieldParam,
	"arg":       fieldParam,
	"return":    fieldReturn,
	"returns":   fieldReturn,
	"throws":    fieldThrows,
	"raises":    fieldThrows,
	"throw":     fieldThrows,
	// parameter and return types come from the signature itself
	"type":      fieldIgnored,
	"paramtype": fieldIgnored,
	"rtype":     fieldIgnored,
}

// field is one field or tag with its value lines
type field struct {
	kind   string // folded kind, or "" when unknown
	raw    string // as written, for warnings
	arg    string // parameter name for param fields
	line   int
	values []string
}

// DetectDialect sniffs the comment style. Any line starting with "@" after
// decoration is stripped selects the brace-tag dialect; everything else,
// including plain prose, is field-list.
func DetectDialect(raw string) Dialect {
	for _, line := range cleanLines(raw) {
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			return DialectBraceTag
		}
	}
	return DialectFieldList
}

// Normalize parses a raw comment into a DocRecord for sig. Both dialects
// produce the same record shape. Parameter docs are keyed by position in
// sig. Problems never fail normalization; they come back as warnings.
func Normalize(raw string, sig *types.Signature) (*types.DocRecord, []Warning) {
	rec := &types.DocRecord{
		Signature: sig,
		ParamDocs: make(map[int]string),
	}
	lines := cleanLines(raw)
	if len(lines) == 0 {
		return rec, nil
	}

	summary, fields := split(lines, DetectDialect(raw))
	rec.Summary = joinParagraphs(summary)

	fn := ""
	if sig != nil {
		fn = sig.Key()
	}
	var warnings []Warning
	warn := func(kind error, f field) {
		warnings = append(warnings, Warning{Kind: kind, Field: f.raw, Line: f.line, Function: fn})
	}

	for _, f := range fields {
		switch f.kind {
		case fieldParam:
			pos := -1
			if sig != nil {
				pos = sig.ParamIndex(f.arg)
			}
			if pos < 0 {
				warn(ErrUnknownParameter, f)
				continue
			}
			if _, dup := rec.ParamDocs[pos]; dup {
				warn(ErrDuplicateField, f)
				continue
			}
			rec.ParamDocs[pos] = joinParagraphs(f.values)
		case fieldReturn:
			if rec.ReturnDoc != nil {
				warn(ErrDuplicateField, f)
				continue
			}
			doc := joinParagraphs(f.values)
			rec.ReturnDoc = &doc
		case fieldThrows:
			rec.FailureConditions = append(rec.FailureConditions, conditions(f.values)...)
		case fieldIgnored:
		default:
			warn(ErrUnknownField, f)
		}
	}

	return rec, warnings
}

// cleanLines strips comment delimiters and "*" decoration. Inside a "/*"
// block one leading "*" is taken from every line that has it. Text without
// delimiters is only treated as decorated when every non-blank line after the
// summary line carries "*", so "*" bullets in plain comments survive.
func cleanLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	block := strings.HasPrefix(strings.TrimSpace(raw), "/*")
	lines := strings.Split(raw, "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimPrefix(line, "//")
		lines[i] = strings.TrimRight(line, " \t")
	}

	if block || decorated(lines) {
		for i, line := range lines {
			t := strings.TrimSpace(line)
			if strings.HasPrefix(t, "*") {
				t = strings.TrimPrefix(t[1:], " ")
			}
			lines[i] = t
		}
	}

	// drop leading and trailing blank lines
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[start:end]
}

// decorated reports whether every non-blank line after the first starts
// with "*". The first line may hold the summary next to the opener.
func decorated(lines []string) bool {
	seen, starred := false, false
	for _, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			continue
		}
		if !seen {
			seen = true
			starred = strings.HasPrefix(t, "*")
			continue
		}
		if !strings.HasPrefix(t, "*") {
			return false
		}
		starred = true
	}
	return starred
}

// split separates summary lines from fields. A field's value runs until the
// next field.
func split(lines []string, dialect Dialect) ([]string, []field) {
	var (
		summary []string
		fields  []field
		current *field
	)
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if f, ok := parseField(t, dialect); ok {
			f.line = i + 1
			fields = append(fields, f)
			current = &fields[len(fields)-1]
			continue
		}
		if current == nil {
			summary = append(summary, t)
			continue
		}
		current.values = append(current.values, t)
	}
	return summary, fields
}

// parseField recognizes a field or tag line in the given dialect
func parseField(line string, dialect Dialect) (field, bool) {
	var name, args, rest string
	switch dialect {
	case DialectBraceTag:
		m := braceTagPattern.FindStringSubmatch(line)
		if m == nil {
			return field{}, false
		}
		name, rest = m[1], m[2]
		if fieldAliases[strings.ToLower(name)] == fieldParam {
			if words := strings.Fields(rest); len(words) > 0 {
				args = words[0]
				rest = strings.TrimPrefix(strings.TrimSpace(rest), args)
			}
		}
	default:
		m := fieldListPattern.FindStringSubmatch(line)
		if m == nil {
			return field{}, false
		}
		name, args, rest = m[1], m[2], m[3]
	}

	f := field{kind: fieldAliases[strings.ToLower(name)], raw: fieldLabel(line, dialect)}
	// typed params ":param real x:" name the parameter last
	if words := strings.Fields(args); len(words) > 0 {
		f.arg = words[len(words)-1]
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		f.values = append(f.values, rest)
	}
	return f, true
}

// fieldLabel returns the marker part of a field line for diagnostics
func fieldLabel(line string, dialect Dialect) string {
	if dialect == DialectBraceTag {
		if i := strings.IndexAny(line, " \t"); i > 0 {
			return line[:i]
		}
		return line
	}
	if i := strings.Index(line[1:], ":"); i >= 0 {
		return line[:i+2]
	}
	return line
}

// joinParagraphs folds lines into text: lines within a paragraph are joined
// with a space, paragraphs with a blank line
func joinParagraphs(lines []string) string {
	var paragraphs []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			paragraphs = append(paragraphs, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, line := range lines {
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return strings.Join(paragraphs, "\n\n")
}

// conditions turns a throws value into failure conditions. Each bullet is
// one condition and continuation lines join their bullet. Text that is not
// part of a bullet is one condition per paragraph.
func conditions(values []string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, v := range values {
		if v == "" {
			flush()
			continue
		}
		if m := bulletPattern.FindStringSubmatch(v); m != nil {
			flush()
			cur = append(cur, m[1])
			continue
		}
		cur = append(cur, v)
	}
	flush()
	return out
}
