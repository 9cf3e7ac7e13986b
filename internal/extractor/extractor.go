package extractor

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// functionsBlock is the program block that holds user-defined functions;
// includeDirective pulls another file into it
const (
	functionsBlock   = "functions"
	includeDirective = "#include"
)

// declarationPattern matches "<type> <name>(...)" once comments are removed
// and whitespace is folded. The type part may contain array brackets and
// tuple parentheses, so only the final "name(" is anchored.
var declarationPattern = regexp.MustCompile(`^[A-Za-z_][\w\s\[\],()]*?[\w\])]\s+[A-Za-z_]\w*\s*\(.*\)$`)

// controlKeywords start statements that look like calls but are not declarations
var controlKeywords = map[string]bool{
	"if": true, "else": true, "while": true, "for": true, "return": true,
	"print": true, "reject": true, "fatal_error": true, "target": true,
}

// RawDeclaration is one function declaration and the comment block that
// immediately precedes it
type RawDeclaration struct {
	Signature string // Declaration text with newlines folded
	Comment   string // Comment text without delimiters, or empty
	Line      int    // Line where the declaration starts
	EndLine   int    // Line of the closing parenthesis
	Forward   bool   // Declaration ends with ';' and has no body
}

// Extractor splits source text into (signature, comment) pairs
type Extractor struct{}

// New creates a new Extractor instance
func New() *Extractor {
	return &Extractor{}
}

// ExtractFile reads a file and extracts its declarations
func (e *Extractor) ExtractFile(filePath string) ([]RawDeclaration, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return e.Extract(string(content)), nil
}

// Extract scans source top to bottom and returns every function declaration
// in source order. Function bodies are skipped by brace matching. Only
// declarations at the top level or directly inside a functions block are
// reported.
func (e *Extractor) Extract(source string) []RawDeclaration {
	s := &scanner{src: source, line: 1}
	return s.run()
}

// scanner holds the state of one Extract call
type scanner struct {
	src  string
	pos  int
	line int

	decls  []RawDeclaration
	blocks []string // open block headers
	header string   // text of the last closed statement

	// current statement
	stmt      strings.Builder
	stmtLine  int
	stmtDoc   string
	stmtEmpty bool

	// most recent comment block and whether only whitespace followed it
	comment         []string
	commentFresh    bool
	lastCommentLine int

	// line holding the most recent code, so trailing comments stay with it
	lastCodeLine int
}

func (s *scanner) run() []RawDeclaration {
	s.resetStatement()

	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
			s.writeSpace()
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			s.pos++
			s.writeSpace()
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			s.blockComment()
		case strings.HasPrefix(s.src[s.pos:], "//"):
			s.lineComment(2)
		case c == '#' && s.stmtEmpty && strings.HasPrefix(s.src[s.pos:], includeDirective):
			s.include()
		case c == '#' && s.stmtEmpty:
			// legacy line comment; '#' elsewhere is left to the statement
			s.lineComment(1)
		case c == '"':
			s.beginCode()
			s.stringLiteral()
			s.lastCodeLine = s.line
		case c == '{':
			s.openBrace()
			s.lastCodeLine = s.line
		case c == '}':
			s.pos++
			if len(s.blocks) > 0 {
				s.blocks = s.blocks[:len(s.blocks)-1]
			}
			s.resetStatement()
			s.comment = nil
			s.commentFresh = false
			s.lastCodeLine = s.line
		case c == ';':
			s.pos++
			s.endStatement(true)
			s.lastCodeLine = s.line
		default:
			s.beginCode()
			s.stmt.WriteByte(c)
			s.pos++
			s.lastCodeLine = s.line
		}
	}

	return s.decls
}

// beginCode marks the start of statement text, claiming a fresh comment
func (s *scanner) beginCode() {
	if !s.stmtEmpty {
		return
	}
	s.stmtEmpty = false
	s.stmtLine = s.line
	if s.commentFresh {
		s.stmtDoc = strings.Join(s.comment, "\n")
	}
	s.comment = nil
	s.commentFresh = false
}

func (s *scanner) writeSpace() {
	if !s.stmtEmpty {
		s.stmt.WriteByte(' ')
	}
}

func (s *scanner) resetStatement() {
	s.stmt.Reset()
	s.stmtEmpty = true
	s.stmtDoc = ""
	s.stmtLine = 0
}

// blockComment consumes "/* ... */". A comment inside a statement is treated
// as whitespace.
func (s *scanner) blockComment() {
	startLine := s.line
	start := s.pos + 2
	end := strings.Index(s.src[start:], "*/")
	var body string
	if end < 0 {
		body = s.src[start:]
		s.pos = len(s.src)
	} else {
		body = s.src[start : start+end]
		s.pos = start + end + 2
	}
	s.line += strings.Count(body, "\n")

	if !s.stmtEmpty {
		s.writeSpace()
		return
	}
	// doc comments open with "/**"; drop the extra star
	body = strings.TrimPrefix(body, "*")
	s.addComment(stripDecoration(body), false, startLine)
}

// stripDecoration removes the " * " margin from each line of a block comment.
// Only one star is taken per line, so "* * item" keeps its bullet.
func stripDecoration(body string) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		line = strings.TrimLeft(line, " \t\r")
		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line[1:], " ")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// include consumes an "#include" line. It is code, not a comment, so any
// pending comment no longer documents what follows.
func (s *scanner) include() {
	end := strings.IndexByte(s.src[s.pos:], '\n')
	if end < 0 {
		s.pos = len(s.src)
	} else {
		s.pos += end
	}
	s.comment = nil
	s.commentFresh = false
	s.lastCodeLine = s.line
}

// lineComment consumes a comment running to end of line
func (s *scanner) lineComment(prefix int) {
	start := s.pos + prefix
	end := strings.IndexByte(s.src[start:], '\n')
	var body string
	if end < 0 {
		body = s.src[start:]
		s.pos = len(s.src)
	} else {
		body = s.src[start : start+end]
		s.pos = start + end
	}

	if !s.stmtEmpty {
		return
	}
	s.addComment(body, true, s.line)
}

// addComment appends to the current comment block when it is contiguous with
// the previous comment, otherwise starts a new block. A comment opening on a
// line that already holds code belongs to that code and is dropped.
func (s *scanner) addComment(body string, line bool, startLine int) {
	if s.lastCodeLine > 0 && startLine == s.lastCodeLine {
		s.comment = nil
		s.commentFresh = false
		return
	}
	if line {
		body = strings.TrimPrefix(strings.TrimRight(body, " \t\r"), " ")
	} else {
		body = strings.TrimSpace(body)
	}
	if s.commentFresh && line && s.lastCommentContiguous() {
		s.comment = append(s.comment, body)
	} else {
		s.comment = []string{body}
	}
	s.commentFresh = true
	s.lastCommentLine = s.line
}

// stringLiteral consumes a double-quoted string into the statement
func (s *scanner) stringLiteral() {
	s.stmt.WriteByte('"')
	s.pos++
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		s.pos++
		if c == '\n' {
			s.line++
		}
		s.stmt.WriteByte(c)
		if c == '\\' && s.pos < len(s.src) {
			s.stmt.WriteByte(s.src[s.pos])
			s.pos++
			continue
		}
		if c == '"' {
			return
		}
	}
}

// openBrace handles '{': a function body after a declaration, otherwise a
// block header such as "functions"
func (s *scanner) openBrace() {
	s.pos++
	if s.endStatement(false) {
		s.skipBody()
		return
	}
	s.blocks = append(s.blocks, s.header)
	s.header = ""
}

// endStatement closes the current statement. It records a declaration when
// the text matches one and reports whether it did.
func (s *scanner) endStatement(forward bool) bool {
	text := strings.Join(strings.Fields(s.stmt.String()), " ")
	line, doc := s.stmtLine, s.stmtDoc
	endLine := s.line
	s.resetStatement()
	s.header = text

	if !s.inFunctionScope() || !looksLikeDeclaration(text) {
		return false
	}

	s.decls = append(s.decls, RawDeclaration{
		Signature: text,
		Comment:   doc,
		Line:      line,
		EndLine:   endLine,
		Forward:   forward,
	})
	return true
}

// skipBody consumes a function body up to its matching '}'
func (s *scanner) skipBody() {
	depth := 1
	for s.pos < len(s.src) && depth > 0 {
		c := s.src[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
		case strings.HasPrefix(s.src[s.pos:], "/*"):
			end := strings.Index(s.src[s.pos+2:], "*/")
			if end < 0 {
				s.line += strings.Count(s.src[s.pos:], "\n")
				s.pos = len(s.src)
				continue
			}
			s.line += strings.Count(s.src[s.pos:s.pos+2+end], "\n")
			s.pos += end + 4
		case strings.HasPrefix(s.src[s.pos:], "//") || c == '#':
			end := strings.IndexByte(s.src[s.pos:], '\n')
			if end < 0 {
				s.pos = len(s.src)
				continue
			}
			s.pos += end
		case c == '"':
			s.pos++
			for s.pos < len(s.src) && s.src[s.pos] != '"' {
				if s.src[s.pos] == '\\' {
					s.pos++
				} else if s.src[s.pos] == '\n' {
					s.line++
				}
				s.pos++
			}
			s.pos++
		case c == '{':
			depth++
			s.pos++
		case c == '}':
			depth--
			s.pos++
		default:
			s.pos++
		}
	}
	s.resetStatement()
	s.comment = nil
	s.commentFresh = false
}

// inFunctionScope reports whether declarations are allowed at this depth
func (s *scanner) inFunctionScope() bool {
	return len(s.blocks) == 0 || s.blocks[len(s.blocks)-1] == functionsBlock
}

// lastCommentContiguous reports whether the previous comment ended on the
// line right before the current one
func (s *scanner) lastCommentContiguous() bool {
	return s.line-s.lastCommentLine <= 1
}

// looksLikeDeclaration filters statement text down to function declarations
func looksLikeDeclaration(text string) bool {
	if !declarationPattern.MatchString(text) {
		return false
	}
	first := text
	if i := strings.IndexAny(text, " (["); i >= 0 {
		first = text[:i]
	}
	return !controlKeywords[first]
}
