package parser

import (
	"fmt"
	"os"

	"mercator-hq/ganymede/pkg/gdl/ast"
	gdlErrors "mercator-hq/ganymede/pkg/gdl/errors"
	"mercator-hq/ganymede/pkg/gdl/text"
)

const (
	defaultMaxFileSize = 10 * 1024 * 1024 // 10MB
	defaultMaxDepth    = 64
)

// Parser parses grammar definition files into an AST.
// It validates syntax during parsing and accumulates every independent
// problem it can recover from, rather than stopping at the first.
type Parser struct {
	maxFileSize int64
	maxDepth    int
}

// NewParser creates a new parser with default settings.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: defaultMaxFileSize,
		maxDepth:    defaultMaxDepth,
	}
}

// WithMaxFileSize sets the maximum grammar file size in bytes.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithMaxDepth sets the maximum rule nesting depth.
func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

// Parse reads and parses a grammar definition file.
func (p *Parser) Parse(path string) (*ast.Grammar, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &gdlErrors.Error{
				Type:     gdlErrors.ErrorTypeIO,
				Message:  fmt.Sprintf("grammar file not found: %s", path),
				Location: ast.Location{File: path},
			}
		}
		return nil, &gdlErrors.Error{
			Type:     gdlErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("cannot access grammar file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if info.Size() > p.maxFileSize {
		return nil, &gdlErrors.Error{
			Type: gdlErrors.ErrorTypeIO,
			Message: fmt.Sprintf("grammar file exceeds maximum size (%d > %d bytes)",
				info.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &gdlErrors.Error{
			Type:     gdlErrors.ErrorTypeIO,
			Message:  fmt.Sprintf("cannot read grammar file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses grammar definition text. The source path is used
// only to annotate diagnostics and the resulting grammar; it may be
// empty for in-memory text.
//
// On malformed input it returns an *errors.ErrorList with one entry per
// independent problem found. An *errors.LogicError return means the
// parser's own invariants were violated; no partial grammar is ever
// returned alongside an error.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (grammar *ast.Grammar, err error) {
	buffer := text.NewBuffer(string(data))
	buffer.SetCommentSkip(skipComment)

	r := &run{
		buffer:   buffer,
		errors:   gdlErrors.NewErrorList(),
		maxDepth: p.maxDepth,
		source:   sourcePath,
	}

	// Logic errors abort the whole parse from arbitrarily deep in the
	// descent; they surface here as an error return.
	defer func() {
		if recovered := recover(); recovered != nil {
			logic, ok := recovered.(*gdlErrors.LogicError)
			if !ok {
				panic(recovered)
			}
			grammar = nil
			err = logic
		}
	}()

	rules := r.parseGrammar()
	if r.errors.HasErrors() {
		return nil, r.errors
	}

	return &ast.Grammar{Path: sourcePath, Rules: rules}, nil
}

// run carries the state of one parse over a single buffer.
type run struct {
	buffer   *text.Buffer
	errors   *gdlErrors.ErrorList
	maxDepth int
	source   string
}

// parseGrammar parses top-level rule declarations until the input is
// exhausted. A failed declaration is skipped block-wise so the ones
// after it still parse and report their own diagnostics.
func (r *run) parseGrammar() []*ast.Rule {
	var rules []*ast.Rule
	for {
		r.buffer.SkipWhitespace()
		if r.buffer.EndReached() {
			break
		}

		rule := r.parseRule(0)
		if rule == nil {
			r.buffer.SkipBlock()
			continue
		}

		if !r.buffer.EndReached() && !r.buffer.PeekByte('\n') {
			r.logicPanic("incomplete rule parse")
		}
		rules = append(rules, rule)
	}
	return rules
}

// skipComment consumes a '#' comment through the end of its line. The
// newline itself is left for the caller's whitespace rules, so comments
// never join two lines together.
func skipComment(b *text.Buffer) bool {
	if !b.ReadByte('#') {
		return false
	}
	for !b.EndReached() && !b.PeekByte('\n') {
		b.Read()
	}
	return true
}

// syntaxError appends a diagnostic at the cursor's position.
func (r *run) syntaxError(message string) {
	r.syntaxErrorAt(message, r.buffer.Position())
}

// syntaxErrorAt appends a diagnostic at an explicitly saved position.
func (r *run) syntaxErrorAt(message string, position text.Position) {
	r.errors.Add(&gdlErrors.Error{
		Type:    gdlErrors.ErrorTypeSyntax,
		Message: message,
		Location: ast.Location{
			File:   r.source,
			Line:   position.Line,
			Column: position.Column,
		},
		LineText: r.buffer.LineText(position.Line),
	})
}

// logicPanic aborts the parse with a LogicError at the cursor's
// position. ParseBytes recovers it at the API boundary.
func (r *run) logicPanic(message string) {
	position := r.buffer.Position()
	panic(&gdlErrors.LogicError{
		Message: message,
		Line:    position.Line,
		Column:  position.Column,
	})
}
