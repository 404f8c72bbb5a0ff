package testutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/parity/internal/parser"
	"github.com/roach88/parity/internal/tree"
)

// Parser names used by the toy parsers. Fixture option overrides are keyed
// by these names.
const (
	ReferenceName = "reference"
	CandidateName = "candidate"
)

// SyntaxError is the toy candidate's rejection. Its type name is its
// error kind.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Message, e.Line, e.Column)
}

// The toy language has one statement per line:
//
//	"use strict";
//	var a = 1;
//	export default 42;
//	function f(a, b) {}
//	// comment
var (
	directiveLine = regexp.MustCompile(`^"use strict";$`)
	varLine       = regexp.MustCompile(`^var ([A-Za-z_$][\w$]*) = (\d+);$`)
	exportLine    = regexp.MustCompile(`^export default (\d+);$`)
	functionLine  = regexp.MustCompile(`^function ([A-Za-z_$][\w$]*)\(([^)]*)\) \{\}$`)
	commentLine   = regexp.MustCompile(`^// ?(.*)$`)
)

type toyStyle int

const (
	// styleReference mimics a parser with offsets on every node, a File
	// wrapper, attached comments and identifier annotations. It needs
	// sourceType "module" for export statements.
	styleReference toyStyle = iota
	// styleCandidate mimics an ESTree parser with only a root span.
	styleCandidate
	// styleLenient is styleCandidate without strict-mode checks.
	styleLenient
)

// ToyReference returns the reference toy parser.
func ToyReference() *parser.Func {
	return parser.NewFunc(ReferenceName, toyParser{style: styleReference}.parse)
}

// ToyCandidate returns a candidate toy parser that agrees with
// ToyReference on every input after normalization.
func ToyCandidate() *parser.Func {
	return parser.NewFunc(CandidateName, toyParser{style: styleCandidate}.parse)
}

// ToyLenientCandidate returns a candidate toy parser that accepts
// duplicate parameter names in strict mode.
func ToyLenientCandidate() *parser.Func {
	return parser.NewFunc(CandidateName, toyParser{style: styleLenient}.parse)
}

type toyParser struct {
	style toyStyle
}

type toySpan struct {
	start, end int
}

func (p toyParser) reference() bool { return p.style == styleReference }

func (p toyParser) node(typ string, span toySpan, fields tree.Object) tree.Object {
	n := tree.Object{"type": typ}
	for k, v := range fields {
		n[k] = v
	}
	if p.reference() {
		n["start"] = float64(span.start)
		n["end"] = float64(span.end)
	}
	return n
}

func (p toyParser) identifier(name string, span toySpan) tree.Object {
	id := p.node("Identifier", span, tree.Object{"name": name})
	if p.reference() {
		id["identifierName"] = name
	}
	return id
}

func (p toyParser) literal(raw string, span toySpan) (tree.Object, error) {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	lit := p.node("Literal", span, tree.Object{"value": value})
	if p.reference() {
		lit["extra"] = tree.Object{"raw": raw, "rawValue": value}
	}
	return lit, nil
}

func (p toyParser) fail(msg string, line, column int) error {
	if p.reference() {
		return &parser.ErrorDescriptor{
			Kind:    "SyntaxError",
			Message: msg,
			Line:    line,
			Column:  column,
		}
	}
	return &SyntaxError{Message: msg, Line: line, Column: column}
}

func (p toyParser) parse(source string, opts parser.Options) (any, error) {
	var (
		body     = tree.Array{}
		comments = tree.Array{}
		pending  = tree.Array{}
		strict   bool
		module   bool
		offset   int
	)

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		span := toySpan{start: offset, end: offset + len(line)}
		offset += len(line) + 1
		lineNo := i + 1

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}

		if m := commentLine.FindStringSubmatch(text); m != nil {
			c := p.node("CommentLine", span, tree.Object{"value": m[1]})
			comments = append(comments, c)
			pending = append(pending, c)
			continue
		}

		var stmt tree.Object
		switch {
		case directiveLine.MatchString(text):
			strict = true
			lit := p.node("Literal", span, tree.Object{"value": "use strict"})
			stmt = p.node("ExpressionStatement", span, tree.Object{
				"expression": lit,
				"directive":  "use strict",
			})

		case varLine.MatchString(text):
			m := varLine.FindStringSubmatch(text)
			init, err := p.literal(m[2], span)
			if err != nil {
				return nil, p.fail("Invalid number", lineNo, 0)
			}
			stmt = p.node("VariableDeclaration", span, tree.Object{
				"kind": "var",
				"declarations": tree.Array{
					p.node("VariableDeclarator", span, tree.Object{
						"id":   p.identifier(m[1], span),
						"init": init,
					}),
				},
			})

		case exportLine.MatchString(text):
			if p.reference() && opts["sourceType"] != "module" {
				return nil, p.fail("'import' and 'export' may appear only with 'sourceType: module'", lineNo, 0)
			}
			module = true
			m := exportLine.FindStringSubmatch(text)
			decl, err := p.literal(m[1], span)
			if err != nil {
				return nil, p.fail("Invalid number", lineNo, 0)
			}
			stmt = p.node("ExportDefaultDeclaration", span, tree.Object{"declaration": decl})

		case functionLine.MatchString(text):
			m := functionLine.FindStringSubmatch(text)
			params := tree.Array{}
			seen := make(map[string]bool)
			for _, raw := range strings.Split(m[2], ",") {
				name := strings.TrimSpace(raw)
				if name == "" {
					continue
				}
				if seen[name] && strict && p.style != styleLenient {
					column := strings.LastIndex(line, name)
					if p.reference() {
						return nil, p.fail("Argument name clash", lineNo, column)
					}
					return nil, p.fail("Duplicate parameter name not allowed in this context", lineNo, column)
				}
				seen[name] = true
				params = append(params, p.identifier(name, span))
			}
			stmt = p.node("FunctionDeclaration", span, tree.Object{
				"id":     p.identifier(m[1], span),
				"params": params,
				"body":   p.node("BlockStatement", span, tree.Object{"body": tree.Array{}}),
			})

		default:
			if p.reference() {
				return nil, p.fail("Unexpected token", lineNo, 0)
			}
			return nil, p.fail("Declaration or statement expected.", lineNo, 0)
		}

		if p.reference() && len(pending) > 0 {
			stmt["leadingComments"] = pending
		}
		pending = tree.Array{}
		body = append(body, stmt)
	}

	sourceType := "script"
	if p.reference() {
		if st, ok := opts["sourceType"].(string); ok {
			sourceType = st
		}
	} else if module {
		sourceType = "module"
	}

	root := toySpan{start: 0, end: len(source)}
	loc := tree.Object{
		"start": tree.Object{"line": float64(1), "column": float64(0)},
		"end":   tree.Object{"line": float64(len(lines)), "column": float64(len(lines[len(lines)-1]))},
	}
	program := p.node("Program", root, tree.Object{
		"body":       body,
		"sourceType": sourceType,
		"loc":        loc,
	})

	if !p.reference() {
		program["range"] = tree.Array{float64(root.start), float64(root.end)}
		return program, nil
	}

	return p.node("File", root, tree.Object{
		"program":  program,
		"comments": comments,
		"loc":      loc,
	}), nil
}
