package parser

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/roach88/parity/internal/tree"
)

// Options is a parser's native option bag (e.g. sourceType, ecmaVersion).
// Names and meanings belong to the parser; the harness never interprets them.
type Options map[string]any

// Error kinds produced by the adapters themselves rather than by a parser.
const (
	// KindPanic marks a parser that panicked instead of returning.
	KindPanic = "Panic"
	// KindAdapter marks a parser that could not be run or whose output
	// could not be decoded.
	KindAdapter = "AdapterError"
	// KindMissingRecording marks a recorded parser without an entry for
	// the requested source and options.
	KindMissingRecording = "MissingRecording"
	// KindNoOutput marks a parser that returned neither a tree nor an error.
	KindNoOutput = "NoOutput"
)

// ErrorDescriptor describes a parse rejection. Only Kind takes part in
// comparisons; message and position formatting legitimately differ
// between parsers that reject an input for the same reason.
type ErrorDescriptor struct {
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (e *ErrorDescriptor) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s (%d:%d)", e.Kind, e.Message, e.Line, e.Column)
	}
	if e.Message == "" {
		return e.Kind
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Outcome is the uniform result of one parser invocation. Exactly one of
// AST and Err is set.
type Outcome struct {
	AST any              `json:"ast,omitempty"`
	Err *ErrorDescriptor `json:"error,omitempty"`
}

// Accepted returns a successful outcome for ast.
func Accepted(ast any) Outcome {
	return Outcome{AST: ast}
}

// Rejected returns a failed outcome.
func Rejected(kind, message string) Outcome {
	return Outcome{Err: &ErrorDescriptor{Kind: kind, Message: message}}
}

// Failed reports whether the parser rejected the input.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Valid reports whether exactly one of AST and Err is set.
func (o Outcome) Valid() bool {
	return (o.AST == nil) != (o.Err == nil)
}

// envelope is the JSON wire form shared by the exec and recorded adapters:
//
//	{"ast": {...}}
//	{"error": {"kind": "SyntaxError", "message": "...", "line": 1, "column": 4}}
type envelope struct {
	AST   any              `json:"ast,omitempty"`
	Error *ErrorDescriptor `json:"error,omitempty"`
}

// decodeEnvelope turns adapter wire output into an Outcome.
func decodeEnvelope(data []byte) (Outcome, error) {
	v, err := tree.Decode(data)
	if err != nil {
		return Outcome{}, err
	}
	obj, ok := v.(tree.Object)
	if !ok {
		return Outcome{}, fmt.Errorf("envelope must be an object, got %s", tree.Kind(v))
	}

	ast, hasAST := obj["ast"]
	rawErr, hasErr := obj["error"]
	hasAST = hasAST && ast != nil
	hasErr = hasErr && rawErr != nil

	switch {
	case hasAST && hasErr:
		return Outcome{}, fmt.Errorf("envelope has both ast and error")
	case hasErr:
		errObj, ok := rawErr.(tree.Object)
		if !ok {
			return Outcome{}, fmt.Errorf("envelope error must be an object, got %s", tree.Kind(rawErr))
		}
		desc := &ErrorDescriptor{}
		desc.Kind, _ = errObj["kind"].(string)
		if desc.Kind == "" {
			desc.Kind, _ = errObj["name"].(string)
		}
		if desc.Kind == "" {
			return Outcome{}, fmt.Errorf("envelope error has no kind")
		}
		desc.Message, _ = errObj["message"].(string)
		if desc.Line, err = position(errObj, "line"); err != nil {
			return Outcome{}, err
		}
		if desc.Column, err = position(errObj, "column"); err != nil {
			return Outcome{}, err
		}
		return Outcome{Err: desc}, nil
	case hasAST:
		return Outcome{AST: ast}, nil
	default:
		return Outcome{}, fmt.Errorf("envelope has neither ast nor error")
	}
}

// position reads an optional line or column number. Absent and
// non-numeric values read as zero; fractional or out-of-range numbers are
// rejected.
func position(errObj tree.Object, key string) (int, error) {
	n, ok := errObj[key].(float64)
	if !ok {
		return 0, nil
	}
	v, err := safecast.Convert[int](n)
	if err != nil {
		return 0, fmt.Errorf("envelope error %s: %w", key, err)
	}
	return v, nil
}

// encodeEnvelope is the inverse of decodeEnvelope.
func encodeEnvelope(o Outcome) ([]byte, error) {
	return tree.MarshalCanonical(envelope{AST: o.AST, Error: o.Err})
}
