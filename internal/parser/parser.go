package parser

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime/debug"
	"unicode"

	"github.com/roach88/parity/internal/tree"
)

// Parser is the whole surface of an external parser the harness uses.
//
// Parse must not panic or return a Go error: every failure, including the
// adapter's own, is reported through Outcome.Err.
type Parser interface {
	// Name is the key under which fixture overrides address this parser.
	Name() string

	// Parse parses source with the given options. nil options mean the
	// parser's defaults.
	Parse(ctx context.Context, source string, opts Options) Outcome
}

// Kinded is implemented by errors that know their own classification.
// Func uses it to fill ErrorDescriptor.Kind.
type Kinded interface {
	error
	Kind() string
}

// ParseFunc is the native signature of an in-process parser. The returned
// tree may be any JSON-marshalable value.
type ParseFunc func(source string, opts Options) (any, error)

// Func adapts an in-process parser function.
type Func struct {
	name string
	fn   ParseFunc
}

// NewFunc wraps fn under the given parser name.
func NewFunc(name string, fn ParseFunc) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Parser.
func (f *Func) Name() string { return f.name }

// Parse implements Parser. Panics are recovered into a KindPanic outcome.
func (f *Func) Parse(ctx context.Context, source string, opts Options) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: &ErrorDescriptor{
				Kind:    KindPanic,
				Message: fmt.Sprintf("%v\n%s", r, debug.Stack()),
			}}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Rejected(KindAdapter, err.Error())
	}

	ast, err := f.fn(source, opts)
	if err != nil {
		return Outcome{Err: Describe(err)}
	}
	if ast == nil {
		return Rejected(KindNoOutput, "parser returned neither a tree nor an error")
	}

	converted, err := tree.FromGo(ast)
	if err != nil {
		return Rejected(KindAdapter, err.Error())
	}
	return Accepted(converted)
}

// Describe converts a native parser error into an ErrorDescriptor.
//
// The kind comes from, in order: an *ErrorDescriptor in the chain, a
// Kinded error in the chain, or the exported type name of the innermost
// wrapped error ("Error" when that type is unexported, as for errors.New).
func Describe(err error) *ErrorDescriptor {
	var desc *ErrorDescriptor
	if errors.As(err, &desc) {
		cp := *desc
		return &cp
	}

	var kinded Kinded
	if errors.As(err, &kinded) {
		return &ErrorDescriptor{Kind: kinded.Kind(), Message: err.Error()}
	}

	return &ErrorDescriptor{Kind: typeName(rootCause(err)), Message: err.Error()}
}

// rootCause follows single-error Unwrap chains to the innermost error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func typeName(err error) string {
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || !unicode.IsUpper([]rune(name)[0]) {
		return "Error"
	}
	return name
}

// Invoke runs p and enforces the Outcome contract: a panic escaping a
// Parser implementation, or an outcome with both or neither field set,
// becomes a rejection instead of aborting the run. Accepted trees are
// converted to tree shape; a tree that cannot be converted is an
// adapter error.
func Invoke(ctx context.Context, p Parser, source string, opts Options) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: &ErrorDescriptor{
				Kind:    KindPanic,
				Message: fmt.Sprintf("%s: %v", p.Name(), r),
			}}
		}
	}()

	out = p.Parse(ctx, source, opts)
	if !out.Valid() {
		if out.AST != nil && out.Err != nil {
			return Rejected(KindAdapter, fmt.Sprintf("%s returned both a tree and an error", p.Name()))
		}
		return Rejected(KindNoOutput, fmt.Sprintf("%s returned neither a tree nor an error", p.Name()))
	}
	if out.Failed() {
		return out
	}

	ast, err := tree.FromGo(out.AST)
	if err != nil {
		return Rejected(KindAdapter, fmt.Sprintf("%s: %v", p.Name(), err))
	}
	return Accepted(ast)
}
