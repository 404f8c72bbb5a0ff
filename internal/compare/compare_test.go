package compare

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parity/internal/normalize"
	"github.com/roach88/parity/internal/parser"
	"github.com/roach88/parity/internal/tree"
)

func identifier(name string) tree.Object {
	return tree.Object{"type": "Identifier", "name": name}
}

// simpleVar is the candidate shape of `var a = 1;`.
func simpleVar() tree.Object {
	return tree.Object{
		"type": "Program",
		"body": tree.Array{
			tree.Object{
				"type": "VariableDeclaration",
				"kind": "var",
				"declarations": tree.Array{
					tree.Object{
						"type": "VariableDeclarator",
						"id":   identifier("a"),
						"init": tree.Object{"type": "Literal", "value": float64(1)},
					},
				},
			},
		},
		"sourceType": "script",
	}
}

// referenceSimpleVar is the reference shape of `var a = 1;`: wrapped in a
// File node, with offsets, comments and a root span.
func referenceSimpleVar() tree.Object {
	program := simpleVar()
	program["start"] = float64(0)
	program["end"] = float64(10)
	program["loc"] = tree.Object{"start": tree.Object{"line": float64(1), "column": float64(0)}}
	decl := program["body"].(tree.Array)[0].(tree.Object)
	decl["start"] = float64(0)
	decl["end"] = float64(10)
	decl["leadingComments"] = tree.Array{}
	return tree.Object{
		"type":     "File",
		"program":  program,
		"comments": tree.Array{},
	}
}

func TestCompare_BothAcceptedEqual(t *testing.T) {
	c := New(nil)

	ref := referenceSimpleVar()
	cand := simpleVar()
	cand["range"] = tree.Array{float64(0), float64(10)}

	v := c.Compare("basics/simple-var.src", parser.Accepted(ref), parser.Accepted(cand))

	assert.True(t, v.Pass, v.Diff)
	assert.Equal(t, CaseBothAccepted, v.Case)
	assert.Equal(t, "basics/simple-var.src", v.Name)
	assert.Empty(t, v.Divergence)
	assert.Empty(t, v.Diff)
	assert.Equal(t, v.Reference, v.Candidate)
}

func TestCompare_BothAcceptedDifferent(t *testing.T) {
	c := New(nil)

	cand := simpleVar()
	decl := cand["body"].(tree.Array)[0].(tree.Object)
	decl["kind"] = "let"

	v := c.Compare("basics/simple-var.src", parser.Accepted(referenceSimpleVar()), parser.Accepted(cand))

	assert.False(t, v.Pass)
	assert.Equal(t, CaseBothAccepted, v.Case)
	assert.Equal(t, "trees differ", v.Message)
	assert.Contains(t, v.Diff, `"var"`)
	assert.Contains(t, v.Diff, `"let"`)
	require.NotNil(t, v.Reference)
	require.NotNil(t, v.Candidate)
}

func TestCompare_DoesNotMutateOutcomes(t *testing.T) {
	c := New(nil)

	ref := referenceSimpleVar()
	cand := simpleVar()
	cand["loc"] = tree.Object{}
	refBefore := tree.Clone(ref)
	candBefore := tree.Clone(cand)

	c.Compare("x.src", parser.Accepted(ref), parser.Accepted(cand))

	assert.Equal(t, refBefore, ref)
	assert.Equal(t, candBefore, cand)
}

func TestCompare_CandidateTreeIsOnlyRootStripped(t *testing.T) {
	c := New(nil)

	// A comment array inside the candidate is not removed: only the
	// reference is normalized.
	cand := simpleVar()
	cand["comments"] = tree.Array{}

	v := c.Compare("x.src", parser.Accepted(referenceSimpleVar()), parser.Accepted(cand))

	assert.False(t, v.Pass)
	assert.Contains(t, v.Diff, "comments")
}

func TestCompare_IdentifierNameIsNormalizedAway(t *testing.T) {
	c := New(nil)

	ref := referenceSimpleVar()
	decl := ref["program"].(tree.Object)["body"].(tree.Array)[0].(tree.Object)
	declarator := decl["declarations"].(tree.Array)[0].(tree.Object)
	declarator["id"].(tree.Object)["identifierName"] = "a"

	v := c.Compare("basics/identifier-name.src", parser.Accepted(ref), parser.Accepted(simpleVar()))

	assert.True(t, v.Pass, v.Diff)
	id := v.Reference.(tree.Object)["body"].(tree.Array)[0].(tree.Object)["declarations"].(tree.Array)[0].(tree.Object)["id"].(tree.Object)
	assert.NotContains(t, id, "identifierName")
}

func TestCompare_BothAcceptedMissingTree(t *testing.T) {
	c := New(nil)

	v := c.Compare("x.src", parser.Outcome{}, parser.Accepted(simpleVar()))

	assert.False(t, v.Pass)
	assert.Equal(t, CaseBothAccepted, v.Case)
	assert.Contains(t, v.Message, "missing tree")
}

func TestCompare_ErrorKindSymmetry(t *testing.T) {
	tests := []struct {
		name    string
		ref     parser.Outcome
		cand    parser.Outcome
		pass    bool
		message string
	}{
		{
			name: "same kind different messages",
			ref:  parser.Rejected("SyntaxError", "Argument name clash (1:14)"),
			cand: parser.Rejected("SyntaxError", "Duplicate parameter name not allowed in this context"),
			pass: true,
		},
		{
			name: "same kind different positions",
			ref:  parser.Outcome{Err: &parser.ErrorDescriptor{Kind: "SyntaxError", Line: 1, Column: 14}},
			cand: parser.Outcome{Err: &parser.ErrorDescriptor{Kind: "SyntaxError", Line: 2, Column: 0}},
			pass: true,
		},
		{
			name:    "different kinds",
			ref:     parser.Rejected("SyntaxError", "unexpected token"),
			cand:    parser.Rejected("TypeError", "unexpected token"),
			pass:    false,
			message: "error kinds differ: reference SyntaxError, candidate TypeError",
		},
	}

	c := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Compare("errors/dup-param.src", tt.ref, tt.cand)

			assert.Equal(t, CaseBothRejected, v.Case)
			assert.Equal(t, tt.pass, v.Pass)
			assert.Equal(t, tt.message, v.Message)
			assert.Equal(t, tt.ref.Err.Kind, v.Reference)
			assert.Equal(t, tt.cand.Err.Kind, v.Candidate)
			assert.Empty(t, v.Divergence)
			if tt.pass {
				assert.Empty(t, v.Diff)
			} else {
				assert.NotEmpty(t, v.Diff)
			}
		})
	}
}

func TestCompare_MismatchedFailureAsymmetry(t *testing.T) {
	c := New(nil)
	rejected := parser.Rejected("SyntaxError", "Argument name clash")
	accepted := parser.Accepted(simpleVar())

	t.Run("candidate did not error", func(t *testing.T) {
		v := c.Compare("errors/dup-param.src", rejected, accepted)

		assert.False(t, v.Pass)
		assert.Equal(t, CaseCandidateAccepted, v.Case)
		assert.Equal(t, DivergenceCandidateDidNotError, v.Divergence)
		assert.Equal(t, "errors/dup-param.src (candidate did not error)", v.Name)
		assert.Equal(t, rejected.Err, v.Reference)
		assert.Nil(t, v.Candidate)
		assert.Equal(t, "reference rejected with SyntaxError: Argument name clash; candidate did not error", v.Message)
	})

	t.Run("reference did not error", func(t *testing.T) {
		v := c.Compare("errors/dup-param.src", accepted, rejected)

		assert.False(t, v.Pass)
		assert.Equal(t, CaseCandidateRejected, v.Case)
		assert.Equal(t, DivergenceReferenceDidNotError, v.Divergence)
		assert.Equal(t, "errors/dup-param.src (reference did not error)", v.Name)
		assert.Nil(t, v.Reference)
		assert.Equal(t, rejected.Err, v.Candidate)
		assert.Equal(t, "candidate rejected with SyntaxError: Argument name clash; reference did not error", v.Message)
	})

	t.Run("position is reported", func(t *testing.T) {
		located := parser.Outcome{Err: &parser.ErrorDescriptor{Kind: "SyntaxError", Message: "Argument name clash", Line: 2, Column: 14}}
		v := c.Compare("errors/dup-param.src", located, accepted)

		assert.Equal(t, "reference rejected with SyntaxError: Argument name clash (2:14); candidate did not error", v.Message)
	})
}

func TestCompare_CustomNormalizer(t *testing.T) {
	// Without rules the reference offsets survive and the trees differ.
	c := New(normalize.New(nil, normalize.DefaultUnwrap, normalize.DefaultRootSpanKeys))

	v := c.Compare("x.src", parser.Accepted(referenceSimpleVar()), parser.Accepted(simpleVar()))

	assert.False(t, v.Pass)
	assert.Contains(t, v.Diff, "start")
}

func TestCompare_Deterministic(t *testing.T) {
	c := New(nil)
	cand := simpleVar()
	cand["sourceType"] = "module"

	first := c.Compare("x.src", parser.Accepted(referenceSimpleVar()), parser.Accepted(cand))
	for i := 0; i < 5; i++ {
		again := c.Compare("x.src", parser.Accepted(referenceSimpleVar()), parser.Accepted(cand))
		assert.Equal(t, first, again)
	}
}

func TestFixtureError(t *testing.T) {
	v := FixtureError("missing.src", &fs.PathError{Op: "open", Path: "missing.src", Err: fs.ErrNotExist})

	assert.False(t, v.Pass)
	assert.Equal(t, CaseFixtureError, v.Case)
	assert.Equal(t, "missing.src", v.Name)
	assert.Equal(t, "fixture unavailable: open missing.src: file does not exist", v.Message)
	assert.Nil(t, v.Reference)
	assert.Nil(t, v.Candidate)
}

func TestVerdict_String(t *testing.T) {
	assert.Equal(t, "PASS a.src", Verdict{Name: "a.src", Pass: true}.String())
	assert.Equal(t, "FAIL a.src: fixture unavailable: boom", FixtureError("a.src", errors.New("boom")).String())
}
