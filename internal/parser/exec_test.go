package parser

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parity/internal/tree"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecAccepted(t *testing.T) {
	requireShell(t)
	p := NewExec("reference", "sh", []string{"-c", `cat >/dev/null; echo '{"ast":{"type":"Program","body":[]}}'`})

	out := p.Parse(context.Background(), "var x;", nil)

	require.False(t, out.Failed(), "%v", out.Err)
	assert.Equal(t, tree.Object{"type": "Program", "body": tree.Array{}}, out.AST)
}

func TestExecReadsSourceFromStdin(t *testing.T) {
	requireShell(t)
	p := NewExec("reference", "sh", []string{"-c", `printf '{"ast":{"source":"%s"}}' "$(cat)"`})

	out := p.Parse(context.Background(), "abc", nil)

	require.False(t, out.Failed(), "%v", out.Err)
	assert.Equal(t, tree.Object{"source": "abc"}, out.AST)
}

func TestExecPassesOptions(t *testing.T) {
	requireShell(t)
	p := NewExec("reference", "sh", []string{"-c", `cat >/dev/null; printf '{"ast":%s}' "$` + OptionsEnv + `"`})

	out := p.Parse(context.Background(), "x", Options{"sourceType": "module"})

	require.False(t, out.Failed(), "%v", out.Err)
	assert.Equal(t, tree.Object{"sourceType": "module"}, out.AST)
}

func TestExecRejectionEnvelopeWithNonZeroExit(t *testing.T) {
	requireShell(t)
	p := NewExec("reference", "sh", []string{"-c", `cat >/dev/null; echo '{"error":{"kind":"SyntaxError","message":"Unexpected token"}}'; exit 1`})

	out := p.Parse(context.Background(), "var 1;", nil)

	require.True(t, out.Failed())
	assert.Equal(t, "SyntaxError", out.Err.Kind)
}

func TestExecCrashBecomesAdapterError(t *testing.T) {
	requireShell(t)
	p := NewExec("reference", "sh", []string{"-c", `cat >/dev/null; echo 'stack trace' >&2; exit 3`})

	out := p.Parse(context.Background(), "x", nil)

	require.True(t, out.Failed())
	assert.Equal(t, KindAdapter, out.Err.Kind)
	assert.Contains(t, out.Err.Message, "exited with code 3")
	assert.Contains(t, out.Err.Message, "stack trace")
}

func TestExecGarbageOutput(t *testing.T) {
	requireShell(t)
	p := NewExec("reference", "sh", []string{"-c", `cat >/dev/null; echo 'not json'`})

	out := p.Parse(context.Background(), "x", nil)

	require.True(t, out.Failed())
	assert.Equal(t, KindAdapter, out.Err.Kind)
	assert.Contains(t, out.Err.Message, "decode")
}

func TestExecMissingCommand(t *testing.T) {
	p := NewExec("reference", "/definitely/not/a/parser", nil)

	out := p.Parse(context.Background(), "x", nil)

	require.True(t, out.Failed())
	assert.Equal(t, KindAdapter, out.Err.Kind)
}

func TestExecTimeout(t *testing.T) {
	requireShell(t)
	p := NewExec("reference", "sh", []string{"-c", `sleep 5`}, WithTimeout(50*time.Millisecond))

	start := time.Now()
	out := p.Parse(context.Background(), "x", nil)

	require.True(t, out.Failed())
	assert.Equal(t, KindAdapter, out.Err.Kind)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestExecEnvAndDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	p := NewExec("reference", "sh", []string{"-c", `cat >/dev/null; printf '{"ast":{"mode":"%s"}}' "$MODE"`},
		WithEnv("MODE=strict"), WithDir(dir))

	out := p.Parse(context.Background(), "x", nil)

	require.False(t, out.Failed(), "%v", out.Err)
	assert.Equal(t, tree.Object{"mode": "strict"}, out.AST)
}
