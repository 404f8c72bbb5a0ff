package fixture

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSourceNormalizesLineEndings(t *testing.T) {
	src, err := DecodeSource([]byte("var a;\r\nvar b;\r\n\r\nvar c;\n"))
	require.NoError(t, err)
	assert.Equal(t, "var a;\nvar b;\n\nvar c;\n", src)
}

func TestDecodeSourceKeepsLoneCarriageReturn(t *testing.T) {
	src, err := DecodeSource([]byte("a\rb"))
	require.NoError(t, err)
	assert.Equal(t, "a\rb", src)
}

func TestDecodeSourceStripsUTF8BOM(t *testing.T) {
	src, err := DecodeSource([]byte("\xef\xbb\xbfvar x;\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "var x;\n", src)
}

func TestDecodeSourceTranscodesUTF16(t *testing.T) {
	// "x;\r\n" in UTF-16LE with BOM
	data := []byte{0xff, 0xfe, 'x', 0, ';', 0, '\r', 0, '\n', 0}
	src, err := DecodeSource(data)
	require.NoError(t, err)
	assert.Equal(t, "x;\n", src)
}

func TestReadSource(t *testing.T) {
	fsys := fstest.MapFS{"basics/a.src": {Data: []byte("a;\r\n")}}

	src, err := ReadSource(fsys, "basics/a.src")
	require.NoError(t, err)
	assert.Equal(t, "a;\n", src)

	_, err = ReadSource(fsys, "basics/missing.src")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read fixture")
}

func TestDirFinderInclude(t *testing.T) {
	f := NewDirFinder(testCorpus(), "*.md")

	files, err := f.List("modules")
	require.NoError(t, err)
	assert.Equal(t, []string{"modules/README.md"}, files)
}

func TestDirFinderMissingPrefix(t *testing.T) {
	f := NewDirFinder(testCorpus())

	_, err := f.List("nope")
	require.Error(t, err)
	assert.True(t, isNotExist(err))
}

func TestDirFinderPrefixIsFile(t *testing.T) {
	f := NewDirFinder(testCorpus())

	_, err := f.List("basics/a.src")
	require.Error(t, err)
	assert.False(t, isNotExist(err))
}

func TestDirFinderBadPattern(t *testing.T) {
	f := NewDirFinder(testCorpus(), "[")

	_, err := f.List("basics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}
