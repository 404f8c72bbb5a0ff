package testutil

import (
	"testing/fstest"

	"github.com/roach88/parity/internal/fixture"
)

// Corpus returns a small fixture tree for the toy parsers:
//
//	basics/        simple declarations, comments and identifiers
//	modules/       an export that needs sourceType "module" in the reference
//	errors/        inputs both parsers reject
//
// Files that do not match the fixture include patterns are mixed in.
func Corpus() fstest.MapFS {
	return fstest.MapFS{
		"basics/simple-var.src":      {Data: []byte("var a = 1;\n")},
		"basics/comments.src":        {Data: []byte("// leading\nvar b = 2;\n")},
		"basics/identifier-name.src": {Data: []byte("var answer = 42;\n")},
		"basics/README.md":           {Data: []byte("# basics\n")},

		"modules/export-default-number.src.js": {Data: []byte("export default 42;\n")},
		"modules/plain-script.src.js":          {Data: []byte("var x = 1;\n")},

		"errors/dup-param-strict.src": {Data: []byte("\"use strict\";\nfunction f(a, a) {}\n")},
		"errors/unexpected.src":       {Data: []byte("let x = 1;\n")},
		"errors/notes.txt":            {Data: []byte("not a fixture\n")},
	}
}

// CorpusSpecs is the fixture list for Corpus. The module export fixture is
// excluded from its group and listed on its own with a reference-only
// sourceType override.
func CorpusSpecs() []fixture.Spec {
	return []fixture.Spec{
		fixture.Group("basics"),
		fixture.Group("modules", "export-default-number.src.js"),
		fixture.File("modules/export-default-number.src.js").WithOptions(fixture.Overrides{
			ReferenceName: {"sourceType": "module"},
		}),
		fixture.Group("errors"),
	}
}
