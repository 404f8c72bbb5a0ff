// Package config loads parity configuration files.
//
// A configuration names the fixture corpus, the reference and candidate
// parsers, the fixture list and normalizer tuning. It may be written as
// YAML, TOML, CUE or JSON:
//
//	corpus: fixtures
//	reference:
//	  name: babel
//	  type: exec
//	  command: node
//	  args: [scripts/babel.js]
//	candidate:
//	  type: recorded
//	  recordings: recordings/candidate
//	fixtures:
//	  - group: basics
//	    exclude: [slow.src]
//	  - path: modules/export-default-number.src.js
//	    options: { babel: { sourceType: module } }
//
// All formats are converted to JSON and validated against one embedded
// JSON schema before a strict decode, so every format reports the same
// errors for the same mistakes.
package config
