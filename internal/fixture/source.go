package fixture

import (
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadSource loads a fixture as parser input text.
//
// The file is decoded as UTF-8 unless a byte order mark says otherwise
// (UTF-16 fixtures are transcoded, the mark itself is dropped), then every
// CRLF pair is collapsed to LF so both parsers see identical text on every
// platform.
func ReadSource(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("read fixture: %w", err)
	}
	return DecodeSource(data)
}

// DecodeSource applies the ReadSource text conversion to raw bytes.
func DecodeSource(data []byte) (string, error) {
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return "", fmt.Errorf("decode fixture: %w", err)
	}
	return strings.ReplaceAll(string(decoded), "\r\n", "\n"), nil
}
