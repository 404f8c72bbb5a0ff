package parser

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/roach88/parity/internal/tree"
)

// RecordingKey identifies a recorded outcome by the exact source text and
// options a parser was run with.
func RecordingKey(source string, opts Options) (string, error) {
	key := tree.Object{"source": source}
	if len(opts) > 0 {
		converted, err := tree.FromGo(map[string]any(opts))
		if err != nil {
			return "", fmt.Errorf("recording key: %w", err)
		}
		key["options"] = converted
	}
	return tree.Hash(key)
}

// recordingPath shards recordings by the first two hex digits of the key.
func recordingPath(key string) string {
	return path.Join(key[:2], key+".json")
}

// Recorded replays outcomes captured earlier with Record. Recordings live
// under a directory as <key[:2]>/<key>.json envelopes.
type Recorded struct {
	name string
	fsys fs.FS
}

// NewRecorded creates a recorded parser reading from fsys.
func NewRecorded(name string, fsys fs.FS) *Recorded {
	return &Recorded{name: name, fsys: fsys}
}

// Name implements Parser.
func (r *Recorded) Name() string { return r.name }

// Parse implements Parser.
func (r *Recorded) Parse(ctx context.Context, source string, opts Options) Outcome {
	key, err := RecordingKey(source, opts)
	if err != nil {
		return Rejected(KindAdapter, err.Error())
	}

	data, err := fs.ReadFile(r.fsys, recordingPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Rejected(KindMissingRecording, fmt.Sprintf("no recording %s for %s", key, r.name))
		}
		return Rejected(KindAdapter, err.Error())
	}

	out, err := decodeEnvelope(data)
	if err != nil {
		return Rejected(KindAdapter, fmt.Sprintf("recording %s: %v", key, err))
	}
	return out
}

// Record runs p and stores its outcome under dir so a Recorded parser can
// replay it. It returns the outcome that was stored.
func Record(ctx context.Context, p Parser, dir, source string, opts Options) (Outcome, error) {
	out := Invoke(ctx, p, source, opts)

	key, err := RecordingKey(source, opts)
	if err != nil {
		return out, err
	}
	data, err := encodeEnvelope(out)
	if err != nil {
		return out, fmt.Errorf("encode recording: %w", err)
	}

	target := filepath.Join(dir, filepath.FromSlash(recordingPath(key)))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return out, fmt.Errorf("create recording directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return out, fmt.Errorf("write recording: %w", err)
	}
	return out, nil
}
