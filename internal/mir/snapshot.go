package mir

import (
	"errors"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"ember/internal/source"
	"ember/internal/types"
)

// Current schema version - increment when snapshotPayload format changes
const snapshotSchemaVersion uint16 = 1

// ErrSchemaMismatch is returned when a snapshot was produced by an
// incompatible front end.
var ErrSchemaMismatch = errors.New("unsupported snapshot schema")

type snapshotFile struct {
	Path    string
	Content []byte
	Flags   source.FileFlags
}

// snapshotPayload is the wire form of a lowered module: the module itself,
// the interned type tables it refers to, and the source files its spans
// point into. File order defines FileIDs, so it must be preserved.
type snapshotPayload struct {
	Schema uint16

	Module *Module
	Types  []types.Type
	Fns    []types.FnInfo
	Files  []snapshotFile
}

// WriteSnapshot serializes a module with its type tables and source files.
func WriteSnapshot(w io.Writer, m *Module, typesIn *types.Interner, fs *source.FileSet) error {
	if m == nil {
		return errors.New("nil module")
	}

	payload := snapshotPayload{
		Schema: snapshotSchemaVersion,
		Module: m,
	}
	if typesIn != nil {
		payload.Types, payload.Fns = typesIn.Snapshot()
	}
	if fs != nil {
		payload.Files = make([]snapshotFile, 0, fs.Len())
		for i := 0; i < fs.Len(); i++ {
			f := fs.Get(source.FileID(i)) //nolint:gosec // bounded by fs.Len
			payload.Files = append(payload.Files, snapshotFile{
				Path:    f.Path,
				Content: f.Content,
				Flags:   f.Flags,
			})
		}
	}

	return msgpack.NewEncoder(w).Encode(&payload)
}

// ReadSnapshot decodes a module snapshot and rebuilds the type interner
// and file set it was written with.
func ReadSnapshot(r io.Reader) (*Module, *types.Interner, *source.FileSet, error) {
	var payload snapshotPayload
	if err := msgpack.NewDecoder(r).Decode(&payload); err != nil {
		return nil, nil, nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if payload.Schema != snapshotSchemaVersion {
		return nil, nil, nil, fmt.Errorf("%w: got %d, want %d",
			ErrSchemaMismatch, payload.Schema, snapshotSchemaVersion)
	}
	if payload.Module == nil {
		return nil, nil, nil, errors.New("snapshot has no module")
	}

	typesIn := types.Restore(payload.Types, payload.Fns)

	fs := source.NewFileSet()
	for _, f := range payload.Files {
		fs.Add(f.Path, f.Content, f.Flags)
	}

	return payload.Module, typesIn, fs, nil
}
