package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"screenshot-mirror/core/reconcile"

	"github.com/spf13/afero"
)

// File is a ledger stored as a JSON array in a single file.
type File struct {
	fs   afero.Fs
	path string
}

// NewFile creates a file ledger at path on the given filesystem.
func NewFile(fsys afero.Fs, path string) *File {
	return &File{fs: fsys, path: path}
}

// Path returns the ledger file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the ledger. A missing file is an empty ledger without error;
// an unreadable or corrupt file is an empty ledger with a KindLedgerRead error.
func (f *File) Load(ctx context.Context) (map[string]struct{}, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]struct{}{}, nil
		}
		return map[string]struct{}{}, reconcile.NewError(reconcile.KindLedgerRead, reconcile.OpLoad, f.path, err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return map[string]struct{}{}, reconcile.NewError(reconcile.KindLedgerRead, reconcile.OpLoad, f.path, err)
	}
	return toSet(names), nil
}

// Save replaces the ledger with names. The file is written under a temporary
// name and renamed into place.
func (f *File) Save(ctx context.Context, names map[string]struct{}) error {
	data, err := json.MarshalIndent(sorted(names), "", "  ")
	if err != nil {
		return reconcile.NewError(reconcile.KindLedgerWrite, reconcile.OpSave, f.path, err)
	}

	if err := f.write(data); err != nil {
		return reconcile.NewError(reconcile.KindLedgerWrite, reconcile.OpSave, f.path, err)
	}
	return nil
}

func (f *File) write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(f.fs, dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = f.fs.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = f.fs.Remove(tmpPath)
		return err
	}

	if err := f.fs.Rename(tmpPath, f.path); err != nil {
		_ = f.fs.Remove(tmpPath)
		return err
	}
	return nil
}
