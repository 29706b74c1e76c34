package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-pkgz/lgr"
)

// SafeSave replaces the file at path with data, going through a temporary sibling file.
// Unless allowShrink is set, a write smaller than the current file is refused: the temporary
// file is dropped, the original is left untouched and false is returned with no error.
func SafeSave(path string, data []byte, allowShrink bool) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return false, fmt.Errorf("create dir for %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := writeSynced(tmp, data); err != nil {
		_ = os.Remove(tmp)
		return false, err
	}

	newInfo, err := os.Stat(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("stat %s: %w", tmp, err)
	}

	oldInfo, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// first write, nothing to compare with
	case err != nil:
		_ = os.Remove(tmp)
		return false, fmt.Errorf("stat %s: %w", path, err)
	case !allowShrink && newInfo.Size() < oldInfo.Size():
		_ = os.Remove(tmp)
		lgr.Printf("[WARN] refused to save %s, new size %d is smaller than current %d", path, newInfo.Size(), oldInfo.Size())
		return false, nil
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false, fmt.Errorf("replace %s: %w", path, err)
	}
	return true, nil
}

func writeSynced(path string, data []byte) error {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // path is under the storage root
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := fh.Write(data); err != nil {
		_ = fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := fh.Sync(); err != nil {
		_ = fh.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
