package fix

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteAtomic stages data to a temporary file next to path and renames it
// into place, so an interrupted run never leaves a partially written
// source file. The original file mode is preserved when the file exists.
func WriteAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".stylecritic-*")
	if err != nil {
		return fmt.Errorf("staging fix for %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("staging fix for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("staging fix for %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("staging fix for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing fix for %s: %w", path, err)
	}
	return nil
}
