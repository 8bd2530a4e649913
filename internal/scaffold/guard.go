package scaffold

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// DirectoryNotEmptyError is returned when the target directory already has
// entries. Nothing may run inside such a directory.
type DirectoryNotEmptyError struct {
	Path string
}

func (e *DirectoryNotEmptyError) Error() string {
	return fmt.Sprintf("directory %s already exists and is not empty", e.Path)
}

// EnsureDir makes sure path is an empty directory, creating it and any
// missing parents.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return &DirectoryNotEmptyError{Path: path}
	}

	dir, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer dir.Close()

	// One entry is enough to refuse.
	if _, err := dir.Readdirnames(1); err != io.EOF {
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		return &DirectoryNotEmptyError{Path: path}
	}
	return nil
}
