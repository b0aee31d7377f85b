package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants, matching the rest of the infrastructure layer.
const (
	// dirPermissions is the permission mode for created directories.
	dirPermissions = 0750

	// filePermissions is the permission mode for persisted files.
	// Parameter files hold broker credentials, so they are owner-only.
	filePermissions = 0600
)

// Files is the persistence capability used by components that need to keep
// small state files (the parameter store's JSON mirror).
//
// Implementations exist per deployment target; core logic never touches the
// filesystem directly and never branches on platform identity.
type Files interface {
	// ReadFile returns the full contents of the named file.
	// A missing file is reported via an error satisfying os.IsNotExist /
	// errors.Is(err, fs.ErrNotExist).
	ReadFile(name string) ([]byte, error)

	// WriteFile replaces the named file with data in a single pass.
	WriteFile(name string, data []byte) error

	// Remove deletes the named file. Removing a missing file is an error.
	Remove(name string) error
}

// OS is the host-filesystem implementation of Files.
//
// Writes create the parent directory on demand so a fresh deployment can
// persist into data/ without manual setup.
type OS struct{}

// NewOS returns a Files implementation backed by the host filesystem.
func NewOS() OS {
	return OS{}
}

// ReadFile returns the contents of the file at name.
func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to name, creating the parent directory if needed.
//
// The write is a single-pass overwrite, not an atomic temp-and-rename:
// a failure mid-write can leave a truncated file behind. Readers must
// treat unparsable content as a load failure.
func (OS) WriteFile(name string, data []byte) error {
	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(name, data, filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Remove deletes the file at name.
func (OS) Remove(name string) error {
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}
