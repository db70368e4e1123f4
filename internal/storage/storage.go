// Package storage provides byte-level access to the two named file areas the
// importer works with: the read-only import source folder and the managed
// media folder.
package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rotisserie/eris"
)

// Area is a directory-rooted file store. All paths are relative to the root;
// attempts to escape it are rejected.
type Area struct {
	root     string
	readOnly bool
}

// NewArea returns a read-write area rooted at dir.
func NewArea(dir string) *Area {
	return &Area{root: dir}
}

// NewReadOnlyArea returns an area whose Write and Delete always fail. The
// import source folder is mounted this way so a buggy run cannot destroy
// source data.
func NewReadOnlyArea(dir string) *Area {
	return &Area{root: dir, readOnly: true}
}

// Root returns the area's root directory.
func (a *Area) Root() string {
	return a.root
}

// Path resolves a relative path within the area to an absolute path.
func (a *Area) Path(rel string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(rel))
	abs := filepath.Join(a.root, clean)
	if !strings.HasPrefix(abs, filepath.Clean(a.root)) {
		return "", eris.Errorf("storage: path %q escapes area root", rel)
	}
	return abs, nil
}

// Exists reports whether a regular file exists at the path.
func (a *Area) Exists(rel string) bool {
	abs, err := a.Path(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Size returns the byte size of the file at the path.
func (a *Area) Size(rel string) (int64, error) {
	abs, err := a.Path(rel)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return 0, eris.Wrapf(err, "storage: stat %s", rel)
	}
	return info.Size(), nil
}

// Read returns the full contents of the file at the path.
func (a *Area) Read(rel string) ([]byte, error) {
	abs, err := a.Path(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, eris.Wrapf(err, "storage: read %s", rel)
	}
	return data, nil
}

// Write stores data at the path, creating parent directories as needed.
func (a *Area) Write(rel string, data []byte) error {
	if a.readOnly {
		return eris.Errorf("storage: area %s is read-only", a.root)
	}
	abs, err := a.Path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return eris.Wrapf(err, "storage: mkdir for %s", rel)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return eris.Wrapf(err, "storage: write %s", rel)
	}
	return nil
}

// Delete removes the file at the path. Deleting a missing file is not an
// error.
func (a *Area) Delete(rel string) error {
	if a.readOnly {
		return eris.Errorf("storage: area %s is read-only", a.root)
	}
	abs, err := a.Path(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(err, "storage: delete %s", rel)
	}
	return nil
}

// MimeType sniffs the MIME type from the file's actual content, not its
// extension.
func (a *Area) MimeType(rel string) (string, error) {
	abs, err := a.Path(rel)
	if err != nil {
		return "", err
	}
	mt, err := mimetype.DetectFile(abs)
	if err != nil {
		return "", eris.Wrapf(err, "storage: detect mime %s", rel)
	}
	return mt.String(), nil
}

// List returns the relative paths of all regular files under the area,
// sorted by walk order.
func (a *Area) List() ([]string, error) {
	var files []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, relErr := filepath.Rel(a.root, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "storage: list %s", a.root)
	}
	return files, nil
}
