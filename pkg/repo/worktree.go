package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// validFilename reports whether name is a plain file name in the working
// directory. Paths with separators and the metadata directory are rejected.
func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." || name == MetaDir {
		return false
	}
	return !strings.ContainsAny(name, "/\\\n\x00")
}

// listWorkFiles returns the plain regular files in the working directory,
// sorted. Subdirectories (including the metadata directory) are skipped.
func (r *Repo) listWorkFiles() ([]string, error) {
	infos, err := r.Work.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("list working directory: %w", err)
	}
	var names []string
	for _, info := range infos {
		if !info.Mode().IsRegular() || !validFilename(info.Name()) {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}

// readWorkFile returns the bytes of a working file. A missing file is
// reported as found=false.
func (r *Repo) readWorkFile(name string) ([]byte, bool, error) {
	if !validFilename(name) {
		return nil, false, nil
	}
	data, err := util.ReadFile(r.Work, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %q: %w", name, err)
	}
	return data, true, nil
}

func (r *Repo) writeWorkFile(name string, data []byte) error {
	if err := util.WriteFile(r.Work, name, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}
	r.Logger.Debug("working file written", "file", name, "bytes", len(data))
	return nil
}

// deleteWorkFile removes a working file; a file that is already gone is
// not an error.
func (r *Repo) deleteWorkFile(name string) error {
	if err := r.Work.Remove(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("delete %q: %w", name, err)
	}
	r.Logger.Debug("working file deleted", "file", name)
	return nil
}

// writeFileAtomic writes data to name inside fsys via a temp file and a
// rename, so readers never observe a partially written file.
func writeFileAtomic(fsys billy.Filesystem, name string, data []byte) error {
	dir := path.Dir(name)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := fsys.TempFile(dir, ".tmp-"+path.Base(name)+"-")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := fsys.Rename(tmpName, name); err != nil {
		fsys.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
