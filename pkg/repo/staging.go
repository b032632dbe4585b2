package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Staging holds the pending changes applied by the next commit. A filename
// is never in both sets at once.
type Staging struct {
	Addition map[string]object.Hash `json:"addition"`
	Removal  map[string]bool        `json:"removal"`
}

// NewStaging returns an empty staging index.
func NewStaging() *Staging {
	return &Staging{
		Addition: make(map[string]object.Hash),
		Removal:  make(map[string]bool),
	}
}

func (s *Staging) normalize() {
	if s.Addition == nil {
		s.Addition = make(map[string]object.Hash)
	}
	if s.Removal == nil {
		s.Removal = make(map[string]bool)
	}
}

// StageAddition queues filename at blobID and cancels any pending removal.
func (s *Staging) StageAddition(filename string, blobID object.Hash) {
	s.Addition[filename] = blobID
	delete(s.Removal, filename)
}

// StageRemoval queues filename for untracking and cancels any pending
// addition.
func (s *Staging) StageRemoval(filename string) {
	s.Removal[filename] = true
	delete(s.Addition, filename)
}

// Unstage drops any pending addition or removal for filename.
func (s *Staging) Unstage(filename string) {
	delete(s.Addition, filename)
	delete(s.Removal, filename)
}

// Clear empties both sets.
func (s *Staging) Clear() {
	s.Addition = make(map[string]object.Hash)
	s.Removal = make(map[string]bool)
}

// IsEmpty reports whether nothing is staged.
func (s *Staging) IsEmpty() bool {
	return len(s.Addition) == 0 && len(s.Removal) == 0
}

// Added returns the filenames staged for addition, sorted.
func (s *Staging) Added() []string {
	names := make([]string, 0, len(s.Addition))
	for name := range s.Addition {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Removed returns the filenames staged for removal, sorted.
func (s *Staging) Removed() []string {
	names := make([]string, 0, len(s.Removal))
	for name := range s.Removal {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add stages the named working files. "." or "*" expands to every plain
// file in the working directory that is not ignored.
//
// For each file the blob id is compared with the version HEAD tracks. An
// identical file has any stale staged addition dropped and no blob is
// written; otherwise the blob is stored and staged. Either way a pending
// removal for the name is cancelled.
func (r *Repo) Add(names ...string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	expanded, err := r.expandAddArgs(names)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}

	stg := r.State.Staging
	for _, name := range expanded {
		contents, found, err := r.readWorkFile(name)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		if !found {
			return ErrFileNotFound
		}

		blob := &object.Blob{Filename: name, Contents: contents}
		id := blob.ID()
		if tracked, ok := head.Lookup(name); ok && tracked == id {
			stg.Unstage(name)
			r.Logger.Debug("add: file matches HEAD", "file", name)
			continue
		}

		if _, err := r.Store.PutBlob(blob); err != nil {
			return fmt.Errorf("add: %w", err)
		}
		stg.StageAddition(name, id)
		r.Logger.Debug("add: staged", "file", name, "blob", id)
	}
	return nil
}

func (r *Repo) expandAddArgs(names []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, name := range names {
		if name != "." && name != "*" {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
			continue
		}
		files, err := r.listWorkFiles()
		if err != nil {
			return nil, err
		}
		ignore := r.ignoreChecker()
		for _, f := range files {
			if seen[f] || ignore.IsIgnored(f) {
				continue
			}
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}

// Remove unstages a pending addition of name and, if HEAD tracks it,
// stages its removal and deletes the working copy. A file that was only
// staged for addition keeps its working copy.
func (r *Repo) Remove(name string) error {
	head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}

	stg := r.State.Staging
	_, staged := stg.Addition[name]
	_, tracked := head.Lookup(name)
	if !staged && !tracked {
		return ErrNothingToRemove
	}

	if staged {
		delete(stg.Addition, name)
	}
	if tracked {
		stg.StageRemoval(name)
		if err := r.deleteWorkFile(name); err != nil {
			return fmt.Errorf("rm: %w", err)
		}
	}
	r.Logger.Debug("rm", "file", name, "was_staged", staged, "was_tracked", tracked)
	return nil
}
