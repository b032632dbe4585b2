package repo

import (
	"fmt"
	"sort"
	"strings"
)

// validBranchName rejects names that cannot be stored as a reflog file.
func validBranchName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, "/\\ \t\n")
}

// CreateBranch adds a branch pointing at HEAD. It does not switch to it.
func (r *Repo) CreateBranch(name string) error {
	if !validBranchName(name) {
		return fmt.Errorf("branch: invalid branch name %q", name)
	}
	if _, exists := r.State.Branches[name]; exists {
		return ErrBranchAlreadyExists
	}
	r.State.Branches[name] = r.State.Head
	r.appendReflog(name, "", r.State.Head, "branch: created from "+r.State.CurrentBranch)
	r.Logger.Debug("branch created", "branch", name, "at", r.State.Head)
	return nil
}

// DeleteBranch removes a branch pointer. Commits it referenced stay in the
// object store.
func (r *Repo) DeleteBranch(name string) error {
	if _, exists := r.State.Branches[name]; !exists {
		return errBranchDoesNotExist
	}
	if name == r.State.CurrentBranch {
		return ErrCannotRemoveCurrentBranch
	}
	delete(r.State.Branches, name)
	r.dropReflog(name)
	r.Logger.Debug("branch deleted", "branch", name)
	return nil
}

// BranchNames returns all branch names, sorted.
func (r *Repo) BranchNames() []string {
	names := make([]string, 0, len(r.State.Branches))
	for name := range r.State.Branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
