package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Change kinds for files modified but not staged.
const (
	ChangeModified = "modified"
	ChangeDeleted  = "deleted"
)

// UnstagedChange is a working-tree difference not reflected in staging.
type UnstagedChange struct {
	Filename string
	Kind     string // ChangeModified or ChangeDeleted
}

// StatusReport is a read-only snapshot of the repository.
type StatusReport struct {
	CurrentBranch string
	Branches      []string
	Staged        []string
	Removed       []string
	Unstaged      []UnstagedChange
	Untracked     []string
}

// Status compares HEAD, the staging index and the working directory. It
// never mutates the store or the state.
//
// A file is reported as modified-not-staged when it is tracked by HEAD and
// changed but not staged, or staged with contents that differ from the
// working copy. It is deleted-not-staged when it is staged for addition but
// gone, or tracked by HEAD, gone, and not staged for removal. Untracked
// files are present but neither staged nor tracked, or staged for removal
// and present again; ignored files are skipped.
func (r *Repo) Status() (*StatusReport, error) {
	head, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	files, err := r.listWorkFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	stg := r.State.Staging
	report := &StatusReport{
		CurrentBranch: r.State.CurrentBranch,
		Branches:      r.BranchNames(),
		Staged:        stg.Added(),
		Removed:       stg.Removed(),
	}

	present := make(map[string]object.Hash, len(files))
	for _, name := range files {
		contents, found, err := r.readWorkFile(name)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		if found {
			present[name] = object.BlobID(name, contents)
		}
	}

	candidates := make(map[string]bool)
	for _, name := range head.Filenames() {
		candidates[name] = true
	}
	for name := range stg.Addition {
		candidates[name] = true
	}
	for name := range candidates {
		work, inWork := present[name]
		staged, isStaged := stg.Addition[name]
		tracked, isTracked := head.Lookup(name)

		switch {
		case isStaged && !inWork:
			report.Unstaged = append(report.Unstaged, UnstagedChange{name, ChangeDeleted})
		case isStaged && work != staged:
			report.Unstaged = append(report.Unstaged, UnstagedChange{name, ChangeModified})
		case !isStaged && isTracked && !inWork && !stg.Removal[name]:
			report.Unstaged = append(report.Unstaged, UnstagedChange{name, ChangeDeleted})
		case !isStaged && isTracked && inWork && work != tracked && !stg.Removal[name]:
			report.Unstaged = append(report.Unstaged, UnstagedChange{name, ChangeModified})
		}
	}
	sort.Slice(report.Unstaged, func(i, j int) bool {
		return report.Unstaged[i].Filename < report.Unstaged[j].Filename
	})

	ignore := r.ignoreChecker()
	for _, name := range files {
		if _, ok := present[name]; !ok || !r.isUntracked(head, name) {
			continue
		}
		if ignore.IsIgnored(name) {
			continue
		}
		report.Untracked = append(report.Untracked, name)
	}
	return report, nil
}
