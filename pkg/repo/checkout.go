package repo

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/odvcencio/gitlet/pkg/object"
)

// CheckoutRequest is one of CheckoutFile, CheckoutFileAtCommit or
// CheckoutBranch.
type CheckoutRequest interface {
	isCheckoutRequest()
}

// CheckoutFile restores a file to the version tracked by HEAD.
type CheckoutFile struct {
	Filename string
}

// CheckoutFileAtCommit restores a file to the version tracked by a commit,
// given by full or abbreviated id.
type CheckoutFileAtCommit struct {
	CommitID string
	Filename string
}

// CheckoutBranch switches to another branch, replacing the working tree.
type CheckoutBranch struct {
	Branch string
}

func (CheckoutFile) isCheckoutRequest()         {}
func (CheckoutFileAtCommit) isCheckoutRequest() {}
func (CheckoutBranch) isCheckoutRequest()       {}

// Checkout performs the requested checkout. Single-file checkouts overwrite
// one working file and never touch the staging index.
func (r *Repo) Checkout(req CheckoutRequest) error {
	switch req := req.(type) {
	case CheckoutFile:
		head, err := r.HeadCommit()
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		return r.checkoutFile(head, req.Filename)
	case CheckoutFileAtCommit:
		_, c, err := r.ResolveCommit(req.CommitID)
		if err != nil {
			return err
		}
		return r.checkoutFile(c, req.Filename)
	case CheckoutBranch:
		return r.checkoutBranch(req.Branch)
	default:
		return fmt.Errorf("checkout: unsupported request %T", req)
	}
}

func (r *Repo) checkoutFile(c *object.Commit, name string) error {
	blobID, ok := c.Lookup(name)
	if !ok {
		return ErrFileNotInCommit
	}
	blob, err := r.getBlob(blobID)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.writeWorkFile(name, blob.Contents)
}

func (r *Repo) checkoutBranch(branch string) error {
	target, ok := r.State.Branches[branch]
	if !ok {
		return ErrNoSuchBranch
	}
	if branch == r.State.CurrentBranch {
		return ErrAlreadyOnBranch
	}

	head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	targetCommit, err := r.mustGetCommit(target)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.checkUntracked(head, targetCommit); err != nil {
		return err
	}
	if err := r.replaceWorkingTree(head, targetCommit); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	r.State.Staging.Clear()
	r.State.CurrentBranch = branch
	r.State.Head = target
	r.Logger.Debug("switched branch", "branch", branch, "head", target)
	return nil
}

// isUntracked reports whether a working file is outside version control:
// neither tracked by HEAD nor staged for addition, or staged for removal
// yet present again.
func (r *Repo) isUntracked(head *object.Commit, name string) bool {
	stg := r.State.Staging
	if stg.Removal[name] {
		return true
	}
	if _, ok := stg.Addition[name]; ok {
		return false
	}
	_, tracked := head.Lookup(name)
	return !tracked
}

// checkUntracked fails with ErrUntrackedFileConflict when replacing the tree
// with target would overwrite working contents that are saved nowhere: a
// file that differs from the target's version, from HEAD's version and from
// the staged version. It runs before anything is mutated.
func (r *Repo) checkUntracked(head, target *object.Commit) error {
	for _, name := range target.Filenames() {
		contents, found, err := r.readWorkFile(name)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		id := object.BlobID(name, contents)
		if id == target.FileMap[name] {
			continue
		}
		if headID, ok := head.Lookup(name); ok && id == headID {
			continue
		}
		if stagedID, ok := r.State.Staging.Addition[name]; ok && id == stagedID {
			continue
		}
		r.Logger.Debug("working file in the way", "file", name)
		return ErrUntrackedFileConflict
	}
	return nil
}

// replaceWorkingTree makes the working directory match target: files tracked
// by current or staged for addition but absent from target are deleted, and
// every file target tracks is written.
func (r *Repo) replaceWorkingTree(current, target *object.Commit) error {
	var result *multierror.Error
	for _, name := range current.Filenames() {
		if _, keep := target.Lookup(name); !keep {
			if err := r.deleteWorkFile(name); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	for _, name := range r.State.Staging.Added() {
		if _, keep := target.Lookup(name); !keep {
			if err := r.deleteWorkFile(name); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	for _, name := range target.Filenames() {
		blob, err := r.getBlob(target.FileMap[name])
		if err != nil {
			return err
		}
		if err := r.writeWorkFile(name, blob.Contents); err != nil {
			return err
		}
	}
	return nil
}

// getBlob reads a blob that a commit refers to.
func (r *Repo) getBlob(id object.Hash) (*object.Blob, error) {
	blob, found, err := r.Store.GetBlob(id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("blob %s is missing from the object store", id)
	}
	return blob, nil
}
