package repo

import "fmt"

// Reset moves the current branch to an arbitrary commit and replaces the
// working tree with its snapshot.
func (r *Repo) Reset(commitID string) error {
	id, target, err := r.ResolveCommit(commitID)
	if err != nil {
		return err
	}
	head, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := r.checkUntracked(head, target); err != nil {
		return err
	}
	if err := r.replaceWorkingTree(head, target); err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	old := r.State.Head
	r.State.Staging.Clear()
	r.State.moveHead(id)
	r.appendReflog(r.State.CurrentBranch, old, id, "reset: moving to "+string(id))
	return nil
}
