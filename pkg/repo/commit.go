package repo

import (
	"fmt"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
)

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be persisted in Commit.Signature.
type CommitSigner func(payload []byte) (string, error)

// LogEntry pairs a commit with its id.
type LogEntry struct {
	ID     object.Hash
	Commit *object.Commit
}

// Commit records the staged changes as a new child of HEAD.
func (r *Repo) Commit(message string) (object.Hash, error) {
	return r.CommitWithSigner(message, nil)
}

// CommitWithSigner creates a new commit and signs it when signer is provided.
func (r *Repo) CommitWithSigner(message string, signer CommitSigner) (object.Hash, error) {
	return r.commit(message, "", signer)
}

// CommitMerge completes a merge: the new commit's second parent is the
// given branch tip. Unlike a regular commit it may be created with an empty
// staging index.
func (r *Repo) CommitMerge(message string, mergedParent object.Hash, signer CommitSigner) (object.Hash, error) {
	if mergedParent == "" {
		return "", fmt.Errorf("commit merge: missing merged parent")
	}
	return r.commit(message, mergedParent, signer)
}

// commit builds the child commit:
//
//  1. Reject a blank message, then an empty staging index (non-merge only)
//  2. Copy HEAD's file map, upsert additions, drop removals
//  3. Sign if requested, store, clear staging
//  4. Move the current branch and HEAD to the new id
func (r *Repo) commit(message string, mergedParent object.Hash, signer CommitSigner) (object.Hash, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrEmptyMessage
	}
	stg := r.State.Staging
	if stg.IsEmpty() && mergedParent == "" {
		return "", ErrNothingToCommit
	}

	parentID := r.State.Head
	parent, err := r.mustGetCommit(parentID)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	c := object.NewChildCommit(parentID, parent, message, r.now().Unix())
	c.MergedParentID = mergedParent
	for name, blobID := range stg.Addition {
		c.FileMap[name] = blobID
	}
	for name := range stg.Removal {
		delete(c.FileMap, name)
	}

	if signer != nil {
		signature, err := signer(object.CommitSigningPayload(c))
		if err != nil {
			return "", fmt.Errorf("commit: sign commit: %w", err)
		}
		c.Signature = signature
	}

	id, err := r.Store.PutCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: write commit: %w", err)
	}

	stg.Clear()
	r.State.moveHead(id)

	reason := "commit: " + firstLine(message)
	if mergedParent != "" {
		reason = "commit (merge): " + firstLine(message)
	}
	r.appendReflog(r.State.CurrentBranch, parentID, id, reason)
	r.Logger.Debug("commit created", "id", id, "parent", parentID, "merge_parent", mergedParent, "files", len(c.FileMap))
	return id, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// Log walks the first-parent chain from HEAD back to the initial commit,
// newest first.
func (r *Repo) Log() ([]LogEntry, error) {
	var entries []LogEntry
	seen := make(map[object.Hash]bool)
	for cur := r.State.Head; cur != ""; {
		if seen[cur] {
			return nil, fmt.Errorf("log: commit graph cycle at %s", cur)
		}
		seen[cur] = true

		c, err := r.mustGetCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		entries = append(entries, LogEntry{ID: cur, Commit: c})
		cur = c.ParentID
	}
	return entries, nil
}

// GlobalLog returns every commit ever stored, ordered by id.
func (r *Repo) GlobalLog() ([]LogEntry, error) {
	ids, err := r.Store.ListCommits()
	if err != nil {
		return nil, fmt.Errorf("global-log: %w", err)
	}
	entries := make([]LogEntry, 0, len(ids))
	for _, id := range ids {
		c, err := r.mustGetCommit(id)
		if err != nil {
			return nil, fmt.Errorf("global-log: %w", err)
		}
		entries = append(entries, LogEntry{ID: id, Commit: c})
	}
	return entries, nil
}

// Find returns the ids of all commits whose message equals message.
func (r *Repo) Find(message string) ([]object.Hash, error) {
	entries, err := r.GlobalLog()
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	var ids []object.Hash
	for _, e := range entries {
		if e.Commit.Message == message {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoCommitWithMessage
	}
	return ids, nil
}

// ResolveCommit turns a full or abbreviated id into a stored commit. A
// full-length id that is not stored fails with ErrNoSuchCommit; a shorter
// id must match exactly one stored commit or fails with
// ErrAmbiguousOrNoSuchCommit.
func (r *Repo) ResolveCommit(id string) (object.Hash, *object.Commit, error) {
	id = strings.TrimSpace(id)
	var h object.Hash
	if len(id) >= object.HashLen {
		h = object.Hash(id)
	} else {
		resolved, ok, err := r.Store.ResolveCommitPrefix(id)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			return "", nil, ErrAmbiguousOrNoSuchCommit
		}
		h = resolved
	}

	c, found, err := r.Store.GetCommit(h)
	if err != nil {
		return "", nil, err
	}
	if !found {
		return "", nil, ErrNoSuchCommit
	}
	return h, c, nil
}
