package repo

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/odvcencio/gitlet/pkg/object"
)

const zeroHash = "0000000000000000000000000000000000000000000000000000000000000000"

const reflogDir = "logs"

// ReflogEntry records one move of a branch pointer.
type ReflogEntry struct {
	Branch    string
	OldHash   object.Hash
	NewHash   object.Hash
	Timestamp int64
	Reason    string
}

// appendReflog queues an entry; Save writes it once the command succeeds.
func (r *Repo) appendReflog(branch string, oldHash, newHash object.Hash, reason string) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return
	}
	if strings.TrimSpace(reason) == "" {
		reason = "update"
	}
	r.pendingReflog = append(r.pendingReflog, ReflogEntry{
		Branch:    branch,
		OldHash:   oldHash,
		NewHash:   newHash,
		Timestamp: r.now().Unix(),
		Reason:    reason,
	})
}

// dropReflog queues removal of a deleted branch's log.
func (r *Repo) dropReflog(branch string) {
	r.droppedReflogs = append(r.droppedReflogs, branch)
	kept := r.pendingReflog[:0]
	for _, e := range r.pendingReflog {
		if e.Branch != branch {
			kept = append(kept, e)
		}
	}
	r.pendingReflog = kept
}

func reflogPath(branch string) string {
	return path.Join(reflogDir, branch)
}

func (r *Repo) writeReflogEntry(e ReflogEntry) error {
	if err := r.Meta.MkdirAll(reflogDir, 0o755); err != nil {
		return fmt.Errorf("reflog mkdir: %w", err)
	}

	old := string(e.OldHash)
	if strings.TrimSpace(old) == "" {
		old = zeroHash
	}
	newVal := string(e.NewHash)
	if strings.TrimSpace(newVal) == "" {
		newVal = zeroHash
	}
	line := fmt.Sprintf("%s %s %d %s\n", old, newVal, e.Timestamp, e.Reason)

	f, err := r.Meta.OpenFile(reflogPath(e.Branch), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog open: %w", err)
	}
	defer f.Close()

	if _, err := f.Write([]byte(line)); err != nil {
		return fmt.Errorf("reflog write: %w", err)
	}
	return nil
}

func (r *Repo) removeReflog(branch string) error {
	if err := r.Meta.Remove(reflogPath(branch)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reflog remove: %w", err)
	}
	return nil
}

// ReadReflog returns the recorded moves of branch, newest first. An empty
// branch name means the current branch. limit <= 0 returns everything.
func (r *Repo) ReadReflog(branch string, limit int) ([]ReflogEntry, error) {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		branch = r.State.CurrentBranch
	}
	if _, ok := r.State.Branches[branch]; !ok {
		return nil, ErrNoSuchBranch
	}

	f, err := r.Meta.Open(reflogPath(branch))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w", err)
	}
	defer f.Close()

	var entries []ReflogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 4)
		if len(parts) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, ReflogEntry{
			Branch:    branch,
			OldHash:   object.Hash(parts[0]),
			NewHash:   object.Hash(parts[1]),
			Timestamp: ts,
			Reason:    parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	// Return newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
