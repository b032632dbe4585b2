package repo

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/odvcencio/gitlet/pkg/object"
)

// MergeOutcome classifies how a merge resolved.
type MergeOutcome int

const (
	// MergeApplied means the per-file rules ran; the caller finalizes with
	// a merge commit.
	MergeApplied MergeOutcome = iota
	// MergeFastForward means the current branch moved to the given tip.
	MergeFastForward
	// MergeAncestor means the given branch was already contained in HEAD.
	MergeAncestor
)

// Per-file merge actions.
const (
	MergeActionTakeOther = "take-other"
	MergeActionRemove    = "remove"
	MergeActionConflict  = "conflict"
)

// FileMergeReport records the merge outcome for a single file. Files kept
// at the current version are not reported.
type FileMergeReport struct {
	Filename string
	Action   string
}

// MergeReport is the overall result of a repository-level merge.
type MergeReport struct {
	Outcome      MergeOutcome
	Branch       string
	SplitPoint   object.Hash
	Given        object.Hash // tip of the merged branch
	Files        []FileMergeReport
	HasConflicts bool
}

const (
	conflictStart = "<<<<<<< HEAD\n"
	conflictMid   = "=======\n"
	conflictEnd   = ">>>>>>>\n"
)

// Merge merges the named branch into the current branch.
//
// Algorithm:
//  1. Reject an unknown branch, the current branch, or pending staged changes
//  2. Find the split point of HEAD and the branch tip
//  3. If the tip is already an ancestor of HEAD, do nothing
//  4. Refuse if an untracked working file would be clobbered
//  5. If HEAD is the split point, fast-forward the current branch
//  6. Otherwise apply the three-way rule to every file in the split point,
//     HEAD or the tip, writing conflict files where both sides disagree
//
// Merge does not commit; the caller completes an applied merge with
// CommitMerge using report.Given as the merged parent.
func (r *Repo) Merge(branch string) (*MergeReport, error) {
	given, ok := r.State.Branches[branch]
	if !ok {
		return nil, errBranchDoesNotExist
	}
	if branch == r.State.CurrentBranch {
		return nil, ErrMergeWithSelf
	}
	if !r.State.Staging.IsEmpty() {
		return nil, ErrUncommittedChanges
	}

	headID := r.State.Head
	split, err := r.splitPoint(headID, given)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	r.Logger.Debug("merge split point", "head", headID, "given", given, "split", split, "strategy", r.Config.Merge.Base)

	report := &MergeReport{Branch: branch, SplitPoint: split, Given: given}
	if split == given {
		report.Outcome = MergeAncestor
		return report, nil
	}

	head, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	other, err := r.mustGetCommit(given)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	if err := r.checkUntracked(head, other); err != nil {
		return nil, err
	}

	if split == headID {
		if err := r.replaceWorkingTree(head, other); err != nil {
			return nil, fmt.Errorf("merge: fast-forward: %w", err)
		}
		r.State.Staging.Clear()
		r.State.moveHead(given)
		r.appendReflog(r.State.CurrentBranch, headID, given, "merge "+branch+": fast-forward")
		report.Outcome = MergeFastForward
		return report, nil
	}

	base, err := r.mustGetCommit(split)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	files, err := r.applyMergeRules(base, head, other)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	report.Outcome = MergeApplied
	report.Files = files
	for _, f := range files {
		if f.Action == MergeActionConflict {
			report.HasConflicts = true
			break
		}
	}
	return report, nil
}

// splitPoint picks the merge base according to merge.base.
func (r *Repo) splitPoint(head, given object.Hash) (object.Hash, error) {
	if r.Config.Merge.Base == MergeBaseGeneration {
		base, err := r.FindMergeBase(head, given)
		if err != nil {
			return "", err
		}
		if base == "" {
			return "", fmt.Errorf("no common ancestor of %s and %s", head, given)
		}
		return base, nil
	}
	return r.lockstepSplitPoint(head, given)
}

// lockstepSplitPoint walks the first-parent chains of both commits one step
// at a time. Each step records the newest node on each side, then checks
// whether the given side's node was already visited from HEAD, and then the
// reverse. The first hit is the split point.
func (r *Repo) lockstepSplitPoint(head, given object.Hash) (object.Hash, error) {
	visitedCur := make(map[object.Hash]bool)
	visitedOther := make(map[object.Hash]bool)
	cur, other := head, given

	for cur != "" || other != "" {
		if cur != "" {
			visitedCur[cur] = true
		}
		if other != "" {
			visitedOther[other] = true
		}
		if other != "" && visitedCur[other] {
			return other, nil
		}
		if cur != "" && visitedOther[cur] {
			return cur, nil
		}

		var err error
		if cur, err = r.firstParent(cur); err != nil {
			return "", err
		}
		if other, err = r.firstParent(other); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("no common ancestor of %s and %s", head, given)
}

func (r *Repo) firstParent(h object.Hash) (object.Hash, error) {
	if h == "" {
		return "", nil
	}
	c, err := r.mustGetCommit(h)
	if err != nil {
		return "", err
	}
	return c.ParentID, nil
}

// applyMergeRules evaluates the three-way rule for every filename in the
// split point, HEAD or the given commit:
//
//	current unchanged, other changed   -> take other (or remove if deleted)
//	current changed, other unchanged   -> keep current
//	both changed to the same result    -> keep current
//	both changed differently           -> conflict
//
// "Changed" compares blob ids against the split point, so a file absent
// there and added on one side counts as changed on that side only.
func (r *Repo) applyMergeRules(split, current, other *object.Commit) ([]FileMergeReport, error) {
	names := make(map[string]bool)
	for _, c := range []*object.Commit{split, current, other} {
		for name := range c.FileMap {
			names[name] = true
		}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	stg := r.State.Staging
	var files []FileMergeReport
	for _, name := range sorted {
		s, inS := split.Lookup(name)
		c, inC := current.Lookup(name)
		o, inO := other.Lookup(name)
		currentChanged := inS != inC || s != c
		otherChanged := inS != inO || s != o

		switch {
		case !otherChanged:
			continue
		case !currentChanged && inO:
			blob, err := r.getBlob(o)
			if err != nil {
				return nil, err
			}
			if err := r.writeWorkFile(name, blob.Contents); err != nil {
				return nil, err
			}
			stg.StageAddition(name, o)
			files = append(files, FileMergeReport{Filename: name, Action: MergeActionTakeOther})
		case !currentChanged:
			stg.StageRemoval(name)
			if err := r.deleteWorkFile(name); err != nil {
				return nil, err
			}
			files = append(files, FileMergeReport{Filename: name, Action: MergeActionRemove})
		case inC == inO && c == o:
			continue
		default:
			if err := r.writeConflict(name, c, inC, o, inO); err != nil {
				return nil, err
			}
			files = append(files, FileMergeReport{Filename: name, Action: MergeActionConflict})
		}
	}
	return files, nil
}

// writeConflict stores and stages a conflict blob framing both sides and
// writes it to the working directory. A deleted side contributes nothing.
func (r *Repo) writeConflict(name string, cur object.Hash, inCur bool, other object.Hash, inOther bool) error {
	var curContents, otherContents []byte
	if inCur {
		blob, err := r.getBlob(cur)
		if err != nil {
			return err
		}
		curContents = blob.Contents
	}
	if inOther {
		blob, err := r.getBlob(other)
		if err != nil {
			return err
		}
		otherContents = blob.Contents
	}

	contents := renderConflict(curContents, otherContents)
	id, err := r.Store.PutBlob(&object.Blob{Filename: name, Contents: contents})
	if err != nil {
		return err
	}
	if err := r.writeWorkFile(name, contents); err != nil {
		return err
	}
	r.State.Staging.StageAddition(name, id)
	r.Logger.Debug("merge conflict", "file", name, "blob", id)
	return nil
}

// renderConflict frames both sides in conflict markers. A non-empty side
// that lacks a trailing newline gets one so every marker starts a line.
func renderConflict(current, other []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(conflictStart)
	writeConflictSide(&buf, current)
	buf.WriteString(conflictMid)
	writeConflictSide(&buf, other)
	buf.WriteString(conflictEnd)
	return buf.Bytes()
}

func writeConflictSide(buf *bytes.Buffer, side []byte) {
	buf.Write(side)
	if len(side) > 0 && side[len(side)-1] != '\n' {
		buf.WriteByte('\n')
	}
}
