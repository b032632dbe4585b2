package repo

import (
	"errors"
	"testing"

	"github.com/odvcencio/gitlet/pkg/object"
)

// setupMergeRepo commits a.txt="A" on master and creates "feature" at that
// commit.
func setupMergeRepo(t *testing.T, opts ...Option) *Repo {
	t.Helper()
	r := newTestRepo(t, opts...)
	commitFile(t, r, "a.txt", "A", "c1")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch(feature): %v", err)
	}
	return r
}

func switchTo(t *testing.T, r *Repo, branch string) {
	t.Helper()
	if err := r.Checkout(CheckoutBranch{Branch: branch}); err != nil {
		t.Fatalf("Checkout(%s): %v", branch, err)
	}
}

func TestMerge_ConflictScenario(t *testing.T) {
	for _, strategy := range []string{MergeBaseLockstep, MergeBaseGeneration} {
		t.Run(strategy, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Merge.Base = strategy
			r := setupMergeRepo(t, WithConfig(cfg))

			head, _ := r.HeadCommit()
			if head.FileMap["a.txt"] != object.BlobID("a.txt", []byte("A")) {
				t.Fatalf("c1 fileMap = %v", head.FileMap)
			}

			switchTo(t, r, "feature")
			commitFile(t, r, "a.txt", "B", "c2")
			switchTo(t, r, "master")
			commitFile(t, r, "a.txt", "C", "c3")

			report, err := r.Merge("feature")
			if err != nil {
				t.Fatalf("Merge: %v", err)
			}
			if report.Outcome != MergeApplied || !report.HasConflicts {
				t.Fatalf("report = %+v, want applied with conflicts", report)
			}

			want := "<<<<<<< HEAD\nC\n=======\nB\n>>>>>>>\n"
			assertWork(t, r, "a.txt", want)
			staged := r.State.Staging.Addition["a.txt"]
			if staged != object.BlobID("a.txt", []byte(want)) {
				t.Fatalf("conflict blob not staged: %s", staged)
			}
			blob, found, err := r.Store.GetBlob(staged)
			if err != nil || !found || string(blob.Contents) != want {
				t.Fatalf("stored conflict blob = %v found=%v err=%v", blob, found, err)
			}
		})
	}
}

func TestMerge_ConflictWithDeletedSide(t *testing.T) {
	r := setupMergeRepo(t)
	switchTo(t, r, "feature")
	if err := r.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Commit("feature deletes"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	switchTo(t, r, "master")
	commitFile(t, r, "a.txt", "changed\n", "master edits")

	report, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !report.HasConflicts {
		t.Fatal("expected conflict")
	}
	assertWork(t, r, "a.txt", "<<<<<<< HEAD\nchanged\n=======\n>>>>>>>\n")
}

func TestMerge_TakesOtherAndRemoves(t *testing.T) {
	r := setupMergeRepo(t)
	commitFile(t, r, "gone.txt", "G", "c-base")
	if err := r.DeleteBranch("feature"); err != nil {
		t.Fatalf("DeleteBranch: %v", err)
	}
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	switchTo(t, r, "feature")
	writeWork(t, r, "a.txt", "A from feature")
	writeWork(t, r, "new.txt", "N")
	if err := r.Add("a.txt", "new.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove("gone.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Commit("feature work"); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	switchTo(t, r, "master")
	commitFile(t, r, "master.txt", "M", "master work")

	report, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.HasConflicts {
		t.Fatalf("unexpected conflicts: %+v", report.Files)
	}
	assertWork(t, r, "a.txt", "A from feature")
	assertWork(t, r, "new.txt", "N")
	assertWork(t, r, "master.txt", "M")
	assertNoWork(t, r, "gone.txt")

	stg := r.State.Staging
	if len(stg.Addition) != 2 || !stg.Removal["gone.txt"] {
		t.Fatalf("staging = %+v", stg)
	}

	mergeID, err := r.CommitMerge("Merged feature into master.", report.Given, nil)
	if err != nil {
		t.Fatalf("CommitMerge: %v", err)
	}
	mc, _, err := r.Store.GetCommit(mergeID)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}
	if mc.MergedParentID != r.State.Branches["feature"] {
		t.Errorf("merged parent = %s", mc.MergedParentID)
	}
	if len(mc.FileMap) != 3 {
		t.Errorf("merge commit tracks %v", mc.Filenames())
	}
}

func TestMerge_FastForward(t *testing.T) {
	r := setupMergeRepo(t)
	switchTo(t, r, "feature")
	tip := commitFile(t, r, "f.txt", "F", "feature ahead")
	switchTo(t, r, "master")

	commitsBefore, _ := r.Store.ListCommits()
	report, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.Outcome != MergeFastForward {
		t.Fatalf("Outcome = %v, want fast-forward", report.Outcome)
	}
	if r.State.CurrentBranch != "master" {
		t.Errorf("CurrentBranch = %q", r.State.CurrentBranch)
	}
	if r.State.Head != tip || r.State.Branches["master"] != tip {
		t.Fatalf("master = %s, want %s", r.State.Branches["master"], tip)
	}
	assertWork(t, r, "f.txt", "F")

	commitsAfter, _ := r.Store.ListCommits()
	if len(commitsAfter) != len(commitsBefore) {
		t.Fatal("fast-forward created a commit")
	}
}

func TestMerge_GivenIsAncestor(t *testing.T) {
	r := setupMergeRepo(t)
	h := commitFile(t, r, "m.txt", "M", "master ahead")

	report, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.Outcome != MergeAncestor {
		t.Fatalf("Outcome = %v, want ancestor", report.Outcome)
	}
	if r.State.Head != h || !r.State.Staging.IsEmpty() {
		t.Fatal("ancestor merge changed state")
	}
}

func TestMerge_Prechecks(t *testing.T) {
	r := setupMergeRepo(t)

	if _, err := r.Merge("ghost"); !errors.Is(err, ErrNoSuchBranch) {
		t.Errorf("unknown branch error = %v", err)
	}
	if _, err := r.Merge("master"); !errors.Is(err, ErrMergeWithSelf) {
		t.Errorf("self merge error = %v", err)
	}

	writeWork(t, r, "pending.txt", "P")
	if err := r.Add("pending.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Merge("feature"); !errors.Is(err, ErrUncommittedChanges) {
		t.Errorf("staged changes error = %v", err)
	}
}

func TestMerge_UntrackedFileInTheWay(t *testing.T) {
	r := setupMergeRepo(t)
	switchTo(t, r, "feature")
	commitFile(t, r, "x.txt", "feature", "feature adds x")
	switchTo(t, r, "master")
	commitFile(t, r, "m.txt", "M", "master diverges")

	writeWork(t, r, "x.txt", "mine")
	if _, err := r.Merge("feature"); !errors.Is(err, ErrUntrackedFileConflict) {
		t.Fatalf("Merge error = %v, want ErrUntrackedFileConflict", err)
	}
	assertWork(t, r, "x.txt", "mine")
	if !r.State.Staging.IsEmpty() {
		t.Fatal("refused merge staged changes")
	}
}

func TestMerge_SameChangeOnBothSides(t *testing.T) {
	r := setupMergeRepo(t)
	switchTo(t, r, "feature")
	commitFile(t, r, "a.txt", "same", "feature edit")
	switchTo(t, r, "master")
	commitFile(t, r, "a.txt", "same", "master edit")

	report, err := r.Merge("feature")
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if report.HasConflicts || len(report.Files) != 0 {
		t.Fatalf("report files = %+v, want none", report.Files)
	}
	if !r.State.Staging.IsEmpty() {
		t.Fatal("identical change staged something")
	}
	if _, err := r.CommitMerge("Merged feature into master.", report.Given, nil); err != nil {
		t.Fatalf("CommitMerge with empty staging: %v", err)
	}
}

func TestLockstepSplitPoint_UnevenHistories(t *testing.T) {
	r := setupMergeRepo(t)
	base := r.State.Head
	for i, content := range []string{"1", "2", "3", "4"} {
		commitFile(t, r, "m.txt", content, "master "+string(rune('a'+i)))
	}
	masterTip := r.State.Head
	switchTo(t, r, "feature")
	featureTip := commitFile(t, r, "f.txt", "F", "feature one")

	for _, pair := range [][2]object.Hash{{masterTip, featureTip}, {featureTip, masterTip}} {
		got, err := r.lockstepSplitPoint(pair[0], pair[1])
		if err != nil {
			t.Fatalf("lockstepSplitPoint: %v", err)
		}
		if got != base {
			t.Errorf("split(%s, %s) = %s, want %s", pair[0].Short(), pair[1].Short(), got.Short(), base.Short())
		}
	}
}

func TestRenderConflict(t *testing.T) {
	got := string(renderConflict([]byte("ours"), nil))
	want := "<<<<<<< HEAD\nours\n=======\n>>>>>>>\n"
	if got != want {
		t.Fatalf("renderConflict = %q, want %q", got, want)
	}
	got = string(renderConflict([]byte("a\n"), []byte("b\n")))
	if got != "<<<<<<< HEAD\na\n=======\nb\n>>>>>>>\n" {
		t.Fatalf("renderConflict added extra newlines: %q", got)
	}
}
