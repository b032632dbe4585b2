package repo

import (
	"errors"
	"testing"
)

func TestResetUnstagesToHead(t *testing.T) {
	r := newTestRepo(t)
	head := commitFile(t, r, "a.txt", "A1", "c1")

	writeWork(t, r, "a.txt", "A2")
	writeWork(t, r, "new.txt", "N")
	if err := r.Add("a.txt", "new.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if r.State.Staging.IsEmpty() {
		t.Fatal("expected staged changes before reset")
	}

	if err := r.Reset(string(head)[:8]); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !r.State.Staging.IsEmpty() {
		t.Fatalf("staging after reset = %+v", r.State.Staging)
	}
	assertWork(t, r, "a.txt", "A1")
	// Files staged for addition but absent from the target are removed.
	assertNoWork(t, r, "new.txt")

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(st.Staged)+len(st.Unstaged)+len(st.Untracked) != 0 {
		t.Fatalf("status after reset = %+v", st)
	}
}

func TestReset(t *testing.T) {
	r := newTestRepo(t)
	c1 := commitFile(t, r, "a.txt", "A1", "c1")
	commitFile(t, r, "b.txt", "B", "c2")
	commitFile(t, r, "a.txt", "A2", "c3")

	if err := r.Reset(string(c1)); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if r.State.Head != c1 || r.State.Branches["master"] != c1 {
		t.Fatalf("HEAD=%s master=%s, want %s", r.State.Head, r.State.Branches["master"], c1)
	}
	assertWork(t, r, "a.txt", "A1")
	assertNoWork(t, r, "b.txt")
	if !r.State.Staging.IsEmpty() {
		t.Fatal("staging not cleared by reset")
	}

	if err := r.Reset("0000000000000000000000000000000000000000000000000000000000000001"); !errors.Is(err, ErrNoSuchCommit) {
		t.Fatalf("Reset unknown error = %v, want ErrNoSuchCommit", err)
	}
}

func TestReset_UntrackedFileInTheWay(t *testing.T) {
	r := newTestRepo(t)
	root := r.State.Head
	c1 := commitFile(t, r, "a.txt", "A", "c1")
	if err := r.Reset(string(root)); err != nil {
		t.Fatalf("Reset(root): %v", err)
	}
	writeWork(t, r, "a.txt", "untracked")

	if err := r.Reset(string(c1)); !errors.Is(err, ErrUntrackedFileConflict) {
		t.Fatalf("Reset error = %v, want ErrUntrackedFileConflict", err)
	}
	if r.State.Head != root {
		t.Fatal("failed reset moved HEAD")
	}
}

func TestReset_UnsavedEditOfTrackedFile(t *testing.T) {
	r := newTestRepo(t)
	c1 := commitFile(t, r, "a.txt", "A", "c1")
	c2 := commitFile(t, r, "a.txt", "B", "c2")
	writeWork(t, r, "a.txt", "local edit")

	if err := r.Reset(string(c1)); !errors.Is(err, ErrUntrackedFileConflict) {
		t.Fatalf("Reset error = %v, want ErrUntrackedFileConflict", err)
	}
	assertWork(t, r, "a.txt", "local edit")
	if r.State.Head != c2 {
		t.Fatal("failed reset moved HEAD")
	}

	// Once staged, the edit is saved and may be replaced.
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Reset(string(c1)); err != nil {
		t.Fatalf("Reset after staging: %v", err)
	}
	assertWork(t, r, "a.txt", "A")
}
