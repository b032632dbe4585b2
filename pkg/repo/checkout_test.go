package repo

import (
	"errors"
	"testing"
)

func TestCheckoutFile_RestoresHeadVersion(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "A", "c1")
	writeWork(t, r, "a.txt", "local edit")
	writeWork(t, r, "b.txt", "B")
	if err := r.Add("b.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Checkout(CheckoutFile{Filename: "a.txt"}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	assertWork(t, r, "a.txt", "A")
	if _, ok := r.State.Staging.Addition["b.txt"]; !ok {
		t.Fatal("single-file checkout touched staging")
	}
}

func TestCheckoutFileAtCommit(t *testing.T) {
	r := newTestRepo(t)
	c1 := commitFile(t, r, "a.txt", "v1", "c1")
	commitFile(t, r, "a.txt", "v2", "c2")

	if err := r.Checkout(CheckoutFileAtCommit{CommitID: string(c1[:10]), Filename: "a.txt"}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	assertWork(t, r, "a.txt", "v1")

	err := r.Checkout(CheckoutFileAtCommit{CommitID: string(c1), Filename: "nope.txt"})
	if !errors.Is(err, ErrFileNotInCommit) {
		t.Fatalf("missing file error = %v, want ErrFileNotInCommit", err)
	}
	err = r.Checkout(CheckoutFileAtCommit{CommitID: "fffffffffff", Filename: "a.txt"})
	if !errors.Is(err, ErrAmbiguousOrNoSuchCommit) && !errors.Is(err, ErrNoSuchCommit) {
		t.Fatalf("unknown commit error = %v", err)
	}
}

func TestCheckoutBranch_ReplacesTree(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "shared.txt", "base", "c1")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	commitFile(t, r, "master-only.txt", "M", "c2")
	writeWork(t, r, "staged.txt", "S")
	if err := r.Add("staged.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := r.Checkout(CheckoutBranch{Branch: "feature"}); err != nil {
		t.Fatalf("Checkout(feature): %v", err)
	}
	if r.State.CurrentBranch != "feature" || r.State.Head != r.State.Branches["feature"] {
		t.Fatalf("state after checkout = %+v", r.State)
	}
	assertWork(t, r, "shared.txt", "base")
	assertNoWork(t, r, "master-only.txt")
	assertNoWork(t, r, "staged.txt")
	if !r.State.Staging.IsEmpty() {
		t.Fatal("staging not cleared by branch checkout")
	}

	if err := r.Checkout(CheckoutBranch{Branch: "master"}); err != nil {
		t.Fatalf("Checkout(master): %v", err)
	}
	assertWork(t, r, "master-only.txt", "M")
}

func TestCheckoutBranch_Errors(t *testing.T) {
	r := newTestRepo(t)
	if err := r.Checkout(CheckoutBranch{Branch: "master"}); !errors.Is(err, ErrAlreadyOnBranch) {
		t.Errorf("current branch error = %v, want ErrAlreadyOnBranch", err)
	}
	err := r.Checkout(CheckoutBranch{Branch: "ghost"})
	if !errors.Is(err, ErrNoSuchBranch) {
		t.Errorf("unknown branch error = %v, want ErrNoSuchBranch", err)
	}
	if UserMessage(err) != "No such branch exists." {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
}

func TestCheckoutBranch_UntrackedFileInTheWay(t *testing.T) {
	r := newTestRepo(t)
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if err := r.Checkout(CheckoutBranch{Branch: "feature"}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	commitFile(t, r, "f.txt", "feature version", "f1")
	if err := r.Checkout(CheckoutBranch{Branch: "master"}); err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	assertNoWork(t, r, "f.txt")

	writeWork(t, r, "f.txt", "my local file")
	before := *r.State
	err := r.Checkout(CheckoutBranch{Branch: "feature"})
	if !errors.Is(err, ErrUntrackedFileConflict) {
		t.Fatalf("Checkout error = %v, want ErrUntrackedFileConflict", err)
	}
	assertWork(t, r, "f.txt", "my local file")
	if r.State.CurrentBranch != before.CurrentBranch || r.State.Head != before.Head {
		t.Fatal("failed checkout mutated state")
	}

	// Identical contents are not in the way.
	writeWork(t, r, "f.txt", "feature version")
	if err := r.Checkout(CheckoutBranch{Branch: "feature"}); err != nil {
		t.Fatalf("Checkout with identical untracked file: %v", err)
	}
}

func TestCheckout_RoundTripReproducesContents(t *testing.T) {
	r := newTestRepo(t)
	files := map[string]string{
		"a.txt":       "alpha\n",
		"b.bin":       "\x00\x01\x02binary\xff",
		"spaces name": "with spaces",
		"empty":       "",
	}
	for name, content := range files {
		writeWork(t, r, name, content)
	}
	if err := r.Add("."); err != nil {
		t.Fatalf("Add: %v", err)
	}
	snap, err := r.Commit("snapshot")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	// Scribble over and delete everything, then restore.
	for name := range files {
		writeWork(t, r, name, "garbage")
	}
	if err := r.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Commit("wreck"); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := r.Reset(string(snap)); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	for name, content := range files {
		assertWork(t, r, name, content)
	}
}

func TestCheckoutBranch_UnsavedEditOfTrackedFile(t *testing.T) {
	r := newTestRepo(t)
	commitFile(t, r, "a.txt", "A", "c1")
	if err := r.CreateBranch("feature"); err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	commitFile(t, r, "a.txt", "B", "c2")
	writeWork(t, r, "a.txt", "local edit")

	if err := r.Checkout(CheckoutBranch{Branch: "feature"}); !errors.Is(err, ErrUntrackedFileConflict) {
		t.Fatalf("Checkout error = %v, want ErrUntrackedFileConflict", err)
	}
	assertWork(t, r, "a.txt", "local edit")

	// Contents matching HEAD are saved and may be replaced.
	writeWork(t, r, "a.txt", "B")
	switchTo(t, r, "feature")
	assertWork(t, r, "a.txt", "A")
}
