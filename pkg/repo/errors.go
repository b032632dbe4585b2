package repo

import "errors"

// Kind names a user-facing failure category.
type Kind string

const (
	KindNotInitialized            Kind = "NotInitialized"
	KindAlreadyInitialized        Kind = "AlreadyInitialized"
	KindFileNotFound              Kind = "FileNotFound"
	KindNothingToCommit           Kind = "NothingToCommit"
	KindEmptyMessage              Kind = "EmptyMessage"
	KindNothingToRemove           Kind = "NothingToRemove"
	KindNoSuchCommit              Kind = "NoSuchCommit"
	KindAmbiguousOrNoSuchCommit   Kind = "AmbiguousOrNoSuchCommit"
	KindFileNotInCommit           Kind = "FileNotInCommit"
	KindNoSuchBranch              Kind = "NoSuchBranch"
	KindAlreadyOnBranch           Kind = "AlreadyOnBranch"
	KindCannotRemoveCurrentBranch Kind = "CannotRemoveCurrentBranch"
	KindBranchAlreadyExists       Kind = "BranchAlreadyExists"
	KindUntrackedFileConflict     Kind = "UntrackedFileConflict"
	KindUnknownCommand            Kind = "UnknownCommand"
	KindWrongArgumentCount        Kind = "WrongArgumentCount"
	KindMergeWithSelf             Kind = "MergeWithSelf"
	KindUncommittedChanges        Kind = "UncommittedChanges"
	KindNoCommitWithMessage       Kind = "NoCommitWithMessage"
)

// Error is a user-facing failure. Two Errors match under errors.Is when
// their kinds are equal, so a kind may carry more than one message.
type Error struct {
	kind Kind
	msg  string
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Kind returns the failure category.
func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.kind == e.kind
}

// withMessage returns an error of the same kind with a different message.
func (e *Error) withMessage(msg string) *Error {
	return &Error{kind: e.kind, msg: msg}
}

var (
	ErrNotInitialized            = newError(KindNotInitialized, "Not in an initialized Gitlet directory.")
	ErrAlreadyInitialized        = newError(KindAlreadyInitialized, "A Gitlet version-control system already exists in the current directory.")
	ErrFileNotFound              = newError(KindFileNotFound, "File does not exist.")
	ErrNothingToCommit           = newError(KindNothingToCommit, "No changes added to the commit.")
	ErrEmptyMessage              = newError(KindEmptyMessage, "Please enter a commit message.")
	ErrNothingToRemove           = newError(KindNothingToRemove, "No reason to remove the file.")
	ErrNoSuchCommit              = newError(KindNoSuchCommit, "No commit with that id exists.")
	ErrAmbiguousOrNoSuchCommit   = newError(KindAmbiguousOrNoSuchCommit, "No commit with that id exists.")
	ErrFileNotInCommit           = newError(KindFileNotInCommit, "File does not exist in that commit.")
	ErrNoSuchBranch              = newError(KindNoSuchBranch, "No such branch exists.")
	ErrAlreadyOnBranch           = newError(KindAlreadyOnBranch, "No need to checkout the current branch.")
	ErrCannotRemoveCurrentBranch = newError(KindCannotRemoveCurrentBranch, "Cannot remove the current branch.")
	ErrBranchAlreadyExists       = newError(KindBranchAlreadyExists, "A branch with that name already exists.")
	ErrUntrackedFileConflict     = newError(KindUntrackedFileConflict, "There is an untracked file in the way; delete it, or add and commit it first.")
	ErrUnknownCommand            = newError(KindUnknownCommand, "No command with that name exists.")
	ErrWrongArgumentCount        = newError(KindWrongArgumentCount, "Incorrect operands.")
	ErrMergeWithSelf             = newError(KindMergeWithSelf, "Cannot merge a branch with itself.")
	ErrUncommittedChanges        = newError(KindUncommittedChanges, "You have uncommitted changes.")
	ErrNoCommitWithMessage       = newError(KindNoCommitWithMessage, "Found no commit with that message.")
)

// errBranchDoesNotExist is the NoSuchBranch wording used by rm-branch and
// merge.
var errBranchDoesNotExist = ErrNoSuchBranch.withMessage("A branch with that name does not exist.")

// UserMessage returns the single line shown to a user for err. Known kinds
// print their canonical message even when wrapped; anything else prints the
// full error chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return err.Error()
}
