package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/odvcencio/gitlet/pkg/object"
)

const stateFile = "state"

// State is the mutable repository record: where HEAD points, which branch
// is active, every branch tip, and the staging index. It is loaded once per
// command and persisted only after the command succeeds.
type State struct {
	Head          object.Hash            `json:"head"`
	CurrentBranch string                 `json:"current_branch"`
	Branches      map[string]object.Hash `json:"branches"`
	Staging       *Staging               `json:"staging"`
}

func newState(branch string, head object.Hash) *State {
	return &State{
		Head:          head,
		CurrentBranch: branch,
		Branches:      map[string]object.Hash{branch: head},
		Staging:       NewStaging(),
	}
}

func loadState(meta billy.Filesystem) (*State, error) {
	data, err := util.ReadFile(meta, stateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read state: %w", ErrNotInitialized)
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("read state: unmarshal: %w", err)
	}
	if st.Branches == nil {
		st.Branches = make(map[string]object.Hash)
	}
	if st.Staging == nil {
		st.Staging = NewStaging()
	}
	st.Staging.normalize()
	if tip, ok := st.Branches[st.CurrentBranch]; !ok || tip != st.Head {
		return nil, fmt.Errorf("read state: branch %q does not point at HEAD %s", st.CurrentBranch, st.Head)
	}
	return &st, nil
}

func saveState(meta billy.Filesystem, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("write state: marshal: %w", err)
	}
	if err := writeFileAtomic(meta, stateFile, data); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// moveHead points both HEAD and the current branch at h.
func (st *State) moveHead(h object.Hash) {
	st.Head = h
	st.Branches[st.CurrentBranch] = h
}
