package repo

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/odvcencio/gitlet/pkg/object"
)

// Init creates a new repository in the working filesystem: the .gitlet/
// directory, a config file, the initial commit and a state record with the
// default branch pointing at it. Returns ErrAlreadyInitialized if .gitlet/
// already exists.
func Init(work billy.Filesystem, opts ...Option) (*Repo, error) {
	if _, err := work.Stat(MetaDir); err == nil {
		return nil, ErrAlreadyInitialized
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("init: stat %s: %w", MetaDir, err)
	}

	o := buildOptions(opts)
	cfg := DefaultConfig()
	if o.config != nil {
		c := *o.config
		c.fillDefaults()
		cfg = &c
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	if err := work.MkdirAll(MetaDir, 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", MetaDir, err)
	}
	meta, err := work.Chroot(MetaDir)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := WriteConfig(meta, cfg); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	r := newRepo(work, meta, cfg, o)
	rootID, err := r.Store.PutCommit(object.NewInitialCommit())
	if err != nil {
		return nil, fmt.Errorf("init: write initial commit: %w", err)
	}

	branch := cfg.Core.DefaultBranch
	r.State = newState(branch, rootID)
	r.appendReflog(branch, "", rootID, "init")
	if err := r.Save(); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	r.Logger.Debug("repository initialized", "branch", branch, "root", rootID)
	return r, nil
}

// Open opens the repository whose .gitlet/ directory sits directly in the
// working filesystem. Returns ErrNotInitialized if there is none.
func Open(work billy.Filesystem, opts ...Option) (*Repo, error) {
	info, err := work.Stat(MetaDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("open: stat %s: %w", MetaDir, err)
	}
	if !info.IsDir() {
		return nil, ErrNotInitialized
	}

	meta, err := work.Chroot(MetaDir)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	cfg, err := ReadConfig(meta)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	r := newRepo(work, meta, cfg, buildOptions(opts))
	st, err := loadState(meta)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r.State = st
	return r, nil
}

// InitAt initializes a repository in the directory dir on the host
// filesystem.
func InitAt(dir string, opts ...Option) (*Repo, error) {
	return Init(osfs.New(dir), opts...)
}

// OpenAt opens the repository in the directory dir on the host filesystem.
func OpenAt(dir string, opts ...Option) (*Repo, error) {
	return Open(osfs.New(dir), opts...)
}
