package repo

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/hashicorp/go-multierror"

	"github.com/odvcencio/gitlet/pkg/object"
)

// MetaDir is the name of the repository metadata directory inside the
// working directory.
const MetaDir = ".gitlet"

// Repo represents an opened Gitlet repository.
type Repo struct {
	Work   billy.Filesystem // working directory
	Meta   billy.Filesystem // .gitlet/ metadata directory
	Store  *object.Store    // content-addressed object store
	Config *Config
	State  *State
	Logger *slog.Logger

	now func() time.Time

	pendingReflog  []ReflogEntry
	droppedReflogs []string
}

// Option configures a Repo at Init or Open time.
type Option func(*options)

type options struct {
	log    *slog.Logger
	now    func() time.Time
	config *Config
}

// WithLogger routes engine diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock overrides the time source used for commit timestamps and
// reflog entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithConfig seeds the configuration written by Init. Open ignores it.
func WithConfig(cfg *Config) Option {
	return func(o *options) { o.config = cfg }
}

func buildOptions(opts []Option) *options {
	o := &options{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

func newRepo(work, meta billy.Filesystem, cfg *Config, o *options) *Repo {
	var storeOpts []object.StoreOption
	storeOpts = append(storeOpts, object.WithLogger(o.log))
	if cfg.Core.Compression == CompressionZstd {
		storeOpts = append(storeOpts, object.WithCompression(true))
	}
	return &Repo{
		Work:   work,
		Meta:   meta,
		Store:  object.NewStore(meta, storeOpts...),
		Config: cfg,
		Logger: o.log,
		now:    o.now,
	}
}

// Save persists the repository state and flushes queued reflog entries.
// Commands call it once, after their operation succeeded.
func (r *Repo) Save() error {
	if err := saveState(r.Meta, r.State); err != nil {
		return err
	}

	var result *multierror.Error
	for _, branch := range r.droppedReflogs {
		if err := r.removeReflog(branch); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, e := range r.pendingReflog {
		if err := r.writeReflogEntry(e); err != nil {
			result = multierror.Append(result, err)
		}
	}
	r.droppedReflogs = nil
	r.pendingReflog = nil
	return result.ErrorOrNil()
}

// HeadCommit loads the commit HEAD points at.
func (r *Repo) HeadCommit() (*object.Commit, error) {
	return r.mustGetCommit(r.State.Head)
}

// mustGetCommit reads a commit that repository state refers to; absence
// means the store and state disagree.
func (r *Repo) mustGetCommit(h object.Hash) (*object.Commit, error) {
	c, found, err := r.Store.GetCommit(h)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("commit %s referenced by repository state is missing", h)
	}
	return c, nil
}
