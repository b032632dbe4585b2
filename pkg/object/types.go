package object

import "sort"

// Hash is a 64-character hex-encoded SHA-256 digest.
type Hash string

// Short returns the abbreviated form used in merge log lines.
func (h Hash) Short() string {
	if len(h) > 7 {
		return string(h[:7])
	}
	return string(h)
}

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeCommit ObjectType = "commit"
)

// InitialCommitMessage is the message of the parentless root commit created
// by init. Its timestamp is always the Unix epoch.
const InitialCommitMessage = "initial commit"

// Blob is an immutable snapshot of one file's bytes at add time.
type Blob struct {
	Filename string
	Contents []byte
}

// ID returns the content identifier of the blob.
func (b *Blob) ID() Hash {
	return BlobID(b.Filename, b.Contents)
}

// Commit is an immutable snapshot of the whole tracked-file mapping. FileMap
// covers every tracked file at this point in history, not a diff against the
// parent.
type Commit struct {
	Message        string
	Timestamp      int64 // unix seconds
	ParentID       Hash  // empty only for the initial commit
	MergedParentID Hash  // set only on merge commits
	FileMap        map[string]Hash
	Signature      string
}

// NewInitialCommit returns the root commit every repository starts from.
func NewInitialCommit() *Commit {
	return &Commit{
		Message:   InitialCommitMessage,
		Timestamp: 0,
		FileMap:   make(map[string]Hash),
	}
}

// NewChildCommit returns a commit whose FileMap is a copy of the parent's.
// The caller applies staged mutations to the copy before storing it.
func NewChildCommit(parentID Hash, parent *Commit, message string, timestamp int64) *Commit {
	files := make(map[string]Hash, len(parent.FileMap))
	for name, h := range parent.FileMap {
		files[name] = h
	}
	return &Commit{
		Message:   message,
		Timestamp: timestamp,
		ParentID:  parentID,
		FileMap:   files,
	}
}

// ID returns the content identifier of the commit, derived from its full
// canonical serialization.
func (c *Commit) ID() Hash {
	return HashObject(TypeCommit, MarshalCommit(c))
}

// Lookup returns the blob id tracked under filename.
func (c *Commit) Lookup(filename string) (Hash, bool) {
	h, ok := c.FileMap[filename]
	return h, ok
}

// Filenames returns the tracked filenames in sorted order.
func (c *Commit) Filenames() []string {
	names := make([]string, 0, len(c.FileMap))
	for name := range c.FileMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsMerge reports whether the commit records a second parent.
func (c *Commit) IsMerge() bool {
	return c.MergedParentID != ""
}

// Parents returns the non-empty parent ids, first parent first.
func (c *Commit) Parents() []Hash {
	var out []Hash
	if c.ParentID != "" {
		out = append(out, c.ParentID)
	}
	if c.MergedParentID != "" {
		out = append(out, c.MergedParentID)
	}
	return out
}
