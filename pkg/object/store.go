package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	blobsDir   = "blobs"
	commitsDir = "commits"
)

// Store is a write-once content-addressed store of blobs and commits. Each
// object lives in its own file named by id: blobs/<id> and commits/<id>.
// There is no update or delete; writing an id that already exists is a
// no-op.
type Store struct {
	fs       billy.Filesystem
	compress bool
	log      *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompression makes new object writes zstd-compressed. Reads detect the
// encoding per object, so toggling this never strands existing objects.
func WithCompression(enabled bool) StoreOption {
	return func(s *Store) { s.compress = enabled }
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// NewStore creates a Store rooted at the given filesystem, normally the
// repository metadata directory. Object directories are created lazily on
// first write.
func NewStore(root billy.Filesystem, opts ...StoreOption) *Store {
	s := &Store{
		fs:  root,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func dirFor(objType ObjectType) string {
	if objType == TypeCommit {
		return commitsDir
	}
	return blobsDir
}

// objectPath returns the filesystem path for a given object.
func (s *Store) objectPath(objType ObjectType, h Hash) string {
	return path.Join(dirFor(objType), string(h))
}

// Has reports whether the store contains an object of the given type and id.
func (s *Store) Has(objType ObjectType, h Hash) bool {
	if !IsFullHash(string(h)) {
		return false
	}
	_, err := s.fs.Stat(s.objectPath(objType, h))
	return err == nil
}

// write stores payload under id. The on-disk format is "type len\0payload",
// optionally wrapped in a zstd frame. Writes are atomic: data is written to a
// temp file and then renamed into place.
func (s *Store) write(objType ObjectType, h Hash, payload []byte) error {
	// Fast path: already exists.
	if s.Has(objType, h) {
		return nil
	}

	envelope := fmt.Sprintf("%s %d\x00", objType, len(payload))
	raw := append([]byte(envelope), payload...)
	if s.compress {
		compressed, err := compressZstd(raw)
		if err != nil {
			return fmt.Errorf("object write compress: %w", err)
		}
		raw = compressed
	}

	dir := dirFor(objType)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := s.fs.TempFile(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("object write close: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.objectPath(objType, h)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("object write rename: %w", err)
	}

	s.log.Debug("object written", "type", objType, "id", h, "bytes", len(raw))
	return nil
}

// read retrieves the payload of an object. A missing object is reported as
// found=false with a nil error.
func (s *Store) read(objType ObjectType, h Hash) ([]byte, bool, error) {
	if !IsFullHash(string(h)) {
		return nil, false, nil
	}
	raw, err := util.ReadFile(s.fs, s.objectPath(objType, h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("object read %s: %w", h, err)
	}
	payload, err := decodeEnvelope(objType, raw)
	if err != nil {
		return nil, false, fmt.Errorf("object read %s: %w", h, err)
	}
	return payload, true, nil
}

func decodeEnvelope(want ObjectType, raw []byte) ([]byte, error) {
	if isZstdFrame(raw) {
		decoded, err := decompressZstd(raw)
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
		raw = decoded
	}

	// Parse envelope: "type len\0content"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return nil, fmt.Errorf("invalid format (no NUL)")
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid header %q", header)
	}
	if ObjectType(parts[0]) != want {
		return nil, fmt.Errorf("type mismatch: got %q, want %q", parts[0], want)
	}
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid length %q: %w", parts[1], err)
	}
	if len(content) != length {
		return nil, fmt.Errorf("length mismatch (header=%d, actual=%d)", length, len(content))
	}
	return content, nil
}

// ---------------------------------------------------------------------------
// Typed methods
// ---------------------------------------------------------------------------

// PutBlob stores a Blob and returns its id.
func (s *Store) PutBlob(b *Blob) (Hash, error) {
	h := b.ID()
	if err := s.write(TypeBlob, h, MarshalBlob(b)); err != nil {
		return "", err
	}
	return h, nil
}

// GetBlob reads a Blob by id. An unknown id yields found=false.
func (s *Store) GetBlob(h Hash) (*Blob, bool, error) {
	data, found, err := s.read(TypeBlob, h)
	if err != nil || !found {
		return nil, found, err
	}
	b, err := UnmarshalBlob(data)
	if err != nil {
		return nil, false, fmt.Errorf("blob %s: %w", h, err)
	}
	return b, true, nil
}

// PutCommit stores a Commit and returns its id.
func (s *Store) PutCommit(c *Commit) (Hash, error) {
	data := MarshalCommit(c)
	h := HashObject(TypeCommit, data)
	if err := s.write(TypeCommit, h, data); err != nil {
		return "", err
	}
	return h, nil
}

// GetCommit reads a Commit by id. An unknown id yields found=false.
func (s *Store) GetCommit(h Hash) (*Commit, bool, error) {
	data, found, err := s.read(TypeCommit, h)
	if err != nil || !found {
		return nil, found, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, false, fmt.Errorf("commit %s: %w", h, err)
	}
	return c, true, nil
}

// ListCommits returns the ids of every stored commit, sorted.
func (s *Store) ListCommits() ([]Hash, error) {
	return s.list(commitsDir)
}

// ListBlobs returns the ids of every stored blob, sorted.
func (s *Store) ListBlobs() ([]Hash, error) {
	return s.list(blobsDir)
}

func (s *Store) list(dir string) ([]Hash, error) {
	infos, err := s.fs.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var out []Hash
	for _, info := range infos {
		if info.IsDir() || !IsFullHash(info.Name()) {
			continue
		}
		out = append(out, Hash(info.Name()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ResolveCommitPrefix returns the unique stored commit id starting with
// prefix. ok is false when no commit or more than one commit matches.
func (s *Store) ResolveCommitPrefix(prefix string) (Hash, bool, error) {
	if !IsHashPrefix(prefix) {
		return "", false, nil
	}
	ids, err := s.ListCommits()
	if err != nil {
		return "", false, err
	}

	var match Hash
	count := 0
	for _, id := range ids {
		if strings.HasPrefix(string(id), prefix) {
			match = id
			count++
		}
	}
	if count != 1 {
		return "", false, nil
	}
	return match, true, nil
}
