package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob:
//
//	filename X
//
//	<raw bytes>
func MarshalBlob(b *Blob) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "filename %s\n", b.Filename)
	buf.WriteByte('\n')
	buf.Write(b.Contents)
	return buf.Bytes()
}

// UnmarshalBlob parses a Blob from its serialized form.
func UnmarshalBlob(data []byte) (*Blob, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal blob: missing header/body separator")
	}
	key, val, ok := strings.Cut(string(data[:idx]), " ")
	if !ok || key != "filename" {
		return nil, fmt.Errorf("unmarshal blob: malformed header %q", data[:idx])
	}

	body := data[idx+2:]
	b := &Blob{Filename: val, Contents: make([]byte, len(body))}
	copy(b.Contents, body)
	return b, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit:
//
//	timestamp T
//	parent H     (omitted on the initial commit)
//	merge H      (merge commits only)
//	signature S  (optional)
//	file H name  (zero or more, sorted by name)
//
//	message
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "timestamp %d\n", c.Timestamp)
	if c.ParentID != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.ParentID)
	}
	if c.MergedParentID != "" {
		fmt.Fprintf(&buf, "merge %s\n", c.MergedParentID)
	}
	if strings.TrimSpace(c.Signature) != "" {
		fmt.Fprintf(&buf, "signature %s\n", c.Signature)
	}

	names := make([]string, 0, len(c.FileMap))
	for name := range c.FileMap {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&buf, "file %s %s\n", c.FileMap[name], name)
	}

	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &Commit{Message: message, FileMap: make(map[string]Hash)}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "timestamp":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: bad timestamp %q: %w", val, err)
			}
			c.Timestamp = ts
		case "parent":
			c.ParentID = Hash(val)
		case "merge":
			c.MergedParentID = Hash(val)
		case "signature":
			c.Signature = val
		case "file":
			blobID, name, ok := strings.Cut(val, " ")
			if !ok || name == "" {
				return nil, fmt.Errorf("unmarshal commit: malformed file entry %q", val)
			}
			c.FileMap[name] = Hash(blobID)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	return c, nil
}
