package object

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// VerifyReport summarizes a successful integrity scan.
type VerifyReport struct {
	Blobs   int
	Commits int
}

// Verify re-derives the id of every stored object from its content and
// checks that commits only reference objects present in the store. All
// problems found are returned together.
func (s *Store) Verify() (*VerifyReport, error) {
	report := &VerifyReport{}
	var result *multierror.Error

	blobIDs, err := s.ListBlobs()
	if err != nil {
		return nil, err
	}
	for _, h := range blobIDs {
		b, found, err := s.GetBlob(h)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if !found {
			result = multierror.Append(result, fmt.Errorf("blob %s: listed but unreadable", h))
			continue
		}
		if got := b.ID(); got != h {
			result = multierror.Append(result, fmt.Errorf("blob %s: content hashes to %s", h, got))
			continue
		}
		report.Blobs++
	}

	commitIDs, err := s.ListCommits()
	if err != nil {
		return nil, err
	}
	for _, h := range commitIDs {
		c, found, err := s.GetCommit(h)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if !found {
			result = multierror.Append(result, fmt.Errorf("commit %s: listed but unreadable", h))
			continue
		}
		if got := c.ID(); got != h {
			result = multierror.Append(result, fmt.Errorf("commit %s: content hashes to %s", h, got))
			continue
		}
		for _, p := range c.Parents() {
			if !s.Has(TypeCommit, p) {
				result = multierror.Append(result, fmt.Errorf("commit %s: missing parent %s", h, p))
			}
		}
		for _, name := range c.Filenames() {
			if blobID := c.FileMap[name]; !s.Has(TypeBlob, blobID) {
				result = multierror.Append(result, fmt.Errorf("commit %s: missing blob %s for %q", h, blobID, name))
			}
		}
		report.Commits++
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return report, nil
}
