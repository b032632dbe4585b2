package object

// CommitSigningPayload returns the canonical bytes that are signed for a
// commit. The signature field is blanked in the payload.
func CommitSigningPayload(c *Commit) []byte {
	if c == nil {
		return nil
	}
	copyCommit := *c
	copyCommit.Signature = ""
	return MarshalCommit(&copyCommit)
}
