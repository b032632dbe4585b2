package object

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashLen is the length of a full hex-encoded identifier.
const HashLen = sha256.Size * 2

// HashBytes computes the raw SHA-256 hash of data and returns it as a
// lowercase hex-encoded Hash.
func HashBytes(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// HashObject computes the SHA-256 of the envelope "type len\0content".
func HashObject(objType ObjectType, data []byte) Hash {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	h := sha256.New()
	h.Write([]byte(header))
	h.Write(data)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// BlobID derives a blob identifier from a filename and its contents. The
// same filename and bytes always produce the same id, which is what makes
// repeated adds deduplicate in the store.
func BlobID(filename string, contents []byte) Hash {
	header := fmt.Sprintf("%s %s %d\x00", TypeBlob, filename, len(contents))
	h := sha256.New()
	h.Write([]byte(header))
	h.Write(contents)
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

// IsFullHash reports whether s is a complete lowercase hex identifier.
func IsFullHash(s string) bool {
	return len(s) == HashLen && isHex(s)
}

// IsHashPrefix reports whether s could be an abbreviation of an identifier.
func IsHashPrefix(s string) bool {
	return s != "" && len(s) <= HashLen && isHex(s)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
