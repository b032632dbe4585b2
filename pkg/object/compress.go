package object

import (
	"bytes"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame magic number at the start of every zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// compressZstd compresses data using zstd.
func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// decompressZstd decompresses zstd-compressed data.
func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// isZstdFrame reports whether raw starts with a zstd frame. Uncompressed
// objects always start with a type name, so the two never collide.
func isZstdFrame(raw []byte) bool {
	return bytes.HasPrefix(raw, zstdMagic)
}
