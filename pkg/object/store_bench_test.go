package object

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
)

var marshalBlobBenchmarkSink []byte

// BenchmarkStorePutBlobSmall benchmarks storing distinct 100-byte blobs.
func BenchmarkStorePutBlobSmall(b *testing.B) {
	benchmarkPutBlob(b, 100)
}

// BenchmarkStorePutBlobLarge benchmarks storing distinct 100KB blobs.
func BenchmarkStorePutBlobLarge(b *testing.B) {
	benchmarkPutBlob(b, 100*1024)
}

func benchmarkPutBlob(b *testing.B, size int) {
	s := NewStore(memfs.New())

	// Distinct payloads so each write misses the Has() fast path.
	payloads := make([][]byte, b.N)
	for i := range payloads {
		buf := make([]byte, size)
		if _, err := rand.Read(buf); err != nil {
			b.Fatalf("rand.Read: %v", err)
		}
		payloads[i] = buf
	}

	b.ReportAllocs()
	b.SetBytes(int64(size))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.PutBlob(&Blob{Filename: "bench.bin", Contents: payloads[i]}); err != nil {
			b.Fatalf("PutBlob: %v", err)
		}
	}
}

func BenchmarkStoreGetBlob(b *testing.B) {
	for _, compressed := range []bool{false, true} {
		b.Run(fmt.Sprintf("compressed=%v", compressed), func(b *testing.B) {
			s := NewStore(memfs.New(), WithCompression(compressed))
			payload := bytes.Repeat([]byte("package main\n\nfunc main() { println(\"hello\") }\n"), 64)
			id, err := s.PutBlob(&Blob{Filename: "main.go", Contents: payload})
			if err != nil {
				b.Fatalf("PutBlob: %v", err)
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, _, err := s.GetBlob(id); err != nil {
					b.Fatalf("GetBlob: %v", err)
				}
			}
		})
	}
}

func BenchmarkMarshalBlobLarge(b *testing.B) {
	blob := &Blob{Filename: "large.bin", Contents: bytes.Repeat([]byte{'x'}, 8<<20)}

	b.ReportAllocs()
	b.SetBytes(int64(len(blob.Contents)))
	for i := 0; i < b.N; i++ {
		marshalBlobBenchmarkSink = MarshalBlob(blob)
	}
}
