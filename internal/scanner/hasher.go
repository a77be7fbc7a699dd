package scanner

import (
	"crypto/sha256"
	"io"
	"os"
)

// hashBufferSize is the chunk size for streaming file content into the
// digest. Files are never loaded whole into memory.
const hashBufferSize = 512 * 1024

// Hasher computes content digests for single files. Each Hasher owns one
// reusable read buffer, so a Hasher must not be shared across goroutines;
// the engine gives every pool worker its own.
type Hasher struct {
	buf []byte
}

// NewHasher creates a Hasher with its own read buffer
func NewHasher() *Hasher {
	return &Hasher{buf: make([]byte, hashBufferSize)}
}

// Hash computes the SHA-256 digest of the file at path, streaming in fixed
// chunks. Any open or read failure excludes the file from aggregation; the
// caller records it as skipped.
func (h *Hasher) Hash(path string) (Digest, error) {
	var d Digest

	f, err := os.Open(path)
	if err != nil {
		return d, err
	}
	defer f.Close()

	sum := sha256.New()
	if _, err := io.CopyBuffer(sum, f, h.buf); err != nil {
		return d, err
	}

	copy(d[:], sum.Sum(nil))
	return d, nil
}
