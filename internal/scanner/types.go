package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// FileInfo describes a regular file found during the walk. It is created by
// the Walker and never mutated afterwards.
type FileInfo struct {
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Digest is a SHA-256 content digest. Files sharing a Digest are treated as
// duplicates; no byte-level re-verification follows a digest match.
type Digest [sha256.Size]byte

// String returns the digest as lowercase hex
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText renders the digest as hex for JSON and YAML reports
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a hex digest
func (d *Digest) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	if len(b) != sha256.Size {
		return fmt.Errorf("digest must be %d bytes, got %d", sha256.Size, len(b))
	}
	copy(d[:], b)
	return nil
}

// DuplicateGroup is a set of two or more files sharing a digest. Members are
// ordered by discovery order; the first member is the retention original.
type DuplicateGroup struct {
	Digest  Digest     `json:"digest" yaml:"digest"`
	Members []FileInfo `json:"members" yaml:"members"`
}

// WastedBytes returns the bytes occupied by every member beyond the first
func (g DuplicateGroup) WastedBytes() int64 {
	var total int64
	for _, m := range g.Members[1:] {
		total += m.Size
	}
	return total
}

// SkippedFile records a file or directory excluded from the scan by a
// non-fatal failure.
type SkippedFile struct {
	Path   string     `json:"path" yaml:"path"`
	Reason SkipReason `json:"reason" yaml:"reason"`
	Detail string     `json:"detail,omitempty" yaml:"detail,omitempty"`
	Err    error      `json:"-" yaml:"-"`
}

// ScanReport is the immutable result of one completed scan. It is the only
// artifact the engine exposes to reporting and deletion.
type ScanReport struct {
	Root                string           `json:"root" yaml:"root"`
	Groups              []DuplicateGroup `json:"groups" yaml:"groups"`
	TotalFiles          int              `json:"total_files" yaml:"total_files"`
	TotalBytes          int64            `json:"total_bytes" yaml:"total_bytes"`
	TotalDuplicateBytes int64            `json:"total_duplicate_bytes" yaml:"total_duplicate_bytes"`
	Skipped             []SkippedFile    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Duration            time.Duration    `json:"duration_ns" yaml:"duration_ns"`
}

// DuplicateFiles returns the number of members beyond the first across all groups
func (r *ScanReport) DuplicateFiles() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Members) - 1
	}
	return n
}
