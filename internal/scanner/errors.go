package scanner

import "fmt"

// SkipReason categorizes why a file was excluded from a scan
type SkipReason int

const (
	// SkipAccess means the walker could not read the entry or its directory
	SkipAccess SkipReason = iota
	// SkipHash means the file could not be opened or read while hashing,
	// typically because it vanished between discovery and hashing
	SkipHash
)

// String returns a human-readable skip reason
func (r SkipReason) String() string {
	switch r {
	case SkipAccess:
		return "access denied"
	case SkipHash:
		return "hash failed"
	default:
		return "unknown"
	}
}

// MarshalText renders the reason for JSON and YAML reports
func (r SkipReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// InvalidRootError is the only fatal scan error: the root path does not exist
// or is not a directory. It aborts the scan before any walking happens.
type InvalidRootError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid scan root %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid scan root %s", e.Path)
}

// Unwrap returns the underlying cause
func (e *InvalidRootError) Unwrap() error {
	return e.Err
}
