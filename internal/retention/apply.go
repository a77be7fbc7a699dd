package retention

import (
	"os"
	"time"

	"github.com/fenilsonani/dupescan/internal/scanner"
)

// Status is the per-file result of applying retention
type Status int

const (
	StatusDeleted Status = iota
	StatusDryRun
	StatusFailed
)

// String returns a human-readable status
func (s Status) String() string {
	switch s {
	case StatusDeleted:
		return "deleted"
	case StatusDryRun:
		return "dry-run"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one deletion candidate
type Outcome struct {
	Path   string
	Size   int64
	Status Status
	Err    *DeletionError
}

// Options controls how retention is applied
type Options struct {
	DryRun bool
}

// Apply removes the deletion candidates that policy selects from every group
// in the report. Per-file failures never abort the batch; every candidate
// gets exactly one Outcome. Callers invoke this only after presenting the
// report and getting an explicit opt-in.
func Apply(report *scanner.ScanReport, policy Policy, opts Options) []Outcome {
	var outcomes []Outcome

	for _, group := range report.Groups {
		for _, fi := range policy.SelectDeletions(group) {
			outcome := Outcome{Path: fi.Path, Size: fi.Size}

			if opts.DryRun {
				outcome.Status = StatusDryRun
				outcomes = append(outcomes, outcome)
				continue
			}

			if err := deleteWithRetry(fi); err != nil {
				outcome.Status = StatusFailed
				outcome.Err = err
			} else {
				outcome.Status = StatusDeleted
			}
			outcomes = append(outcomes, outcome)
		}
	}

	return outcomes
}

// Summarize tallies outcomes for display
func Summarize(outcomes []Outcome) (removed int, freed int64, failed int) {
	for _, o := range outcomes {
		switch o.Status {
		case StatusDeleted, StatusDryRun:
			removed++
			freed += o.Size
		case StatusFailed:
			failed++
		}
	}
	return removed, freed, failed
}

// FailedErrors extracts the deletion errors from a batch of outcomes
func FailedErrors(outcomes []Outcome) []*DeletionError {
	var errs []*DeletionError
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errs
}

var retryDelays = []time.Duration{
	100 * time.Millisecond,
	500 * time.Millisecond,
	2 * time.Second,
}

// deleteWithRetry deletes a file, retrying transient in-use failures
func deleteWithRetry(fi scanner.FileInfo) *DeletionError {
	var lastErr *DeletionError

	for attempt := 0; ; attempt++ {
		lastErr = deleteOne(fi)
		if lastErr == nil || !lastErr.Retryable || attempt >= len(retryDelays) {
			return lastErr
		}
		time.Sleep(retryDelays[attempt])
	}
}

// deleteOne deletes a single file after re-checking it still looks like the
// file that was scanned. Lstat is used so a path that became a symlink to
// something else is never followed.
func deleteOne(fi scanner.FileInfo) *DeletionError {
	info, err := os.Lstat(fi.Path)
	if err != nil {
		return CategorizeError(fi.Path, err)
	}

	if info.IsDir() {
		return &DeletionError{Path: fi.Path, Reason: ErrorIsDirectory}
	}

	// A size change means the content is no longer what the scan grouped.
	// Symlinks are exempt: their lstat size is the target path length.
	if info.Mode().IsRegular() && info.Size() != fi.Size {
		return &DeletionError{Path: fi.Path, Reason: ErrorFileChanged}
	}

	if err := os.Remove(fi.Path); err != nil {
		return CategorizeError(fi.Path, err)
	}

	return nil
}
