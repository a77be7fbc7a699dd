package retention

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		reason    ErrorReason
		retryable bool
	}{
		{"EACCES", syscall.EACCES, ErrorPermissionDenied, false},
		{"EPERM", syscall.EPERM, ErrorPermissionDenied, false},
		{"ENOENT", syscall.ENOENT, ErrorFileNotFound, false},
		{"EBUSY", syscall.EBUSY, ErrorFileInUse, true},
		{"ETXTBSY", syscall.ETXTBSY, ErrorFileInUse, true},
		{"EISDIR", syscall.EISDIR, ErrorIsDirectory, false},
		{"wrapped EACCES", fmt.Errorf("remove failed: %w", syscall.EACCES), ErrorPermissionDenied, false},
		{"PathError EBUSY", &os.PathError{Op: "remove", Path: "/f", Err: syscall.EBUSY}, ErrorFileInUse, true},
		{"os.ErrNotExist", os.ErrNotExist, ErrorFileNotFound, false},
		{"os.ErrPermission", os.ErrPermission, ErrorPermissionDenied, false},
		{"generic", errors.New("boom"), ErrorUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delErr := CategorizeError("/some/path", tt.err)
			if delErr.Reason != tt.reason {
				t.Errorf("reason = %v, want %v", delErr.Reason, tt.reason)
			}
			if delErr.Retryable != tt.retryable {
				t.Errorf("retryable = %v, want %v", delErr.Retryable, tt.retryable)
			}
			if delErr.Path != "/some/path" {
				t.Errorf("path = %q", delErr.Path)
			}
		})
	}
}

func TestCategorizeErrorNil(t *testing.T) {
	if got := CategorizeError("/p", nil); got != nil {
		t.Errorf("CategorizeError(nil) = %v, want nil", got)
	}
}

func TestDeletionErrorUnwrap(t *testing.T) {
	delErr := CategorizeError("/p", &os.PathError{Op: "remove", Path: "/p", Err: syscall.ENOENT})
	if !errors.Is(delErr, syscall.ENOENT) {
		t.Error("errors.Is through DeletionError failed")
	}
}

func TestFormatErrorSummary(t *testing.T) {
	errs := []*DeletionError{
		{Path: "/a", Reason: ErrorPermissionDenied},
		{Path: "/b", Reason: ErrorPermissionDenied},
		{Path: "/c", Reason: ErrorFileInUse},
	}

	summary := FormatErrorSummary(errs)
	if !strings.Contains(summary, "Permission denied: 2 files") {
		t.Errorf("summary missing permission line: %q", summary)
	}
	if !strings.Contains(summary, "File in use: 1 files") {
		t.Errorf("summary missing in-use line: %q", summary)
	}

	if got := FormatErrorSummary(nil); got != "" {
		t.Errorf("empty summary = %q, want empty string", got)
	}
}
