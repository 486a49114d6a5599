package treesync

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"github.com/arthur-debert/treesync/pkg/treesync/filesystem"
)

// --- Error Types ---

// ConfigError represents an invalid run configuration.
type ConfigError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// PipelineError represents a pass that could not be ordered or run.
type PipelineError struct {
	Pass   string
	Reason string
	Cause  error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pass %s: %s: %v", e.Pass, e.Reason, e.Cause)
	}
	return fmt.Sprintf("pass %s: %s", e.Pass, e.Reason)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// IsFilesystemCondition reports whether err is a filesystem-level
// condition on a specific entry (access denied, vanished entry, symlink
// loop, wrong entry kind) as opposed to a generic I/O failure.
func IsFilesystemCondition(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, fs.ErrPermission),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, filesystem.ErrNotDirectory),
		errors.Is(err, syscall.ELOOP),
		errors.Is(err, syscall.ENOTDIR):
		return true
	default:
		return false
	}
}
