package cli

import (
	"errors"

	"github.com/yaklabco/gdasset/pkg/runner"
)

// Exit codes for gdasset.
const (
	// ExitSuccess indicates every document parsed and resolved cleanly.
	ExitSuccess = 0

	// ExitUnresolved indicates at least one reference has no matching resource.
	ExitUnresolved = 1

	// ExitTruncated indicates a document scan stopped at an unterminated
	// string (only with --strict).
	ExitTruncated = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrUnresolved is returned when references could not be resolved.
	ErrUnresolved = errors.New("unresolved references found")

	// ErrTruncated is returned in strict mode when a document was truncated.
	ErrTruncated = errors.New("truncated documents found")

	// ErrUnreadable is returned when some discovered files could not be read.
	ErrUnreadable = errors.New("unreadable documents found")
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func exitError(code int, err error) error {
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInternalError
}

// IsReportedIssue reports whether err only signals findings that were
// already printed.
func IsReportedIssue(err error) bool {
	return errors.Is(err, ErrUnresolved) || errors.Is(err, ErrTruncated) || errors.Is(err, ErrUnreadable)
}

// ResultError determines the command error for a finished run.
func ResultError(result *runner.Result, strict bool) error {
	if result == nil {
		return nil
	}

	switch {
	case result.HasUnresolved():
		return exitError(ExitUnresolved, ErrUnresolved)
	case strict && result.Stats.FilesTruncated > 0:
		return exitError(ExitTruncated, ErrTruncated)
	case result.HasErrors():
		return exitError(ExitIOError, ErrUnreadable)
	default:
		return nil
	}
}
