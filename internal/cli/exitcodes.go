package cli

import (
	"errors"

	"github.com/yaklabco/texoutline/pkg/runner"
)

// Sentinel errors mapped to exit codes by ExitCode.
var (
	// ErrParseFailures is returned when at least one file failed to parse.
	ErrParseFailures = errors.New("parse failures")

	// ErrConfig wraps configuration loading and validation failures.
	ErrConfig = errors.New("failed to load configuration")

	// ErrUsage wraps invalid flag or argument combinations.
	ErrUsage = errors.New("invalid usage")

	// ErrNotFound is returned by locate when a path resolves to nothing.
	ErrNotFound = errors.New("no outline item at path")
)

// Exit codes for texoutline.
const (
	// ExitSuccess indicates every file parsed.
	ExitSuccess = 0

	// ExitParseErrors indicates at least one file failed to parse.
	ExitParseErrors = 1

	// ExitNotFound indicates a locate path resolved to nothing.
	ExitNotFound = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70
)

// ExitCodeFromResult determines the exit code of a run.
func ExitCodeFromResult(result *runner.Result) int {
	if result == nil || !result.HasFailures() {
		return ExitSuccess
	}
	return ExitParseErrors
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrParseFailures):
		return ExitParseErrors
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only signals an exit code and needs no log line.
func IsSilent(err error) bool {
	return errors.Is(err, ErrParseFailures)
}
