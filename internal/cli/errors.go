package cli

import (
	"errors"

	"github.com/specialistvlad/pbxgraph/internal/config"
	"github.com/specialistvlad/pbxgraph/internal/xcodeproj"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
	// ExitNotFound means the path did not name a readable project.
	ExitNotFound = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Message: err.Error(), Err: err}
}

// classify attaches an exit code to err unless it already carries one.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	code := ExitFailure
	switch {
	case errors.Is(err, config.ErrInvalid):
		code = ExitUsage
	case errors.Is(err, xcodeproj.ErrNotXcodeproj), errors.Is(err, xcodeproj.ErrMissingPbxproj):
		code = ExitNotFound
	}
	return &ExitError{Code: code, Message: err.Error(), Err: err}
}
