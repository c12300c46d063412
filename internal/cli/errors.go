package cli

import (
	"errors"

	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError attaches a process exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error   { return &exitError{code: exitUserError, err: err} }
func systemError(err error) error { return &exitError{code: exitSysError, err: err} }

// userCauses are failures caused by the invocation itself: bad input,
// unknown records, refused operations.
var userCauses = []error{
	types.ErrMissingKey,
	types.ErrDuplicateKey,
	types.ErrKeyConflict,
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidName,
	types.ErrPurgeNotConfirmed,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrSyncStrategyUnknown,
}

// classify gives err an exit code unless it already has one. Anything not
// traced to the invocation is a system error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	for _, cause := range userCauses {
		if errors.Is(err, cause) {
			return userError(err)
		}
	}
	return systemError(err)
}

// ExitCode returns the process exit code for an error returned by the root
// command. Errors without a code come from cobra itself (unknown command,
// wrong argument count) and count as user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
