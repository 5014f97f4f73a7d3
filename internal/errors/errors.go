package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/dosely/internal/logger"
)

var (
	// ErrStoreUnavailable marks failures of the record store I/O layer.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrBrokenReference marks an assignment whose item no longer exists.
	ErrBrokenReference = errors.New("assignment references a missing item")
	// ErrMalformedDaysFilter marks a weekday filter that could not be decoded.
	ErrMalformedDaysFilter = errors.New("malformed days filter")
)

// StoreUnavailable wraps err so that errors.Is(err, ErrStoreUnavailable) holds.
// It returns nil for a nil error and leaves already-tagged errors untouched.
func StoreUnavailable(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
