package errors

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format(fmt.Errorf("boom")); got != "Error: boom" {
		t.Errorf("Format() = %q", got)
	}
}

func TestStoreUnavailable(t *testing.T) {
	if StoreUnavailable(nil) != nil {
		t.Error("StoreUnavailable(nil) should be nil")
	}

	cause := errors.New("disk I/O error")
	err := StoreUnavailable(cause)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause to be preserved, got %v", err)
	}

	if again := StoreUnavailable(err); again != err {
		t.Errorf("double wrap changed the error: %v", again)
	}
}

func TestFatal(t *testing.T) {
	if os.Getenv("DOSELY_TEST_FATAL") == "1" {
		Fatal(nil)
		Fatal(errors.New("database is locked"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "DOSELY_TEST_FATAL=1")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Error: database is locked") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
