package runner

import (
	"fmt"
	"time"
)

// LaunchError means the external process could not be started at all
// (missing executable, permission denied).
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TimeoutError means the process exceeded its wait budget and was killed
// along with its process group.
type TimeoutError struct {
	Program string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s", e.Program, e.Timeout)
}

// ExitError means the process ran but exited non-zero. Stderr carries the
// captured error stream verbatim so operators can diagnose the tool itself.
type ExitError struct {
	Program  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("%s exited with code %d", e.Program, e.ExitCode)
	}
	return fmt.Sprintf("%s exited with code %d: %s", e.Program, e.ExitCode, e.Stderr)
}
