// Package runner launches external transformation tools against a staging
// directory. Execution is synchronous: the calling pass blocks until the
// tool exits or the wait budget runs out, at which point the whole process
// group is killed. Stdout and stderr are captured to files so large tool
// reports never sit in memory.
package runner

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"stagehand/internal/logging"
)

// DefaultTimeout bounds the wait for an external tool.
const DefaultTimeout = 5 * time.Minute

// maxStderrInError caps how much captured stderr is folded into an
// ExitError message.
const maxStderrInError = 64 * 1024

// Command describes one external tool invocation. The argument list is
// fully resolved; the runner performs no splitting or substitution.
type Command struct {
	// Program is the executable to run, e.g. "node".
	Program string

	// Args are the resolved command-line arguments.
	Args []string

	// Dir is the working directory, always a staging directory.
	Dir string

	// Env holds environment overrides layered over the inherited
	// environment, e.g. NODE_PATH and TERM.
	Env map[string]string

	// CaptureDir is where stdout/stderr capture files are created. It must
	// exist; the run's scratch directory is the usual choice.
	CaptureDir string

	// Timeout bounds the wait. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Result reports a completed execution.
type Result struct {
	ExitCode   int
	StdoutPath string
	StderrPath string
	Duration   time.Duration
}

// Run executes the command and waits for it to exit. A non-zero exit comes
// back as *ExitError carrying captured stderr; an overrun comes back as
// *TimeoutError after the process group has been terminated.
func Run(cmd Command) (*Result, error) {
	timeout := cmd.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	stdout, err := os.CreateTemp(cmd.CaptureDir, "tool-*.out")
	if err != nil {
		return nil, &LaunchError{Program: cmd.Program, Err: err}
	}
	defer stdout.Close()
	stderr, err := os.CreateTemp(cmd.CaptureDir, "tool-*.err")
	if err != nil {
		return nil, &LaunchError{Program: cmd.Program, Err: err}
	}
	defer stderr.Close()

	proc := exec.Command(cmd.Program, cmd.Args...)
	proc.Dir = cmd.Dir
	proc.Stdout = stdout
	proc.Stderr = stderr
	proc.Env = mergedEnv(cmd.Env)
	setupProcessGroup(proc)

	logging.Exec("running %s (%d args) in %s", cmd.Program, len(cmd.Args), cmd.Dir)
	start := time.Now()
	if err := proc.Start(); err != nil {
		return nil, &LaunchError{Program: cmd.Program, Err: err}
	}

	done := make(chan error, 1)
	go func() { done <- proc.Wait() }()

	var waitErr error
	select {
	case waitErr = <-done:
	case <-time.After(timeout):
		logging.ExecWarn("%s exceeded %s, killing process group", cmd.Program, timeout)
		if killErr := killProcessGroup(proc); killErr != nil {
			logging.ExecWarn("kill after timeout: %v", killErr)
		}
		<-done
		return nil, &TimeoutError{Program: cmd.Program, Timeout: timeout}
	}

	result := &Result{
		ExitCode:   proc.ProcessState.ExitCode(),
		StdoutPath: stdout.Name(),
		StderrPath: stderr.Name(),
		Duration:   time.Since(start),
	}

	if waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); ok {
			return result, &ExitError{
				Program:  cmd.Program,
				ExitCode: result.ExitCode,
				Stderr:   capturedStderr(stderr.Name()),
			}
		}
		return result, &LaunchError{Program: cmd.Program, Err: waitErr}
	}

	logging.ExecDebug("%s finished in %s", cmd.Program, result.Duration)
	return result, nil
}

// mergedEnv layers overrides on top of the inherited environment,
// override keys winning.
func mergedEnv(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return os.Environ()
	}
	merged := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			merged[kv[:i]] = kv[i+1:]
		}
	}
	for k, v := range overrides {
		merged[k] = v
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, fmt.Sprintf("%s=%s", k, merged[k]))
	}
	return env
}

func capturedStderr(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	if len(data) > maxStderrInError {
		data = data[len(data)-maxStderrInError:]
	}
	return strings.TrimSpace(string(data))
}
