package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Command is one external program invocation.
type Command struct {
	Args []string // Program followed by its arguments
	Dir  string   // Working directory ("" means the current directory)
}

// String renders the command line for display.
func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Result holds the captured output of a successful command.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandError is returned when a command cannot start or exits non-zero.
type CommandError struct {
	Command  string
	Dir      string
	ExitCode int // -1 when the process never started or was killed
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" with exit code %d", e.ExitCode)
	}
	if e.Err != nil && e.ExitCode < 0 {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Runner executes commands one at a time.
// This allows for mocking in tests.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Executor runs commands as child processes.
type Executor struct {
	Env []string // Extra environment entries appended to the parent's
}

// New creates an Executor.
func New() *Executor {
	return &Executor{}
}

// Run executes cmd to completion and returns its captured output. Output is
// buffered, never streamed. Cancelling ctx kills the child.
func (e *Executor) Run(ctx context.Context, cmd Command) (Result, error) {
	if len(cmd.Args) == 0 {
		return Result{}, &CommandError{ExitCode: -1, Err: errors.New("empty command")}
	}

	startTime := time.Now()

	c := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	c.Dir = cmd.Dir
	if len(e.Env) > 0 {
		c.Env = append(c.Environ(), e.Env...)
	}

	// No stdin: generators must not stop to ask questions we cannot answer.
	c.Stdin = nil

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(startTime),
	}

	if err != nil {
		cmdErr := &CommandError{
			Command:  cmd.String(),
			Dir:      cmd.Dir,
			ExitCode: -1,
			Stderr:   result.Stderr,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			cmdErr.ExitCode = exitErr.ExitCode()
		}
		return result, cmdErr
	}

	return result, nil
}
