// Package subprocess runs external tools, capturing their full output.
package subprocess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Result holds the captured output and exit status of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes the named program with the given arguments, feeding it stdin
// on its standard input. Stdout and stderr are drained by two readers that
// are both joined before the exit status is read, so a process filling one
// pipe while we write the other can't deadlock. A non-zero exit status is
// not an error here; callers decide what each status means.
func Run(ctx context.Context, stdin string, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("Failed to open stdout pipe for %q: %w", name, err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("Failed to open stderr pipe for %q: %w", name, err)
	}

	var in io.WriteCloser
	if stdin != "" {
		in, err = cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("Failed to open stdin pipe for %q: %w", name, err)
		}
	}

	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("Failed to start %q: %w", name, err)
	}

	type readResult struct {
		data []byte
		err  error
	}

	drain := func(r io.Reader) chan readResult {
		ch := make(chan readResult, 1)
		go func() {
			data, err := io.ReadAll(r)
			ch <- readResult{data: data, err: err}
		}()
		return ch
	}

	outCh := drain(stdout)
	errCh := drain(stderr)

	var writeErr error
	if in != nil {
		_, writeErr = io.WriteString(in, stdin)
		closeErr := in.Close()
		if writeErr == nil {
			writeErr = closeErr
		}
	}

	// Both readers must be done before Wait closes the pipes.
	out := <-outCh
	errOut := <-errCh

	result := &Result{
		Stdout: string(out.data),
		Stderr: string(errOut.data),
	}

	err = cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("Failed to wait for %q: %w", name, err)
		}

		result.ExitCode = exitErr.ExitCode()
	}

	if out.err != nil {
		return nil, fmt.Errorf("Failed to read stdout of %q: %w", name, out.err)
	}

	if errOut.err != nil {
		return nil, fmt.Errorf("Failed to read stderr of %q: %w", name, errOut.err)
	}

	if writeErr != nil && result.ExitCode == 0 {
		return nil, fmt.Errorf("Failed to write stdin of %q: %w", name, writeErr)
	}

	return result, nil
}
