// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package procdrv implements ExternalProcessDriver: runs an external
// potential-evaluation process, forwarding its stdout/stderr line by line
// and distinguishing a nonzero exit (ProcessFailed) from an I/O error
// launching or communicating with it, per spec.md sections 4.7 and 5.
package procdrv

import (
	"bufio"
	"io"
	"os/exec"
	"sync"

	"github.com/cpmech/gophon/gerr"
)

// LineSink receives one line of output at a time, without its trailing
// newline.
type LineSink func(line string)

// Options configures one Run call.
type Options struct {
	// Dir, if non-empty, is the working directory for the subprocess.
	Dir string
	// Env, if non-nil, replaces the subprocess's environment entirely
	// (nil means inherit the parent's, matching exec.Cmd's own default).
	Env []string
	// OnStdout/OnStderr, if non-nil, receive each line as it arrives.
	OnStdout LineSink
	OnStderr LineSink
	// Stdin, if non-empty, is written to the subprocess's stdin and the
	// pipe is then closed, the "third path" spec.md section 4.7 describes
	// alongside the two stdout/stderr drains.
	Stdin string
}

// Run launches name with args, draining stdout and stderr concurrently so
// neither pipe's buffer can block the other, and only calls cmd.Wait after
// both drains have finished reading to EOF. A nonzero exit status is
// reported as gerr.ProcessFailed; a failure to start or read the process is
// reported as gerr.FunctionOutput.
func Run(name string, args []string, opts Options) error {
	cmd := exec.Command(name, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if opts.Env != nil {
		cmd.Env = opts.Env
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return gerr.New(gerr.FunctionOutput, "procdrv: stdout pipe: %v", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return gerr.New(gerr.FunctionOutput, "procdrv: stderr pipe: %v", err)
	}

	var stdin io.WriteCloser
	if opts.Stdin != "" {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return gerr.New(gerr.FunctionOutput, "procdrv: stdin pipe: %v", err)
		}
	}

	if err := cmd.Start(); err != nil {
		return gerr.New(gerr.FunctionOutput, "procdrv: failed to start %q: %v", name, err)
	}

	if stdin != nil {
		if _, err := io.WriteString(stdin, opts.Stdin); err != nil {
			return gerr.New(gerr.FunctionOutput, "procdrv: writing stdin to %q: %v", name, err)
		}
		if err := stdin.Close(); err != nil {
			return gerr.New(gerr.FunctionOutput, "procdrv: closing stdin to %q: %v", name, err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go drain(stdout, opts.OnStdout, &wg)
	go drain(stderr, opts.OnStderr, &wg)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return gerr.WithStatus(exitErr.ExitCode(), "procdrv: %q exited with an error", name)
		}
		return gerr.New(gerr.FunctionOutput, "procdrv: %q: %v", name, err)
	}
	return nil
}

// drain reads r line by line, forwarding each to sink (if non-nil), until
// EOF; it never returns an error, matching the original's "best effort
// forwarding" contract -- a read error here is not distinguishable from
// ordinary stream closure and is left to cmd.Wait's exit status to surface.
func drain(r io.Reader, sink LineSink, wg *sync.WaitGroup) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if sink != nil {
			sink(scanner.Text())
		}
	}
}
