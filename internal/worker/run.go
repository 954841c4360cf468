package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
)

// cappedBuffer collects subprocess output up to a byte limit; further
// writes are counted but discarded so a runaway tool cannot exhaust
// memory.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       strings.Builder
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	b.buf.Write(p)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *cappedBuffer) Truncated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.truncated
}

// run spawns the tool in its own process group, pumps stdout and stderr
// into a capped buffer, and kills the whole group if ctx expires.
// stdin carries the prompt when promptOnStdin is set; otherwise stdin
// is closed immediately so the tool cannot block on input.
func run(ctx context.Context, argv []string, workDir, stdin string, outputLimit int) (Result, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = workDir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	buf := &cappedBuffer{limit: outputLimit}
	cmd.Stdout = buf
	cmd.Stderr = buf

	var stdinPipe io.WriteCloser
	if stdin != "" {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return Result{}, fmt.Errorf("stdin pipe: %w", err)
		}
		stdinPipe = pipe
	} else {
		cmd.Stdin = nil
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("start %s: %w", argv[0], err)
	}
	pgid := cmd.Process.Pid

	var g errgroup.Group
	if stdinPipe != nil {
		g.Go(func() error {
			defer stdinPipe.Close()
			_, err := io.WriteString(stdinPipe, stdin)
			return err
		})
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	timedOut := false
	canceled := false
	select {
	case waitErr = <-done:
	case <-ctx.Done():
		// Kill the entire process group so the tool's own children die
		// with it.
		syscall.Kill(-pgid, syscall.SIGKILL)
		waitErr = <-done
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			timedOut = true
		} else {
			// operator interrupt, not a verdict on the task
			canceled = true
		}
	}
	_ = g.Wait()

	res := Result{
		Output:    buf.String(),
		TimedOut:  timedOut,
		Truncated: buf.Truncated(),
	}
	if canceled {
		return res, ctx.Err()
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			if res.ExitCode < 0 {
				// killed by signal
				res.ExitCode = 128
			}
			return res, nil
		}
		return res, fmt.Errorf("wait %s: %w", argv[0], waitErr)
	}
	return res, nil
}
