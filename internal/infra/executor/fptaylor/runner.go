package fptaylor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/fptaylor-service/internal/domain/analysis"
)

const (
	DefaultProgram = "FPTaylor/fptaylor"
	defaultTimeout = 60 * time.Second
	// waitDelay bounds how long Wait blocks on pipes held open by grandchildren after a kill.
	waitDelay = 2 * time.Second
)

type Runner struct {
	program    string
	scratchDir string
}

// NewRunner buat runner untuk binary FPTaylor. scratchDir kosong = os.TempDir().
func NewRunner(program, scratchDir string) *Runner {
	if program == "" {
		program = DefaultProgram
	}
	return &Runner{program: program, scratchDir: scratchDir}
}

// Invoke writes the query to a scratch file, runs `<program> <file>` once and
// captures both streams. The scratch file is removed on every path.
func (r *Runner) Invoke(ctx context.Context, req domain.InvokeRequest) (domain.InvokeResult, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	path, err := r.writeScratch(req.Query)
	if err != nil {
		return domain.InvokeResult{}, err
	}
	defer os.Remove(path)

	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, r.program, path)
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if timedOut(err, cmdCtx) {
		// no partial output on timeout
		return domain.InvokeResult{Elapsed: elapsed}, fmt.Errorf("%w after %s", domain.ErrTimeout, timeout)
	}
	if ctx.Err() != nil {
		return domain.InvokeResult{Elapsed: elapsed}, ctx.Err()
	}

	exitCode := 0
	if err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			return domain.InvokeResult{Elapsed: elapsed}, fmt.Errorf("%w: run %s: %v", domain.ErrInvalidInput, r.program, err)
		}
		exitCode = ee.ExitCode()
	}

	return domain.InvokeResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
		Elapsed:  elapsed,
	}, nil
}

// timedOut reports whether the run was cut short by the deadline. A run that
// exited cleanly right before the deadline fired keeps its report.
func timedOut(runErr error, cmdCtx context.Context) bool {
	return runErr != nil && errors.Is(cmdCtx.Err(), context.DeadlineExceeded)
}

func (r *Runner) writeScratch(q domain.Query) (string, error) {
	dir := r.scratchDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("fptaylor-%s.txt", uuid.New().String()))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	if _, err := f.WriteString(string(q)); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	return path, nil
}

// Check reports whether the analyzer program can be resolved.
func (r *Runner) Check(ctx context.Context) error {
	if _, err := exec.LookPath(r.program); err != nil {
		return fmt.Errorf("analyzer program %s: %w", r.program, err)
	}
	return nil
}

// Program returns the configured analyzer path.
func (r *Runner) Program() string { return r.program }
