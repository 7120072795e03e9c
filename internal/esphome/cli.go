package esphome

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
	"unicode/utf8"
)

const (
	// cliTimeout bounds one esphome invocation; compiles can take minutes.
	cliTimeout = 20 * time.Minute

	// outputCap is the per-stream tail kept from the CLI output so compile
	// logs cannot flood the caller.
	outputCap = 20000
)

// esphomeBinary is a package var so tests can substitute a stand-in
// executable.
var esphomeBinary = "esphome"

// CLIResult carries the outcome of one esphome CLI run.
type CLIResult struct {
	ReturnCode int    `json:"returncode"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
}

// RunCLI executes the local esphome binary with the given arguments, using
// the sandbox root as the working directory. A non-zero exit is reported in
// ReturnCode, not as an error; only failure to run the binary at all errors.
func RunCLI(ctx context.Context, root string, args []string) (CLIResult, error) {
	if len(args) == 0 {
		return CLIResult{}, fmt.Errorf("%w: args is required", ErrValidation)
	}

	runCtx, cancel := context.WithTimeout(ctx, cliTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, esphomeBinary, args...)
	cmd.Dir = root

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	// A killed-by-deadline run surfaces as a plain exit error; the context
	// tells them apart. The timeout must fail the call, not masquerade as
	// the binary exiting non-zero.
	if ctxErr := runCtx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return CLIResult{}, fmt.Errorf("esphome run timed out: %w", ctxErr)
		}
		return CLIResult{}, fmt.Errorf("esphome run cancelled: %w", ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return CLIResult{}, fmt.Errorf("run esphome: %w", err)
		}
	}
	return CLIResult{
		ReturnCode: cmd.ProcessState.ExitCode(),
		Stdout:     tail(stdout.String(), outputCap),
		Stderr:     tail(stderr.String(), outputCap),
	}, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	// the byte cut can land inside a multi-byte rune; skip to the next boundary
	for len(s) > 0 && !utf8.RuneStart(s[0]) {
		s = s[1:]
	}
	return s
}
