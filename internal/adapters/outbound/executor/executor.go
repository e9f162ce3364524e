package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

// waitDelay bounds how long Execute keeps reading the output pipes once the
// scanner has been killed or has exited. Helpers the scanner started in the
// background may still hold them open.
const waitDelay = 2 * time.Second

// OSExecutor implements domain.CommandExecutor with os/exec.
type OSExecutor struct{}

func New() *OSExecutor {
	return &OSExecutor{}
}

// Execute runs binaryPath with args and waits for it to exit. Both streams are
// captured in full. A bare binaryPath is resolved through PATH.
//
// When ctx is done the scanner and every process it started are killed.
func (e *OSExecutor) Execute(ctx context.Context, binaryPath string, args []string) (domain.ProcessOutcome, error) {
	cmd := exec.CommandContext(ctx, binaryPath, args...)
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome := domain.ProcessOutcome{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return outcome, domain.ErrTimeout
		}
		return outcome, ctxErr
	}

	// The scanner exited but something it left behind kept the pipes open.
	// Its own exit status still decides the outcome.
	if errors.Is(err, exec.ErrWaitDelay) && cmd.ProcessState != nil {
		if !cmd.ProcessState.Success() {
			outcome.ExitCode = cmd.ProcessState.ExitCode()
			return outcome, nil
		}
		err = nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
			return outcome, nil
		}
		return outcome, err
	}

	outcome.ExitSuccess = true
	return outcome, nil
}
