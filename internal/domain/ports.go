package domain

import "context"

// ProcessOutcome is what a finished subprocess left behind.
type ProcessOutcome struct {
	ExitSuccess bool   `json:"exit_success"`
	ExitCode    int    `json:"exit_code"`
	Stdout      string `json:"stdout"`
	Stderr      string `json:"stderr"`
}

// CommandExecutor runs a binary to completion and captures its output.
// A non-nil error means the process could not be started (or was cut short by
// ctx); a process that ran and exited non-zero is reported through the outcome.
type CommandExecutor interface {
	Execute(ctx context.Context, binaryPath string, args []string) (ProcessOutcome, error)
}

// BinaryLocator resolves the scanner executable.
type BinaryLocator interface {
	Resolve(ctx context.Context) (string, bool)
	ProbeBare(ctx context.Context) bool
	Inspect(ctx context.Context) DoctorReport
}

// GitInfo reads repository metadata for a project path.
type GitInfo interface {
	Describe(projectPath string) ProjectInfo
}
