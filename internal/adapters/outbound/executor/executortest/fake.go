// Package executortest provides a scripted domain.CommandExecutor for tests.
package executortest

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

// HandlerFunc answers one invocation of a scripted binary.
type HandlerFunc func(args []string) (domain.ProcessOutcome, error)

// Call records one invocation.
type Call struct {
	Path string
	Args []string
}

// Fake is a domain.CommandExecutor whose binaries are scripted in memory.
// Invoking a path with no handler fails the way a missing binary does.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []Call
}

func New() *Fake {
	return &Fake{handlers: make(map[string]HandlerFunc)}
}

// Set scripts the binary at path.
func (f *Fake) Set(path string, fn HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[path] = fn
	return f
}

// Tool scripts a scanner at path that prints version for --version and
// returns scan for anything else.
func (f *Fake) Tool(path, version string, scan domain.ProcessOutcome) *Fake {
	return f.Set(path, func(args []string) (domain.ProcessOutcome, error) {
		if len(args) == 1 && args[0] == "--version" {
			return domain.ProcessOutcome{ExitSuccess: true, Stdout: version + "\n"}, nil
		}
		return scan, nil
	})
}

// Broken scripts a binary at path whose version check exits non-zero.
func (f *Fake) Broken(path string) *Fake {
	return f.Set(path, func([]string) (domain.ProcessOutcome, error) {
		return domain.ProcessOutcome{ExitCode: 1, Stderr: "dyld: library not loaded"}, nil
	})
}

func (f *Fake) Execute(ctx context.Context, binaryPath string, args []string) (domain.ProcessOutcome, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Path: binaryPath, Args: append([]string(nil), args...)})
	fn, ok := f.handlers[binaryPath]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.ProcessOutcome{}, err
	}
	if !ok {
		return domain.ProcessOutcome{}, &exec.Error{Name: binaryPath, Err: exec.ErrNotFound}
	}
	return fn(args)
}

// Calls returns every invocation so far, in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Paths returns the binary path of every invocation so far, in order.
func (f *Fake) Paths() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Path)
	}
	return out
}

// String is used in assertion messages.
func (c Call) String() string {
	return fmt.Sprintf("%s %v", c.Path, c.Args)
}
