package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrToolNotFound is returned when no discovery candidate passed its health-check.
	ErrToolNotFound = errors.New("ohmybug CLI not found")

	// ErrTimeout is returned when a caller-configured timeout killed the subprocess.
	ErrTimeout = errors.New("ohmybug did not finish before the timeout")
)

// SpawnError means the subprocess could not be started at all.
type SpawnError struct {
	Op  string
	Err error
}

func (e *SpawnError) Error() string {
	op := e.Op
	if op == "" {
		op = "execute ohmybug"
	}
	return fmt.Sprintf("failed to %s: %v", op, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ScanFailedError means the scanner exited non-zero without writing to stdout.
type ScanFailedError struct {
	Stderr string
}

func (e *ScanFailedError) Error() string {
	return "scan failed: " + e.Stderr
}

// IsScanFailed reports whether err is (or wraps) a ScanFailedError.
func IsScanFailed(err error) bool {
	var sf *ScanFailedError
	return errors.As(err, &sf)
}

// IsSpawnFailure reports whether err is (or wraps) a SpawnError.
func IsSpawnFailure(err error) bool {
	var se *SpawnError
	return errors.As(err, &se)
}
