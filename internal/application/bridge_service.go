package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
	"github.com/ohmybug/ohmybug-bridge/internal/domain/normalize"
)

// Bridge is what the calling surfaces (CLI, MCP, HTTP) drive.
type Bridge interface {
	Scan(ctx context.Context, projectPath string, fix bool) (domain.ScanResult, error)
	ScanReport(ctx context.Context, projectPath string) (string, error)
	Fix(ctx context.Context, projectPath string) (domain.ScanResult, error)
	IsAvailable(ctx context.Context) bool
	Version(ctx context.Context) (string, error)
	Doctor(ctx context.Context) domain.DoctorReport
}

var _ Bridge = (*BridgeService)(nil)

// BridgeService orchestrates every caller-facing operation:
// locate -> invoke -> normalize. It holds no state between calls.
type BridgeService struct {
	locator  domain.BinaryLocator
	executor domain.CommandExecutor
	cfg      domain.BridgeConfig
	log      *zap.Logger
}

func NewBridgeService(
	locator domain.BinaryLocator,
	executor domain.CommandExecutor,
	cfg domain.BridgeConfig,
	log *zap.Logger,
) *BridgeService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BridgeService{
		locator:  locator,
		executor: executor,
		cfg:      cfg,
		log:      log,
	}
}

// Args builds the scanner argument list:
// <subcommand> <projectPath> --format <format> [--fix].
func (s *BridgeService) Args(projectPath string, mode domain.Mode, format domain.Format) []string {
	args := []string{s.cfg.Invoke.Subcommand, projectPath, "--format", string(format)}
	if mode == domain.ModeCheckWithFix {
		args = append(args, "--fix")
	}
	return args
}

// Scan runs a JSON scan. A failed exit with empty stdout is a ScanFailedError.
func (s *BridgeService) Scan(ctx context.Context, projectPath string, fix bool) (domain.ScanResult, error) {
	mode := domain.ModeCheck
	if fix {
		mode = domain.ModeCheckWithFix
	}
	out, err := s.run(ctx, projectPath, mode, domain.FormatJSON)
	if err != nil {
		return domain.ScanResult{}, err
	}
	result, err := normalize.Strict(out)
	if err != nil {
		s.log.Warn("scan failed", zap.String("project", projectPath), zap.Int("exit_code", out.ExitCode))
		return domain.ScanResult{}, err
	}
	s.logResult("scan", projectPath, result)
	return result, nil
}

// ScanReport runs a markdown scan and returns the report text untouched.
func (s *BridgeService) ScanReport(ctx context.Context, projectPath string) (string, error) {
	out, err := s.run(ctx, projectPath, domain.ModeCheck, domain.FormatMarkdown)
	if err != nil {
		return "", err
	}
	text, err := normalize.Report(out)
	if err != nil {
		s.log.Warn("report scan failed", zap.String("project", projectPath), zap.Int("exit_code", out.ExitCode))
		return "", err
	}
	return text, nil
}

// Fix runs a JSON scan with --fix. It always returns a result once the
// process has run, whatever its exit status.
func (s *BridgeService) Fix(ctx context.Context, projectPath string) (domain.ScanResult, error) {
	out, err := s.run(ctx, projectPath, domain.ModeCheckWithFix, domain.FormatJSON)
	if err != nil {
		return domain.ScanResult{}, err
	}
	result := normalize.Lenient(out)
	s.logResult("fix", projectPath, result)
	return result, nil
}

// IsAvailable reports whether the scanner can be found. Failures of any
// kind read as false.
func (s *BridgeService) IsAvailable(ctx context.Context) bool {
	if s.cfg.Tool.Availability == domain.AvailabilityBare {
		return s.locator.ProbeBare(ctx)
	}
	_, ok := s.locator.Resolve(ctx)
	return ok
}

// Version returns the scanner's trimmed --version output.
func (s *BridgeService) Version(ctx context.Context) (string, error) {
	path, err := s.resolve(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.executor.Execute(ctx, path, []string{s.cfg.Tool.VersionFlag})
	if err != nil {
		return "", spawnError("get version", err)
	}
	return strings.TrimSpace(out.Stdout), nil
}

// Doctor reports what discovery sees for every candidate.
func (s *BridgeService) Doctor(ctx context.Context) domain.DoctorReport {
	return s.locator.Inspect(ctx)
}

func (s *BridgeService) resolve(ctx context.Context) (string, error) {
	path, ok := s.locator.Resolve(ctx)
	if !ok {
		s.log.Warn("scanner not found")
		return "", domain.ErrToolNotFound
	}
	return path, nil
}

func (s *BridgeService) run(ctx context.Context, projectPath string, mode domain.Mode, format domain.Format) (domain.ProcessOutcome, error) {
	path, err := s.resolve(ctx)
	if err != nil {
		return domain.ProcessOutcome{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	args := s.Args(projectPath, mode, format)
	s.log.Debug("running scanner",
		zap.String("binary", path),
		zap.Strings("args", args),
		zap.Stringer("mode", mode),
	)

	start := time.Now()
	out, err := s.executor.Execute(ctx, path, args)
	if err != nil {
		return domain.ProcessOutcome{}, spawnError("execute ohmybug", err)
	}
	s.log.Debug("scanner exited",
		zap.Bool("success", out.ExitSuccess),
		zap.Int("exit_code", out.ExitCode),
		zap.Int("stdout_bytes", len(out.Stdout)),
		zap.Int("stderr_bytes", len(out.Stderr)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// withTimeout applies the configured timeout. Zero means none.
func (s *BridgeService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.Invoke.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.Invoke.Timeout)
	}
	return context.WithCancel(ctx)
}

func (s *BridgeService) logResult(op, projectPath string, r domain.ScanResult) {
	fields := []zap.Field{
		zap.String("project", projectPath),
		zap.Bool("success", r.Success),
		zap.Bool("has_summary", r.HasSummary()),
	}
	if r.Summary != nil {
		fields = append(fields, zap.Int("total", r.Summary.Total), zap.Int("critical", r.Summary.Critical))
	}
	s.log.Info(op+" finished", fields...)
}

// spawnError keeps timeouts and cancellation distinguishable from a binary
// that could not be started.
func spawnError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, domain.ErrTimeout)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", op, err)
	}
	return &domain.SpawnError{Op: op, Err: err}
}
