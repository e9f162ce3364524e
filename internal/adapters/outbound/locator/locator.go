package locator

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

// Locator implements domain.BinaryLocator. Discovery is recomputed on every
// call so a tool installed mid-session is picked up by the next check.
type Locator struct {
	tool    domain.ToolConfig
	workers int
	exec    domain.CommandExecutor
	log     *zap.Logger

	homeDir func() (string, error)
	exists  func(path string) bool
}

// Option customizes a Locator.
type Option func(*Locator)

// WithHomeDir overrides how the user's home directory is found.
func WithHomeDir(fn func() (string, error)) Option {
	return func(l *Locator) { l.homeDir = fn }
}

// WithExists overrides the on-disk existence check.
func WithExists(fn func(path string) bool) Option {
	return func(l *Locator) { l.exists = fn }
}

// WithLogger attaches a logger.
func WithLogger(log *zap.Logger) Option {
	return func(l *Locator) { l.log = log }
}

// WithParallelism bounds how many candidates Inspect probes at once.
func WithParallelism(n int) Option {
	return func(l *Locator) {
		if n > 0 {
			l.workers = n
		}
	}
}

func New(tool domain.ToolConfig, exec domain.CommandExecutor, opts ...Option) *Locator {
	l := &Locator{
		tool:    tool,
		workers: 1,
		exec:    exec,
		log:     zap.NewNop(),
		homeDir: os.UserHomeDir,
		exists:  fileExists,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Candidates returns the ordered discovery list: configured extra paths,
// the home bin directory, the system install directories, then the bare name.
// Candidates that cannot be computed are left out.
func (l *Locator) Candidates() []domain.Candidate {
	var out []domain.Candidate
	for _, p := range l.tool.ExtraPaths {
		if p = expandHome(p, l.homeDir); p != "" {
			out = append(out, domain.Candidate{Path: p})
		}
	}
	if home, err := l.homeDir(); err == nil && home != "" {
		out = append(out, domain.Candidate{Path: filepath.Join(home, l.tool.HomeBin, l.tool.Name)})
	}
	for _, dir := range l.tool.SystemDirs {
		out = append(out, domain.Candidate{Path: filepath.Join(dir, l.tool.Name)})
	}
	out = append(out, domain.Candidate{Path: l.tool.Name, Bare: true})
	return out
}

// Resolve returns the first candidate that exists (or is bare) and passes the
// version health-check. Candidates are tried one at a time.
func (l *Locator) Resolve(ctx context.Context) (string, bool) {
	for _, c := range l.Candidates() {
		if !c.Bare && !l.exists(c.Path) {
			l.log.Debug("candidate missing", zap.String("path", c.Path))
			continue
		}
		if _, err := l.healthCheck(ctx, c.Path); err != nil {
			l.log.Debug("candidate failed health-check", zap.String("path", c.Path), zap.Error(err))
			continue
		}
		l.log.Debug("resolved scanner", zap.String("path", c.Path))
		return c.Path, true
	}
	return "", false
}

// ProbeBare health-checks only the bare command name.
func (l *Locator) ProbeBare(ctx context.Context) bool {
	_, err := l.healthCheck(ctx, l.tool.Name)
	return err == nil
}

// Inspect probes every candidate and reports what it saw. Resolved is the
// candidate Resolve would have returned.
func (l *Locator) Inspect(ctx context.Context) domain.DoctorReport {
	candidates := l.Candidates()
	statuses := make([]domain.CandidateStatus, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, c := range candidates {
		g.Go(func() error {
			statuses[i] = l.inspectOne(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	report := domain.DoctorReport{Candidates: statuses}
	for _, s := range statuses {
		if s.Healthy {
			report.Resolved = s.Path
			break
		}
	}
	return report
}

func (l *Locator) inspectOne(ctx context.Context, c domain.Candidate) domain.CandidateStatus {
	st := domain.CandidateStatus{Candidate: c}
	st.Exists = c.Bare || l.exists(c.Path)
	if !st.Exists {
		st.Error = "not found on disk"
		return st
	}
	out, err := l.healthCheck(ctx, c.Path)
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Healthy = true
	st.Version = strings.TrimSpace(out.Stdout)
	return st
}

func (l *Locator) healthCheck(ctx context.Context, path string) (domain.ProcessOutcome, error) {
	out, err := l.exec.Execute(ctx, path, []string{l.tool.VersionFlag})
	if err != nil {
		return out, err
	}
	if !out.ExitSuccess {
		return out, &healthCheckError{code: out.ExitCode, stderr: strings.TrimSpace(out.Stderr)}
	}
	return out, nil
}

type healthCheckError struct {
	code   int
	stderr string
}

func (e *healthCheckError) Error() string {
	msg := "version check exited with status " + strconv.Itoa(e.code)
	if e.stderr != "" {
		msg += ": " + e.stderr
	}
	return msg
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandHome replaces a leading ~ with the user's home directory. It returns
// "" when the path needs a home directory that cannot be found.
func expandHome(path string, homeDir func() (string, error)) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := homeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
}
