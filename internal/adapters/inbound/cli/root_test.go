package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmybug/ohmybug-bridge/internal/adapters/inbound/cli"
	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/executor/executortest"
	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/locator"
	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

const toolPath = "/usr/local/bin/ohmybug"

// run executes the root command against fake with only toolPath present on
// disk, and returns stdout and the command error.
func run(t *testing.T, fake *executortest.Fake, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	cmd := cli.NewRootCmdForTest(fake,
		locator.WithHomeDir(func() (string, error) { return home, nil }),
		locator.WithExists(func(p string) bool { return p == toolPath }),
	)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func scanArgs(fake *executortest.Fake) [][]string {
	var out [][]string
	for _, c := range fake.Calls() {
		if len(c.Args) > 1 {
			out = append(out, c.Args)
		}
	}
	return out
}

func installed(scan domain.ProcessOutcome) *executortest.Fake {
	return executortest.New().Tool(toolPath, "ohmybug 1.4.0", scan)
}

func TestScanCommand_JSON(t *testing.T) {
	fake := installed(domain.ProcessOutcome{
		ExitSuccess: true,
		Stdout:      `{"summary":{"total":4,"critical":1,"high":1,"medium":1,"low":1}}`,
	})

	out, err := run(t, fake, "scan", "/work/app", "--json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result), "output should be valid JSON")
	assert.Equal(t, true, result["success"])
	assert.Equal(t, float64(4), result["summary"].(map[string]any)["total"])
	assert.Equal(t, [][]string{{"check", "/work/app", "--format", "json"}}, scanArgs(fake))
}

func TestScanCommand_DefaultPathAndFix(t *testing.T) {
	fake := installed(domain.ProcessOutcome{ExitSuccess: true, Stdout: `{}`})

	_, err := run(t, fake, "scan", "--fix", "--json")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"check", ".", "--format", "json", "--fix"}}, scanArgs(fake))
}

func TestScanCommand_Rendered(t *testing.T) {
	fake := installed(domain.ProcessOutcome{ExitSuccess: true, Stdout: `{"summary":{"total":1,"high":1}}`})

	out, err := run(t, fake, "scan", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "ohmybug")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "\x1b[", "non-terminal output is uncolored")
}

func TestScanCommand_FailureIsError(t *testing.T) {
	fake := installed(domain.ProcessOutcome{ExitCode: 1, Stderr: "path does not exist"})

	_, err := run(t, fake, "scan", "/missing")
	require.Error(t, err)
	assert.Equal(t, "scan failed: path does not exist", err.Error())
}

func TestScanCommand_NotFound(t *testing.T) {
	_, err := run(t, executortest.New(), "scan", "/p")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestReportCommand(t *testing.T) {
	md := "# OhMyBug Scan Report\n\nAll clear.\n"
	fake := installed(domain.ProcessOutcome{ExitSuccess: true, Stdout: md})

	out, err := run(t, fake, "report", "/p")
	require.NoError(t, err)
	assert.Equal(t, md, out)
	assert.Equal(t, [][]string{{"check", "/p", "--format", "markdown"}}, scanArgs(fake))
}

func TestFixCommand_FailureStillReported(t *testing.T) {
	fake := installed(domain.ProcessOutcome{ExitCode: 1, Stderr: "backup failed"})

	out, err := run(t, fake, "fix", "/p", "--json")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "backup failed", result["output"])
	assert.Nil(t, result["summary"])
	assert.Equal(t, [][]string{{"check", "/p", "--format", "json", "--fix"}}, scanArgs(fake))
}

func TestAvailableCommand(t *testing.T) {
	out, err := run(t, installed(domain.ProcessOutcome{}), "available")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, executortest.New(), "available")
	assert.Error(t, err)
	assert.Equal(t, "false\n", out)
}

func TestAvailableCommand_Bare(t *testing.T) {
	out, err := run(t, installed(domain.ProcessOutcome{}), "available", "--bare")
	assert.Error(t, err, "only the bare name is probed")
	assert.Equal(t, "false\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, installed(domain.ProcessOutcome{}), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ohmybug-bridge dev")
	assert.Contains(t, out, "ohmybug: ohmybug 1.4.0")

	out, err = run(t, executortest.New(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ohmybug: not found")
}

func TestDoctorCommand_JSON(t *testing.T) {
	out, err := run(t, installed(domain.ProcessOutcome{}), "doctor", "--json")
	require.NoError(t, err)

	var report domain.DoctorReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, toolPath, report.Resolved)
	assert.NotEmpty(t, report.Candidates)
}

func TestDoctorCommand_Rendered(t *testing.T) {
	out, err := run(t, executortest.New(), "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "ohmybug CLI not found.")
}

func TestConfigShow(t *testing.T) {
	out, err := run(t, executortest.New(), "config", "show", "--timeout", "30s")
	require.NoError(t, err)
	assert.Contains(t, out, "name: ohmybug")
	assert.Contains(t, out, "timeout: 30s")
}

func TestConfigFlag_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: 127.0.0.1:9999\n"), 0644))

	out, err := run(t, executortest.New(), "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "127.0.0.1:9999")
}

func TestConfigFlag_MissingFileIsError(t *testing.T) {
	_, err := run(t, executortest.New(), "doctor", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMCPCommandExists(t *testing.T) {
	_, err := run(t, executortest.New(), "mcp", "--help")
	assert.NoError(t, err)
}

func TestMCPServeCommandExists(t *testing.T) {
	_, err := run(t, executortest.New(), "mcp", "serve", "--help")
	assert.NoError(t, err)
}

func TestServeCommandExists(t *testing.T) {
	out, err := run(t, executortest.New(), "serve", "--help")
	assert.NoError(t, err)
	assert.Contains(t, out, "--addr")
}
