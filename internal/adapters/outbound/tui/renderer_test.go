package tui_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/tui"
	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

func plain(t *testing.T) {
	t.Helper()
	tui.SetNoColor(true)
	t.Cleanup(func() { tui.SetNoColor(false) })
}

func sampleProject() domain.ProjectInfo {
	return domain.ProjectInfo{
		Path:       "/work/shop",
		IsGitRepo:  true,
		Branch:     "main",
		CommitHash: "3f2c9a1b7e4d5c6f8a9b0c1d2e3f4a5b6c7d8e9f",
	}
}

func TestRenderScanResult_WithSummary(t *testing.T) {
	plain(t)
	result := domain.ScanResult{
		Success: true,
		Output:  `{"summary":{}}`,
		Summary: &domain.ScanSummary{Total: 7, Critical: 1, High: 2, Medium: 3, Low: 1},
	}

	out := tui.RenderScanResult(result, sampleProject())
	assert.Contains(t, out, "/work/shop")
	assert.Contains(t, out, "main@3f2c9a1")
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "7 total")
	assert.Contains(t, out, "critical")
	assert.Contains(t, out, "fix")
	assert.NotContains(t, out, "Raw output")
}

func TestRenderScanResult_WithoutSummaryShowsRawOutput(t *testing.T) {
	plain(t)
	result := domain.ScanResult{Success: false, Output: "error: path does not exist"}

	out := tui.RenderScanResult(result, domain.ProjectInfo{Path: "/nope"})
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "Raw output")
	assert.Contains(t, out, "error: path does not exist")
}

func TestRenderScanResult_CleanProject(t *testing.T) {
	plain(t)
	result := domain.ScanResult{Success: true, Summary: &domain.ScanSummary{}}

	out := tui.RenderScanResult(result, domain.ProjectInfo{Path: "/clean"})
	assert.Contains(t, out, "No issues found.")
}

func TestRenderScanResult_NoColorHasNoEscapes(t *testing.T) {
	plain(t)
	out := tui.RenderScanResult(domain.ScanResult{Success: true, Summary: &domain.ScanSummary{High: 1}}, sampleProject())
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderDoctorReport(t *testing.T) {
	plain(t)
	report := domain.DoctorReport{
		Candidates: []domain.CandidateStatus{
			{Candidate: domain.Candidate{Path: "/home/dev/bin/ohmybug"}, Error: "not found on disk"},
			{Candidate: domain.Candidate{Path: "/usr/local/bin/ohmybug"}, Exists: true, Healthy: true, Version: "ohmybug 1.4.0"},
			{Candidate: domain.Candidate{Path: "ohmybug", Bare: true}, Exists: true, Error: "executable file not found in $PATH"},
		},
		Resolved: "/usr/local/bin/ohmybug",
	}

	out := tui.RenderDoctorReport(report)
	assert.Contains(t, out, "/home/dev/bin/ohmybug")
	assert.Contains(t, out, "not found on disk")
	assert.Contains(t, out, "ohmybug 1.4.0")
	assert.Contains(t, out, "selected")
	assert.Contains(t, out, "(PATH)")
	assert.Contains(t, out, "ohmybug is available.")
}

func TestRenderDoctorReport_NotFound(t *testing.T) {
	plain(t)
	out := tui.RenderDoctorReport(domain.DoctorReport{
		Candidates: []domain.CandidateStatus{{Candidate: domain.Candidate{Path: "ohmybug", Bare: true}, Exists: true, Error: "boom"}},
	})
	assert.Contains(t, out, "ohmybug CLI not found.")
	assert.Contains(t, out, "tool.extra_paths")
}
