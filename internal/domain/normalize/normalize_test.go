package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
	"github.com/ohmybug/ohmybug-bridge/internal/domain/normalize"
)

func TestSelectOutput(t *testing.T) {
	tests := []struct {
		name, stdout, stderr, want string
	}{
		{"stdout wins", "out", "err", "out"},
		{"stdout wins over empty stderr", "out", "", "out"},
		{"falls back to stderr", "", "err", "err"},
		{"both empty", "", "", ""},
		{"whitespace stdout is not empty", " \n", "err", " \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.SelectOutput(tt.stdout, tt.stderr))
		})
	}
}

func TestParseSummary_PartialFieldsDefaultToZero(t *testing.T) {
	s := normalize.ParseSummary(`{"summary":{"total":5,"critical":1,"high":2}}`)
	require.NotNil(t, s)
	assert.Equal(t, domain.ScanSummary{Total: 5, Critical: 1, High: 2}, *s)
}

func TestParseSummary_AllFields(t *testing.T) {
	s := normalize.ParseSummary(`{"projectPath":"/p","summary":{"total":10,"critical":1,"high":2,"medium":3,"low":4}}`)
	require.NotNil(t, s)
	assert.Equal(t, domain.ScanSummary{Total: 10, Critical: 1, High: 2, Medium: 3, Low: 4}, *s)
}

func TestParseSummary_EmptySummaryObject(t *testing.T) {
	s := normalize.ParseSummary(`{"summary":{}}`)
	require.NotNil(t, s)
	assert.Equal(t, domain.ScanSummary{}, *s)
}

func TestParseSummary_NonNumericFieldsDefaultToZero(t *testing.T) {
	s := normalize.ParseSummary(`{"summary":{"total":"5","critical":1.5,"high":null,"medium":true,"low":-3}}`)
	require.NotNil(t, s)
	assert.Equal(t, domain.ScanSummary{}, *s)
}

func TestParseSummary_Absent(t *testing.T) {
	tests := []struct {
		name, text string
	}{
		{"empty", ""},
		{"plain text", "Scan failed: boom"},
		{"markdown", "# OhMyBug Scan Report\n"},
		{"truncated json", `{"summary":{"total":5}`},
		{"trailing garbage", `{"summary":{"total":5}} extra`},
		{"no summary key", `{"ok":true}`},
		{"summary is null", `{"summary":null}`},
		{"summary is a number", `{"summary":3}`},
		{"root is array", `[{"summary":{"total":1}}]`},
		{"root is string", `"summary"`},
		{"nested summary only", `{"report":{"summary":{"total":1}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, normalize.ParseSummary(tt.text))
		})
	}
}

func TestParseSummary_DuplicateKeysLastWins(t *testing.T) {
	s := normalize.ParseSummary(`{"summary":{"total":1},"summary":{"total":2,"low":4,"low":5}}`)
	require.NotNil(t, s)
	assert.Equal(t, domain.ScanSummary{Total: 2, Low: 5}, *s)

	assert.Nil(t, normalize.ParseSummary(`{"summary":{"total":1},"summary":null}`))
}

func TestParseSummary_SurroundingWhitespace(t *testing.T) {
	s := normalize.ParseSummary("\n  {\"summary\": {\"low\": 7}}\n")
	require.NotNil(t, s)
	assert.Equal(t, 7, s.Low)
}

func TestLenient_NoSummaryKey(t *testing.T) {
	r := normalize.Lenient(domain.ProcessOutcome{ExitSuccess: true, Stdout: `{"ok":true}`})
	assert.True(t, r.Success)
	assert.Equal(t, `{"ok":true}`, r.Output)
	assert.Nil(t, r.Summary)
}

func TestLenient_InvalidJSONKeepsTextUnchanged(t *testing.T) {
	text := "not json at all\n"
	r := normalize.Lenient(domain.ProcessOutcome{ExitSuccess: true, Stdout: text})
	assert.Equal(t, text, r.Output)
	assert.Nil(t, r.Summary)
}

func TestLenient_StdoutChosenRegardlessOfExitStatus(t *testing.T) {
	r := normalize.Lenient(domain.ProcessOutcome{
		ExitSuccess: false,
		ExitCode:    2,
		Stdout:      `{"summary":{"total":1,"low":1}}`,
		Stderr:      "warning: something",
	})
	assert.False(t, r.Success)
	assert.Equal(t, `{"summary":{"total":1,"low":1}}`, r.Output)
	require.NotNil(t, r.Summary)
	assert.Equal(t, 1, r.Summary.Low)
}

func TestLenient_FailureWithEmptyStdoutStillBuildsResult(t *testing.T) {
	r := normalize.Lenient(domain.ProcessOutcome{ExitSuccess: false, ExitCode: 1, Stderr: "backup failed"})
	assert.False(t, r.Success)
	assert.Equal(t, "backup failed", r.Output)
	assert.Nil(t, r.Summary)
}

func TestLenient_SummaryFromStderrFallback(t *testing.T) {
	r := normalize.Lenient(domain.ProcessOutcome{ExitSuccess: true, Stderr: `{"summary":{"total":2}}`})
	require.NotNil(t, r.Summary)
	assert.Equal(t, 2, r.Summary.Total)
}

func TestLenient_BothStreamsEmpty(t *testing.T) {
	r := normalize.Lenient(domain.ProcessOutcome{ExitSuccess: true})
	assert.True(t, r.Success)
	assert.Equal(t, "", r.Output)
	assert.Nil(t, r.Summary)
}

func TestStrict_FailureWithEmptyStdoutIsError(t *testing.T) {
	_, err := normalize.Strict(domain.ProcessOutcome{ExitSuccess: false, ExitCode: 1, Stderr: "no such project"})
	require.Error(t, err)
	assert.True(t, domain.IsScanFailed(err))
	assert.Equal(t, "scan failed: no such project", err.Error())
}

func TestStrict_FailureWithStdoutIsResult(t *testing.T) {
	r, err := normalize.Strict(domain.ProcessOutcome{ExitSuccess: false, Stdout: `{"summary":{"high":3}}`})
	require.NoError(t, err)
	assert.False(t, r.Success)
	require.NotNil(t, r.Summary)
	assert.Equal(t, 3, r.Summary.High)
}

func TestStrict_SuccessWithEmptyStdoutUsesStderr(t *testing.T) {
	r, err := normalize.Strict(domain.ProcessOutcome{ExitSuccess: true, Stderr: "nothing to scan"})
	require.NoError(t, err)
	assert.True(t, r.Success)
	assert.Equal(t, "nothing to scan", r.Output)
}

func TestReport_ReturnsTextVerbatim(t *testing.T) {
	md := "# OhMyBug Scan Report\n\n| Metric | Before |\n"
	text, err := normalize.Report(domain.ProcessOutcome{ExitSuccess: true, Stdout: md})
	require.NoError(t, err)
	assert.Equal(t, md, text)
}

func TestReport_DoesNotDecodeJSON(t *testing.T) {
	js := `{"summary":{"total":1}}`
	text, err := normalize.Report(domain.ProcessOutcome{ExitSuccess: true, Stdout: js})
	require.NoError(t, err)
	assert.Equal(t, js, text)
}

func TestReport_FailureWithEmptyStdoutIsError(t *testing.T) {
	_, err := normalize.Report(domain.ProcessOutcome{ExitSuccess: false, Stderr: "boom"})
	assert.True(t, domain.IsScanFailed(err))
}
