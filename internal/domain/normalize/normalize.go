// Package normalize turns a finished scanner process into a ScanResult.
package normalize

import (
	"encoding/json"

	"github.com/buger/jsonparser"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

// SelectOutput picks the text shown to the caller: stdout when it has
// anything in it, stderr otherwise (even when stderr is empty too).
func SelectOutput(stdout, stderr string) string {
	if stdout != "" {
		return stdout
	}
	return stderr
}

// ParseSummary decodes the "summary" object of a JSON document. It returns nil
// when text is not valid JSON, the root is not an object, or the root has no
// "summary" object. Fields that are missing or not integers read as zero.
func ParseSummary(text string) *domain.ScanSummary {
	data := []byte(text)
	if !json.Valid(data) {
		return nil
	}
	if _, rootType, _, err := jsonparser.Get(data); err != nil || rootType != jsonparser.Object {
		return nil
	}

	raw, typ, ok := lastMember(data, "summary")
	if !ok || typ != jsonparser.Object {
		return nil
	}

	return &domain.ScanSummary{
		Total:    intField(raw, "total"),
		Critical: intField(raw, "critical"),
		High:     intField(raw, "high"),
		Medium:   intField(raw, "medium"),
		Low:      intField(raw, "low"),
	}
}

// intField reads a non-negative integer field, defaulting to zero.
func intField(obj []byte, key string) int {
	v, typ, ok := lastMember(obj, key)
	if !ok || typ != jsonparser.Number {
		return 0
	}
	n, err := jsonparser.ParseInt(v)
	if err != nil || n < 0 {
		return 0
	}
	return int(n)
}

// lastMember looks up key among the members of a JSON object. A name that
// appears more than once resolves to its last occurrence.
func lastMember(obj []byte, key string) (value []byte, typ jsonparser.ValueType, ok bool) {
	_ = jsonparser.ObjectEach(obj, func(k, v []byte, t jsonparser.ValueType, _ int) error {
		if string(k) == key {
			value, typ, ok = v, t, true
		}
		return nil
	})
	return value, typ, ok
}

// Lenient always builds a result, whatever the exit status. Used by the fix
// entry point.
func Lenient(out domain.ProcessOutcome) domain.ScanResult {
	text := SelectOutput(out.Stdout, out.Stderr)
	return domain.ScanResult{
		Success: out.ExitSuccess,
		Output:  text,
		Summary: ParseSummary(text),
	}
}

// Strict is Lenient plus the plain-scan abort rule: a failed exit with empty
// stdout becomes a ScanFailedError carrying stderr.
func Strict(out domain.ProcessOutcome) (domain.ScanResult, error) {
	if err := checkAborted(out); err != nil {
		return domain.ScanResult{}, err
	}
	return Lenient(out), nil
}

// Report returns the selected output text verbatim, with no summary
// extraction. The plain-scan abort rule applies.
func Report(out domain.ProcessOutcome) (string, error) {
	if err := checkAborted(out); err != nil {
		return "", err
	}
	return SelectOutput(out.Stdout, out.Stderr), nil
}

func checkAborted(out domain.ProcessOutcome) error {
	if !out.ExitSuccess && out.Stdout == "" {
		return &domain.ScanFailedError{Stderr: out.Stderr}
	}
	return nil
}
