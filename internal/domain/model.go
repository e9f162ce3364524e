package domain

// ScanResult is the normalized outcome of one invocation of the scanner CLI.
type ScanResult struct {
	Success bool         `json:"success"`
	Output  string       `json:"output"`
	Summary *ScanSummary `json:"summary"`
}

// HasSummary reports whether a structured summary was decoded from the output.
func (r ScanResult) HasSummary() bool { return r.Summary != nil }

// ScanSummary holds finding counts by severity.
type ScanSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Severities lists the summary fields in display order, highest first.
var Severities = []string{"critical", "high", "medium", "low"}

// Count returns the count for a severity name, or 0 for unknown names.
func (s ScanSummary) Count(severity string) int {
	switch severity {
	case "total":
		return s.Total
	case "critical":
		return s.Critical
	case "high":
		return s.High
	case "medium":
		return s.Medium
	case "low":
		return s.Low
	default:
		return 0
	}
}

// Mode selects whether the scanner only checks or also applies fixes.
type Mode int

const (
	ModeCheck Mode = iota
	ModeCheckWithFix
)

func (m Mode) String() string {
	if m == ModeCheckWithFix {
		return "check-with-fix"
	}
	return "check"
}

// Format is the value passed to the scanner's --format flag.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Candidate is one filesystem location considered during binary discovery.
// Bare candidates are plain command names resolved through PATH.
type Candidate struct {
	Path string `json:"path"`
	Bare bool   `json:"bare"`
}

// CandidateStatus describes what discovery observed for a single candidate.
type CandidateStatus struct {
	Candidate
	Exists  bool   `json:"exists"`
	Healthy bool   `json:"healthy"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DoctorReport lists every candidate status plus the one discovery would pick.
type DoctorReport struct {
	Candidates []CandidateStatus `json:"candidates"`
	Resolved   string            `json:"resolved,omitempty"`
}

// Found reports whether any candidate passed its health-check.
func (d DoctorReport) Found() bool { return d.Resolved != "" }

// ProjectInfo carries repository metadata about a scanned path.
type ProjectInfo struct {
	Path       string `json:"path"`
	IsGitRepo  bool   `json:"is_git_repo"`
	Branch     string `json:"branch,omitempty"`
	CommitHash string `json:"commit_hash,omitempty"`
}

// ShortCommit returns the first seven characters of the commit hash.
func (p ProjectInfo) ShortCommit() string {
	if len(p.CommitHash) > 7 {
		return p.CommitHash[:7]
	}
	return p.CommitHash
}
