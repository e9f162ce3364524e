package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

// ── Warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var severityColors = map[string]lipgloss.Color{
	"critical": danger,
	"high":     lipgloss.Color("#FB923C"), // orange
	"medium":   warning,
	"low":      info,
}

var (
	headerStyle   lipgloss.Style
	boxStyle      lipgloss.Style
	dimStyle      lipgloss.Style
	faintStyle    lipgloss.Style
	passStyle     lipgloss.Style
	failStyle     lipgloss.Style
	warnStyle     lipgloss.Style
	titleStyle    lipgloss.Style
	labelStyle    lipgloss.Style
	separatorLine string

	noColor bool
)

func init() { applyStyles() }

// SetNoColor turns every style into a plain renderer, or restores the palette.
func SetNoColor(disabled bool) {
	noColor = disabled
	applyStyles()
}

func applyStyles() {
	color := func(c lipgloss.Color) lipgloss.Style {
		if noColor {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}

	headerStyle = color(accent).Bold(!noColor).Align(lipgloss.Center)
	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 4).
		Align(lipgloss.Center).
		Width(68)
	if !noColor {
		boxStyle = boxStyle.BorderForeground(accent)
	}
	dimStyle = color(dim)
	faintStyle = color(faint)
	passStyle = color(success)
	failStyle = color(danger)
	warnStyle = color(warning)
	titleStyle = color(fg).Bold(!noColor)
	labelStyle = color(fg).Width(12)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
}

func severityStyle(severity string) lipgloss.Style {
	if noColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(severityColors[severity]).Bold(true)
}

// RenderScanResult renders a scan outcome with its project context. Without a
// summary the scanner's raw output is shown instead of the counts.
func RenderScanResult(result domain.ScanResult, project domain.ProjectInfo) string {
	var b strings.Builder

	title := headerStyle.Render("ohmybug")
	status := passStyle.Bold(!noColor).Render("PASS")
	if !result.Success {
		status = failStyle.Bold(!noColor).Render("FAIL")
	}

	lines := []string{title, dimStyle.Render(projectLine(project)), "", status}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	if result.Summary == nil {
		b.WriteString("  " + dimStyle.Render("No summary reported. Raw output:") + "\n\n")
		for _, line := range strings.Split(strings.TrimRight(result.Output, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
		return b.String()
	}

	s := result.Summary
	fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render("Findings"), dimStyle.Render(fmt.Sprintf("(%d total)", s.Total)))
	b.WriteString("  " + separatorLine + "\n")
	for _, sev := range domain.Severities {
		n := s.Count(sev)
		count := fmt.Sprintf("%d", n)
		if n > 0 {
			count = severityStyle(sev).Render(count)
		} else {
			count = faintStyle.Render(count)
		}
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(sev), count)
	}
	b.WriteString("\n")

	if s.Critical > 0 || s.High > 0 {
		b.WriteString("  " + warnStyle.Render("Run `ohmybug-bridge fix` to apply automatic fixes.") + "\n")
	} else if s.Total == 0 {
		b.WriteString("  " + passStyle.Render("No issues found.") + "\n")
	}
	return b.String()
}

func projectLine(p domain.ProjectInfo) string {
	line := p.Path
	if p.IsGitRepo {
		ref := p.Branch
		if ref == "" {
			ref = "detached"
		}
		if c := p.ShortCommit(); c != "" {
			ref += "@" + c
		}
		line += "  " + ref
	}
	return line
}

// RenderDoctorReport lists every discovery candidate and what was found there.
func RenderDoctorReport(report domain.DoctorReport) string {
	var b strings.Builder

	b.WriteString("\n  " + titleStyle.Render("Scanner discovery") + "\n")
	b.WriteString("  " + separatorLine + "\n")

	for _, c := range report.Candidates {
		var mark, detail string
		switch {
		case c.Healthy:
			mark = passStyle.Render("✓")
			detail = dimStyle.Render(c.Version)
		case c.Exists:
			mark = failStyle.Render("✗")
			detail = failStyle.Render(c.Error)
		default:
			mark = faintStyle.Render("○")
			detail = faintStyle.Render(c.Error)
		}
		path := c.Path
		if c.Bare {
			path += dimStyle.Render(" (PATH)")
		}
		if c.Path == report.Resolved {
			path = titleStyle.Render(c.Path) + "  " + passStyle.Render("← selected")
		}
		fmt.Fprintf(&b, "  %s %s\n", mark, path)
		if detail != "" {
			fmt.Fprintf(&b, "      %s\n", detail)
		}
	}

	b.WriteString("\n")
	if report.Found() {
		b.WriteString("  " + passStyle.Render("ohmybug is available.") + "\n")
	} else {
		b.WriteString("  " + failStyle.Render("ohmybug CLI not found.") + " " +
			dimStyle.Render("Install it or add its location to tool.extra_paths.") + "\n")
	}
	return b.String()
}
