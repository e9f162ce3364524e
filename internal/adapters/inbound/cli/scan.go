package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/tui"
	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		fix        bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a project with ohmybug",
		Long:  "Run ohmybug against a project and report the normalized result. A failed scan that printed nothing on stdout is an error.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := projectPath(args)
			result, err := a.svc.Scan(cmd.Context(), path, fix)
			if err != nil {
				return err
			}
			return renderScanResult(cmd, a.git, result, path, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Let ohmybug apply automatic fixes")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report [path]",
		Short: "Print ohmybug's markdown report for a project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.svc.ScanReport(cmd.Context(), projectPath(args))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newFixCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Apply ohmybug's automatic fixes to a project",
		Long:  "Run ohmybug with --fix. The result is reported even when ohmybug exits with a failure status.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := projectPath(args)
			result, err := a.svc.Fix(cmd.Context(), path)
			if err != nil {
				return err
			}
			return renderScanResult(cmd, a.git, result, path, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func renderScanResult(cmd *cobra.Command, git domain.GitInfo, result domain.ScanResult, path string, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderScanResult(result, git.Describe(path)))
	return nil
}
