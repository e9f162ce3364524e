package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ohmybug/ohmybug-bridge/internal/adapters/outbound/tui"
	"github.com/ohmybug/ohmybug-bridge/internal/domain"
)

var errUnavailable = errors.New("ohmybug is not available")

func newAvailableCmd(a *app) *cobra.Command {
	var bare bool

	cmd := &cobra.Command{
		Use:   "available",
		Short: "Report whether the ohmybug CLI can be found",
		Long:  "Print true or false. Exits with status 1 when ohmybug cannot be found.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bare {
				a.cfg.Tool.Availability = domain.AvailabilityBare
				a.buildService()
			}
			ok := a.svc.IsAvailable(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			if !ok {
				return errUnavailable
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bare, "bare", false, "Only probe the bare command name on PATH")

	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show bridge and ohmybug versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ohmybug-bridge %s (%s)\n", version, commit)

			v, err := a.svc.Version(cmd.Context())
			if errors.Is(err, domain.ErrToolNotFound) {
				fmt.Fprintln(out, "ohmybug: not found")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ohmybug: %s\n", v)
			return nil
		},
	}
}

func newDoctorCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Show where ohmybug was looked for and what was found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := a.svc.Doctor(cmd.Context())
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderDoctorReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
