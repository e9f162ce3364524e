package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ohmybug/ohmybug-bridge/internal/adapters/inbound/httpapi"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bridge over a local HTTP API",
		Long:  "Start an HTTP server exposing scan, report, fix, availability and version endpoints under /api/v1.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := httpapi.DefaultConfig()
			cfg.Addr = a.cfg.Server.Addr
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "ohmybug-bridge listening on http://%s\n", cfg.Addr)
			return httpapi.NewServer(a.svc, cfg, a.log.Named("http")).Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")

	return cmd
}
