package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/grpension/internal/metrics"
	"github.com/rgehrsitz/grpension/internal/server"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as a JSON API",
		Long: `Serve the calculator over HTTP.

  POST /api/v1/calculate   facts as JSON
  POST /api/v1/extract     multipart upload, field "file"
  POST /api/v1/private     private plan as JSON
  GET  /healthz
  GET  /metrics            prometheus`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.settings.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.pipeline(), metrics.New(), server.Options{
				Settings:          a.settings.Server,
				ExtractionTimeout: a.settings.OCR.Timeout,
				Logger:            a.logger,
				Now:               a.now,
			})
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}
