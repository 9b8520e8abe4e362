package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/reglet-dev/reglet-rand/infrastructure/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the module over HTTP",
		Long: `Serve the module over HTTP until interrupted.

	GET  /v1/manifest
	POST /v1/call/:name`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			srv, err := httpapi.NewServer(a.registry,
				httpapi.WithLogger(a.logger),
				httpapi.WithMaxBodySize(int64(a.cfg.MaxRequestSize)),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default RAND_HTTP_ADDR)")
	return cmd
}
