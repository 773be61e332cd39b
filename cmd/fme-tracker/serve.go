package main

import (
	"fmt"

	"github.com/spf13/cobra"

	httphandler "fme-tracker/internal/http"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			svc := a.services()
			handler := httphandler.NewHandler(svc.companies, svc.technicians, svc.sites, svc.interventions, svc.stats, a.log)
			router := httphandler.NewRouter(handler, a.log, a.cfg.Environment)

			addr := fmt.Sprintf("%s:%d", a.cfg.HTTP.Host, a.cfg.HTTP.Port)
			a.log.Info().Str("addr", addr).Msg("starting fme tracker")

			if err := router.Run(addr); err != nil {
				a.log.Error().Err(err).Msg("failed to start server")
				return err
			}
			return nil
		},
	}
}
