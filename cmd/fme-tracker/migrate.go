package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long:  `Create the companies, fme, sites and interventions tables if they do not exist yet. The server does the same on startup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			a.log.Info().Str("driver", a.cfg.DB.Driver).Msg("schema is up to date")
			return nil
		},
	}
}
