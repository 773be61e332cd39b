package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fme-tracker/internal/export"
	"fme-tracker/internal/service"
)

func newExportCommand() *cobra.Command {
	var (
		query  service.InterventionQuery
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export interventions as CSV",
		Long:  `Write the interventions matching the filters as a CSV file, in the same format as the /api/export/excel endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			svc := a.services().interventions
			interventions, err := svc.List(cmd.Context(), query)
			if err != nil {
				return err
			}

			write := func(w io.Writer) error {
				return export.WriteInterventions(w, interventions, svc.Location())
			}

			if output == "" {
				if err := write(cmd.OutOrStdout()); err != nil {
					return err
				}
			} else {
				if output == "auto" {
					output = export.Filename(svc.Now().In(svc.Location()))
				}
				if err := writeFile(output, write); err != nil {
					return err
				}
			}

			a.log.Info().Int("rows", len(interventions)).Str("output", output).Msg("export written")
			return nil
		},
	}

	cmd.Flags().StringVar(&query.Status, "status", "", "Only interventions with this status (open, closed)")
	cmd.Flags().StringVar(&query.Company, "company", "", "Only interventions of this company")
	cmd.Flags().StringVar(&query.SiteDown, "site-down", "", "Set to true to keep only sites left down")
	cmd.Flags().StringVar(&query.DateFrom, "date-from", "", "Earliest arrival date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&query.DateTo, "date-to", "", "Latest arrival date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file, "auto" for a timestamped name (default stdout)`)

	return cmd
}

// writeFile creates path and fills it with write. The close error is returned
// since it is where a failed flush to disk shows up.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
