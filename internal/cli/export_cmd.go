package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/sheetr/internal/domain"
	"github.com/sadopc/sheetr/internal/export"
)

func newExportCmd(app *App) *cobra.Command {
	var rate float64
	var pageSize int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export project cost report rows",
	}
	cmd.PersistentFlags().Float64Var(&rate, "rate", 0, "Hourly rate (default from settings)")

	rows := func(cmd *cobra.Command) ([]domain.ReportRow, error) {
		r := rate
		if !cmd.Flags().Changed("rate") {
			r = app.HourlyRate(cmd.Context())
		}
		return app.Reports.Rows(cmd.Context(), r)
	}
	done := func(cmd *cobra.Command, n int, path string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", n, path)
	}

	csvCmd := &cobra.Command{
		Use:   "csv <path>",
		Short: "Write report rows as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rows(cmd)
			if err != nil {
				return err
			}
			if err := export.ToCSV(r, args[0]); err != nil {
				return err
			}
			done(cmd, len(r), args[0])
			return nil
		},
	}
	jsonCmd := &cobra.Command{
		Use:   "json <path>",
		Short: "Write report rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rows(cmd)
			if err != nil {
				return err
			}
			if err := export.ToJSON(r, args[0]); err != nil {
				return err
			}
			done(cmd, len(r), args[0])
			return nil
		},
	}
	docCmd := &cobra.Command{
		Use:   "doc <path>",
		Short: "Write report rows as a paginated text document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := rows(cmd)
			if err != nil {
				return err
			}
			size := pageSize
			if size <= 0 {
				size = app.PageSize(cmd.Context())
			}
			if err := export.ToDocument(r, args[0], size); err != nil {
				return err
			}
			done(cmd, len(r), args[0])
			return nil
		},
	}
	docCmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default from settings)")

	cmd.AddCommand(csvCmd, jsonCmd, docCmd)
	return cmd
}
