package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/formdraft/internal/cli/formatter"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import an exported record as a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.Services.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s %s\n", formatter.Bold(rec.Name), formatter.TruncID(rec.ID))
			return nil
		},
	}
}

func newExportCmd(app *App) *cobra.Command {
	var (
		dir    string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export ID",
		Short: "Export a record to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rec, err := resolveRecord(ctx, app, args[0])
			if err != nil {
				return err
			}
			if stdout {
				res, err := app.Services.Export.Export(ctx, rec.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(res.Data))
				return nil
			}
			path, err := app.Services.Export.ExportToDir(ctx, rec.ID, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", formatter.Bold(rec.Name), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the JSON to stdout instead of a file")
	return cmd
}
