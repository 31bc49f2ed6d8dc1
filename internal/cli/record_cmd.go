package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/formdraft/internal/cli/formatter"
	"github.com/alexanderramin/formdraft/internal/domain"
)

func newListCmd(app *App) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List drafts, submissions and templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			records := app.Services.Registry.List(ctx)
			if status != "" {
				st, ok := domain.ParseStatus(status)
				if !ok {
					return fmt.Errorf("invalid status %q (draft, submitted, template)", status)
				}
				records = app.Services.Registry.ListByStatus(ctx, st)
			}

			var draftID string
			if d, ok := app.Services.Drafts.CurrentDraft(ctx); ok {
				draftID = d.ID
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordList(records, draftID, app.now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: draft, submitted, template")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := resolveRecord(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(rec, app.schema()))
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rec, err := resolveRecord(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !app.Services.Registry.Delete(ctx, rec.ID) {
				return fmt.Errorf("%s: %w", args[0], errRecordNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", formatter.Bold(rec.Name), formatter.TruncID(rec.ID))
			return nil
		},
	}
}
