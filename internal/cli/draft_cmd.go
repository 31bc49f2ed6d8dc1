package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/formdraft/internal/cli/formatter"
)

func newDraftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Work with the current draft",
	}
	cmd.AddCommand(
		newDraftShowCmd(app),
		newDraftSaveCmd(app),
		newDraftClearCmd(app),
		newDraftLoadCmd(app),
	)
	return cmd
}

func newDraftShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, ok := app.Services.Drafts.CurrentDraft(cmd.Context())
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No current draft."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatRecord(rec, app.schema()))
			return nil
		},
	}
}

func newDraftSaveCmd(app *App) *cobra.Command {
	var in recordInput
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save form data into the current draft",
		Long: "Save form data into the current draft. --data replaces fields of the\n" +
			"current draft and --set changes single fields.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			base := app.schema().EmptyValues()
			if cur, ok := app.Services.Drafts.CurrentDraft(ctx); ok {
				base = cur.FormData
			}
			data, err := in.formData(base)
			if err != nil {
				return err
			}

			rec, saved := app.Services.Drafts.SaveDraft(ctx, data, in.name)
			out := cmd.OutOrStdout()
			if !saved {
				fmt.Fprintln(out, formatter.Dim("Nothing to save."))
				return nil
			}
			fmt.Fprintf(out, "Draft saved: %s %s\n", formatter.Bold(rec.Name), formatter.TruncID(rec.ID))
			return nil
		},
	}
	bindRecordFlags(cmd.Flags(), &in)
	return cmd
}

func newDraftClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the current draft slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Services.Drafts.ClearCurrentDraft(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Current draft cleared.")
			return nil
		},
	}
}

func newDraftLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load ID",
		Short: "Make a record the current draft",
		Long: "Make a record the current draft. Drafts are edited in place;\n" +
			"submissions and templates are copied into a new draft.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := resolveRecord(ctx, app, args[0])
			if err != nil {
				return err
			}
			rec, ok := app.Services.Drafts.LoadSubmissionAsDraft(ctx, src.ID)
			if !ok {
				return fmt.Errorf("%s: %w", args[0], errRecordNotFound)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s as the current draft.\n", formatter.Bold(rec.Name))
			return nil
		},
	}
}
