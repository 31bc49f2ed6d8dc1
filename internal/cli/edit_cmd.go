package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/formdraft/internal/cli/formatter"
)

func newEditCmd(app *App) *cobra.Command {
	var submit bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the current draft in the terminal with autosave",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEditWith(cmd, app, submit)
		},
	}
	cmd.Flags().BoolVar(&submit, "submit", false, "submit the form when all pages are completed")
	return cmd
}

func runEdit(cmd *cobra.Command, app *App) error {
	return runEditWith(cmd, app, false)
}

func runEditWith(cmd *cobra.Command, app *App, submit bool) error {
	ctx := cmd.Context()
	log := app.logger()

	sess := app.startSession(ctx, false)
	defer sess.close(log)

	final, err := app.runProgram(newEditModel(ctx, app, sess))
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	m, ok := final.(*editModel)
	if !ok {
		return nil
	}

	out := cmd.OutOrStdout()
	if m.completed && submit {
		sess.scheduler.Suspend()
		id := app.Services.Drafts.SubmitForm(ctx, sess.form.Values(), sess.form.Title())
		if id == "" {
			return errEmptyFormData
		}
		fmt.Fprintf(out, "Submitted %s\n", formatter.TruncID(id))
		return nil
	}
	if d, ok := app.Services.Drafts.CurrentDraft(ctx); ok {
		fmt.Fprintf(out, "Draft %s kept %s\n", formatter.Bold(d.Name), formatter.TruncID(d.ID))
	}
	return nil
}
