package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/formdraft/internal/cli/formatter"
	"github.com/alexanderramin/formdraft/internal/domain"
)

var (
	errNothingToSubmit = errors.New("no form data given and no current draft")
	errEmptyFormData   = errors.New("form data has no content to save")
)

// submission resolves the data and name for submit and template save: flags
// win, otherwise the current draft is used.
func submission(ctx context.Context, app *App, in recordInput) (domain.FormData, string, error) {
	if in.hasData() {
		data, err := in.formData(app.schema().EmptyValues())
		return data, in.name, err
	}
	cur, ok := app.Services.Drafts.CurrentDraft(ctx)
	if !ok {
		return nil, "", errNothingToSubmit
	}
	return cur.FormData, domain.CoalesceStr(in.name, cur.Name), nil
}

func newSubmitCmd(app *App) *cobra.Command {
	var in recordInput
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit form data, or the current draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, name, err := submission(ctx, app, in)
			if err != nil {
				return err
			}
			id := app.Services.Drafts.SubmitForm(ctx, data, name)
			if id == "" {
				return errEmptyFormData
			}
			rec, _ := app.Services.Registry.Get(ctx, id)
			fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s %s\n", formatter.Bold(rec.Name), formatter.TruncID(id))
			return nil
		},
	}
	bindRecordFlags(cmd.Flags(), &in)
	return cmd
}

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Save and browse templates",
	}
	cmd.AddCommand(
		newTemplateSaveCmd(app),
		newTemplateListCmd(app),
	)
	return cmd
}

func newTemplateSaveCmd(app *App) *cobra.Command {
	var (
		in    recordInput
		from  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save form data, a record or the current draft as a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				data domain.FormData
				name string
				err  error
			)
			if from != "" {
				src, rerr := resolveRecord(ctx, app, from)
				if rerr != nil {
					return rerr
				}
				data, name = src.FormData, domain.CoalesceStr(in.name, src.Name)
			} else if data, name, err = submission(ctx, app, in); err != nil {
				return err
			}

			candidate := domain.Record{Name: name, FormData: data, Status: domain.StatusTemplate}
			if !force && name != "" && app.Services.Registry.HasTemplateFor(ctx, candidate) {
				return fmt.Errorf("a template with this name or content already exists (use --force)")
			}
			id := app.Services.Drafts.SaveAsTemplate(ctx, data, name)
			if id == "" {
				return errEmptyFormData
			}
			rec, _ := app.Services.Registry.Get(ctx, id)
			fmt.Fprintf(cmd.OutOrStdout(), "Template saved: %s %s\n", formatter.Bold(rec.Name), formatter.TruncID(id))
			return nil
		},
	}
	bindRecordFlags(cmd.Flags(), &in)
	cmd.Flags().StringVar(&from, "from", "", "copy form data from this record")
	cmd.Flags().BoolVar(&force, "force", false, "save even if a matching template exists")
	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates := app.Services.Registry.ListByStatus(cmd.Context(), domain.StatusTemplate)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecordList(templates, "", app.now()))
			return nil
		},
	}
}
