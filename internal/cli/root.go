package cli

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexanderramin/formdraft/internal/config"
	"github.com/alexanderramin/formdraft/internal/form"
	"github.com/alexanderramin/formdraft/internal/service"
)

// App holds everything CLI commands need.
type App struct {
	Services *service.Services
	Config   config.Config
	Logger   *zap.Logger
	Schema   *form.Schema

	// IsInteractive reports whether stdin is a terminal. The bare command
	// opens the editor only when it returns true.
	IsInteractive func() bool
	Now           func() time.Time
	// RunProgram runs a bubbletea model to completion.
	RunProgram func(m tea.Model) (tea.Model, error)
}

func (app *App) now() time.Time {
	if app.Now != nil {
		return app.Now()
	}
	return time.Now()
}

func (app *App) schema() *form.Schema {
	if app.Schema != nil {
		return app.Schema
	}
	return form.DefaultSchema()
}

func (app *App) logger() *zap.Logger {
	if app.Logger != nil {
		return app.Logger
	}
	return zap.NewNop()
}

func (app *App) runProgram(m tea.Model) (tea.Model, error) {
	if app.RunProgram != nil {
		return app.RunProgram(m)
	}
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// NewRootCmd creates the top-level "formdraft" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "formdraft",
		Short:         "Drafts, submissions and templates for the onboarding form",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runEdit(cmd, app)
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().String("config", "", "config file (default ~/.formdraft/config.yml)")

	root.AddCommand(
		newListCmd(app),
		newShowCmd(app),
		newDeleteCmd(app),
		newDraftCmd(app),
		newSubmitCmd(app),
		newTemplateCmd(app),
		newImportCmd(app),
		newExportCmd(app),
		newEditCmd(app),
		newServeCmd(app),
	)
	return root
}
