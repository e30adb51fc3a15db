// Package tui is the interactive admin client: a resource picker, a record list per resource,
// a detail view, a delete confirmation and a create form.
package tui

import (
	"context"
	"log/slog"

	"sportadmin/internal/api"
	"sportadmin/internal/resource"
	"sportadmin/internal/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

// Client is the backend surface the TUI needs. *api.Client satisfies it.
type Client interface {
	workflow.Deleter
	workflow.Creator
	LoadAll(ctx context.Context, url string, opts api.LoadOptions) api.LoadResult
}

type Options struct {
	Resources []resource.Resource
	Client    Client
	// Journal is optional.
	Journal workflow.Journal
	Logger  *slog.Logger
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
