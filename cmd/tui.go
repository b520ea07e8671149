package cmd

import (
	"context"

	"github.com/tasq-sh/tasq/internal/ui"
)

func (a *app) tuiCommand(ctx context.Context) error {
	return ui.RunTUI(ctx, a.todoFile())
}
