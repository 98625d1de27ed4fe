package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"task-viewer/internal/domain"
	"task-viewer/internal/errors"
)

// ImportCommand loads a JSON task export through the task service
type ImportCommand struct {
	app     *App
	handler *ErrorHandler
}

// NewImportCommand creates a new import command handler
func NewImportCommand(app *App) *ImportCommand {
	return &ImportCommand{app: app, handler: NewErrorHandler()}
}

// Execute imports the tasks read from r
func (c *ImportCommand) Execute(ctx context.Context, r io.Reader) error {
	var tasks []domain.ExportedTask
	if err := json.NewDecoder(r).Decode(&tasks); err != nil {
		return errors.NewInvalidInputError("tasks", "", "expected a JSON array of tasks: "+err.Error())
	}

	result, err := c.app.services.TaskService.Import(ctx, c.app.owner, tasks)
	if err != nil {
		return c.handler.Handle("import tasks", err)
	}
	return c.app.printer.ImportResult(result)
}

func (r *RootCommand) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a JSON task export",
		Long: `Import a JSON task array, such as one exported from the browser version.
Each task is checked like one created with add and its discipline must exist.
Invalid tasks and tasks imported before are skipped and listed. Use - to read
from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			if args[0] == "-" {
				return NewImportCommand(r.app).Execute(ctx, cmd.InOrStdin())
			}
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()
			return NewImportCommand(r.app).Execute(ctx, f)
		},
	}
}
