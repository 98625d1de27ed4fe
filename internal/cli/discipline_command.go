package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// DisciplineCommand handles the discipline subcommands
type DisciplineCommand struct {
	app     *App
	handler *ErrorHandler
}

// NewDisciplineCommand creates a new discipline command handler
func NewDisciplineCommand(app *App) *DisciplineCommand {
	return &DisciplineCommand{app: app, handler: NewErrorHandler()}
}

// Add creates a discipline. Adding an existing name succeeds silently.
func (c *DisciplineCommand) Add(ctx context.Context, name string) error {
	if err := c.app.services.DisciplineService.Add(ctx, c.app.owner, name); err != nil {
		return c.handler.Handle("add discipline", err)
	}
	c.app.printer.Message("Added discipline %s", name)
	return nil
}

// List prints the owner's disciplines sorted by name
func (c *DisciplineCommand) List(ctx context.Context) error {
	return c.app.printer.Disciplines(c.app.services.DisciplineService.List(ctx, c.app.owner))
}

// Rename renames a discipline together with its tasks
func (c *DisciplineCommand) Rename(ctx context.Context, oldName, newName string) error {
	if err := c.app.services.DisciplineService.Rename(ctx, c.app.owner, oldName, newName); err != nil {
		return c.handler.Handle("rename discipline", err)
	}
	c.app.printer.Message("Renamed discipline %s to %s", oldName, newName)
	return nil
}

// Delete removes a discipline, keeping its tasks
func (c *DisciplineCommand) Delete(ctx context.Context, name string) error {
	if err := c.app.services.DisciplineService.Delete(ctx, c.app.owner, name); err != nil {
		return c.handler.Handle("delete discipline", err)
	}
	c.app.printer.Message("Deleted discipline %s", name)
	return nil
}

func (r *RootCommand) newDisciplineCmd() *cobra.Command {
	disciplineCmd := &cobra.Command{
		Use:     "discipline",
		Aliases: []string{"disciplines"},
		Short:   "Manage disciplines",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a discipline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewDisciplineCommand(r.app).Add(ctx, args[0])
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List disciplines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewDisciplineCommand(r.app).List(ctx)
		},
	}

	renameCmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a discipline and move its tasks",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewDisciplineCommand(r.app).Rename(ctx, args[0], args[1])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a discipline, keeping its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewDisciplineCommand(r.app).Delete(ctx, args[0])
		},
	}

	disciplineCmd.AddCommand(addCmd, listCmd, renameCmd, deleteCmd)
	return disciplineCmd
}
