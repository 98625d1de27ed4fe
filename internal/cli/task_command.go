package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"task-viewer/internal/codec"
	"task-viewer/internal/domain"
	"task-viewer/internal/errors"
)

// TaskCommand handles the task subcommands
type TaskCommand struct {
	app     *App
	handler *ErrorHandler
}

// NewTaskCommand creates a new task command handler
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{app: app, handler: NewErrorHandler()}
}

// Add creates a pending task and prints it
func (c *TaskCommand) Add(ctx context.Context, in domain.NewTask) error {
	task, err := c.app.services.TaskService.Add(ctx, c.app.owner, in)
	if err != nil {
		return c.handler.Handle("add task", err)
	}
	return c.app.printer.Task(task)
}

// List prints the tasks matching opts, newest first
func (c *TaskCommand) List(ctx context.Context, opts domain.SearchOptions) error {
	tasks, err := c.app.services.SearchService.Search(ctx, c.app.owner, opts)
	if err != nil {
		return c.handler.Handle("list tasks", err)
	}
	return c.app.printer.Tasks(tasks)
}

// Update applies a partial update
func (c *TaskCommand) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	if patch.IsEmpty() {
		return errors.NewInvalidInputError("flags", "", "nothing to update")
	}
	if err := c.app.services.TaskService.Update(ctx, c.app.owner, id, patch); err != nil {
		return c.handler.Handle("update task", err)
	}
	c.app.printer.Message("Updated task %s", id)
	return nil
}

// ChangeStatus moves a task to the status named by a label or storage token
func (c *TaskCommand) ChangeStatus(ctx context.Context, id, status string) error {
	parsed, err := codec.ParseStatus(status)
	if err != nil {
		return errors.NewInvalidInputError("status", status, "status must be one of pendente, em-andamento, concluída")
	}
	if err := c.app.services.TaskService.ChangeStatus(ctx, c.app.owner, id, parsed); err != nil {
		return c.handler.Handle("change task status", err)
	}
	c.app.printer.Message("Task %s is now %s", id, StatusText(parsed))
	return nil
}

// Delete removes a task
func (c *TaskCommand) Delete(ctx context.Context, id string) error {
	if err := c.app.services.TaskService.Delete(ctx, c.app.owner, id); err != nil {
		return c.handler.Handle("delete task", err)
	}
	c.app.printer.Message("Deleted task %s", id)
	return nil
}

func (r *RootCommand) newTaskCmd() *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	var in domain.NewTask
	addCmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a pending task",
		Example: `  tv task add --title "Ler capítulo 3" --discipline Física --due 2025-04-10`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Add(ctx, in)
		},
	}
	addCmd.Flags().StringVarP(&in.Title, "title", "t", "", "Task title")
	addCmd.Flags().StringVarP(&in.Description, "description", "d", "", "Task description")
	addCmd.Flags().StringVar(&in.Discipline, "discipline", "", "Discipline the task belongs to")
	addCmd.Flags().StringVar(&in.DueDate, "due", "", "Due date (YYYY-MM-DD or \"10 de abril\")")

	var due, discipline, status string
	listCmd := &cobra.Command{
		Use:   "list [text]",
		Short: "List tasks, newest first",
		Long: `List tasks with optional filtering.

Text filters search title, description and discipline, ignoring case.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			opts := domain.SearchOptions{
				Text:       strings.Join(args, " "),
				DueOn:      due,
				Discipline: discipline,
			}
			if status != "" {
				parsed, err := codec.ParseStatus(status)
				if err != nil {
					return errors.NewInvalidInputError("status", status, "unknown status")
				}
				opts.Status = &parsed
			}
			return NewTaskCommand(r.app).List(ctx, opts)
		},
	}
	listCmd.Flags().StringVar(&due, "due", "", "Only tasks due on this date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&discipline, "discipline", "", "Only tasks of this discipline")
	listCmd.Flags().StringVar(&status, "status", "", "Only tasks with this status")

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Update(ctx, args[0], patchFromFlags(cmd))
		},
	}
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().String("description", "", "New description")
	updateCmd.Flags().String("discipline", "", "New discipline")
	updateCmd.Flags().String("due", "", "New due date")
	updateCmd.Flags().String("status", "", "New status")

	statusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a task to another status",
		Long: `Move a task to another status.

Statuses: pendente, em-andamento, concluída (storage tokens such as em_andamento are accepted too).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).ChangeStatus(ctx, args[0], args[1])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewTaskCommand(r.app).Delete(ctx, args[0])
		},
	}

	taskCmd.AddCommand(addCmd, listCmd, updateCmd, statusCmd, deleteCmd)
	return taskCmd
}

// patchFromFlags builds a patch from the flags set on the command line.
func patchFromFlags(cmd *cobra.Command) domain.TaskPatch {
	var patch domain.TaskPatch
	flags := cmd.Flags()
	value := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}

	patch.Title = value("title")
	patch.Description = value("description")
	patch.Discipline = value("discipline")
	patch.DueDate = value("due")
	patch.Status = value("status")
	return patch
}
