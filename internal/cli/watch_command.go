package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"task-viewer/internal/repository"
)

// WatchCommand prints a line whenever the owner's tasks or disciplines change,
// including writes made by other processes.
type WatchCommand struct {
	app *App
	mu  sync.Mutex
}

// NewWatchCommand creates a new watch command handler
func NewWatchCommand(app *App) *WatchCommand {
	return &WatchCommand{app: app}
}

type watchLine struct {
	Time     time.Time           `json:"time"`
	Resource repository.Resource `json:"resource"`
}

// Execute blocks until ctx is done
func (c *WatchCommand) Execute(ctx context.Context) error {
	svc := c.app.services
	unsubscribeTasks := svc.TaskService.SubscribeOwner(c.app.owner, func() { c.print(repository.ResourceTasks) })
	defer unsubscribeTasks()
	unsubscribeDisciplines := svc.DisciplineService.SubscribeOwner(c.app.owner, func() { c.print(repository.ResourceDisciplines) })
	defer unsubscribeDisciplines()

	c.app.printer.Message("Watching changes for %s, press Ctrl+C to stop", c.app.owner)
	return svc.Sync.ForOwner(c.app.owner).Run(ctx)
}

func (c *WatchCommand) print(resource repository.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := timeNow()
	if c.app.printer.Format() == FormatTable {
		fmt.Fprintf(c.app.out, "%s  %s changed\n", now.Format(time.TimeOnly), resource)
		return
	}
	data, _ := json.Marshal(watchLine{Time: now, Resource: resource})
	fmt.Fprintln(c.app.out, string(data))
}

func (r *RootCommand) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a line whenever tasks or disciplines change",
		Long: `Print a line whenever tasks or disciplines change, including writes made
by other tv processes or other clients of the same database.

Structured formats print one JSON object per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewWatchCommand(r.app).Execute(cmd.Context())
		},
	}
}
