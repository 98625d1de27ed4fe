package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// StatsCommand prints task statistics
type StatsCommand struct {
	app *App
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app}
}

// Execute runs the stats command
func (c *StatsCommand) Execute(ctx context.Context) error {
	return c.app.printer.Statistics(c.app.services.ReportingService.Statistics(ctx, c.app.owner))
}

func (r *RootCommand) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts by status, discipline and due weekday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()
			return NewStatsCommand(r.app).Execute(ctx)
		},
	}
}
