package cli

import (
	"io"
	"time"

	"task-viewer/internal/config"
	"task-viewer/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App holds what every command handler needs: the services, the resolved
// configuration, the acting owner and the output printer.
type App struct {
	services *services.ServiceContainer
	config   *config.Config
	owner    string
	printer  *Printer
	out      io.Writer
}

// NewApp creates a CLI application acting for the configured default owner
func NewApp(container *services.ServiceContainer, cfg *config.Config, out io.Writer) (*App, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	printer, err := NewPrinter(out, cfg.Commands.OutputDefaultFormat)
	if err != nil {
		return nil, err
	}
	return &App{
		services: container,
		config:   cfg,
		owner:    cfg.Commands.DefaultOwner,
		printer:  printer,
		out:      out,
	}, nil
}

// Owner returns the owner commands act for
func (a *App) Owner() string {
	return a.owner
}

// Close releases the services
func (a *App) Close() error {
	if a.services == nil {
		return nil
	}
	return a.services.Close()
}
