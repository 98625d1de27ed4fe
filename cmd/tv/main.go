package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"task-viewer/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.RootOptions{})
	if err := root.ExecuteContext(ctx); err != nil {
		eh := cli.NewErrorHandler()
		fmt.Fprintf(os.Stderr, "Error: %v\n", eh.HandleSimple(err))
		stop()
		os.Exit(eh.ExitCode(err))
	}
}
