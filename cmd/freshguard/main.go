package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"freshguard/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Cancel in-flight requests on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.DefaultFactory(os.Stderr))
	return root.ExecuteContext(ctx)
}
