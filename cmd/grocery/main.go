// Package main is the entry point for the grocery CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"grocery/internal/backend"
	"grocery/internal/cli"
	"grocery/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.NewSource)
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}
