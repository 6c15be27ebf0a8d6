package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Process exit codes.
const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}
