package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jywlabs/vitetail/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The only interrupt handler: no cleanup, partial projects stay on disk.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "\nGracefully exiting...")
			os.Exit(1)
		case <-done:
		}
	}()

	err := cmd.Execute(ctx)
	close(done)
	if err != nil {
		os.Exit(1)
	}
}
