package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"logship/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "logship: %v\n", err)
		os.Exit(1)
	}
}
