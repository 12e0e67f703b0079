package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"envirocheck/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := &cli.Runner{Stdout: os.Stdout, Stderr: os.Stderr}
	result, err := runner.Run(ctx, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(result.ExitCode)
}
