package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/toyz/restgen/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command tree and returns the process exit code
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.Execute(ctx, args)
	if err != nil && cli.ExitCode(err) != cli.ExitInvalid {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), err)
	}
	return cli.ExitCode(err)
}
