package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/goliatone/go-repository-kit/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:])
	stop()

	switch {
	case err == nil:
	case errors.Is(err, cli.ErrValidationFailed):
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// configPath reads --config/-c ahead of command parsing, falling back to
// REPOKIT_CONFIG.
func configPath(args []string) string {
	fs := pflag.NewFlagSet("repokit", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	path := fs.StringP("config", "c", os.Getenv("REPOKIT_CONFIG"), "")
	_ = fs.Parse(args)
	return *path
}
