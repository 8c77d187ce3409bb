package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/pbxgraph/internal/cli"
)

// main is the entrypoint for the pbxgraph application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	// The real main function handles errors and exit codes.
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pbxgraph panicked: %v", r)
		}
	}()
	return cli.Execute(ctx, outW, errW, args)
}
