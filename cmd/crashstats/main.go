// Command crashstats explores the Crash Statistics Victoria dataset: an
// interactive terminal dashboard plus subcommands that print, export and
// query the derived views.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var le *loadError
	if errors.As(err, &le) {
		fmt.Fprintf(stderr, "Error reading data file: %v\n", le.err)
		fmt.Fprintln(stderr, "No data available to display.")
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// loadError marks a dataset load failure.
type loadError struct {
	err error
}

func (e *loadError) Error() string {
	return e.err.Error()
}

func (e *loadError) Unwrap() error {
	return e.err
}
