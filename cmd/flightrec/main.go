package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"flightrec/internal/failure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode prints err and maps it onto the process status. A missing
// device or a device timeout leaves nothing to do, and a stalled sync has
// already printed its report; both exit cleanly.
func exitCode(err error) int {
	return reportExit(os.Stderr, err)
}

func reportExit(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	if failure.Fatal(err) {
		fmt.Fprintf(w, "flightrec: %v\n", err)
		return 1
	}
	if errors.Is(err, failure.ErrNoProgress) {
		fmt.Fprintf(w, "flightrec: incomplete: %v\n", err)
		return 0
	}
	fmt.Fprintf(w, "flightrec: nothing to do: %v\n", err)
	return 0
}
