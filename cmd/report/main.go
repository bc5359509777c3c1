// Command report prints the dashboard's analytics for Codeforces handles
// as plain text.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(buildService).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
