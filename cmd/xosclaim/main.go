// xosclaim logs in to X.ink with EVM wallets and claims the daily check-in and draws.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		color.Red("xosclaim exited with error: %v", err)
		stop()
		os.Exit(1)
	}
	stop()
}
