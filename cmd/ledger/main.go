package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/example/ledger/internal/cli"
	"github.com/example/ledger/internal/wire"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.RootCmd().ExecuteContext(ctx)
	stop()

	if cerr := wire.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
