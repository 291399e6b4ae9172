package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	askpplxcmder "github.com/papercomputeco/askpplx/cmd/askpplx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := askpplxcmder.Main(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
