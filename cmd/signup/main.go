// Package main is the entry point for the signup CLI.
//
// signup walks the LusoConnect registration wizard in the terminal and
// submits the finished registration to the onboarding API.
//
//	signup run --server http://localhost:8080
//	signup plans --cycle annual
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lusoconnect/onboarding/cmd/signup/commands"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersion(version)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
