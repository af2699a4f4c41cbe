package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/contentmigrate/cmd/contentmigrate/commands"
	"git.home.luguber.info/inful/contentmigrate/internal/foundation/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	global := commands.NewGlobal()
	cli, err := commands.Execute(ctx, global, os.Args[1:])
	stop()
	if err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
