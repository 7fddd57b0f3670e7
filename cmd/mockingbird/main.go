package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mockingbird/cmd/mockingbird/commands"
	ferrors "git.home.luguber.info/inful/mockingbird/internal/foundation/errors"
	"git.home.luguber.info/inful/mockingbird/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name(version.Name),
		kong.Description("Build a static site from a directory of markdown, data files and templates."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	if err := parser.Run(&commands.Global{Out: os.Stdout}, &cli); err != nil {
		stop()
		ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
