package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
)

type cli struct {
	Catalog  catalogCmd  `cmd:"" help:"Print the widget catalog offered to a role."`
	Validate validateCmd `cmd:"" help:"Validate a stored dashboard configuration document."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a widget definition to a catalog manifest."`
	Serve    serveCmd    `cmd:"" help:"Serve the layout API over HTTP."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parser := kong.Parse(&cli{},
		kong.Name("layoutctl"),
		kong.Description("Catalog tooling and API server for dashboard layouts."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.BindTo(io.Writer(os.Stdout), (*io.Writer)(nil)),
	)
	err := parser.Run()
	parser.FatalIfErrorf(err)
}
