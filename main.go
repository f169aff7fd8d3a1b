package main

import (
	"log/slog"
	"os"

	"picstack/paint"
	"picstack/parallel"
	"picstack/render"

	"github.com/alecthomas/kong"
)

type cli struct {
	Workers int  `help:"Number of manifests rendered in parallel, 0 for one per CPU" default:"0"`
	Verbose bool `short:"v" help:"Log debug output"`

	Render render.CLICmd    `cmd:"" help:"Render composition manifests"`
	Select render.SelectCmd `cmd:"" help:"Write the mask of a colour selection"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("picstack"),
		kong.Description("Compose layered images from JSON manifests."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	paint.SetLogger(slog.Default())

	pool := parallel.Start(c.Workers)
	defer pool.Cancel()

	slog.Debug("running", "command", kctx.Command(), "workers", c.Workers)
	err := kctx.Run(pool.Do, pool.Wait)
	kctx.FatalIfErrorf(err)
}
