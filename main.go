package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jtarchie/launchpad/commands"
	"github.com/jtarchie/launchpad/config"
	"github.com/lmittmann/tint"
)

func main() {
	cli := &commands.CLI{}

	parser, err := kong.New(cli,
		kong.Name("launchpad"),
		kong.Description("Build, run, and submit the ML training container"),
	)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// A bare or unrecognized command is a request for directions, not a
		// fault; bad flags on a known command still exit non-zero.
		if len(os.Args) < 2 || !commands.IsOperation(os.Args[1]) {
			_, _ = parser.Parse([]string{"--help"})
			os.Exit(0)
		}

		parser.FatalIfErrorf(err)
	}

	if cli.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     cli.LogLevel,
			AddSource: cli.AddSource,
		})))
	} else {
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:     cli.LogLevel,
			AddSource: cli.AddSource,
		})))
	}

	record, err := config.Resolve(cli.ConfigFile)
	if err != nil {
		slog.Error("config.resolve", "file", cli.ConfigFile, "err", err)
		os.Exit(1)
	}

	slog.Debug("config.resolve", "file", cli.ConfigFile, "branch", record.Branch, "image", record.Image)

	err = ctx.Run(slog.Default(), record)
	ctx.FatalIfErrorf(err)
}
