package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	cfg, err := config.Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		return cli.ExitUsage
	}
	ui.SetTheme(cfg.Theme)

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return cli.ExitUsage
	}

	logger, closer, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Quiet:  args[0] == "tui",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		return cli.ExitError
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("config", "api", cfg.APIURL, "timeout", cfg.Timeout, "file", cfg.ConfigFile)
	return cli.Run(ctx, args, cli.Options{Config: cfg, Logger: logger})
}
