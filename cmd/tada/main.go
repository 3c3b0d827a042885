package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/idilsaglam/tada/internal/auth"
	"github.com/idilsaglam/tada/internal/cli"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("tada", flag.ExitOnError)
	cfg, args, err := config.Load(fs, os.Args[1:])
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(2)
	}
	ui.SetTheme(cfg.Theme)

	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	logger, closer, err := logging.OpenFile(cfg.LogFile, logging.Options{Level: cfg.LogLevel})
	if err != nil {
		ui.Fail("log: " + err.Error())
		os.Exit(1)
	}

	var token string
	if c, err := auth.Resolve(cfg.Token); err != nil {
		logger.Warn("ignoring credentials", "err", err)
	} else if c != nil {
		token = c.Token
		logger.Debug("using token", "source", c.Source)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{
		Config: cfg,
		Logger: logger,
		Token:  token,
	})
	stop()
	closer.Close()
	os.Exit(code)
}
